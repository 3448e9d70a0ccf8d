package report

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"salescli/internal/dataprocessing"
	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// Options controls how many entries the ranked answers carry.
type Options struct {
	TopPairs  int    // Number of product pairs to rank, 0 for all
	PeakHours int    // Number of hours returned as best advertising hours
	SalesDate string // Day (YYYY-MM-DD) whose total sales are reported
}

// Report answers the six business questions and keeps the aggregates the
// charts are drawn from.
type Report struct {
	Rows int `json:"rows"`

	BestMonth   dataprocessing.GroupTotals   `json:"best_month"`
	BestDate    dataprocessing.GroupTotals   `json:"best_date"`
	BestCity    dataprocessing.GroupTotals   `json:"best_city"`
	PeakHours   []dataprocessing.GroupTotals `json:"peak_hours"`
	BestProduct dataprocessing.GroupTotals   `json:"best_product"`
	TopPairs    []dataprocessing.PairCount   `json:"top_pairs"`

	SalesDate   string          `json:"sales_date"`
	SalesOnDate decimal.Decimal `json:"sales_on_date"`

	ByMonth   []dataprocessing.GroupTotals `json:"by_month"`
	ByDate    []dataprocessing.GroupTotals `json:"by_date"`
	ByCity    []dataprocessing.GroupTotals `json:"by_city"`
	ByHour    []dataprocessing.GroupTotals `json:"by_hour"`
	ByProduct []dataprocessing.GroupTotals `json:"by_product"`

	GroupedCounts []dataprocessing.GroupedValueCount `json:"grouped_counts"`
}

// Builder computes a Report from an augmented table.
type Builder struct {
	logger  *slog.Logger
	options Options
}

// NewBuilder creates a report builder. TopPairs 0 ranks every pair; zero
// PeakHours and SalesDate fall back to two hours and 2019-12-04.
func NewBuilder(logger *slog.Logger, options Options) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if options.TopPairs < 0 {
		options.TopPairs = 0
	}
	if options.PeakHours <= 0 {
		options.PeakHours = 2
	}
	if options.SalesDate == "" {
		options.SalesDate = "2019-12-04"
	}
	return &Builder{logger: logger, options: options}
}

// Build answers the business questions over table with the given options.
func Build(ctx context.Context, table domain.AugmentedTable, options Options) (Report, error) {
	return NewBuilder(nil, options).Build(ctx, table)
}

// Build answers the business questions over table. An empty table has no
// answers and is rejected.
func (b *Builder) Build(ctx context.Context, table domain.AugmentedTable) (Report, error) {
	if table.Len() == 0 {
		return Report{}, apperrors.NewValidationError("no order lines to report on")
	}

	r := Report{Rows: table.Len(), SalesDate: b.options.SalesDate}

	dims := []struct {
		column string
		dst    *[]dataprocessing.GroupTotals
	}{
		{domain.ColumnMonth, &r.ByMonth},
		{domain.ColumnDate, &r.ByDate},
		{domain.ColumnCity, &r.ByCity},
		{domain.ColumnHour, &r.ByHour},
		{domain.ColumnProduct, &r.ByProduct},
	}
	for _, d := range dims {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		groups, err := dataprocessing.GroupSum(table, d.column)
		if err != nil {
			return Report{}, err
		}
		*d.dst = groups
	}

	r.BestMonth = best(r.ByMonth, bySales)
	r.BestDate = best(r.ByDate, bySales)
	r.BestCity = best(r.ByCity, bySales)
	r.BestProduct = best(r.ByProduct, byQuantity)
	r.PeakHours = top(r.ByHour, b.options.PeakHours, byCount)

	onDate, err := dataprocessing.SalesOnDate(table, b.options.SalesDate)
	if err != nil {
		return Report{}, err
	}
	r.SalesOnDate = onDate

	r.TopPairs = dataprocessing.CountPairs(table).TopPairs(b.options.TopPairs)
	r.GroupedCounts = dataprocessing.GroupedValueCounts(table)

	b.logger.InfoContext(ctx, "report built",
		slog.Int("rows", r.Rows),
		slog.String("best_month", r.BestMonth.Key),
		slog.String("best_city", r.BestCity.Key),
		slog.String("best_product", r.BestProduct.Key),
		slog.Int("pairs", len(r.TopPairs)))

	return r, nil
}

// compare returns a positive number when a ranks above b
type compare func(a, b dataprocessing.GroupTotals) int

func bySales(a, b dataprocessing.GroupTotals) int { return a.Sales.Cmp(b.Sales) }

func byQuantity(a, b dataprocessing.GroupTotals) int {
	return cmpInt64(a.QuantityOrdered, b.QuantityOrdered)
}

func byCount(a, b dataprocessing.GroupTotals) int {
	return cmpInt64(int64(a.Count), int64(b.Count))
}

func cmpInt64(a, b int64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// best returns the highest-ranked group; the first one in key order wins a tie.
func best(groups []dataprocessing.GroupTotals, cmp compare) dataprocessing.GroupTotals {
	var winner dataprocessing.GroupTotals
	for i, g := range groups {
		if i == 0 || cmp(g, winner) > 0 {
			winner = g
		}
	}
	return winner
}

// top returns the n highest-ranked groups, ties in key order.
func top(groups []dataprocessing.GroupTotals, n int, cmp compare) []dataprocessing.GroupTotals {
	ranked := make([]dataprocessing.GroupTotals, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool { return cmp(ranked[i], ranked[j]) > 0 })
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
