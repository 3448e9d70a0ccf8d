package dataprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// GroupTotals is one group of a GroupSum: the key and the sum of every
// numeric column over the group's rows.
type GroupTotals struct {
	Key             string          `json:"key"`
	QuantityOrdered int64           `json:"quantity_ordered"`
	PriceEach       decimal.Decimal `json:"price_each"`
	Month           int64           `json:"month"`
	Hour            int64           `json:"hour"`
	Minute          int64           `json:"minute"`
	Sales           decimal.Decimal `json:"sales"`
	Count           int             `json:"count"`
}

// MeanPrice is the average unit price over the group's rows.
func (g GroupTotals) MeanPrice() decimal.Decimal {
	if g.Count == 0 {
		return decimal.Zero
	}
	return g.PriceEach.Div(decimal.NewFromInt(int64(g.Count)))
}

// dimension extracts a group key from a row. numeric dimensions sort by
// integer value, the rest lexically.
type dimension struct {
	key     func(domain.AugmentedOrderLine) string
	numeric bool
}

var dimensions = map[string]dimension{
	domain.ColumnOrderID: {key: func(r domain.AugmentedOrderLine) string { return r.OrderID }},
	domain.ColumnProduct: {key: func(r domain.AugmentedOrderLine) string { return r.Product }},
	domain.ColumnMonth:   {key: func(r domain.AugmentedOrderLine) string { return strconv.Itoa(r.Month) }, numeric: true},
	domain.ColumnDate:    {key: func(r domain.AugmentedOrderLine) string { return r.Date }},
	domain.ColumnHour:    {key: func(r domain.AugmentedOrderLine) string { return strconv.Itoa(r.Hour) }, numeric: true},
	domain.ColumnMinute:  {key: func(r domain.AugmentedOrderLine) string { return strconv.Itoa(r.Minute) }, numeric: true},
	domain.ColumnCity:    {key: func(r domain.AugmentedOrderLine) string { return r.City }},
	domain.ColumnState:   {key: func(r domain.AugmentedOrderLine) string { return r.State }},
}

func lookupDimension(column string) (dimension, error) {
	dim, ok := dimensions[column]
	if !ok {
		return dimension{}, apperrors.NewValidationError(fmt.Sprintf("cannot group by column %q", column))
	}
	return dim, nil
}

// GroupSum groups rows by column and sums every numeric column per group.
// Groups come back in ascending key order. Rows with an empty key (an
// unmatched address when grouping by City or State) belong to no group.
func GroupSum(table domain.AugmentedTable, column string) ([]GroupTotals, error) {
	dim, err := lookupDimension(column)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*GroupTotals)
	for _, row := range table.Rows {
		key := dim.key(row)
		if key == "" {
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &GroupTotals{Key: key, PriceEach: decimal.Zero, Sales: decimal.Zero}
			groups[key] = g
		}
		g.QuantityOrdered += row.QuantityOrdered
		g.PriceEach = g.PriceEach.Add(row.PriceEach)
		g.Month += int64(row.Month)
		g.Hour += int64(row.Hour)
		g.Minute += int64(row.Minute)
		g.Sales = g.Sales.Add(row.Sales())
		g.Count++
	}

	results := make([]GroupTotals, 0, len(groups))
	for _, g := range groups {
		results = append(results, *g)
	}
	sortKeys(results, func(g GroupTotals) string { return g.Key }, dim.numeric)

	return results, nil
}

// GroupKeys returns the distinct keys of column in the order GroupSum
// enumerates its groups.
func GroupKeys(table domain.AugmentedTable, column string) ([]string, error) {
	dim, err := lookupDimension(column)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var keys []string
	for _, row := range table.Rows {
		key := dim.key(row)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sortKeys(keys, func(k string) string { return k }, dim.numeric)

	return keys, nil
}

func sortKeys[T any](items []T, key func(T) string, numeric bool) {
	if numeric {
		sort.SliceStable(items, func(i, j int) bool {
			a, _ := strconv.Atoi(key(items[i]))
			b, _ := strconv.Atoi(key(items[j]))
			return a < b
		})
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}

// SortBy returns a copy of results sorted ascending by Sales, Quantity
// Ordered or Count. Equal values keep their key order.
func SortBy(results []GroupTotals, column string) ([]GroupTotals, error) {
	var less func(a, b GroupTotals) bool
	switch column {
	case domain.ColumnSales:
		less = func(a, b GroupTotals) bool { return a.Sales.LessThan(b.Sales) }
	case domain.ColumnQuantityOrdered:
		less = func(a, b GroupTotals) bool { return a.QuantityOrdered < b.QuantityOrdered }
	case domain.ColumnCount:
		less = func(a, b GroupTotals) bool { return a.Count < b.Count }
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot sort by column %q", column))
	}

	sorted := make([]GroupTotals, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted, nil
}

// SalesOnDate totals Sales over the rows of one calendar day (YYYY-MM-DD).
func SalesOnDate(table domain.AugmentedTable, date string) (decimal.Decimal, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("invalid date %q", date))
	}

	total := decimal.Zero
	for _, row := range table.Rows {
		if row.Date == date {
			total = total.Add(row.Sales())
		}
	}
	return total, nil
}
