package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

var (
	// cityPattern captures the text between the first ", " and the next comma
	cityPattern = regexp.MustCompile(`,\s([^,]*),`)
	// statePattern captures a two-letter code followed by whitespace and a zip digit
	statePattern = regexp.MustCompile(`,\s([A-Z]{2})\s\d`)
)

// errAddressUnmatched is the cause attached to strict-mode address failures
var errAddressUnmatched = errors.New("address does not match street, city, ST zip")

// AugmentReport summarizes a derivation pass.
type AugmentReport struct {
	Rows               int `json:"rows"`
	UnmatchedAddresses int `json:"unmatched_addresses"`
}

// AugmenterConfig holds configuration options for the Augmenter.
type AugmenterConfig struct {
	// StrictAddress fails the run on the first unmatched address instead of
	// leaving City and State empty for that row
	StrictAddress bool
}

// Augmenter derives calendar and geographic columns.
type Augmenter struct {
	logger *slog.Logger
	config AugmenterConfig
}

// NewAugmenter creates a new augmenter with the given configuration.
func NewAugmenter(logger *slog.Logger, config AugmenterConfig) *Augmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Augmenter{logger: logger, config: config}
}

// Augment derives the columns with the lenient address policy. It never
// fails and never adds or removes rows.
func Augment(ctx context.Context, table domain.CleanTable) (domain.AugmentedTable, AugmentReport) {
	out, report, _ := NewAugmenter(nil, AugmenterConfig{}).Augment(ctx, table)
	return out, report
}

// Augment derives Month, Date, Hour, Minute, City and State for every row.
// An error is only returned in strict address mode or on cancellation.
func (a *Augmenter) Augment(ctx context.Context, table domain.CleanTable) (domain.AugmentedTable, AugmentReport, error) {
	out := domain.AugmentedTable{Rows: make([]domain.AugmentedOrderLine, len(table.Rows))}
	report := AugmentReport{Rows: len(table.Rows)}

	for i, line := range table.Rows {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return domain.AugmentedTable{}, report, err
			}
		}

		row := domain.AugmentedOrderLine{
			OrderLine: line,
			Month:     int(line.OrderDate.Month()),
			Date:      line.OrderDate.Format(domain.DateLayout),
			Hour:      line.OrderDate.Hour(),
			Minute:    line.OrderDate.Minute(),
		}

		if city, state, ok := ParseAddress(line.PurchaseAddress); ok {
			row.City = city + " (" + state + ")"
			row.State = state
		} else {
			report.UnmatchedAddresses++
			if a.config.StrictAddress {
				return domain.AugmentedTable{}, report, apperrors.NewRowError(
					apperrors.ErrTypeAddress,
					line.Source.File,
					line.Source.Line,
					domain.ColumnPurchaseAddress,
					line.PurchaseAddress,
					errAddressUnmatched,
				)
			}
		}

		out.Rows[i] = row
	}

	if report.UnmatchedAddresses > 0 {
		a.logger.WarnContext(ctx, "purchase addresses without city or state",
			slog.Int("unmatched_addresses", report.UnmatchedAddresses),
			slog.Int("rows", report.Rows))
	}

	a.logger.InfoContext(ctx, "columns derived",
		slog.Int("rows", report.Rows))

	return out, report, nil
}

// ParseAddress extracts the city and two-letter state code from a purchase
// address of the form "street, city, ST zip". ok is false when either part
// is missing.
func ParseAddress(address string) (city, state string, ok bool) {
	cityMatch := cityPattern.FindStringSubmatch(address)
	stateMatch := statePattern.FindStringSubmatch(address)
	if cityMatch == nil || stateMatch == nil {
		return "", "", false
	}
	return cityMatch[1], stateMatch[1], true
}
