package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "salescli/internal/errors"
	"salescli/internal/validation"
	"salescli/pkg/contracts/domain"
)

// CleanReport accounts for every input row of a clean.
// InputRows == OutputRows + IncompleteRows + HeaderRows always holds.
type CleanReport struct {
	InputRows      int `json:"input_rows"`
	IncompleteRows int `json:"incomplete_rows"`
	HeaderRows     int `json:"header_rows"`
	OutputRows     int `json:"output_rows"`
}

// Balanced reports whether the row-count identity holds.
func (r CleanReport) Balanced() bool {
	return r.InputRows == r.OutputRows+r.IncompleteRows+r.HeaderRows
}

// CleanerConfig holds configuration options for the Cleaner.
type CleanerConfig struct {
	HeaderKeyColumn string // Column compared against its own name to find header rows
	DateLayout      string // Layout of the Order Date column
}

// Cleaner drops incomplete and header-literal rows, then coerces types.
type Cleaner struct {
	logger    *slog.Logger
	config    CleanerConfig
	validator *validation.RecordValidator
}

// NewCleaner creates a new cleaner with the given configuration.
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.HeaderKeyColumn == "" {
		config.HeaderKeyColumn = domain.ColumnOrderID
	}
	if config.DateLayout == "" {
		config.DateLayout = domain.OrderDateLayout
	}

	return &Cleaner{
		logger:    logger,
		config:    config,
		validator: validation.NewRecordValidator(),
	}
}

// Clean runs the three cleaning steps in their required order: incomplete
// rows first, header rows second, type coercion last.
func (c *Cleaner) Clean(ctx context.Context, table domain.RawTable) (domain.CleanTable, CleanReport, error) {
	report := CleanReport{InputRows: table.Len()}

	complete, incomplete := DropIncomplete(table)
	report.IncompleteRows = incomplete

	deduped, headers, err := DropHeaderDuplicates(complete, c.config.HeaderKeyColumn)
	if err != nil {
		return domain.CleanTable{}, report, err
	}
	report.HeaderRows = headers

	clean, err := c.Coerce(ctx, deduped)
	if err != nil {
		return domain.CleanTable{}, report, err
	}
	report.OutputRows = clean.Len()

	c.logger.InfoContext(ctx, "rows cleaned",
		slog.Int("input_rows", report.InputRows),
		slog.Int("incomplete_rows", report.IncompleteRows),
		slog.Int("header_rows", report.HeaderRows),
		slog.Int("output_rows", report.OutputRows))

	return clean, report, nil
}

// DropIncomplete removes rows with any missing field and returns how many
// were removed. A field is missing when it is empty after trimming spaces.
func DropIncomplete(table domain.RawTable) (domain.RawTable, int) {
	out := domain.RawTable{
		Rows:  make([]domain.RawOrderLine, 0, len(table.Rows)),
		Files: table.Files,
	}
	for _, row := range table.Rows {
		if isComplete(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, table.Len() - out.Len()
}

func isComplete(row domain.RawOrderLine) bool {
	for _, v := range row.Fields() {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// DropHeaderDuplicates removes rows whose value in column equals the column's
// own name, the trace of a header ingested as data.
func DropHeaderDuplicates(table domain.RawTable, column string) (domain.RawTable, int, error) {
	if _, ok := (domain.RawOrderLine{}).Field(column); !ok {
		return domain.RawTable{}, 0, apperrors.NewValidationError(fmt.Sprintf("unknown column %q", column))
	}

	out := domain.RawTable{
		Rows:  make([]domain.RawOrderLine, 0, len(table.Rows)),
		Files: table.Files,
	}
	for _, row := range table.Rows {
		if v, _ := row.Field(column); v == column {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, table.Len() - out.Len(), nil
}

// Coerce parses quantity, price and order date with the default layout.
func Coerce(ctx context.Context, table domain.RawTable) (domain.CleanTable, error) {
	return NewCleaner(nil, CleanerConfig{}).Coerce(ctx, table)
}

// Coerce parses every row into a typed order line. The first row that fails
// to parse or validate aborts the whole operation.
func (c *Cleaner) Coerce(ctx context.Context, table domain.RawTable) (domain.CleanTable, error) {
	out := domain.CleanTable{Rows: make([]domain.OrderLine, 0, len(table.Rows))}

	for i, raw := range table.Rows {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return domain.CleanTable{}, err
			}
		}

		line, err := c.coerceRow(raw)
		if err != nil {
			c.logger.ErrorContext(ctx, "row coercion failed",
				slog.String("file", raw.Source.File),
				slog.Int("line", raw.Source.Line),
				slog.String("error", err.Error()))
			return domain.CleanTable{}, err
		}
		out.Rows = append(out.Rows, line)
	}

	return out, nil
}

func (c *Cleaner) coerceRow(raw domain.RawOrderLine) (domain.OrderLine, error) {
	fail := func(column, value string, cause error) error {
		return apperrors.NewRowError(apperrors.ErrTypeParsing, raw.Source.File, raw.Source.Line, column, value, cause)
	}

	qty, err := parseQuantity(raw.QuantityOrdered)
	if err != nil {
		return domain.OrderLine{}, fail(domain.ColumnQuantityOrdered, raw.QuantityOrdered, err)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(raw.PriceEach))
	if err != nil {
		return domain.OrderLine{}, fail(domain.ColumnPriceEach, raw.PriceEach, err)
	}

	orderDate, err := time.Parse(c.config.DateLayout, strings.TrimSpace(raw.OrderDate))
	if err != nil {
		return domain.OrderLine{}, fail(domain.ColumnOrderDate, raw.OrderDate, err)
	}

	line := domain.OrderLine{
		OrderID:         raw.OrderID,
		Product:         raw.Product,
		QuantityOrdered: qty,
		PriceEach:       price,
		OrderDate:       orderDate,
		PurchaseAddress: raw.PurchaseAddress,
		Source:          raw.Source,
	}
	if err := c.validator.Validate(line, raw); err != nil {
		return domain.OrderLine{}, err
	}
	return line, nil
}

// parseQuantity accepts whole numbers written as integers or integral
// decimals ("2", "2.0").
func parseQuantity(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("quantity %s is not a whole number", value)
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("quantity %s is out of range", value)
	}
	return d.IntPart(), nil
}
