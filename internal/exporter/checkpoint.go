package exporter

import (
	"context"
	"log/slog"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// cancelCheckEvery is how many rows are written between context checks
const cancelCheckEvery = 4096

// CheckpointExporter persists pipeline tables as CSV checkpoints
type CheckpointExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewCheckpointExporter creates a new checkpoint exporter
func NewCheckpointExporter(paths *config.Paths, logger *slog.Logger) *CheckpointExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckpointExporter{
		csvWriter: NewCSVWriter(paths, logger),
		logger:    logger,
	}
}

// WriteMerged writes the merged table exactly as loaded: missing fields stay
// empty and header-literal rows are kept.
func (c *CheckpointExporter) WriteMerged(ctx context.Context, path string, table domain.RawTable) error {
	return c.write(ctx, path, table.Len(), func(i int) []string {
		return table.Rows[i].Fields()
	})
}

// WriteCleaned writes the cleaned table with dates as 2006-01-02 15:04:05 and
// prices in plain decimal form.
func (c *CheckpointExporter) WriteCleaned(ctx context.Context, path string, table domain.CleanTable) error {
	return c.write(ctx, path, table.Len(), func(i int) []string {
		return cleanRow(table.Rows[i])
	})
}

func (c *CheckpointExporter) write(ctx context.Context, path string, n int, row func(int) []string) error {
	stream, err := c.csvWriter.CreateStreamWriter(path, domain.Header)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				stream.Abort()
				return err
			}
		}
		if err := stream.WriteRecord(row(i)); err != nil {
			stream.Abort()
			return apperrors.NewStorageError("failed to write checkpoint row", err).
				WithContext("file", stream.Path()).
				WithContext("row", i)
		}
	}

	if err := stream.Close(); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "checkpoint written",
		slog.String("file", stream.Path()),
		slog.Int("rows", n))
	return nil
}

// cleanRow converts a cleaned order line to a CSV row in header order
func cleanRow(line domain.OrderLine) []string {
	return []string{
		line.OrderID,
		line.Product,
		formatInt(line.QuantityOrdered),
		formatDecimal(line.PriceEach),
		formatTimestamp(line.OrderDate),
		line.PurchaseAddress,
	}
}
