package exporter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/report"
	"salescli/pkg/contracts/domain"
)

// SummaryExporter writes the aggregates behind a report as CSV files
type SummaryExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewSummaryExporter creates a new summary exporter
func NewSummaryExporter(paths *config.Paths, logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{
		csvWriter: NewCSVWriter(paths, logger),
		logger:    logger,
	}
}

// ExportReport writes one sales_by_<dimension>.csv per aggregate plus
// product_pairs.csv and grouped_orders.csv into dir. It returns the written paths.
func (s *SummaryExporter) ExportReport(r report.Report, dir string) ([]string, error) {
	groups := []struct {
		column string
		data   []dataprocessing.GroupTotals
	}{
		{domain.ColumnMonth, r.ByMonth},
		{domain.ColumnDate, r.ByDate},
		{domain.ColumnCity, r.ByCity},
		{domain.ColumnHour, r.ByHour},
		{domain.ColumnProduct, r.ByProduct},
	}

	var written []string
	for _, g := range groups {
		path := filepath.Join(dir, "sales_by_"+strings.ToLower(g.column)+".csv")
		if err := s.ExportGroupTotals(g.data, g.column, path); err != nil {
			return written, fmt.Errorf("failed to export %s totals: %w", g.column, err)
		}
		written = append(written, path)
	}

	pairsPath := filepath.Join(dir, "product_pairs.csv")
	if err := s.ExportPairs(r.TopPairs, pairsPath); err != nil {
		return written, fmt.Errorf("failed to export product pairs: %w", err)
	}
	written = append(written, pairsPath)

	groupedPath := filepath.Join(dir, "grouped_orders.csv")
	if err := s.ExportGroupedCounts(r.GroupedCounts, groupedPath); err != nil {
		return written, fmt.Errorf("failed to export grouped orders: %w", err)
	}
	written = append(written, groupedPath)

	s.logger.Info("summaries exported",
		slog.String("directory", dir),
		slog.Int("file_count", len(written)))
	return written, nil
}

// ExportGroupTotals writes one row per group in the order given
func (s *SummaryExporter) ExportGroupTotals(groups []dataprocessing.GroupTotals, column, outputPath string) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, groupToCSVRow(g))
	}

	headers := []string{
		column, domain.ColumnQuantityOrdered, domain.ColumnPriceEach, domain.ColumnSales,
		domain.ColumnCount, "Mean Price",
	}
	return s.csvWriter.WriteSimpleCSV(outputPath, headers, records)
}

// ExportPairs writes ranked product pairs
func (s *SummaryExporter) ExportPairs(pairs []dataprocessing.PairCount, outputPath string) error {
	records := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, []string{p.Pair.First, p.Pair.Second, formatInt(int64(p.Count))})
	}
	return s.csvWriter.WriteSimpleCSV(outputPath, []string{"Product A", "Product B", domain.ColumnCount}, records)
}

// ExportGroupedCounts writes the per-order product lists and their frequency
func (s *SummaryExporter) ExportGroupedCounts(counts []dataprocessing.GroupedValueCount, outputPath string) error {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{c.Grouped, formatInt(int64(c.Size)), formatInt(int64(c.Count))})
	}
	return s.csvWriter.WriteSimpleCSV(outputPath, []string{"Grouped", "Size", domain.ColumnCount}, records)
}

// groupToCSVRow converts group totals to a CSV row
func groupToCSVRow(g dataprocessing.GroupTotals) []string {
	return []string{
		g.Key,
		formatInt(g.QuantityOrdered),
		formatMoney(g.PriceEach),
		formatMoney(g.Sales),
		formatInt(int64(g.Count)),
		formatMoney(g.MeanPrice()),
	}
}
