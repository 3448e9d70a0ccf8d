// Package exporter writes pipeline output files.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing with optional UTF-8 BOM for Excel. Every file
// is written to a temporary sibling and renamed into place on success.
//
// CheckpointExporter: Persists the merged and cleaned tables in the source
// schema so later runs and other tools can pick them up.
//
// SummaryExporter: Writes the per-dimension aggregates and product pair
// rankings behind a report as individual CSV files.
//
// ChartWriter: Renders a report as an XLSX workbook with one sheet and chart
// per business question.
//
// Example usage:
//
//	checkpoints := exporter.NewCheckpointExporter(paths, logger)
//	err := checkpoints.WriteMerged(ctx, paths.AllDataCSV, raw)
//
//	charts := exporter.NewChartWriter(files.NewManager(paths, logger), logger)
//	err = charts.Write(paths.ChartsXLSX, rep)
package exporter
