package exporter

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salescli/internal/dataprocessing"
	apperrors "salescli/internal/errors"
	"salescli/internal/files"
	"salescli/internal/report"
)

// Workbook sheet names, in tab order
const (
	SheetMonth   = "Month"
	SheetDate    = "Date"
	SheetCity    = "City"
	SheetHour    = "Hour"
	SheetProduct = "Product"
	SheetPairs   = "Pairs"
)

// groupColumns is the table layout shared by every aggregate sheet
var groupColumns = []string{"Quantity Ordered", "Sales", "Count", "Mean Price"}

// ChartWriter renders a report as an XLSX workbook with one sheet per question
type ChartWriter struct {
	manager *files.Manager
	logger  *slog.Logger
}

// NewChartWriter creates a chart writer that saves through manager
func NewChartWriter(manager *files.Manager, logger *slog.Logger) *ChartWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartWriter{manager: manager, logger: logger}
}

// Write builds the workbook and replaces path with it.
func (c *ChartWriter) Write(path string, r report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := c.build(f, r); err != nil {
		return apperrors.NewStorageError("failed to build chart workbook", err).WithContext("file", path)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return apperrors.NewStorageError("failed to encode chart workbook", err).WithContext("file", path)
	}
	if err := c.manager.WriteFile(path, buf.Bytes()); err != nil {
		return apperrors.NewStorageError("failed to write chart workbook", err).WithContext("file", path)
	}

	c.logger.Info("chart workbook written",
		slog.String("file", path),
		slog.Int("size_bytes", buf.Len()))
	return nil
}

func (c *ChartWriter) build(f *excelize.File, r report.Report) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetMonth); err != nil {
		return err
	}
	for _, sheet := range []string{SheetDate, SheetCity, SheetHour, SheetProduct, SheetPairs} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	steps := []func() error{
		func() error {
			return groupSheet(f, SheetMonth, r.ByMonth, &excelize.Chart{
				Type:   excelize.Col,
				Series: []excelize.ChartSeries{series(SheetMonth, "Sales", len(r.ByMonth), "C")},
				Title:  title("Sales by month"),
				Legend: excelize.ChartLegend{Position: "none"},
			})
		},
		func() error { return groupSheet(f, SheetDate, r.ByDate, nil) },
		func() error {
			return groupSheet(f, SheetCity, r.ByCity, &excelize.Chart{
				Type:   excelize.Col,
				Series: []excelize.ChartSeries{series(SheetCity, "Sales", len(r.ByCity), "C")},
				Title:  title("Sales by city"),
				Legend: excelize.ChartLegend{Position: "none"},
			})
		},
		func() error {
			return groupSheet(f, SheetHour, r.ByHour, &excelize.Chart{
				Type:   excelize.Line,
				Series: []excelize.ChartSeries{series(SheetHour, "Orders", len(r.ByHour), "D")},
				Title:  title("Orders by hour"),
				Legend: excelize.ChartLegend{Position: "none"},
				XAxis:  excelize.ChartAxis{MajorGridLines: true},
			})
		},
		func() error { return productSheet(f, r.ByProduct) },
		func() error { return pairsSheet(f, r) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return nil
}

// groupSheet writes the aggregate table and, when given and there is data,
// a chart to the right of it.
func groupSheet(f *excelize.File, sheet string, groups []dataprocessing.GroupTotals, chart *excelize.Chart) error {
	header := append([]any{sheet}, toAny(groupColumns)...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, g := range groups {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			g.Key,
			g.QuantityOrdered,
			g.Sales.InexactFloat64(),
			g.Count,
			g.MeanPrice().Round(2).InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}

	if chart == nil || len(groups) == 0 {
		return nil
	}
	chart.Dimension = excelize.ChartDimension{Width: 720, Height: 360}
	return f.AddChart(sheet, "G2", chart)
}

// productSheet charts units sold per product with the mean unit price on a
// secondary axis.
func productSheet(f *excelize.File, groups []dataprocessing.GroupTotals) error {
	if err := groupSheet(f, SheetProduct, groups, nil); err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	quantity := &excelize.Chart{
		Type:      excelize.Col,
		Series:    []excelize.ChartSeries{series(SheetProduct, "Quantity Ordered", len(groups), "B")},
		Title:     title("Units sold and mean price by product"),
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	}
	price := &excelize.Chart{
		Type:   excelize.Line,
		Series: []excelize.ChartSeries{series(SheetProduct, "Mean Price", len(groups), "E")},
		YAxis:  excelize.ChartAxis{Secondary: true},
	}
	return f.AddChart(SheetProduct, "G2", quantity, price)
}

// pairsSheet lists the ranked pairs and, beside them, the grouped-order
// counts they can be checked against.
func pairsSheet(f *excelize.File, r report.Report) error {
	if err := f.SetSheetRow(SheetPairs, "A1", &[]any{"Product A", "Product B", "Count"}); err != nil {
		return err
	}
	for i, p := range r.TopPairs {
		row := []any{p.Pair.First, p.Pair.Second, p.Count}
		if err := f.SetSheetRow(SheetPairs, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(SheetPairs, "E1", &[]any{"Grouped", "Size", "Count"}); err != nil {
		return err
	}
	for i, g := range r.GroupedCounts {
		row := []any{g.Grouped, g.Size, g.Count}
		if err := f.SetSheetRow(SheetPairs, fmt.Sprintf("E%d", i+2), &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetPairs, "A", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(SheetPairs, "E", "E", 48)
}

// series references rows 2..n+1 of a value column against the keys in column A
func series(sheet, name string, n int, valueCol string) excelize.ChartSeries {
	return excelize.ChartSeries{
		Name:       name,
		Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
		Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheet, valueCol, valueCol, n+1),
	}
}

func title(text string) []excelize.RichTextRun {
	return []excelize.RichTextRun{{Text: text}}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
