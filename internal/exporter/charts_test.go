package exporter

import (
	"archive/zip"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salescli/internal/config"
	"salescli/internal/files"
	"salescli/internal/report"
	"salescli/internal/shared/testutil"
)

func chartParts(t *testing.T, path string) int {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/charts/chart") {
			n++
		}
	}
	return n
}

func TestChartWriter_Write(t *testing.T) {
	root := t.TempDir()
	paths := &config.Paths{OutputDir: root}
	logger, handler := testutil.NewTestLogger(t)
	writer := NewChartWriter(files.NewManager(paths, logger), logger)

	r := sampleReport(t)
	require.NoError(t, writer.Write(config.ChartsFileName, r))

	path := filepath.Join(root, config.ChartsFileName)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetMonth, SheetDate, SheetCity, SheetHour, SheetProduct, SheetPairs}, f.GetSheetList())

	rows, err := f.GetRows(SheetMonth)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Month", "Quantity Ordered", "Sales", "Count", "Mean Price"}, rows[0])
	assert.Equal(t, "4", rows[1][0])
	assert.Equal(t, "12", rows[2][0])

	rows, err = f.GetRows(SheetCity)
	require.NoError(t, err)
	assert.Equal(t, "Boston (MA)", rows[1][0])
	assert.Equal(t, "Dallas (TX)", rows[2][0])

	rows, err = f.GetRows(SheetPairs)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product A", "Product B", "Count", "", "Grouped", "Size", "Count"}, rows[0])
	assert.Equal(t, []string{"Lightning Charging Cable", "iPhone", "1", "", "iPhone,Lightning Charging Cable", "2", "1"}, rows[1])

	// Month, City, Hour and the Product combo chart
	assert.Equal(t, 4, chartParts(t, path))
	assert.True(t, handler.ContainsMessage("chart workbook written"))
}

func TestChartWriter_EmptyAggregatesSkipCharts(t *testing.T) {
	root := t.TempDir()
	writer := NewChartWriter(files.NewManager(&config.Paths{OutputDir: root}, nil), nil)

	require.NoError(t, writer.Write("empty.xlsx", report.Report{}))

	path := filepath.Join(root, "empty.xlsx")
	assert.Zero(t, chartParts(t, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 6)
}
