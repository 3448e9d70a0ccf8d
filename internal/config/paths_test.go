package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/shared/testutil"
)

func TestGetPaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(root, "in")
	cfg.Paths.OutputDir = filepath.Join(root, "out")
	cfg.Paths.LogsDir = filepath.Join(root, "logs")
	cfg.Telemetry.MetricsFile = filepath.Join(root, "metrics", "run.prom")

	paths, err := cfg.GetPaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "out", "all_data.csv"), paths.AllDataCSV)
	assert.Equal(t, filepath.Join(root, "out", "clean_data.csv"), paths.CleanDataCSV)
	assert.Equal(t, filepath.Join(root, "out", "sales_report.xlsx"), paths.ChartsXLSX)
	assert.Equal(t, filepath.Join(root, "out", "manifest.json"), paths.ManifestJSON)
	assert.Equal(t, filepath.Join(root, "out", "summaries"), paths.SummaryDir)
	assert.Equal(t, filepath.Join(root, "out", "trace.json"), paths.TraceFile)
	// Absolute telemetry paths are kept as given
	assert.Equal(t, filepath.Join(root, "metrics", "run.prom"), paths.MetricsFile)
}

func TestGetPaths_RelativeToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	paths, err := Default().GetPaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "data", "Sales_Data"), paths.DataDir)
	assert.Equal(t, filepath.Join(wd, "output"), paths.OutputDir)
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	paths := &Paths{
		DataDir:   filepath.Join(root, "data"),
		OutputDir: filepath.Join(root, "output"),
		LogsDir:   filepath.Join(root, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.OutputDir)
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.DataDir)
	assert.False(t, FileExists(paths.DataDir))
}

func TestLogPathResolution(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	paths := &Paths{DataDir: "/data", OutputDir: "/out", AllDataCSV: "/out/all_data.csv"}

	paths.LogPathResolution(logger)

	records := handler.GetRecordsByLevel(slog.LevelDebug)
	require.Len(t, records, 1)
	assert.Equal(t, "Path resolution", records[0].Message)
	assert.True(t, handler.ContainsAttr("all_data_csv", "/out/all_data.csv"))
	assert.True(t, handler.ContainsAttr("data_dir_exists", false))
}
