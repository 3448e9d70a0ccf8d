package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for every file the pipeline reads or writes
type Paths struct {
	DataDir   string
	OutputDir string
	LogsDir   string

	// Checkpoints and run artifacts
	AllDataCSV   string
	CleanDataCSV string
	ChartsXLSX   string
	ManifestJSON string
	MetricsFile  string
	TraceFile    string

	// SummaryDir holds one CSV per aggregate behind the report
	SummaryDir string
}

// GetPaths resolves the configured directories to absolute paths.
// Relative directories are taken from the current working directory.
func (c *Config) GetPaths() (*Paths, error) {
	dataDir, err := filepath.Abs(c.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	outputDir, err := filepath.Abs(c.Paths.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	logsDir, err := filepath.Abs(c.Paths.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	return &Paths{
		DataDir:      dataDir,
		OutputDir:    outputDir,
		LogsDir:      logsDir,
		AllDataCSV:   filepath.Join(outputDir, MergedFileName),
		CleanDataCSV: filepath.Join(outputDir, CleanedFileName),
		ChartsXLSX:   filepath.Join(outputDir, ChartsFileName),
		ManifestJSON: filepath.Join(outputDir, ManifestFileName),
		MetricsFile:  inDir(outputDir, c.Telemetry.MetricsFile),
		TraceFile:    inDir(outputDir, c.Telemetry.TraceFile),
		SummaryDir:   filepath.Join(outputDir, SummaryDirName),
	}, nil
}

func inDir(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// EnsureDirectories creates the output and logs directories if they don't exist.
// The data directory is input and is never created.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.OutputDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution",
		slog.String("data_dir", p.DataDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("all_data_csv", p.AllDataCSV),
		slog.String("clean_data_csv", p.CleanDataCSV),
		slog.String("charts_xlsx", p.ChartsXLSX),
		slog.String("manifest_json", p.ManifestJSON),
		slog.String("summary_dir", p.SummaryDir),
		slog.Bool("data_dir_exists", FileExists(p.DataDir)),
	)
}
