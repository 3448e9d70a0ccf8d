package config

import "salescli/pkg/contracts"

// Application constants
const (
	AppName    = "salescli"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (SALES_PATHS_DATA_DIR, ...)
	EnvPrefix = "SALES"

	// Directories (relative to the working directory unless absolute)
	DefaultDataDir   = "data/Sales_Data"
	DefaultOutputDir = "output"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "logs/salescli.log"

	// Pipeline defaults
	DefaultInputPattern  = "*"
	DefaultLoaderWorkers = 4
	DefaultTopPairs      = 10
	DefaultPeakHours     = 2
	DefaultSalesDate     = "2019-12-04"

	// Output file names inside the output directory
	MergedFileName   = "all_data.csv"
	CleanedFileName  = "clean_data.csv"
	ChartsFileName   = "sales_report.xlsx"
	ManifestFileName = "manifest.json"
	MetricsFileName  = "metrics.prom"
	TraceFileName    = "trace.json"
	SummaryDirName   = "summaries"
)
