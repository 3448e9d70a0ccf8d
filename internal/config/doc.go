// Package config provides centralized configuration management for salescli.
// It loads configuration from multiple sources, validates it, and resolves
// the file system paths every pipeline stage reads and writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<FIELD>:
//
//	SALES_PATHS_DATA_DIR=data/Sales_Data
//	SALES_PATHS_OUTPUT_DIR=output
//	SALES_LOGGING_LEVEL=debug
//	SALES_PIPELINE_LOADER_WORKERS=8
//	SALES_PIPELINE_STRICT_ADDRESS=true
//	SALES_TELEMETRY_TRACING_ENABLED=true
//
// SALES_CONFIG_FILE points at a YAML file; otherwise config.yaml and
// configs/config.yaml are tried.
//
// # Path Management
//
// Paths resolves the configured directories and names the checkpoint files:
//
//	paths, err := cfg.GetPaths()
//	merged := paths.AllDataCSV   // output/all_data.csv
//	cleaned := paths.CleanDataCSV // output/clean_data.csv
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
