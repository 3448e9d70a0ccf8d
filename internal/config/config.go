package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PipelineConfig tunes the analysis stages
type PipelineConfig struct {
	InputPattern    string `yaml:"input_pattern" envconfig:"INPUT_PATTERN"`
	HeaderKeyColumn string `yaml:"header_key_column" envconfig:"HEADER_KEY_COLUMN"`
	LoaderWorkers   int    `yaml:"loader_workers" envconfig:"LOADER_WORKERS"`
	StrictAddress   bool   `yaml:"strict_address" envconfig:"STRICT_ADDRESS"`
	TopPairs        int    `yaml:"top_pairs" envconfig:"TOP_PAIRS"`
	PeakHours       int    `yaml:"peak_hours" envconfig:"PEAK_HOURS"`
	SalesDate       string `yaml:"sales_date" envconfig:"SALES_DATE"`

	// StageTimeouts bounds individual stages by ID, e.g. "load:30s,clean:10s"
	StageTimeouts map[string]time.Duration `yaml:"stage_timeouts" envconfig:"STAGE_TIMEOUTS"`
}

// TelemetryConfig controls span and metric export
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TraceFile      string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from defaults, an optional YAML file and the environment.
// The file is taken from SALES_CONFIG_FILE when set, otherwise from the usual locations.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Environment overrides the file; unset variables leave values untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Validate checks the configuration again, e.g. after command-line overrides
func (c *Config) Validate() error {
	return c.validate()
}

// validate validates the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return apperrors.NewConfigError("data directory must be set", nil)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return apperrors.NewConfigError("output directory must be set", nil)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.NewConfigError(fmt.Sprintf("invalid log level: %q", c.Logging.Level), nil)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return apperrors.NewConfigError(fmt.Sprintf("invalid log output: %q", c.Logging.Output), nil)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if _, err := filepath.Match(c.Pipeline.InputPattern, "probe.csv"); err != nil || c.Pipeline.InputPattern == "" {
		return apperrors.NewConfigError(fmt.Sprintf("invalid input pattern: %q", c.Pipeline.InputPattern), err)
	}

	if !isSchemaColumn(c.Pipeline.HeaderKeyColumn) {
		return apperrors.NewConfigError(fmt.Sprintf("unknown header key column: %q", c.Pipeline.HeaderKeyColumn), nil)
	}

	if c.Pipeline.LoaderWorkers < 1 {
		return apperrors.NewConfigError(fmt.Sprintf("loader workers must be at least 1, got %d", c.Pipeline.LoaderWorkers), nil)
	}
	if c.Pipeline.TopPairs < 0 {
		return apperrors.NewConfigError(fmt.Sprintf("top pairs must not be negative, got %d", c.Pipeline.TopPairs), nil)
	}
	if c.Pipeline.PeakHours < 1 || c.Pipeline.PeakHours > 24 {
		return apperrors.NewConfigError(fmt.Sprintf("peak hours must be between 1 and 24, got %d", c.Pipeline.PeakHours), nil)
	}

	for stage, timeout := range c.Pipeline.StageTimeouts {
		if timeout < 0 {
			return apperrors.NewConfigError(fmt.Sprintf("timeout for stage %q must not be negative, got %s", stage, timeout), nil)
		}
	}

	if c.Pipeline.SalesDate != "" {
		if _, err := time.Parse(domain.DateLayout, c.Pipeline.SalesDate); err != nil {
			return apperrors.NewConfigError(fmt.Sprintf("invalid sales date: %q", c.Pipeline.SalesDate), err)
		}
	}

	return nil
}

func isSchemaColumn(name string) bool {
	for _, col := range domain.Header {
		if col == name {
			return true
		}
	}
	return false
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			InputPattern:    DefaultInputPattern,
			HeaderKeyColumn: domain.ColumnOrderID,
			LoaderWorkers:   DefaultLoaderWorkers,
			StrictAddress:   false,
			TopPairs:        DefaultTopPairs,
			PeakHours:       DefaultPeakHours,
			SalesDate:       DefaultSalesDate,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TracingEnabled: false,
			MetricsEnabled: true,
			TraceFile:      TraceFileName,
			MetricsFile:    MetricsFileName,
		},
	}
}
