package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"salescli/internal/config"
	"salescli/internal/infrastructure"
	"salescli/internal/operations"
	"salescli/internal/validation"
)

// Options control how the application is assembled
type Options struct {
	// ConfigFile is the YAML file to load; empty uses SALES_CONFIG_FILE or the usual locations
	ConfigFile string

	// Override is applied after the file and environment, before validation
	Override func(*config.Config)
}

// Application holds everything one command invocation needs
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	RunID         string

	traceFile *os.File
}

// NewApplication loads configuration, then initializes logging, paths and
// telemetry in that order. A trace ID already on ctx becomes the run ID;
// otherwise a new one is generated.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.OutputDir); err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelCfg, traceFile, err := infrastructure.OTelConfigFromTelemetry(cfg.Telemetry, paths.TraceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare OpenTelemetry: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(ctx, otelCfg, logger)
	if err != nil {
		if traceFile != nil {
			traceFile.Close()
		}
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		RunID:         infrastructure.GetTraceID(infrastructure.EnsureTraceID(ctx)),
		traceFile:     traceFile,
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("run_id", a.RunID))

	return a, nil
}

func loadConfig(opts Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.LoadFile(opts.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.Override != nil {
		opts.Override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Context returns ctx carrying the run ID as its trace ID
func (a *Application) Context(ctx context.Context) context.Context {
	return infrastructure.WithTraceID(ctx, a.RunID)
}

// NewPipeline creates a pipeline whose runner records command under this run's ID
func (a *Application) NewPipeline(command string) (*operations.Pipeline, error) {
	stageConfig, err := operations.NewConfigFromPipeline(a.Config.Pipeline)
	if err != nil {
		return nil, err
	}

	runner, err := operations.NewRunner(a.RunID, command, a.Logger, a.OTelProviders, stageConfig)
	if err != nil {
		return nil, err
	}
	return operations.NewPipeline(a.Config, a.Paths, runner, a.Logger), nil
}

// Stop writes the metrics file, flushes telemetry and closes the trace and log files
func (a *Application) Stop(ctx context.Context) error {
	var errs []error

	if a.Config.Telemetry.MetricsEnabled {
		if err := a.OTelProviders.WriteMetrics(a.Paths.MetricsFile); err != nil {
			errs = append(errs, err)
		} else {
			a.Logger.Info("metrics written", slog.String("file", a.Paths.MetricsFile))
		}
	}

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if a.traceFile != nil {
		if err := a.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close trace file: %w", err))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}

	return errors.Join(errs...)
}
