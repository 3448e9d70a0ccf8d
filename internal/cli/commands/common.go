package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salescli/internal/app"
	"salescli/internal/config"
	"salescli/internal/operations"
)

// commandFunc is the body of a command once the application is up
type commandFunc func(ctx context.Context, cmd *cobra.Command, p *operations.Pipeline) error

// execute assembles the application, runs fn with a pipeline recording
// command, and always stops the application afterwards. Ctrl-C cancels ctx.
func execute(cmd *cobra.Command, command string, fn commandFunc) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApplication(ctx, app.Options{
		ConfigFile: configFile,
		Override:   overrides(cmd),
	})
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := a.Stop(context.Background()); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	p, err := a.NewPipeline(command)
	if err != nil {
		return err
	}

	ctx = a.Context(ctx)
	if err := fn(ctx, cmd, p); err != nil {
		a.Logger.ErrorContext(ctx, "command failed", failureAttrs(command, err)...)
		return err
	}
	return nil
}

// failureAttrs describes a failed command; the stage is named only when a stage failed
func failureAttrs(command string, err error) []any {
	attrs := []any{slog.String("command", command)}
	if operations.IsStageFailure(err) {
		attrs = append(attrs,
			slog.String("stage", operations.FailedStage(err)),
			slog.String("error_type", string(operations.GetErrorType(err))))
	}
	return append(attrs, slog.String("error", err.Error()))
}

// overrides copies the flags the user actually set onto the configuration
func overrides(cmd *cobra.Command) func(*config.Config) {
	flags := cmd.Flags()
	return func(cfg *config.Config) {
		if flags.Changed("data-dir") {
			cfg.Paths.DataDir = dataDir
		}
		if flags.Changed("output-dir") {
			cfg.Paths.OutputDir = outputDir
		}
		if flags.Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if flags.Changed("workers") {
			cfg.Pipeline.LoaderWorkers = loaderWorkers
		}
		if flags.Changed("strict-address") {
			cfg.Pipeline.StrictAddress = strictAddress
		}
		if flags.Changed("trace") {
			cfg.Telemetry.TracingEnabled = tracing
		}
		if flags.Changed("top") {
			cfg.Pipeline.TopPairs = topPairs
		}
		if flags.Changed("peak-hours") {
			cfg.Pipeline.PeakHours = peakHours
		}
		if flags.Changed("sales-date") {
			cfg.Pipeline.SalesDate = salesDate
		}
	}
}
