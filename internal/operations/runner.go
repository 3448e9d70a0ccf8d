package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salescli/internal/infrastructure"
)

// Runner executes stages one at a time and records each in the run state,
// the manifest, a span and the pipeline metrics.
type Runner struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	config   *Config
	state    *RunState
	manifest *RunManifest
}

// NewRunner creates a runner for one run of command. providers may be nil,
// in which case spans and metrics are not recorded.
func NewRunner(runID, command string, logger *slog.Logger, providers *infrastructure.OTelProviders, config *Config) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = NewConfig()
	}

	r := &Runner{
		logger:   logger.With(slog.String("run_id", runID)),
		tracer:   tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName),
		config:   config,
		state:    NewRunState(runID),
		manifest: NewRunManifest(runID, command),
	}

	if providers != nil {
		r.tracer = providers.Tracer
		metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
		}
		r.metrics = metrics
	}

	return r, nil
}

// Manifest returns the run manifest
func (r *Runner) Manifest() *RunManifest {
	return r.manifest
}

// State returns the run state
func (r *Runner) State() *RunState {
	return r.state
}

// Metrics returns the pipeline metrics, nil when metrics are off
func (r *Runner) Metrics() *infrastructure.PipelineMetrics {
	return r.metrics
}

// Config returns the stage execution configuration
func (r *Runner) Config() *Config {
	return r.config
}

// Annotate attaches key/value results to a stage: its state, its manifest
// entry and the span in ctx.
func (r *Runner) Annotate(ctx context.Context, stageID string, values map[string]any) {
	if s, ok := r.state.GetStep(stageID); ok {
		for k, v := range values {
			s.SetMetadata(k, v)
		}
	}
	infrastructure.SetSpanAttributes(ctx, values)
}

// Execute runs stage on in. Generic functions cannot be methods, so the
// runner is passed explicitly. A failure is returned as an OperationError
// naming the stage.
func Execute[In, Out any](ctx context.Context, r *Runner, stage Stage[In, Out], in In) (Out, error) {
	var zero Out
	id := stage.ID()

	step := r.state.Step(id, stage.Name())
	step.Start()
	r.manifest.RecordStageStart(id, stage.Name())

	ctx, span := r.tracer.Start(ctx, "pipeline.stage."+id,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", r.state.ID),
			attribute.String("stage.id", id),
			attribute.String("stage.name", stage.Name()),
		),
	)
	defer span.End()

	if timeout := r.config.GetStageTimeout(id); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.logger.InfoContext(ctx, "stage started",
		slog.String("stage", id),
		slog.String("name", stage.Name()))

	start := time.Now()
	var (
		out Out
		err = ctx.Err()
	)
	if err == nil {
		out, err = stage.Run(ctx, in)
	}
	duration := time.Since(start)

	r.metrics.RecordStage(ctx, id, duration, err)

	if err != nil {
		wrapped := WrapError(err, id)
		step.Fail(wrapped)
		r.manifest.RecordStageFailure(id, err)
		infrastructure.RecordError(ctx, err)

		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "stage failed",
			slog.String("stage", id),
			slog.String("error_type", string(GetErrorType(wrapped))),
			slog.Int64("duration_ms", duration.Milliseconds()))
		return zero, wrapped
	}

	step.Complete()
	r.manifest.RecordStageCompletion(id, step.metadata())
	span.SetStatus(codes.Ok, "stage completed")

	r.logger.InfoContext(ctx, "stage completed",
		slog.String("stage", id),
		slog.Int64("duration_ms", duration.Milliseconds()))
	return out, nil
}
