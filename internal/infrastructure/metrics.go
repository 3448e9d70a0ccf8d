package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "salescli/internal/errors"
)

// PipelineMetrics holds the business metrics recorded during a run.
// All Record methods are safe on a nil receiver.
type PipelineMetrics struct {
	StageExecutions    metric.Int64Counter
	StageDuration      metric.Float64Histogram
	StageErrors        metric.Int64Counter
	RowsIn             metric.Int64Counter
	RowsOut            metric.Int64Counter
	RowsDropped        metric.Int64Counter
	FilesLoaded        metric.Int64Counter
	UnmatchedAddresses metric.Int64Counter
	CheckpointBytes    metric.Int64Counter
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stageExecutions, err := meter.Int64Counter(
		"pipeline_stage_executions",
		metric.WithDescription("Total number of stage executions"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline_stage_duration",
		metric.WithDescription("Stage execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter(
		"pipeline_stage_errors",
		metric.WithDescription("Total number of failed stage executions"),
	)
	if err != nil {
		return nil, err
	}

	rowsIn, err := meter.Int64Counter(
		"pipeline_rows_in",
		metric.WithDescription("Rows received by a stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsOut, err := meter.Int64Counter(
		"pipeline_rows_out",
		metric.WithDescription("Rows produced by a stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"pipeline_rows_dropped",
		metric.WithDescription("Rows removed during cleaning, by reason"),
	)
	if err != nil {
		return nil, err
	}

	filesLoaded, err := meter.Int64Counter(
		"pipeline_files_loaded",
		metric.WithDescription("Source files merged by the loader"),
	)
	if err != nil {
		return nil, err
	}

	unmatched, err := meter.Int64Counter(
		"pipeline_unmatched_addresses",
		metric.WithDescription("Rows whose purchase address yielded no city or state"),
	)
	if err != nil {
		return nil, err
	}

	checkpointBytes, err := meter.Int64Counter(
		"pipeline_checkpoint_bytes",
		metric.WithDescription("Bytes written to checkpoint files"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StageExecutions:    stageExecutions,
		StageDuration:      stageDuration,
		StageErrors:        stageErrors,
		RowsIn:             rowsIn,
		RowsOut:            rowsOut,
		RowsDropped:        rowsDropped,
		FilesLoaded:        filesLoaded,
		UnmatchedAddresses: unmatched,
		CheckpointBytes:    checkpointBytes,
	}, nil
}

// RecordStage records one stage execution with its outcome
func (m *PipelineMetrics) RecordStage(ctx context.Context, stageID string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("stage", stageID),
		attribute.String("status", status),
	)

	m.StageExecutions.Add(ctx, 1, attrs)
	m.StageDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		errType := string(apperrors.GetErrorType(err))
		if errType == "" {
			errType = "UNKNOWN"
		}
		m.StageErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", stageID),
			attribute.String("error_type", errType),
		))
	}
}

// RecordRows records row counts flowing through a stage
func (m *PipelineMetrics) RecordRows(ctx context.Context, stageID string, in, out int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("stage", stageID))
	m.RowsIn.Add(ctx, int64(in), attrs)
	m.RowsOut.Add(ctx, int64(out), attrs)
}

// RecordDropped records rows removed for reason
func (m *PipelineMetrics) RecordDropped(ctx context.Context, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordFilesLoaded records the number of merged source files
func (m *PipelineMetrics) RecordFilesLoaded(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.FilesLoaded.Add(ctx, int64(n))
}

// RecordUnmatchedAddresses records rows left without city or state
func (m *PipelineMetrics) RecordUnmatchedAddresses(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.UnmatchedAddresses.Add(ctx, int64(n))
}

// RecordCheckpoint records bytes written to a named checkpoint
func (m *PipelineMetrics) RecordCheckpoint(ctx context.Context, name string, size int64) {
	if m == nil {
		return
	}
	m.CheckpointBytes.Add(ctx, size, metric.WithAttributes(attribute.String("checkpoint", name)))
}
