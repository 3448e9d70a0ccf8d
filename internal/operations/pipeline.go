package operations

import (
	"context"
	"fmt"
	"log/slog"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/files"
	"salescli/internal/infrastructure"
	"salescli/internal/report"
	"salescli/pkg/contracts/domain"
)

// Pipeline wires the analysis stages to their checkpoints and outputs.
// Each command method runs its stages in the only order their types allow.
type Pipeline struct {
	cfg    *config.Config
	paths  *config.Paths
	runner *Runner
	logger *slog.Logger

	loader            *dataprocessing.Loader
	cleaner           *dataprocessing.Cleaner
	checkpointCleaner *dataprocessing.Cleaner
	augmenter         *dataprocessing.Augmenter
	builder           *report.Builder

	files       *files.Manager
	checkpoints *exporter.CheckpointExporter
	summaries   *exporter.SummaryExporter
	charts      *exporter.ChartWriter
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *config.Config, paths *config.Paths, runner *Runner, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	manager := files.NewManager(paths, infrastructure.WithComponent(logger, "files"))
	exportLogger := infrastructure.WithComponent(logger, "exporter")

	return &Pipeline{
		cfg:    cfg,
		paths:  paths,
		runner: runner,
		logger: logger,

		loader: dataprocessing.NewLoader(infrastructure.WithComponent(logger, "loader"), dataprocessing.LoaderConfig{
			Pattern: cfg.Pipeline.InputPattern,
			Workers: cfg.Pipeline.LoaderWorkers,
		}),
		cleaner: dataprocessing.NewCleaner(infrastructure.WithComponent(logger, "cleaner"), dataprocessing.CleanerConfig{
			HeaderKeyColumn: cfg.Pipeline.HeaderKeyColumn,
			DateLayout:      domain.OrderDateLayout,
		}),
		checkpointCleaner: dataprocessing.NewCleaner(infrastructure.WithComponent(logger, "cleaner"), dataprocessing.CleanerConfig{
			HeaderKeyColumn: cfg.Pipeline.HeaderKeyColumn,
			DateLayout:      domain.CheckpointDateLayout,
		}),
		augmenter: dataprocessing.NewAugmenter(infrastructure.WithComponent(logger, "augmenter"), dataprocessing.AugmenterConfig{
			StrictAddress: cfg.Pipeline.StrictAddress,
		}),
		builder: report.NewBuilder(infrastructure.WithComponent(logger, "report"), report.Options{
			TopPairs:  cfg.Pipeline.TopPairs,
			PeakHours: cfg.Pipeline.PeakHours,
			SalesDate: cfg.Pipeline.SalesDate,
		}),

		files:       manager,
		checkpoints: exporter.NewCheckpointExporter(paths, exportLogger),
		summaries:   exporter.NewSummaryExporter(paths, exportLogger),
		charts:      exporter.NewChartWriter(manager, exportLogger),
	}
}

// Config returns the configuration the pipeline was built from
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Runner returns the runner the pipeline records into
func (p *Pipeline) Runner() *Runner {
	return p.runner
}

// Run executes the full pipeline: merge, clean, augment, answer and export
func (p *Pipeline) Run(ctx context.Context) (report.Report, error) {
	r, err := p.run(ctx)
	return r, p.finish(err)
}

func (p *Pipeline) run(ctx context.Context) (report.Report, error) {
	raw, err := Execute(ctx, p.runner, p.loadStage(), p.paths.DataDir)
	if err != nil {
		return report.Report{}, err
	}
	clean, err := Execute(ctx, p.runner, p.cleanStage(), raw)
	if err != nil {
		return report.Report{}, err
	}
	return p.analyze(ctx, clean)
}

// Merge loads the source directory and writes the merged checkpoint
func (p *Pipeline) Merge(ctx context.Context) (domain.RawTable, error) {
	raw, err := Execute(ctx, p.runner, p.loadStage(), p.paths.DataDir)
	return raw, p.finish(err)
}

// Clean reads the merged checkpoint and writes the cleaned checkpoint
func (p *Pipeline) Clean(ctx context.Context) (domain.CleanTable, error) {
	clean, err := p.clean(ctx)
	return clean, p.finish(err)
}

func (p *Pipeline) clean(ctx context.Context) (domain.CleanTable, error) {
	raw, err := Execute(ctx, p.runner, p.reloadMergedStage(), p.paths.AllDataCSV)
	if err != nil {
		return domain.CleanTable{}, err
	}
	return Execute(ctx, p.runner, p.cleanStage(), raw)
}

// Report reads the cleaned checkpoint, answers the questions and writes the
// charts and summaries
func (p *Pipeline) Report(ctx context.Context) (report.Report, error) {
	r, err := p.report(ctx)
	return r, p.finish(err)
}

func (p *Pipeline) report(ctx context.Context) (report.Report, error) {
	clean, err := Execute(ctx, p.runner, p.reloadCleanedStage(), p.paths.CleanDataCSV)
	if err != nil {
		return report.Report{}, err
	}
	return p.analyze(ctx, clean)
}

// Pairs reads the cleaned checkpoint and ranks the top n product pairs.
// n <= 0 returns every pair.
func (p *Pipeline) Pairs(ctx context.Context, n int) ([]dataprocessing.PairCount, error) {
	pairs, err := p.pairs(ctx, n)
	return pairs, p.finish(err)
}

func (p *Pipeline) pairs(ctx context.Context, n int) ([]dataprocessing.PairCount, error) {
	clean, err := Execute(ctx, p.runner, p.reloadCleanedStage(), p.paths.CleanDataCSV)
	if err != nil {
		return nil, err
	}
	augmented, err := Execute(ctx, p.runner, p.augmentStage(), clean)
	if err != nil {
		return nil, err
	}
	return Execute(ctx, p.runner, p.pairsStage(n), augmented)
}

func (p *Pipeline) analyze(ctx context.Context, clean domain.CleanTable) (report.Report, error) {
	augmented, err := Execute(ctx, p.runner, p.augmentStage(), clean)
	if err != nil {
		return report.Report{}, err
	}
	r, err := Execute(ctx, p.runner, p.reportStage(), augmented)
	if err != nil {
		return report.Report{}, err
	}
	return Execute(ctx, p.runner, p.exportStage(), r)
}

// finish closes the manifest and saves it. A save failure only surfaces
// when the run itself succeeded.
func (p *Pipeline) finish(runErr error) error {
	manifest := p.runner.Manifest()
	manifest.Finish(runErr)

	if err := manifest.Save(p.files, p.paths.ManifestJSON); err != nil {
		p.logger.Error("failed to save run manifest",
			slog.String("file", p.paths.ManifestJSON),
			slog.String("error", err.Error()))
		if runErr == nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	p.logger.Info("run completed",
		slog.String("run_id", manifest.ID),
		slog.String("command", manifest.Command))
	return nil
}

// checkpoint records a checkpoint file in the manifest and the metrics
func (p *Pipeline) checkpoint(ctx context.Context, name, stageID, access, path string, rows int) error {
	info, err := p.runner.Manifest().AddCheckpoint(name, stageID, access, path, rows)
	if err != nil {
		return err
	}
	if access == AccessWrite {
		p.runner.Metrics().RecordCheckpoint(ctx, name, info.SizeBytes)
	}
	p.runner.Annotate(ctx, stageID, map[string]any{
		name + "_digest": info.Digest,
		name + "_bytes":  info.SizeBytes,
	})
	return nil
}

func (p *Pipeline) loadStage() Stage[string, domain.RawTable] {
	return NewStage(StageIDLoad, StageNameLoad, func(ctx context.Context, dir string) (domain.RawTable, error) {
		raw, err := p.loader.Load(ctx, dir)
		if err != nil {
			return domain.RawTable{}, err
		}
		p.runner.Metrics().RecordFilesLoaded(ctx, len(raw.Files))
		p.runner.Metrics().RecordRows(ctx, StageIDLoad, raw.Len(), raw.Len())
		p.runner.Annotate(ctx, StageIDLoad, map[string]any{
			"files": len(raw.Files),
			"rows":  raw.Len(),
		})

		if err := p.checkpoints.WriteMerged(ctx, p.paths.AllDataCSV, raw); err != nil {
			return domain.RawTable{}, err
		}
		if err := p.checkpoint(ctx, CheckpointMerged, StageIDLoad, AccessWrite, p.paths.AllDataCSV, raw.Len()); err != nil {
			return domain.RawTable{}, err
		}
		return raw, nil
	})
}

func (p *Pipeline) reloadMergedStage() Stage[string, domain.RawTable] {
	return NewStage(StageIDLoad, StageNameLoad, func(ctx context.Context, path string) (domain.RawTable, error) {
		raw, err := p.loader.LoadCheckpoint(ctx, path)
		if err != nil {
			return domain.RawTable{}, err
		}
		p.runner.Metrics().RecordRows(ctx, StageIDLoad, raw.Len(), raw.Len())
		p.runner.Annotate(ctx, StageIDLoad, map[string]any{"rows": raw.Len()})

		if err := p.checkpoint(ctx, CheckpointMerged, StageIDLoad, AccessRead, path, raw.Len()); err != nil {
			return domain.RawTable{}, err
		}
		return raw, nil
	})
}

func (p *Pipeline) cleanStage() Stage[domain.RawTable, domain.CleanTable] {
	return NewStage(StageIDClean, StageNameClean, func(ctx context.Context, raw domain.RawTable) (domain.CleanTable, error) {
		clean, counts, err := p.cleaner.Clean(ctx, raw)
		if err != nil {
			return domain.CleanTable{}, err
		}
		if !counts.Balanced() {
			return domain.CleanTable{}, fmt.Errorf("row counts do not add up: %+v", counts)
		}

		metrics := p.runner.Metrics()
		metrics.RecordRows(ctx, StageIDClean, counts.InputRows, counts.OutputRows)
		metrics.RecordDropped(ctx, DropReasonIncomplete, counts.IncompleteRows)
		metrics.RecordDropped(ctx, DropReasonHeader, counts.HeaderRows)
		p.runner.Annotate(ctx, StageIDClean, map[string]any{
			"input_rows":      counts.InputRows,
			"incomplete_rows": counts.IncompleteRows,
			"header_rows":     counts.HeaderRows,
			"output_rows":     counts.OutputRows,
		})

		if err := p.checkpoints.WriteCleaned(ctx, p.paths.CleanDataCSV, clean); err != nil {
			return domain.CleanTable{}, err
		}
		if err := p.checkpoint(ctx, CheckpointCleaned, StageIDClean, AccessWrite, p.paths.CleanDataCSV, clean.Len()); err != nil {
			return domain.CleanTable{}, err
		}
		return clean, nil
	})
}

// reloadCleanedStage parses the cleaned checkpoint back into typed rows.
// The checkpoint was already cleaned, so nothing should be dropped.
func (p *Pipeline) reloadCleanedStage() Stage[string, domain.CleanTable] {
	return NewStage(StageIDClean, StageNameClean, func(ctx context.Context, path string) (domain.CleanTable, error) {
		raw, err := p.loader.LoadCheckpoint(ctx, path)
		if err != nil {
			return domain.CleanTable{}, err
		}
		clean, counts, err := p.checkpointCleaner.Clean(ctx, raw)
		if err != nil {
			return domain.CleanTable{}, err
		}
		if dropped := counts.IncompleteRows + counts.HeaderRows; dropped > 0 {
			p.logger.WarnContext(ctx, "cleaned checkpoint contained rows that clean again",
				slog.String("file", path),
				slog.Int("dropped_rows", dropped))
		}

		p.runner.Metrics().RecordRows(ctx, StageIDClean, counts.InputRows, counts.OutputRows)
		p.runner.Annotate(ctx, StageIDClean, map[string]any{"rows": clean.Len()})

		if err := p.checkpoint(ctx, CheckpointCleaned, StageIDClean, AccessRead, path, clean.Len()); err != nil {
			return domain.CleanTable{}, err
		}
		return clean, nil
	})
}

func (p *Pipeline) augmentStage() Stage[domain.CleanTable, domain.AugmentedTable] {
	return NewStage(StageIDAugment, StageNameAugment, func(ctx context.Context, clean domain.CleanTable) (domain.AugmentedTable, error) {
		augmented, counts, err := p.augmenter.Augment(ctx, clean)
		if err != nil {
			return domain.AugmentedTable{}, err
		}

		p.runner.Metrics().RecordRows(ctx, StageIDAugment, clean.Len(), augmented.Len())
		p.runner.Metrics().RecordUnmatchedAddresses(ctx, counts.UnmatchedAddresses)
		p.runner.Annotate(ctx, StageIDAugment, map[string]any{
			"rows":                counts.Rows,
			"unmatched_addresses": counts.UnmatchedAddresses,
		})
		return augmented, nil
	})
}

func (p *Pipeline) reportStage() Stage[domain.AugmentedTable, report.Report] {
	return NewStage(StageIDReport, StageNameReport, func(ctx context.Context, table domain.AugmentedTable) (report.Report, error) {
		r, err := p.builder.Build(ctx, table)
		if err != nil {
			return report.Report{}, err
		}
		p.runner.Annotate(ctx, StageIDReport, map[string]any{
			"best_month":   r.BestMonth.Key,
			"best_date":    r.BestDate.Key,
			"best_city":    r.BestCity.Key,
			"best_product": r.BestProduct.Key,
			"pairs":        len(r.TopPairs),
		})
		return r, nil
	})
}

// exportStage writes the chart workbook and summary CSVs and passes the
// report through unchanged
func (p *Pipeline) exportStage() Stage[report.Report, report.Report] {
	return NewStage(StageIDExport, StageNameExport, func(ctx context.Context, r report.Report) (report.Report, error) {
		if err := p.charts.Write(p.paths.ChartsXLSX, r); err != nil {
			return report.Report{}, err
		}
		if err := p.checkpoint(ctx, CheckpointCharts, StageIDExport, AccessWrite, p.paths.ChartsXLSX, r.Rows); err != nil {
			return report.Report{}, err
		}
		if err := ctx.Err(); err != nil {
			return report.Report{}, err
		}

		written, err := p.summaries.ExportReport(r, p.paths.SummaryDir)
		if err != nil {
			return report.Report{}, err
		}
		p.runner.Annotate(ctx, StageIDExport, map[string]any{"summary_files": len(written)})
		return r, nil
	})
}

func (p *Pipeline) pairsStage(n int) Stage[domain.AugmentedTable, []dataprocessing.PairCount] {
	return NewStage(StageIDPairs, StageNamePairs, func(ctx context.Context, table domain.AugmentedTable) ([]dataprocessing.PairCount, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts := dataprocessing.CountPairs(table)
		top := counts.TopPairs(n)
		p.runner.Annotate(ctx, StageIDPairs, map[string]any{
			"distinct_pairs": counts.Len(),
			"returned":       len(top),
		})
		return top, nil
	})
}
