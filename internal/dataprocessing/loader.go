package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	apperrors "salescli/internal/errors"
	"salescli/internal/files"
	"salescli/internal/validation"
	"salescli/pkg/contracts/domain"
)

// cancelCheckEvery is how many records are read between context checks
const cancelCheckEvery = 4096

// LoaderConfig holds configuration options for the Loader.
type LoaderConfig struct {
	Pattern string // Glob applied to file names in the input directory
	Workers int    // Maximum files parsed at once
}

// Loader reads every source extract in a directory and concatenates them.
type Loader struct {
	logger    *slog.Logger
	config    LoaderConfig
	discovery *files.Discovery
	validator *validation.FileValidator
}

// NewLoader creates a new loader with the given configuration.
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Pattern == "" {
		config.Pattern = "*"
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &Loader{
		logger:    logger,
		config:    config,
		discovery: files.NewDiscovery(""),
		validator: validation.NewFileValidator(logger),
	}
}

// Load reads all matching files in dir, in file-name order, and returns their
// rows concatenated. No row is dropped. Any file that fails to parse fails
// the whole load.
func (l *Loader) Load(ctx context.Context, dir string) (domain.RawTable, error) {
	if err := l.validator.ValidateInputDirectory(dir); err != nil {
		return domain.RawTable{}, err
	}

	sources, err := l.discovery.FindSourceFiles(dir, l.config.Pattern)
	if err != nil {
		return domain.RawTable{}, apperrors.NewStorageError("failed to list source files", err).
			WithContext("directory", dir)
	}
	if len(sources) == 0 {
		return domain.RawTable{}, apperrors.NewNotFoundError("source files").
			WithContext("directory", dir).
			WithContext("pattern", l.config.Pattern)
	}

	l.logger.InfoContext(ctx, "loading source files",
		slog.String("directory", dir),
		slog.Int("file_count", len(sources)),
		slog.Int64("total_bytes", files.TotalSize(sources)),
		slog.Int("workers", l.config.Workers))

	// Each file writes only its own slot so concatenation order is fixed
	perFile := make([][]domain.RawOrderLine, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.config.Workers)
	for i, src := range sources {
		g.Go(func() error {
			rows, err := l.ReadFile(gctx, src.Path)
			if err != nil {
				return err
			}
			perFile[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.RawTable{}, err
	}

	total := 0
	for _, rows := range perFile {
		total += len(rows)
	}
	table := domain.RawTable{
		Rows:  make([]domain.RawOrderLine, 0, total),
		Files: files.Names(sources),
	}
	for _, rows := range perFile {
		table.Rows = append(table.Rows, rows...)
	}

	l.logger.InfoContext(ctx, "source files merged",
		slog.Int("file_count", len(sources)),
		slog.Int("row_count", table.Len()))

	return table, nil
}

// LoadCheckpoint reads a single checkpoint file written by an earlier run.
// The checkpoint carries the same header as a source extract.
func (l *Loader) LoadCheckpoint(ctx context.Context, path string) (domain.RawTable, error) {
	rows, err := l.ReadFile(ctx, path)
	if err != nil {
		return domain.RawTable{}, err
	}
	return domain.RawTable{Rows: rows, Files: []string{filepath.Base(path)}}, nil
}

// ReadFile parses one sales CSV. The header must match the schema exactly
// and every record must have six fields.
func (l *Loader) ReadFile(ctx context.Context, path string) ([]domain.RawOrderLine, error) {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open source file", err).
			WithContext("file", name)
	}
	defer f.Close()

	rows, err := l.read(ctx, name, f)
	if err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "source file parsed",
		slog.String("file", name),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

func (l *Loader) read(ctx context.Context, name string, r io.Reader) ([]domain.RawOrderLine, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError("source file is empty", nil).WithContext("file", name)
	}
	if err != nil {
		return nil, parseError(name, err)
	}
	if err := l.validator.ValidateHeader(name, header); err != nil {
		return nil, err
	}

	var rows []domain.RawOrderLine
	for {
		if len(rows)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(name, err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != len(domain.Header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("expected %d fields, found %d", len(domain.Header), len(record)), nil).
				WithContext("file", name).
				WithContext("line", line)
		}

		rows = append(rows, domain.NewRawOrderLine(record, domain.Source{File: name, Line: line}))
	}

	return rows, nil
}

func parseError(name string, err error) error {
	appErr := apperrors.NewParsingError("malformed CSV", err).WithContext("file", name)
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		appErr.WithContext("line", perr.Line)
	}
	return appErr
}
