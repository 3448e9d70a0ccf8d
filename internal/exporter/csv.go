package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a whole CSV file at once, replacing any previous file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	stream, err := w.createStream(filePath, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}

	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Abort()
			return apperrors.NewStorageError("failed to write record", err).
				WithContext("file", filePath).
				WithContext("record", i)
		}
	}

	return stream.Close()
}

// WriteSimpleCSV writes a CSV file with headers and records, prefixed with a BOM
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter writes records to a temporary file that replaces the target
// only on Close, so a failed write never leaves a partial file behind.
type StreamWriter struct {
	file    *os.File
	writer  *csv.Writer
	target  string
	records int
	logger  *slog.Logger
}

// CreateStreamWriter creates a new streaming CSV writer without a BOM
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	return w.createStream(filePath, headers, false)
}

func (w *CSVWriter) createStream(filePath string, headers []string, bom bool) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err).
			WithContext("directory", dir)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create file", err).
			WithContext("file", fullPath)
	}

	stream := &StreamWriter{
		file:   file,
		writer: csv.NewWriter(file),
		target: fullPath,
		logger: w.logger,
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			stream.Abort()
			return nil, apperrors.NewStorageError("failed to write BOM", err).
				WithContext("file", fullPath)
		}
	}

	if len(headers) > 0 {
		if err := stream.writer.Write(headers); err != nil {
			stream.Abort()
			return nil, apperrors.NewStorageError("failed to write headers", err).
				WithContext("file", fullPath)
		}
	}

	return stream, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return err
	}
	s.records++
	return nil
}

// Path returns the file the stream replaces on Close
func (s *StreamWriter) Path() string {
	return s.target
}

// Close flushes the stream and moves it into place
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.Abort()
		return apperrors.NewStorageError("failed to flush CSV", err).WithContext("file", s.target)
	}
	if err := s.file.Chmod(0644); err != nil {
		s.Abort()
		return apperrors.NewStorageError("failed to set file mode", err).WithContext("file", s.target)
	}
	if err := s.file.Close(); err != nil {
		os.Remove(s.file.Name())
		return apperrors.NewStorageError("failed to close file", err).WithContext("file", s.target)
	}
	if err := os.Rename(s.file.Name(), s.target); err != nil {
		os.Remove(s.file.Name())
		return apperrors.NewStorageError("failed to replace file", err).WithContext("file", s.target)
	}

	s.logger.Info("CSV file written",
		slog.String("file_path", s.target),
		slog.Int("record_count", s.records))
	return nil
}

// Abort discards everything written so far
func (s *StreamWriter) Abort() {
	s.file.Close()
	os.Remove(s.file.Name())
}

// resolvePath places relative paths under the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return filepath.Join(w.paths.OutputDir, filePath)
}
