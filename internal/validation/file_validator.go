package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// utf8BOM is stripped from the first header cell
const utf8BOM = "\uFEFF"

// FileValidator provides validation for input directories, output directories
// and source file headers
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that the input directory exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewNotFoundError("input directory").WithContext("directory", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewValidationError(fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateHeader checks that header is exactly the sales schema. A leading
// UTF-8 byte order mark on the first cell is ignored. header is not modified.
func (v *FileValidator) ValidateHeader(file string, header []string) error {
	got := make([]string, len(header))
	copy(got, header)
	if len(got) > 0 {
		got[0] = strings.TrimPrefix(got[0], utf8BOM)
	}

	if len(got) != len(domain.Header) {
		return v.headerError(file, got,
			fmt.Sprintf("expected %d columns, found %d", len(domain.Header), len(got)))
	}
	for i, want := range domain.Header {
		if got[i] != want {
			return v.headerError(file, got,
				fmt.Sprintf("column %d is %q, expected %q", i+1, got[i], want))
		}
	}
	return nil
}

func (v *FileValidator) headerError(file string, got []string, reason string) error {
	v.logger.Error("Unexpected header",
		slog.String("file", file),
		slog.String("header", strings.Join(got, ",")),
		slog.String("reason", reason))
	return apperrors.NewParsingError("unexpected header: "+reason, nil).
		WithContext("file", file)
}
