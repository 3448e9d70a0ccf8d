package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewValidationError("unknown column"),
			wantMessage: "[VALIDATION] unknown column",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("failed to open file", fmt.Errorf("permission denied")),
			wantMessage: "[STORAGE] failed to open file: permission denied",
		},
		{
			name:        "not found",
			appError:    NewNotFoundError("input directory"),
			wantMessage: "[NOT_FOUND] input directory not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := fmt.Errorf("write merged: %w", NewStorageError("failed to write record", cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrStorage))
	assert.False(t, errors.Is(err, ErrParsing))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
	assert.Equal(t, ErrTypeStorage, GetErrorType(err))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad header", nil).
		WithContext("file", "Sales_April_2019.csv").
		WithContext("columns", 5)

	assert.Equal(t, "Sales_April_2019.csv", err.Context["file"])
	assert.Equal(t, 5, err.Context["columns"])

	var empty AppError
	empty.WithContext("k", "v")
	assert.Equal(t, "v", empty.Context["k"])
}

func TestRowError(t *testing.T) {
	cause := fmt.Errorf("invalid syntax")
	err := NewRowError(ErrTypeParsing, "Sales_May_2019.csv", 12, "Price Each", "abc", cause)

	assert.Equal(t, `[PARSING] Sales_May_2019.csv:12: column "Price Each" value "abc": invalid syntax`, err.Error())
	assert.True(t, errors.Is(err, ErrParsing))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrAddress))

	noLine := NewRowError(ErrTypeAddress, "merged", 0, "Purchase Address", "nowhere", nil)
	assert.Equal(t, `[ADDRESS] merged: column "Purchase Address" value "nowhere"`, noLine.Error())
}

func TestGetErrorType_NoAppError(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
	assert.Equal(t, ErrorType(""), GetErrorType(fmt.Errorf("plain")))
}

func TestGetErrorType_RowError(t *testing.T) {
	rowErr := NewRowError(ErrTypeAddress, "Sales_April_2019.csv", 3, "Purchase Address", "nowhere", nil)
	assert.Equal(t, ErrTypeAddress, GetErrorType(fmt.Errorf("augment: %w", rowErr)))
}
