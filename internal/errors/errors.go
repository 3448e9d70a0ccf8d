package errors

import (
	"fmt"
)

// Well-known type markers for errors.Is checks
var (
	ErrParsing    = &AppError{Type: ErrTypeParsing}
	ErrStorage    = &AppError{Type: ErrTypeStorage}
	ErrValidation = &AppError{Type: ErrTypeValidation}
	ErrAddress    = &AppError{Type: ErrTypeAddress}
)

// RowError describes a failure tied to a single source row.
type RowError struct {
	Type   ErrorType
	File   string
	Line   int
	Column string
	Value  string
	Cause  error
}

// Error implements the error interface
func (e *RowError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	msg := fmt.Sprintf("[%s] %s: column %q value %q", e.Type, loc, e.Column, e.Value)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *RowError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the type marker for this row error.
func (e *RowError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == ""
}

// NewRowError creates a row-level error.
func NewRowError(errType ErrorType, file string, line int, column, value string, cause error) *RowError {
	return &RowError{
		Type:   errType,
		File:   file,
		Line:   line,
		Column: column,
		Value:  value,
		Cause:  cause,
	}
}
