package operations

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// OperationError is a stage failure. Cause keeps the underlying error so
// errors.Is and errors.As see through it.
type OperationError struct {
	Type    ErrorType `json:"type"`
	Stage   string    `json:"stage,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Stage != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(stage, message string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeValidation,
		Stage:   stage,
		Message: message,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(stage string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeExecution,
		Stage:   stage,
		Message: "stage failed",
		Cause:   cause,
	}
}

// NewCancellationError creates a new cancellation error
func NewCancellationError(stage string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeCancellation,
		Stage:   stage,
		Message: "stage cancelled",
		Cause:   cause,
	}
}

// WrapError attaches the stage ID to err. Context errors become cancellation
// errors; an OperationError that already names a stage is returned as is.
func WrapError(err error, stage string) error {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		if opErr.Stage == "" {
			opErr.Stage = stage
		}
		return opErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewCancellationError(stage, err)
	}
	return NewExecutionError(stage, err)
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}

// FailedStage returns the ID of the stage err came from, if any
func FailedStage(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Stage
	}
	return ""
}

// IsStageFailure reports whether err came out of a pipeline stage
func IsStageFailure(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr)
}
