package operations

import (
	"context"
	"sync"
	"time"
)

// Stage is one typed step of the pipeline. Its input type is the output type
// of the stage before it, so stages cannot be chained out of order.
type Stage[In, Out any] interface {
	// ID returns the unique identifier for this Stage
	ID() string

	// Name returns the human-readable name for this Stage
	Name() string

	// Run transforms the input. It must not modify in.
	Run(ctx context.Context, in In) (Out, error)
}

// StageFunc adapts a plain function to the Stage interface
type StageFunc[In, Out any] struct {
	id   string
	name string
	fn   func(ctx context.Context, in In) (Out, error)
}

// NewStage creates a stage from a function
func NewStage[In, Out any](id, name string, fn func(ctx context.Context, in In) (Out, error)) *StageFunc[In, Out] {
	return &StageFunc[In, Out]{id: id, name: name, fn: fn}
}

// ID returns the Stage ID
func (s *StageFunc[In, Out]) ID() string {
	return s.id
}

// Name returns the Stage name
func (s *StageFunc[In, Out]) Name() string {
	return s.name
}

// Run calls the wrapped function
func (s *StageFunc[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	return s.fn(ctx, in)
}

// StepStatus represents the current status of a Stage
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState represents the runtime state of a Stage
type StepState struct {
	mu        sync.RWMutex
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    StepStatus     `json:"status"`
	StartTime *time.Time     `json:"start_time,omitempty"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Error     error          `json:"-"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewStepState creates a new Stage state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]any),
	}
}

// Start marks the Stage as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the Stage as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the Stage as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// SetMetadata records a value describing the stage result
func (s *StepState) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Metadata[key] = value
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Status
}

// Duration returns the duration of the Stage execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// metadata returns a copy of the metadata map
func (s *StepState) metadata() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		out[k] = v
	}
	return out
}
