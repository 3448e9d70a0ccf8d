package operations

import (
	"sync"
	"time"
)

// RunState is the in-memory state of one run: the stages it has entered, in order
type RunState struct {
	mu sync.RWMutex

	ID        string
	StartTime time.Time

	steps map[string]*StepState
	order []string
}

// NewRunState creates a new run state
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// Step returns the state for a stage, creating it on first use
func (r *RunState) Step(id, name string) *StepState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.steps[id]; ok {
		return s
	}
	s := NewStepState(id, name)
	r.steps[id] = s
	r.order = append(r.order, id)
	return s
}

// GetStep returns the state for a stage if it has been entered
func (r *RunState) GetStep(id string) (*StepState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.steps[id]
	return s, ok
}

// Steps returns the stage states in the order they were entered
func (r *RunState) Steps() []*StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*StepState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.steps[id])
	}
	return out
}

// Failed reports whether any stage failed
func (r *RunState) Failed() bool {
	for _, s := range r.Steps() {
		if s.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}
