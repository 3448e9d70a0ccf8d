package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"salescli/internal/files"
)

// RunManifest records what one run did and what it left on disk.
// A failed run leaves status "failed" so older checkpoints are not taken as current.
type RunManifest struct {
	mu sync.RWMutex

	ID        string    `json:"id"`
	Command   string    `json:"command"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`

	Stages      []StageExecution           `json:"stages"`
	Checkpoints map[string]*CheckpointInfo `json:"checkpoints"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Checkpoint access modes
const (
	AccessWrite = "write"
	AccessRead  = "read"
)

// CheckpointInfo describes a file a stage wrote or read
type CheckpointInfo struct {
	Path       string    `json:"path"`
	Rows       int       `json:"rows"`
	SizeBytes  int64     `json:"size_bytes"`
	Digest     string    `json:"blake2b_256"`
	Stage      string    `json:"stage"`
	Access     string    `json:"access"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StageExecution tracks the execution of a single stage
type StageExecution struct {
	StageID   string         `json:"stage_id"`
	StageName string         `json:"stage_name"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time,omitempty"`
	Duration  string         `json:"duration,omitempty"`
	Status    StepStatus     `json:"status"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewRunManifest creates a manifest for a run of command
func NewRunManifest(runID, command string) *RunManifest {
	return &RunManifest{
		ID:          runID,
		Command:     command,
		StartTime:   time.Now(),
		Stages:      []StageExecution{},
		Checkpoints: make(map[string]*CheckpointInfo),
		Status:      RunStatusRunning,
	}
}

// RecordStageStart records the start of a stage execution
func (m *RunManifest) RecordStageStart(stageID, stageName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stages = append(m.Stages, StageExecution{
		StageID:   stageID,
		StageName: stageName,
		StartTime: time.Now(),
		Status:    StepStatusActive,
	})
}

// RecordStageCompletion records the completion of a stage
func (m *RunManifest) RecordStageCompletion(stageID string, metadata map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.stage(stageID); s != nil {
		s.EndTime = time.Now()
		s.Duration = s.EndTime.Sub(s.StartTime).String()
		s.Status = StepStatusCompleted
		if len(metadata) > 0 {
			s.Metadata = metadata
		}
	}
}

// RecordStageFailure records a stage failure and fails the run
func (m *RunManifest) RecordStageFailure(stageID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.stage(stageID); s != nil {
		s.EndTime = time.Now()
		s.Duration = s.EndTime.Sub(s.StartTime).String()
		s.Status = StepStatusFailed
		s.Error = err.Error()
	}
	m.Status = RunStatusFailed
	m.Error = fmt.Sprintf("stage %s failed: %v", stageID, err)
}

// stage returns the latest execution of stageID. Callers hold the lock.
func (m *RunManifest) stage(stageID string) *StageExecution {
	for i := len(m.Stages) - 1; i >= 0; i-- {
		if m.Stages[i].StageID == stageID {
			return &m.Stages[i]
		}
	}
	return nil
}

// IsStageCompleted checks if a stage has been completed
func (m *RunManifest) IsStageCompleted(stageID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.stage(stageID)
	return s != nil && s.Status == StepStatusCompleted
}

// AddCheckpoint records a file along with its size and digest
func (m *RunManifest) AddCheckpoint(name, stageID, access, path string, rows int) (*CheckpointInfo, error) {
	digest, size, err := files.Digest(path)
	if err != nil {
		return nil, fmt.Errorf("failed to digest checkpoint %s: %w", path, err)
	}

	info := &CheckpointInfo{
		Path:       path,
		Rows:       rows,
		SizeBytes:  size,
		Digest:     digest,
		Stage:      stageID,
		Access:     access,
		RecordedAt: time.Now(),
	}

	m.mu.Lock()
	m.Checkpoints[name] = info
	m.mu.Unlock()
	return info, nil
}

// Checkpoint returns a recorded checkpoint
func (m *RunManifest) Checkpoint(name string) (*CheckpointInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.Checkpoints[name]
	return info, ok
}

// Finish closes the run. err decides between completed and failed.
func (m *RunManifest) Finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	if err != nil {
		m.Status = RunStatusFailed
		if m.Error == "" {
			m.Error = err.Error()
		}
		return
	}
	if m.Status != RunStatusFailed {
		m.Status = RunStatusCompleted
	}
}

// Save writes the manifest as indented JSON through the file manager
func (m *RunManifest) Save(manager *files.Manager, path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := manager.WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	manifest := &RunManifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if manifest.Checkpoints == nil {
		manifest.Checkpoints = make(map[string]*CheckpointInfo)
	}
	return manifest, nil
}
