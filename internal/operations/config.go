package operations

import (
	"fmt"
	"time"

	"salescli/internal/config"
)

// Config represents the stage execution configuration
type Config struct {
	// Per-stage timeouts; a stage without one runs until its context ends
	StageTimeouts map[string]time.Duration `json:"stage_timeouts"`
}

// NewConfig returns the default configuration: no stage timeouts
func NewConfig() *Config {
	return &Config{
		StageTimeouts: make(map[string]time.Duration),
	}
}

// NewConfigFromPipeline copies the configured stage timeouts. Every key must
// name a pipeline stage.
func NewConfigFromPipeline(cfg config.PipelineConfig) (*Config, error) {
	c := NewConfig()
	for stageID, timeout := range cfg.StageTimeouts {
		if !isStageID(stageID) {
			return nil, NewValidationError(stageID, fmt.Sprintf("timeout configured for unknown stage %q", stageID))
		}
		c.SetStageTimeout(stageID, timeout)
	}
	return c, nil
}

// GetStageTimeout returns the timeout for a specific stage, 0 when unset
func (c *Config) GetStageTimeout(stageID string) time.Duration {
	if c == nil {
		return 0
	}
	return c.StageTimeouts[stageID]
}

// SetStageTimeout sets the timeout for a specific stage
func (c *Config) SetStageTimeout(stageID string, timeout time.Duration) {
	if c.StageTimeouts == nil {
		c.StageTimeouts = make(map[string]time.Duration)
	}
	c.StageTimeouts[stageID] = timeout
}

func isStageID(id string) bool {
	switch id {
	case StageIDLoad, StageIDClean, StageIDAugment, StageIDReport, StageIDExport, StageIDPairs:
		return true
	}
	return false
}
