package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// RunState records the child owned by a running launcher so the next start
// can find a server left behind by a crash.
type RunState struct {
	RunID     string    `json:"run_id"`
	PID       int       `json:"pid"`
	Port      int       `json:"port"`
	Root      string    `json:"root"`
	Command   string    `json:"command"`
	StartedAt time.Time `json:"started_at"`
}

// SaveState writes state to path atomically.
func SaveState(path string, state *RunState) error {
	data, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write run state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace run state: %w", err)
	}
	return nil
}

// LoadState reads the state at path. A missing file yields (nil, nil).
func LoadState(path string) (*RunState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run state: %w", err)
	}

	var state RunState
	if err := sonic.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode run state %s: %w", path, err)
	}
	return &state, nil
}

// ClearState removes the state file; a missing file is not an error.
func ClearState(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove run state: %w", err)
	}
	return nil
}

// NewRunState builds the record for a freshly started process.
func NewRunState(cfg *ProcessConfig, st ProcessStatus) *RunState {
	return &RunState{
		RunID:     st.RunID,
		PID:       st.PID,
		Port:      cfg.Port,
		Root:      cfg.Dir,
		Command:   cfg.Line,
		StartedAt: st.StartedAt,
	}
}
