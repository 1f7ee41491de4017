package core

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRunStateLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.json")

	got, err := LoadState(path)
	if err != nil || got != nil {
		t.Fatalf("LoadState() on missing file = %v, %v", got, err)
	}

	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	want := NewRunState(
		&ProcessConfig{Port: 3004, Dir: "/opt/sahat", Line: "npm run start -- -p 3004"},
		ProcessStatus{RunID: "run-1", PID: 4242, StartedAt: started},
	)
	if err := SaveState(path, want); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	got, err = LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got.RunID != "run-1" || got.PID != 4242 || got.Port != 3004 {
		t.Errorf("LoadState() = %+v", got)
	}
	if got.Root != "/opt/sahat" || got.Command != "npm run start -- -p 3004" {
		t.Errorf("LoadState() = %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}

	if err := ClearState(path); err != nil {
		t.Fatalf("ClearState() error = %v", err)
	}
	if err := ClearState(path); err != nil {
		t.Fatalf("second ClearState() error = %v", err)
	}
	if got, _ := LoadState(path); got != nil {
		t.Error("state still present after ClearState")
	}
}
