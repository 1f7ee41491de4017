package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Shutdown configuration
const (
	// StopGracePeriod is how long a stopped server gets before it is killed.
	StopGracePeriod = 5 * time.Second
)

var (
	// ErrNotRunning is returned when an operation needs a live child process.
	ErrNotRunning = errors.New("server process not running")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("server process closed")
)

// ProcessConfig describes the background server command.
type ProcessConfig struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string
	Port   int
	Line   string
	Output io.Writer
}

// StartFunc issues the spawn. The default is (*exec.Cmd).Start.
type StartFunc func(cmd *exec.Cmd) error

// ProcessStatus is a snapshot for status queries.
type ProcessStatus struct {
	RunID     string    `json:"runId"`
	Running   bool      `json:"running"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"startedAt"`
	Error     string    `json:"error,omitempty"`
}

// ServerProcess owns the child process running the web server.
type ServerProcess struct {
	config *ProcessConfig
	start  StartFunc

	mu        sync.Mutex
	cmd       *exec.Cmd
	runID     string
	startedAt time.Time
	isRunning bool
	stopping  bool
	closed    bool
	lastErr   error
	spawning  chan struct{}
	exited    chan struct{}
	launched  chan struct{}

	// OnStarted is called after a successful spawn, outside the lock.
	OnStarted func(ProcessStatus)
}

// NewServerProcess creates a process manager for config. A nil start uses
// (*exec.Cmd).Start.
func NewServerProcess(config *ProcessConfig, start StartFunc) *ServerProcess {
	if start == nil {
		start = func(cmd *exec.Cmd) error { return cmd.Start() }
	}
	return &ServerProcess{
		config:   config,
		start:    start,
		launched: make(chan struct{}),
	}
}

// LaunchBackground spawns the server from a new goroutine and returns at
// once. Failures are logged and recorded, never returned.
func (s *ServerProcess) LaunchBackground() {
	s.mu.Lock()
	launched := make(chan struct{})
	s.launched = launched
	if !s.isRunning {
		// A new attempt starts clean; Err reports only its outcome.
		s.lastErr = nil
	}
	s.mu.Unlock()

	go func() {
		defer close(launched)
		err := s.Start()
		switch {
		case errors.Is(err, ErrClosed):
			log.Printf("[Server] Launch skipped, server process closed")
		case err != nil:
			log.Printf("[Server] Warning: failed to start background server: %v", err)
		}
	}()
}

// Launched returns a channel closed once the latest LaunchBackground call
// finished its spawn attempt.
func (s *ServerProcess) Launched() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launched
}

// Start spawns the server and returns the spawn error, if any. The lock is
// not held across the spawn itself.
func (s *ServerProcess) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.isRunning || s.spawning != nil {
		s.mu.Unlock()
		log.Printf("[Server] Server process already running")
		return nil
	}

	cmd := exec.Command(s.config.Name, s.config.Args...)
	cmd.Dir = s.config.Dir
	cmd.Env = s.config.Env
	if s.config.Output != nil {
		cmd.Stdout = s.config.Output
		cmd.Stderr = s.config.Output
	}
	setProcAttr(cmd)

	spawning := make(chan struct{})
	s.spawning = spawning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.spawning = nil
		s.mu.Unlock()
		close(spawning)
	}()

	runID := uuid.NewString()
	log.Printf("[Server] Starting %q in %s (run %s)", s.config.Line, s.config.Dir, runID)

	err := s.start(cmd)

	s.mu.Lock()
	if err != nil {
		s.lastErr = fmt.Errorf("spawn %s: %w", s.config.Name, err)
		err = s.lastErr
		s.mu.Unlock()
		return err
	}

	exited := make(chan struct{})
	s.cmd = cmd
	s.runID = runID
	s.startedAt = time.Now()
	s.isRunning = true
	s.stopping = false
	s.lastErr = nil
	s.exited = exited
	closed := s.closed
	status := s.statusLocked()
	s.mu.Unlock()

	if cmd.Process != nil {
		log.Printf("[Server] Server process started (pid %d)", cmd.Process.Pid)
		go s.reap(cmd, exited)
	} else {
		close(exited)
	}

	if closed {
		log.Printf("[Server] Closed during spawn, stopping run %s", runID)
		if err := s.Stop(context.Background()); err != nil {
			log.Printf("[Server] Warning: %v", err)
		}
		return ErrClosed
	}

	if s.OnStarted != nil {
		s.OnStarted(status)
	}
	return nil
}

// reap waits for cmd so the child never lingers as a zombie.
func (s *ServerProcess) reap(cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()

	s.mu.Lock()
	stopping := s.stopping
	if s.cmd == cmd {
		s.isRunning = false
		if err != nil && !stopping {
			s.lastErr = fmt.Errorf("server exited: %w", err)
		}
	}
	s.mu.Unlock()

	if err != nil && !stopping {
		log.Printf("[Server] Server process %d exited: %v", cmd.Process.Pid, err)
	} else {
		log.Printf("[Server] Server process %d exited", cmd.Process.Pid)
	}
	close(exited)
}

// Stop terminates the child and its descendants, waiting at most
// StopGracePeriod (or until ctx ends) before killing.
func (s *ServerProcess) Stop(ctx context.Context) error {
	s.mu.Lock()
	cmd, exited := s.cmd, s.exited
	if !s.isRunning || cmd == nil {
		s.mu.Unlock()
		log.Printf("[Server] Server process already stopped")
		return nil
	}
	if cmd.Process == nil {
		s.isRunning = false
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	s.mu.Unlock()

	pid := cmd.Process.Pid
	log.Printf("[Server] Stopping server process %d", pid)

	if err := terminateTree(pid); err != nil {
		log.Printf("[Server] Graceful terminate of %d failed: %v", pid, err)
	}

	stopCtx, cancel := context.WithTimeout(ctx, StopGracePeriod)
	defer cancel()

	select {
	case <-exited:
	case <-stopCtx.Done():
		log.Printf("[Server] Server process %d did not exit in time, killing", pid)
		if err := killTree(pid); err != nil {
			return fmt.Errorf("kill server process %d: %w", pid, err)
		}
		<-exited
	}

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()

	log.Printf("[Server] Server process stopped")
	return nil
}

// Close stops the child for good: later Start calls fail with ErrClosed.
// A spawn already in flight is waited for, bounded by ctx; if ctx ends first
// that spawn stops its own child once it completes.
func (s *ServerProcess) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	spawning := s.spawning
	s.mu.Unlock()

	if spawning != nil {
		log.Printf("[Server] Waiting for spawn in flight")
		select {
		case <-spawning:
		case <-ctx.Done():
			log.Printf("[Server] Spawn still in flight at close: %v", ctx.Err())
		}
	}
	return s.Stop(ctx)
}

// Restart stops the current child and launches a fresh one in the background.
func (s *ServerProcess) Restart(ctx context.Context) {
	if err := s.Stop(ctx); err != nil {
		log.Printf("[Server] Warning: stop before restart failed: %v", err)
	}
	s.LaunchBackground()
}

// Exited returns a channel closed when the current child exits, nil before
// the first successful start.
func (s *ServerProcess) Exited() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited
}

// IsRunning reports whether a spawned child is still alive.
func (s *ServerProcess) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// PID returns the child pid or ErrNotRunning.
func (s *ServerProcess) PID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning || s.cmd == nil || s.cmd.Process == nil {
		return 0, ErrNotRunning
	}
	return s.cmd.Process.Pid, nil
}

// Err returns the error that ended the latest launch attempt, either a
// spawn failure or an unexpected exit. It is nil while a launch is pending
// or the child runs.
func (s *ServerProcess) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Status returns a snapshot of the process state.
func (s *ServerProcess) Status() ProcessStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *ServerProcess) statusLocked() ProcessStatus {
	st := ProcessStatus{
		RunID:     s.runID,
		Running:   s.isRunning,
		StartedAt: s.startedAt,
	}
	if s.isRunning && s.cmd != nil && s.cmd.Process != nil {
		st.PID = s.cmd.Process.Pid
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

// Config returns the process description.
func (s *ServerProcess) Config() *ProcessConfig {
	return s.config
}
