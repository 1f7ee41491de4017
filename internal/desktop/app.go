package desktop

import (
	"context"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sahat-almajd/desktop/internal/config"
	"github.com/sahat-almajd/desktop/internal/core"
	"golang.org/x/sync/errgroup"
)

// Events emitted to the loading page.
const (
	EventServerStarting = "server:starting"
	EventServerReady    = "server:ready"
	EventServerFailed   = "server:failed"
)

// statusProbeTimeout bounds the port check behind CheckServerStatus.
const statusProbeTimeout = 300 * time.Millisecond

// ServerStatus is returned to the loading page, the tray and the menu.
type ServerStatus struct {
	Running bool   `json:"running"`
	Ready   bool   `json:"ready"`
	PID     int    `json:"pid"`
	RunID   string `json:"runId"`
	Address string `json:"address"`
	Root    string `json:"root"`
	Command string `json:"command"`
	Error   string `json:"error,omitempty"`
}

// ShutdownHook runs while the application shuts down.
type ShutdownHook func(ctx context.Context) error

// LauncherApp ties the background server to the window lifecycle.
type LauncherApp struct {
	cfg    *config.Config
	root   string
	server *core.ServerProcess
	window Window

	mu        sync.Mutex
	ctx       context.Context
	hooks     []ShutdownHook
	serverLog io.Closer

	ready     chan struct{}
	readyOnce sync.Once
	navigated atomic.Bool
	zoom      atomic.Int32
}

// NewLauncherApp creates the desktop app. start overrides the spawn call and
// is nil outside tests.
func NewLauncherApp(cfg *config.Config, start core.StartFunc) (*LauncherApp, error) {
	a := &LauncherApp{
		cfg:    cfg,
		window: wailsWindow{},
		ready:  make(chan struct{}),
	}

	root, err := AppRoot(cfg.WorkingDir)
	if err != nil {
		// The window still opens; it will report the server as unavailable.
		log.Printf("[Launcher] Warning: %v, background server disabled", err)
		return a, nil
	}
	a.root = root

	procCfg := core.NewProcessConfig(runtime.GOOS, cfg.StartCommand, cfg.Port, root)
	if cfg.LogServerOutput && cfg.DataDir != "" {
		f, err := os.OpenFile(cfg.ServerLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("[Launcher] Warning: cannot open server log: %v", err)
		} else {
			procCfg.Output = f
			a.serverLog = f
		}
	}

	a.server = core.NewServerProcess(procCfg, start)
	a.server.OnStarted = a.recordRunState

	log.Printf("[Launcher] Application root: %s", root)
	return a, nil
}

// SetWindow replaces the runtime bridge.
func (a *LauncherApp) SetWindow(w Window) {
	a.window = w
}

// AddShutdownHook registers fn to run during Shutdown.
func (a *LauncherApp) AddShutdownHook(fn ShutdownHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Server returns the owned server process, nil when no root was found.
func (a *LauncherApp) Server() *core.ServerProcess {
	return a.server
}

// Root returns the resolved application root.
func (a *LauncherApp) Root() string {
	return a.root
}

// Ready is closed once wails has handed over its context.
func (a *LauncherApp) Ready() <-chan struct{} {
	return a.ready
}

// Context returns the wails context, nil before Startup.
func (a *LauncherApp) Context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// LaunchServer starts the background server without blocking the caller.
func (a *LauncherApp) LaunchServer() {
	if a.server == nil {
		log.Printf("[Launcher] No application root, background server not started")
		return
	}

	if !a.cfg.ReclaimPort {
		go a.warnPortInUse()
		a.server.LaunchBackground()
		return
	}

	go func() {
		a.reclaimStalePort()
		a.server.LaunchBackground()
	}()
}

func (a *LauncherApp) warnPortInUse() {
	if !core.IsListening(a.cfg.Addr(), statusProbeTimeout) {
		return
	}
	pid, err := CheckPortOccupied(a.cfg.Port)
	if err != nil || pid == -1 {
		log.Printf("[Launcher] Warning: port %d is already in use; the new server may fail to bind", a.cfg.Port)
		return
	}
	log.Printf("[Launcher] Warning: port %d is already held by PID %d; the new server may fail to bind", a.cfg.Port, pid)
}

// reclaimStalePort frees the port when a previous run left its server behind.
func (a *LauncherApp) reclaimStalePort() {
	state, err := core.LoadState(a.cfg.StatePath())
	if err != nil {
		log.Printf("[Launcher] Warning: %v", err)
	}

	if !core.IsListening(a.cfg.Addr(), statusProbeTimeout) {
		if state != nil {
			if err := core.ClearState(a.cfg.StatePath()); err != nil {
				log.Printf("[Launcher] Warning: %v", err)
			}
		}
		return
	}

	if state == nil {
		log.Printf("[Launcher] Warning: port %d is held by a process this launcher did not start, leaving it", a.cfg.Port)
		return
	}

	log.Printf("[Launcher] Port %d still held after run %s (pid %d), reclaiming", state.Port, state.RunID, state.PID)
	if err := TerminateProcessByPort(state.Port); err != nil {
		log.Printf("[Launcher] Warning: failed to reclaim port %d: %v", state.Port, err)
		return
	}
	if err := core.ClearState(a.cfg.StatePath()); err != nil {
		log.Printf("[Launcher] Warning: %v", err)
	}
}

func (a *LauncherApp) recordRunState(st core.ProcessStatus) {
	if a.cfg.DataDir == "" {
		return
	}
	state := core.NewRunState(a.server.Config(), st)
	if err := core.SaveState(a.cfg.StatePath(), state); err != nil {
		log.Printf("[Launcher] Warning: %v", err)
	}
}

// Startup is called by wails once the window exists.
func (a *LauncherApp) Startup(ctx context.Context) {
	log.Printf("[Launcher] Startup")
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	a.readyOnce.Do(func() { close(a.ready) })
}

// DomReady is called when the loading page finished loading. It waits for
// the server in the background and then points the window at it.
func (a *LauncherApp) DomReady(ctx context.Context) {
	if a.navigated.Load() {
		return
	}
	log.Printf("[Launcher] Loading page ready, waiting for %s", a.cfg.ServerURL())
	go a.navigateWhenReady(ctx)
}

func (a *LauncherApp) navigateWhenReady(ctx context.Context) {
	a.window.Emit(ctx, EventServerStarting, a.cfg.ServerURL())

	if a.server == nil {
		a.window.Emit(ctx, EventServerFailed, ErrNoRoot.Error())
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.ReadyTimeout)
	defer cancel()

	if _, err := core.WaitReady(waitCtx, a.cfg.Addr(), a.cfg.ProbeInterval, a.server.Err); err != nil {
		msg := err.Error()
		if spawnErr := a.server.Err(); spawnErr != nil {
			msg = spawnErr.Error()
		}
		log.Printf("[Launcher] Server not ready: %s", msg)
		a.window.Emit(ctx, EventServerFailed, msg)
		return
	}

	if !a.navigated.CompareAndSwap(false, true) {
		return
	}
	a.window.Emit(ctx, EventServerReady, a.cfg.ServerURL())
	a.window.ExecJS(ctx, navigateJS(a.cfg.ServerURL()))
}

func navigateJS(url string) string {
	return "window.location.replace(" + strconv.Quote(url) + ");"
}

// Shutdown stops the tray and the server concurrently. A launch still in
// flight is closed as well, so no child outlives the window.
func (a *LauncherApp) Shutdown(ctx context.Context) {
	log.Printf("[Launcher] Shutting down")

	a.mu.Lock()
	hooks := append([]ShutdownHook(nil), a.hooks...)
	a.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, hook := range hooks {
		g.Go(func() error { return hook(gctx) })
	}

	stopServer := a.server != nil && !a.cfg.KeepServerOnExit
	if stopServer {
		g.Go(func() error { return a.server.Close(gctx) })
	}

	if err := g.Wait(); err != nil {
		log.Printf("[Launcher] Shutdown error: %v", err)
	}

	if stopServer && a.cfg.DataDir != "" {
		if err := core.ClearState(a.cfg.StatePath()); err != nil {
			log.Printf("[Launcher] Warning: %v", err)
		}
	}
	if a.serverLog != nil {
		a.serverLog.Close()
	}
	log.Printf("[Launcher] Shutdown complete")
}

// CheckServerStatus reports the child state and whether the port answers.
func (a *LauncherApp) CheckServerStatus() ServerStatus {
	status := ServerStatus{
		Address: a.cfg.ServerURL(),
		Root:    a.root,
		Ready:   core.IsListening(a.cfg.Addr(), statusProbeTimeout),
	}
	if a.server == nil {
		status.Error = ErrNoRoot.Error()
		return status
	}

	st := a.server.Status()
	status.Running = st.Running
	status.PID = st.PID
	status.RunID = st.RunID
	status.Error = st.Error
	status.Command = a.server.Config().Line
	return status
}

// GetServerAddress returns the URL the window loads.
func (a *LauncherApp) GetServerAddress() string {
	return a.cfg.ServerURL()
}

// RestartServer restarts the child and sends the window back to the
// loading page, which navigates again once the new server answers.
func (a *LauncherApp) RestartServer() {
	if a.server == nil {
		return
	}
	log.Printf("[Launcher] Restarting server")

	stopCtx, cancel := context.WithTimeout(context.Background(), core.StopGracePeriod+time.Second)
	defer cancel()
	a.server.Restart(stopCtx)

	a.navigated.Store(false)
	if ctx := a.Context(); ctx != nil {
		a.window.ReloadApp(ctx)
	}
}

// withContext runs fn with the wails context once it exists.
func (a *LauncherApp) withContext(fn func(ctx context.Context)) {
	if ctx := a.Context(); ctx != nil {
		fn(ctx)
	}
}

// Quit ends the run loop.
func (a *LauncherApp) Quit() {
	a.withContext(a.window.Quit)
}

// ShowWindow brings the window back, e.g. from the tray.
func (a *LauncherApp) ShowWindow() {
	a.withContext(a.window.Show)
}

// Reload reloads the current page.
func (a *LauncherApp) Reload() {
	a.withContext(a.window.Reload)
}

// ToggleFullscreen switches between fullscreen and windowed.
func (a *LauncherApp) ToggleFullscreen() {
	a.withContext(a.window.ToggleFullscreen)
}

// GoBack navigates back in page history.
func (a *LauncherApp) GoBack() {
	a.withContext(func(ctx context.Context) { a.window.ExecJS(ctx, "history.back();") })
}

// GoForward navigates forward in page history.
func (a *LauncherApp) GoForward() {
	a.withContext(func(ctx context.Context) { a.window.ExecJS(ctx, "history.forward();") })
}

// OpenInBrowser opens the server address in the system browser.
func (a *LauncherApp) OpenInBrowser() {
	a.withContext(func(ctx context.Context) { a.window.OpenURL(ctx, a.cfg.ServerURL()) })
}

// ZoomIn enlarges the page by one level.
func (a *LauncherApp) ZoomIn() {
	a.stepZoom(1)
}

// ZoomOut shrinks the page by one level.
func (a *LauncherApp) ZoomOut() {
	a.stepZoom(-1)
}

// ResetZoom restores the default page scale.
func (a *LauncherApp) ResetZoom() {
	a.zoom.Store(0)
	a.applyZoom(0)
}

// ZoomLevel returns the current zoom level.
func (a *LauncherApp) ZoomLevel() int {
	return int(a.zoom.Load())
}

// stepZoom moves the level by delta; concurrent accelerators never lose a step.
func (a *LauncherApp) stepZoom(delta int) {
	for {
		cur := a.zoom.Load()
		next := int32(clampZoom(int(cur) + delta))
		if a.zoom.CompareAndSwap(cur, next) {
			a.applyZoom(int(next))
			return
		}
	}
}

func (a *LauncherApp) applyZoom(level int) {
	a.withContext(func(ctx context.Context) { a.window.ExecJS(ctx, zoomJS(level)) })
}
