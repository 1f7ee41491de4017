package desktop

import (
	"context"
	"errors"
	"net"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sahat-almajd/desktop/internal/config"
	"github.com/sahat-almajd/desktop/internal/core"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.WorkingDir = t.TempDir()
	cfg.DataDir = t.TempDir()
	cfg.LogServerOutput = false
	cfg.ProbeInterval = 20 * time.Millisecond
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, start core.StartFunc) *LauncherApp {
	t.Helper()
	if start == nil {
		start = func(*exec.Cmd) error { return nil }
	}
	app, err := NewLauncherApp(cfg, start)
	if err != nil {
		t.Fatalf("NewLauncherApp() error = %v", err)
	}
	app.SetWindow(&fakeWindow{})
	return app
}

func waitLaunched(t *testing.T, app *LauncherApp) {
	t.Helper()
	select {
	case <-app.Server().Launched():
	case <-time.After(5 * time.Second):
		t.Fatal("launch attempt did not finish")
	}
}

func freeAddr(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()
	return "127.0.0.1", addr.Port
}

func TestDefaultCommandRequestsFixedPort(t *testing.T) {
	t.Setenv("PORT", "5000")
	app := newTestApp(t, testConfig(t), nil)

	pc := app.Server().Config()
	if pc.Line != "npm run start -- -p 3004" {
		t.Errorf("command line = %q", pc.Line)
	}
	if last := pc.Args[len(pc.Args)-1]; !strings.HasSuffix(last, "-p 3004") {
		t.Errorf("last arg = %q, want suffix -p 3004", last)
	}
	for _, kv := range pc.Env {
		if strings.HasPrefix(kv, "PORT=") && kv != "PORT=3004" {
			t.Errorf("env carries %q", kv)
		}
	}
	if pc.Dir != app.Root() {
		t.Errorf("Dir = %q, want root %q", pc.Dir, app.Root())
	}
}

func TestLaunchServerDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	app := newTestApp(t, testConfig(t), func(*exec.Cmd) error {
		<-release
		return nil
	})

	started := time.Now()
	app.LaunchServer()
	if elapsed := time.Since(started); elapsed > 50*time.Millisecond {
		t.Errorf("LaunchServer took %v, want < 50ms", elapsed)
	}

	close(release)
	waitLaunched(t, app)
}

func TestLaunchServerSpawnFailureIsNonFatal(t *testing.T) {
	app := newTestApp(t, testConfig(t), func(*exec.Cmd) error {
		return exec.ErrNotFound
	})

	app.LaunchServer()
	waitLaunched(t, app)

	status := app.CheckServerStatus()
	if status.Running {
		t.Error("Running = true after failed spawn")
	}
	if status.Error == "" {
		t.Error("spawn error not reported in status")
	}
	if status.Label() != "failed" {
		t.Errorf("Label() = %q, want failed", status.Label())
	}
	if _, err := os.Stat(app.cfg.StatePath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run state written for failed spawn: %v", err)
	}
}

func TestRunStateRecordedAndCleared(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg, nil)

	app.LaunchServer()
	waitLaunched(t, app)

	state, err := core.LoadState(cfg.StatePath())
	if err != nil || state == nil {
		t.Fatalf("LoadState() = %v, %v", state, err)
	}
	if state.Port != 3004 || state.Root != app.Root() || state.RunID == "" {
		t.Errorf("state = %+v", state)
	}

	hookCalled := false
	app.AddShutdownHook(func(ctx context.Context) error {
		hookCalled = true
		return nil
	})
	app.Shutdown(context.Background())

	if !hookCalled {
		t.Error("shutdown hook not called")
	}
	if app.Server().IsRunning() {
		t.Error("server still running after Shutdown")
	}
	if state, _ := core.LoadState(cfg.StatePath()); state != nil {
		t.Error("run state not cleared on shutdown")
	}
}

func TestShutdownKeepsServerWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.KeepServerOnExit = true
	app := newTestApp(t, cfg, nil)

	app.LaunchServer()
	waitLaunched(t, app)
	app.Shutdown(context.Background())

	if !app.Server().IsRunning() {
		t.Error("server stopped despite keep_server_on_exit")
	}
	if state, _ := core.LoadState(cfg.StatePath()); state == nil {
		t.Error("run state removed although the server was kept")
	}
}

func TestDomReadyNavigatesWhenServerListens(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Host = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	app := newTestApp(t, cfg, nil)
	win := &fakeWindow{}
	app.SetWindow(win)

	ctx := context.Background()
	app.Startup(ctx)
	app.DomReady(ctx)

	if !win.waitFor("ExecJS", `window.location.replace("`+cfg.ServerURL()+`")`, 3*time.Second) {
		t.Fatalf("window not navigated, calls = %+v", win.snapshot())
	}
	if !win.has("Emit", EventServerReady) {
		t.Error("ready event not emitted")
	}

	// Further DomReady calls after navigation are ignored.
	before := len(win.snapshot())
	app.DomReady(ctx)
	time.Sleep(50 * time.Millisecond)
	if after := len(win.snapshot()); after != before {
		t.Errorf("DomReady after navigation produced %d calls", after-before)
	}
}

func TestDomReadyReportsTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Host, cfg.Port = freeAddr(t)
	cfg.ReadyTimeout = 200 * time.Millisecond
	app := newTestApp(t, cfg, nil)
	win := &fakeWindow{}
	app.SetWindow(win)

	app.DomReady(context.Background())

	if !win.waitFor("Emit", EventServerFailed, 3*time.Second) {
		t.Fatalf("failure not emitted, calls = %+v", win.snapshot())
	}
	if win.has("ExecJS", "location.replace") {
		t.Error("navigated although the server never answered")
	}
}

func TestWindowActionsNeedContext(t *testing.T) {
	app := newTestApp(t, testConfig(t), nil)
	win := &fakeWindow{}
	app.SetWindow(win)

	app.Quit()
	app.ZoomIn()
	if calls := win.snapshot(); len(calls) != 0 {
		t.Fatalf("runtime called before Startup: %+v", calls)
	}

	select {
	case <-app.Ready():
		t.Fatal("Ready closed before Startup")
	default:
	}

	app.Startup(context.Background())
	<-app.Ready()

	app.ZoomIn()
	app.ZoomIn()
	if app.ZoomLevel() != 3 {
		t.Errorf("ZoomLevel() = %d, want 3", app.ZoomLevel())
	}
	if !win.has("ExecJS", zoomJS(3)) {
		t.Error("zoom not applied")
	}

	app.ResetZoom()
	app.OpenInBrowser()
	app.ShowWindow()
	app.Quit()

	if app.ZoomLevel() != 0 {
		t.Errorf("ZoomLevel() after reset = %d", app.ZoomLevel())
	}
	if !win.has("OpenURL", "http://localhost:3004") {
		t.Error("OpenInBrowser did not open the server URL")
	}
	if !win.has("Show", "") || !win.has("Quit", "") {
		t.Errorf("calls = %+v", win.snapshot())
	}
}

func TestRestartServerReloadsApp(t *testing.T) {
	spawns := 0
	app := newTestApp(t, testConfig(t), func(*exec.Cmd) error {
		spawns++
		return nil
	})
	win := &fakeWindow{}
	app.SetWindow(win)
	app.Startup(context.Background())

	if err := app.Server().Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	app.RestartServer()
	waitLaunched(t, app)

	if spawns != 2 {
		t.Errorf("spawns = %d, want 2", spawns)
	}
	if !win.has("ReloadApp", "") {
		t.Error("window not sent back to the loading page")
	}
}

func TestBridgeDelegates(t *testing.T) {
	app := newTestApp(t, testConfig(t), nil)
	b := NewBridge(app)

	if b.GetServerAddress() != "http://localhost:3004" {
		t.Errorf("GetServerAddress() = %q", b.GetServerAddress())
	}
	status := b.CheckServerStatus()
	if status.Address != "http://localhost:3004" || status.Command != "npm run start -- -p 3004" {
		t.Errorf("status = %+v", status)
	}
}

func TestShutdownDuringSpawnLeavesNoServer(t *testing.T) {
	cfg := testConfig(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	app := newTestApp(t, cfg, func(*exec.Cmd) error {
		close(entered)
		<-release
		return nil
	})

	app.LaunchServer()
	<-entered

	done := make(chan struct{})
	go func() {
		app.Shutdown(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not return")
	}
	waitLaunched(t, app)

	if app.Server().IsRunning() {
		t.Error("server spawned during shutdown is still running")
	}
	if state, _ := core.LoadState(cfg.StatePath()); state != nil {
		t.Errorf("run state left behind: %+v", state)
	}
}

func TestConcurrentZoomKeepsEveryStep(t *testing.T) {
	app := newTestApp(t, testConfig(t), nil)
	app.Startup(context.Background())

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.ZoomIn()
		}()
	}
	wg.Wait()

	if app.ZoomLevel() != 4 {
		t.Errorf("ZoomLevel() = %d, want 4", app.ZoomLevel())
	}

	for range 10 {
		app.ZoomOut()
	}
	if app.ZoomLevel() != minZoomLevel {
		t.Errorf("ZoomLevel() = %d, want clamp at %d", app.ZoomLevel(), minZoomLevel)
	}
}
