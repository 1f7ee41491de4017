package desktop

import (
	"context"
	"strings"
	"sync"
	"time"
)

type windowCall struct {
	method string
	arg    string
}

// fakeWindow records runtime calls instead of touching a real webview.
type fakeWindow struct {
	mu    sync.Mutex
	calls []windowCall
}

func (w *fakeWindow) record(method, arg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, windowCall{method: method, arg: arg})
}

func (w *fakeWindow) Emit(ctx context.Context, event string, data ...interface{}) {
	w.record("Emit", event)
}
func (w *fakeWindow) ExecJS(ctx context.Context, js string)   { w.record("ExecJS", js) }
func (w *fakeWindow) Reload(ctx context.Context)              { w.record("Reload", "") }
func (w *fakeWindow) ReloadApp(ctx context.Context)           { w.record("ReloadApp", "") }
func (w *fakeWindow) Show(ctx context.Context)                { w.record("Show", "") }
func (w *fakeWindow) Hide(ctx context.Context)                { w.record("Hide", "") }
func (w *fakeWindow) ToggleFullscreen(ctx context.Context)    { w.record("ToggleFullscreen", "") }
func (w *fakeWindow) OpenURL(ctx context.Context, url string) { w.record("OpenURL", url) }
func (w *fakeWindow) Quit(ctx context.Context)                { w.record("Quit", "") }

func (w *fakeWindow) snapshot() []windowCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]windowCall(nil), w.calls...)
}

func (w *fakeWindow) has(method, argContains string) bool {
	for _, c := range w.snapshot() {
		if c.method == method && strings.Contains(c.arg, argContains) {
			return true
		}
	}
	return false
}

// waitFor polls until the window saw the call or the timeout passes.
func (w *fakeWindow) waitFor(method, argContains string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if w.has(method, argContains) {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
