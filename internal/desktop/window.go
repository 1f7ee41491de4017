package desktop

import (
	"context"
	"io/fs"
	"log"

	"github.com/sahat-almajd/desktop/internal/config"
	"github.com/sahat-almajd/desktop/internal/version"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Window is the subset of the wails runtime the launcher drives.
type Window interface {
	Emit(ctx context.Context, event string, data ...interface{})
	ExecJS(ctx context.Context, js string)
	Reload(ctx context.Context)
	ReloadApp(ctx context.Context)
	Show(ctx context.Context)
	Hide(ctx context.Context)
	ToggleFullscreen(ctx context.Context)
	OpenURL(ctx context.Context, url string)
	Quit(ctx context.Context)
}

// wailsWindow forwards to the wails runtime. ctx must be the one wails
// passed to OnStartup.
type wailsWindow struct{}

func (wailsWindow) Emit(ctx context.Context, event string, data ...interface{}) {
	runtime.EventsEmit(ctx, event, data...)
}

func (wailsWindow) ExecJS(ctx context.Context, js string) {
	runtime.WindowExecJS(ctx, js)
}

func (wailsWindow) Reload(ctx context.Context) {
	runtime.WindowReload(ctx)
}

func (wailsWindow) ReloadApp(ctx context.Context) {
	runtime.WindowReloadApp(ctx)
}

func (wailsWindow) Show(ctx context.Context) {
	runtime.WindowShow(ctx)
	runtime.WindowUnminimise(ctx)
}

func (wailsWindow) Hide(ctx context.Context) {
	runtime.WindowHide(ctx)
}

func (wailsWindow) ToggleFullscreen(ctx context.Context) {
	if runtime.WindowIsFullscreen(ctx) {
		runtime.WindowUnfullscreen(ctx)
		return
	}
	runtime.WindowFullscreen(ctx)
}

func (wailsWindow) OpenURL(ctx context.Context, url string) {
	runtime.BrowserOpenURL(ctx, url)
}

func (wailsWindow) Quit(ctx context.Context) {
	runtime.Quit(ctx)
}

// RunFunc enters the window run loop and returns when it exits.
// Production code passes wails.Run.
type RunFunc func(*options.App) error

// fatalf ends the process; replaced in tests.
var fatalf = log.Fatalf

// RunWindow blocks in run until the window closes. A run error means the
// window never came up and is fatal.
func RunWindow(opts *options.App, run RunFunc) {
	log.Printf("[Window] Initializing %q", opts.Title)
	if err := run(opts); err != nil {
		fatalf("[Window] Error while running application: %v", err)
		return
	}
	log.Printf("[Window] Run loop exited")
}

// WindowOptions builds the wails configuration for app.
func WindowOptions(cfg *config.Config, app *LauncherApp, assets fs.FS, appMenu *menu.Menu) *options.App {
	return &options.App{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		MinWidth:  cfg.Window.MinWidth,
		MinHeight: cfg.Window.MinHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		OnStartup:        app.Startup,
		OnDomReady:       app.DomReady,
		OnBeforeClose:    app.BeforeClose,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			NewBridge(app),
		},
		Menu: appMenu,
		Debug: options.Debug{
			OpenInspectorOnStartup: cfg.Window.Debug,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Mac: &mac.Options{
			TitleBar: mac.TitleBarDefault(),
			About: &mac.AboutInfo{
				Title:   cfg.Window.Title,
				Message: version.AppName + " " + version.Info(),
			},
		},
	}
}
