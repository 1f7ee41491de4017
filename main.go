package main

import (
	"embed"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/sahat-almajd/desktop/internal/config"
	"github.com/sahat-almajd/desktop/internal/desktop"
	"github.com/sahat-almajd/desktop/internal/logfile"
	"github.com/sahat-almajd/desktop/internal/version"
	"github.com/wailsapp/wails/v2"
)

//go:embed all:launcher
var assets embed.FS

func main() {
	dataDir := config.ResolveDataDir("")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Failed to create data directory %s: %v", dataDir, err)
	}

	if closer, err := logfile.Setup(filepath.Join(dataDir, "launcher.log")); err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
	} else {
		defer closer.Close()
	}

	log.Printf("[Main] %s %s", version.AppName, version.Full())

	cfg, err := config.Load(dataDir, "")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := desktop.NewLauncherApp(cfg, nil)
	if err != nil {
		log.Fatal("Failed to initialize desktop app:", err)
	}

	// Fire and forget: the window opens while the server boots.
	app.LaunchServer()

	if cfg.Window.Tray {
		tray := desktop.NewTrayManager(app)
		app.AddShutdownHook(tray.Stop)
		go func() {
			<-app.Ready()
			tray.Start()
		}()
	}

	launcherFS, err := fs.Sub(assets, "launcher")
	if err != nil {
		log.Fatal("Failed to load launcher assets:", err)
	}

	appMenu := desktop.NewAppMenu(app, goruntime.GOOS)
	desktop.RunWindow(desktop.WindowOptions(cfg, app, launcherFS, appMenu), wails.Run)
}
