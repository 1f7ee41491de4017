//go:build windows

package desktop

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/getlantern/systray"
)

//go:embed icon.ico
var iconData []byte

// statusRefreshInterval is how often the tray re-reads the server status.
const statusRefreshInterval = 5 * time.Second

// TrayManager owns the system tray icon and menu.
type TrayManager struct {
	app              *LauncherApp
	menuShow         *systray.MenuItem
	menuServerStatus *systray.MenuItem
	menuServerAddr   *systray.MenuItem
	menuBrowser      *systray.MenuItem
	menuRestart      *systray.MenuItem
	menuQuit         *systray.MenuItem
	done             chan struct{}
}

// NewTrayManager creates the tray for app.
func NewTrayManager(app *LauncherApp) *TrayManager {
	return &TrayManager{
		app:  app,
		done: make(chan struct{}),
	}
}

// Start runs the tray loop; it blocks until Stop.
func (t *TrayManager) Start() {
	systray.Run(t.onReady, t.onExit)
}

// Stop removes the tray icon. It matches ShutdownHook.
func (t *TrayManager) Stop(ctx context.Context) error {
	systray.Quit()
	return nil
}

func (t *TrayManager) onReady() {
	log.Println("[Tray] Initializing system tray...")

	systray.SetIcon(iconData)
	systray.SetTitle(t.app.cfg.Window.Title)
	systray.SetTooltip(t.app.cfg.Window.Title)

	t.menuShow = systray.AddMenuItem("Show Window", "Show the main window")
	systray.AddSeparator()

	t.menuServerStatus = systray.AddMenuItem("Server: checking...", "Background server status")
	t.menuServerStatus.Disable()

	t.menuServerAddr = systray.AddMenuItem("Address: -", "Background server address")
	t.menuServerAddr.Disable()

	systray.AddSeparator()

	t.menuBrowser = systray.AddMenuItem("Open in Browser", "Open the application in the system browser")
	t.menuRestart = systray.AddMenuItem("Restart Server", "Restart the background server")

	systray.AddSeparator()

	t.menuQuit = systray.AddMenuItem("Quit", "Quit the application")

	t.UpdateStatus()

	go t.handleMenuEvents()
	go t.refreshStatus()
}

func (t *TrayManager) onExit() {
	close(t.done)
	log.Println("[Tray] System tray exited")
}

func (t *TrayManager) handleMenuEvents() {
	for {
		select {
		case <-t.done:
			return

		case <-t.menuShow.ClickedCh:
			log.Println("[Tray] Show window clicked")
			t.app.ShowWindow()

		case <-t.menuBrowser.ClickedCh:
			log.Println("[Tray] Open in browser clicked")
			t.app.OpenInBrowser()

		case <-t.menuRestart.ClickedCh:
			log.Println("[Tray] Restart server clicked")
			t.app.ShowWindow()
			t.app.RestartServer()
			t.UpdateStatus()

		case <-t.menuQuit.ClickedCh:
			log.Println("[Tray] Quit clicked")
			t.app.Quit()
			return
		}
	}
}

func (t *TrayManager) refreshStatus() {
	ticker := time.NewTicker(statusRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.UpdateStatus()
		}
	}
}

// UpdateStatus refreshes the read-only status entries.
func (t *TrayManager) UpdateStatus() {
	status := t.app.CheckServerStatus()
	t.menuServerStatus.SetTitle("Server: " + status.Label())
	t.menuServerAddr.SetTitle(fmt.Sprintf("Address: %s", status.Address))
}
