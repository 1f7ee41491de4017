//go:build windows

package desktop

import (
	"context"
	"log"
)

// BeforeClose hides the window into the tray when configured to, otherwise
// lets the run loop exit.
func (a *LauncherApp) BeforeClose(ctx context.Context) bool {
	if a.cfg.Window.HideToTray && a.cfg.Window.Tray {
		log.Println("[Launcher] Window close requested - hiding to tray")
		a.window.Hide(ctx)
		return true
	}
	log.Println("[Launcher] Window close requested")
	return false
}
