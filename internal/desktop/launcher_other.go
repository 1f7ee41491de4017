//go:build !windows

package desktop

import (
	"context"
	"log"
)

// BeforeClose lets the window close and the run loop exit; there is no tray
// to hide into on this platform.
func (a *LauncherApp) BeforeClose(ctx context.Context) bool {
	log.Println("[Launcher] Window close requested")
	return false
}
