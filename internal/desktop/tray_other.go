//go:build !windows

package desktop

import "context"

// TrayManager is a no-op outside Windows.
type TrayManager struct{}

// NewTrayManager creates a no-op tray manager.
func NewTrayManager(app *LauncherApp) *TrayManager {
	return &TrayManager{}
}

// Start is a no-op on non-Windows platforms.
func (t *TrayManager) Start() {}

// Stop is a no-op on non-Windows platforms.
func (t *TrayManager) Stop(ctx context.Context) error { return nil }

// UpdateStatus is a no-op on non-Windows platforms.
func (t *TrayManager) UpdateStatus() {}
