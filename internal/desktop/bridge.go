package desktop

// Bridge is the object bound to the loading page's JavaScript. It keeps the
// lifecycle hooks of LauncherApp out of the generated bindings.
type Bridge struct {
	app *LauncherApp
}

// NewBridge wraps app for binding.
func NewBridge(app *LauncherApp) *Bridge {
	return &Bridge{app: app}
}

// CheckServerStatus returns the current server status.
func (b *Bridge) CheckServerStatus() ServerStatus {
	return b.app.CheckServerStatus()
}

// GetServerAddress returns the URL the window loads.
func (b *Bridge) GetServerAddress() string {
	return b.app.GetServerAddress()
}

// RestartServer restarts the background server.
func (b *Bridge) RestartServer() {
	b.app.RestartServer()
}

// OpenInBrowser opens the server address in the system browser.
func (b *Bridge) OpenInBrowser() {
	b.app.OpenInBrowser()
}

// Quit closes the application.
func (b *Bridge) Quit() {
	b.app.Quit()
}
