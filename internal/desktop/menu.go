package desktop

import (
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

// NewAppMenu builds the application menu. macOS additionally gets the
// standard App and Edit menus so copy/paste shortcuts work.
func NewAppMenu(app *LauncherApp, goos string) *menu.Menu {
	appMenu := menu.NewMenu()

	if goos == "darwin" {
		appMenu.Append(menu.AppMenu())
	}

	fileMenu := appMenu.AddSubmenu("File")
	fileMenu.AddText("Reload", keys.Key("f5"), func(_ *menu.CallbackData) {
		app.Reload()
	})
	fileMenu.AddText("Open in Browser", nil, func(_ *menu.CallbackData) {
		app.OpenInBrowser()
	})
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		app.Quit()
	})

	if goos == "darwin" {
		appMenu.Append(menu.EditMenu())
	}

	viewMenu := appMenu.AddSubmenu("View")
	// "=" is the unshifted plus key, so no Shift is needed.
	viewMenu.AddText("Zoom In", keys.CmdOrCtrl("="), func(_ *menu.CallbackData) {
		app.ZoomIn()
	})
	viewMenu.AddText("Zoom Out", keys.CmdOrCtrl("-"), func(_ *menu.CallbackData) {
		app.ZoomOut()
	})
	viewMenu.AddText("Actual Size", keys.CmdOrCtrl("0"), func(_ *menu.CallbackData) {
		app.ResetZoom()
	})
	viewMenu.AddSeparator()
	viewMenu.AddText("Toggle Full Screen", keys.Key("f11"), func(_ *menu.CallbackData) {
		app.ToggleFullscreen()
	})

	navMenu := appMenu.AddSubmenu("Navigate")
	navMenu.AddText("Back", keys.OptionOrAlt("left"), func(_ *menu.CallbackData) {
		app.GoBack()
	})
	navMenu.AddText("Forward", keys.OptionOrAlt("right"), func(_ *menu.CallbackData) {
		app.GoForward()
	})

	serverMenu := appMenu.AddSubmenu("Server")
	serverMenu.AddText("Restart Server", nil, func(_ *menu.CallbackData) {
		// Restart waits for the old process; keep the UI thread free.
		go app.RestartServer()
	})

	return appMenu
}
