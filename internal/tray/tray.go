package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/PixPMusic/gopher-flexi/internal/config"
	"github.com/PixPMusic/gopher-flexi/internal/startup"
	"github.com/sirupsen/logrus"
)

// Callbacks for tray menu actions
type Callbacks struct {
	OnOpen    func()
	OnRefresh func()
	OnQuit    func()
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

// Setup initializes the system tray using Fyne's built-in support
func Setup(app fyne.App, cfg *config.Config, log logrus.FieldLogger, callbacks Callbacks) {
	desk, ok := app.(desktop.App)
	if !ok {
		log.Debug("no system tray on this driver")
		return
	}

	openItem := fyne.NewMenuItem("Open GopherFlexi", call(callbacks.OnOpen))
	refreshItem := fyne.NewMenuItem("Resend Feedback", call(callbacks.OnRefresh))

	startupItem := fyne.NewMenuItem("Open at Startup", nil)
	startupItem.Checked = cfg.OpenAtStartup

	quitItem := fyne.NewMenuItem("Quit", call(callbacks.OnQuit))

	menu := fyne.NewMenu("GopherFlexi",
		openItem,
		refreshItem,
		fyne.NewMenuItemSeparator(),
		startupItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	// Set the action after menu is created so we can refresh it
	startupItem.Action = func() {
		on := !startupItem.Checked
		if err := startup.Set(on); err != nil {
			log.WithError(err).Warn("failed to change startup registration")
			return
		}
		startupItem.Checked = on
		cfg.OpenAtStartup = on
		if err := cfg.Save(); err != nil {
			log.WithError(err).Warn("failed to save config")
		}
		menu.Refresh()
	}

	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.MediaPlayIcon())
}
