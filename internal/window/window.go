package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/config"
	"github.com/PixPMusic/gopher-flexi/internal/engine"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/sirupsen/logrus"
)

// MainWindow manages the main application window
type MainWindow struct {
	window      fyne.Window
	app         fyne.App
	cfg         *config.Config
	log         logrus.FieldLogger
	midiManager *midi.Manager
	engine      *engine.Engine
	onDevices   func()

	// Devices tab
	deviceList *widget.List

	// Bindings tab
	bindings     []binding.Binding
	bindingList  *widget.List
	learnLabel   *widget.Label
	cancelBtn    *widget.Button
	duplicateMsg *widget.Label
}

// NewMainWindow creates the main application window. onDevices runs after
// the device list has been saved so ports can be reopened.
func NewMainWindow(app fyne.App, cfg *config.Config, log logrus.FieldLogger, midiManager *midi.Manager, eng *engine.Engine, onDevices func()) *MainWindow {
	win := app.NewWindow("GopherFlexi")

	mw := &MainWindow{
		window:      win,
		app:         app,
		cfg:         cfg,
		log:         log,
		midiManager: midiManager,
		engine:      eng,
		onDevices:   onDevices,
		bindings:    eng.Bindings(),
	}

	mw.setupUI()

	win.Resize(fyne.NewSize(1100, 620))
	win.CenterOnScreen()

	win.SetCloseIntercept(func() {
		mw.engine.Cancel()
		win.Hide()
	})

	return mw
}

// Show brings the window to the front
func (mw *MainWindow) Show() {
	mw.window.Show()
	mw.window.RequestFocus()
}

func (mw *MainWindow) setupUI() {
	bindingsTab := container.NewTabItem("Bindings", mw.createBindingsTab())
	devicesTab := container.NewTabItem("Devices", mw.createDevicesTab())

	tabs := container.NewAppTabs(bindingsTab, devicesTab)
	tabs.SetTabLocation(container.TabLocationTop)

	mw.window.SetContent(tabs)
}

// BindingsChanged refreshes the bindings list. Safe to call from any goroutine.
func (mw *MainWindow) BindingsChanged(bindings []binding.Binding) {
	fyne.Do(func() {
		mw.bindings = bindings
		mw.refreshBindings()
	})
}

// LearnFinished shows the outcome of a learn session. Safe to call from any
// goroutine.
func (mw *MainWindow) LearnFinished(res engine.LearnResult) {
	fyne.Do(func() {
		mw.cancelBtn.Disable()
		if res.Err != nil {
			mw.learnLabel.SetText(res.Err.Error())
			return
		}
		mw.learnLabel.SetText("Learned " + res.Binding.Trigger.String())
	})
}
