package main

import (
	"context"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/PixPMusic/gopher-flexi/internal/actions"
	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/config"
	"github.com/PixPMusic/gopher-flexi/internal/engine"
	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/tray"
	"github.com/PixPMusic/gopher-flexi/internal/window"
	"github.com/sirupsen/logrus"
)

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func loadBindings(log logrus.FieldLogger, eng *engine.Engine, cfg *config.Config) {
	list, errs := cfg.BindingList()
	for _, err := range errs {
		log.WithError(err).Warn("invalid binding in config")
	}
	for _, err := range eng.Load(list) {
		log.WithError(err).Warn("binding not loaded")
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := newLogger(cfg.LogLevel)

	// Initialize MIDI manager
	midiManager := midi.NewManager(log)
	defer midiManager.Close()

	// The action catalogue follows the configured surfaces
	registry := actions.NewDefaultRegistry(cfg.Capabilities())
	state := host.NewMemory()

	eng := engine.New(binding.NewTable(), registry, state, nil, engine.Options{
		Log:          log,
		LearnTimeout: cfg.LearnTimeout(),
		EchoWindow:   cfg.EchoWindow(),
	})
	defer eng.Close()
	loadBindings(log, eng, cfg)

	devices := newDeviceSet(midiManager, eng, log)
	defer devices.close()

	// Create Fyne app
	fyneApp := app.NewWithID("com.pixpmusic.gopherflexi")

	mainWindow := window.NewMainWindow(fyneApp, cfg, log, midiManager, eng, func() {
		devices.open(cfg.Devices)
	})

	// Config is only touched on the UI goroutine
	eng.OnLearnResult(mainWindow.LearnFinished)
	eng.OnBindingsChanged(func(bindings []binding.Binding) {
		mainWindow.BindingsChanged(bindings)
		fyne.Do(func() {
			cfg.SetBindings(bindings)
			if err := cfg.Save(); err != nil {
				log.WithError(err).Error("failed to save bindings")
			}
		})
	})

	// Setup system tray
	tray.Setup(fyneApp, cfg, log, tray.Callbacks{
		OnOpen:    mainWindow.Show,
		OnRefresh: eng.Refresh,
		OnQuit:    fyneApp.Quit,
	})

	// Connect devices, initialize surfaces and send current state
	devices.open(cfg.Devices)

	// Show window if first launch, otherwise run in background
	if !cfg.FirstLaunchCompleted {
		cfg.FirstLaunchCompleted = true
		if err := cfg.Save(); err != nil {
			log.WithError(err).Error("failed to save config")
		}
		mainWindow.Show()
	}

	// Pick up bindings edited by hand while running
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = config.Watch(ctx, cfg.Path(), func(next *config.Config, err error) {
		if err != nil {
			log.WithError(err).Warn("config reload failed")
			return
		}
		fyne.Do(func() {
			if slices.Equal(next.Bindings, cfg.Bindings) {
				return
			}
			log.WithField("path", cfg.Path()).Info("config changed on disk, reloading bindings")
			cfg.Bindings = next.Bindings
			loadBindings(log, eng, next)
			mainWindow.BindingsChanged(eng.Bindings())
		})
	})
	if err != nil {
		log.WithError(err).Warn("not watching config")
	}

	// Run the Fyne app (this blocks until app.Quit is called)
	fyneApp.Run()
}
