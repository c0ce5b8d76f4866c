package main

import (
	"sync"

	"github.com/PixPMusic/gopher-flexi/internal/config"
	"github.com/PixPMusic/gopher-flexi/internal/engine"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// deviceSet owns the open listeners and output ports of the configured devices
type deviceSet struct {
	mu      sync.Mutex
	manager *midi.Manager
	engine  *engine.Engine
	log     logrus.FieldLogger
	stops   []func()
}

func newDeviceSet(manager *midi.Manager, eng *engine.Engine, log logrus.FieldLogger) *deviceSet {
	return &deviceSet{manager: manager, engine: eng, log: log}
}

// open (re)connects every device: outputs are initialized for their surface
// and collected as the feedback sink, inputs feed the engine. The current
// host state is sent once everything is connected.
func (d *deviceSet) open(devices []config.DeviceConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closeLocked()

	var sinks engine.MultiSink
	for _, device := range devices {
		log := d.log.WithFields(logrus.Fields{"device": device.Name, "surface": device.Type})

		if device.OutPort != "" {
			sink, err := d.manager.OpenSink(device.OutPort)
			if err != nil {
				log.WithError(err).Warn("output unavailable")
			} else {
				profile := surface.Lookup(device.Type)
				if err := profile.Init(func(m gomidi.Message) error { return sink.Send(m.Bytes()) }); err != nil {
					log.WithError(err).Warn("surface init failed")
				}
				sinks = append(sinks, sink)
			}
		}

		if device.InPort != "" {
			stop, err := d.manager.StartListening(device.InPort, func(_ string, raw []byte) {
				d.engine.OnMidiEvent(raw)
			})
			if err != nil {
				log.WithError(err).Warn("input unavailable")
			} else if stop != nil {
				d.stops = append(d.stops, stop)
			}
		}
	}

	d.engine.SetSink(sinks)
	d.engine.Refresh()
	d.log.WithFields(logrus.Fields{"inputs": len(d.stops), "outputs": len(sinks)}).Info("devices connected")
}

func (d *deviceSet) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *deviceSet) closeLocked() {
	for _, stop := range d.stops {
		stop()
	}
	d.stops = nil
	d.engine.SetSink(nil)
}
