package actions

import (
	"fmt"

	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
)

// Action ids of the default catalogue
const (
	TransportPlay   = "transport.play"
	TransportStop   = "transport.stop"
	TransportRecord = "transport.record"
	TransportLoop   = "transport.loop"
	TransportTempo  = "transport.tempo"

	TrackVolume = "track.volume"
	TrackPan    = "track.pan"
	TrackMute   = "track.mute"
	TrackSolo   = "track.solo"
	TrackArm    = "track.arm"
	TrackSelect = "track.select"
	TrackBank   = "track.bank"

	DeviceParam = "device.param"
	DevicePage  = "device.page"

	MixerCrossfader = "mixer.crossfader"
	ClipLaunch      = "clip.launch"
	ModeSelect      = "mode.select"
)

const (
	// BankSize is the number of tracks and parameters addressed at once
	BankSize = 8
	// SceneCount is the number of clip slots per track on a launch grid
	SceneCount = 8
)

// Modes selectable through ModeSelect
var Modes = []string{"track", "volume", "pan", "device", "clip"}

// Catalog returns the default actions available for a surface
func Catalog(caps surface.Capabilities) []*Action {
	list := []*Action{
		{ID: TransportPlay, Name: "Play", Min: 0, Max: 1},
		{ID: TransportStop, Name: "Stop", Min: 0, Max: 1, after: stopTransport},
		{ID: TransportRecord, Name: "Record", Min: 0, Max: 1},
		{ID: TransportLoop, Name: "Loop", Min: 0, Max: 1},
		{ID: TransportTempo, Name: "Tempo", Min: 20, Max: 666, Relative: true},

		{ID: TrackVolume, Name: "Track Volume", Min: 0, Max: 127, Channels: BankSize},
		{ID: TrackPan, Name: "Track Pan", Min: -64, Max: 63, Channels: BankSize},
		{ID: TrackMute, Name: "Track Mute", Min: 0, Max: 1, Channels: BankSize},
		{ID: TrackSolo, Name: "Track Solo", Min: 0, Max: 1, Channels: BankSize},
		{ID: TrackArm, Name: "Track Arm", Min: 0, Max: 1, Channels: BankSize},
		{ID: TrackSelect, Name: "Track Select", Min: 0, Max: BankSize - 1},
		{ID: TrackBank, Name: "Track Bank", Min: 0, Max: 127, Relative: true},

		{ID: DeviceParam, Name: "Device Parameter", Min: 0, Max: 127, Channels: BankSize},
		{ID: DevicePage, Name: "Device Page", Min: 0, Max: 127, Relative: true},

		{ID: ModeSelect, Name: "Mode", Min: 0, Max: len(Modes) - 1},
	}

	if caps.HasCrossfader {
		list = append(list, &Action{ID: MixerCrossfader, Name: "Crossfader", Min: 0, Max: 127})
	}
	if caps.HasClips {
		list = append(list, &Action{ID: ClipLaunch, Name: "Launch Clip", Min: 0, Max: 1, Channels: BankSize * SceneCount})
	}
	return list
}

// stopTransport ends playback and recording when stop is pressed
func stopTransport(h host.Provider, _, value int) {
	if value == 0 {
		return
	}
	h.SetValue(host.Key{Action: TransportPlay}, 0)
	h.SetValue(host.Key{Action: TransportRecord}, 0)
}

// NewDefaultRegistry builds a registry holding the catalogue for caps
func NewDefaultRegistry(caps surface.Capabilities) *Registry {
	r := NewRegistry()
	for _, a := range Catalog(caps) {
		if err := r.Register(a); err != nil {
			panic(fmt.Sprintf("default action catalogue: %v", err))
		}
	}
	if caps.RelativeCC != midi.EncodingDefault {
		r.SetRelativeEncoding(midi.KindCC, caps.RelativeCC)
	}
	return r
}
