package actions

import (
	"errors"
	"testing"

	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextNeverLeavesDomain(t *testing.T) {
	domains := [][2]int{{0, 127}, {-64, 63}, {0, 1}, {20, 666}, {5, 5}, {-1000, -10}}
	raws := []int{-500, -1, 0, 1, 63, 64, 65, 127, 128, 200, 8192, 16383, 40000}
	encodings := []midi.Encoding{midi.EncodingAbsolute, midi.EncodingRelativeOffset, midi.EncodingRelativeSigned}

	for _, d := range domains {
		a := &Action{ID: "x", Min: d[0], Max: d[1]}
		for _, enc := range encodings {
			for _, rawMax := range []int{midi.MaxValue, midi.MaxPitchBend} {
				for _, raw := range raws {
					for _, current := range []int{d[0], d[1], (d[0] + d[1]) / 2} {
						for _, step := range []int{0, 1, 10, 1000} {
							for _, invert := range []bool{false, true} {
								v := a.Next(enc, raw, rawMax, current, step, invert)
								if v < d[0] || v > d[1] {
									t.Fatalf("domain %v enc %s raw %d: got %d", d, enc, raw, v)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestScaleEndpoints(t *testing.T) {
	pan := &Action{Min: -64, Max: 63}
	assert.Equal(t, -64, pan.Scale(0, 127))
	assert.Equal(t, 0, pan.Scale(64, 127))
	assert.Equal(t, 63, pan.Scale(127, 127))

	toggle := &Action{Min: 0, Max: 1}
	assert.Equal(t, 0, toggle.Scale(63, 127))
	assert.Equal(t, 1, toggle.Scale(64, 127))
	assert.Equal(t, 127, toggle.Unscale(1, 127))

	tempo := &Action{Min: 20, Max: 666}
	assert.Equal(t, 666, tempo.Scale(16383, midi.MaxPitchBend))
}

func TestUnscaleInvertsScale(t *testing.T) {
	vol := &Action{Min: 0, Max: 127}
	pan := &Action{Min: -64, Max: 63}
	for raw := 0; raw <= 127; raw++ {
		assert.Equal(t, raw, vol.Unscale(vol.Scale(raw, 127), 127))
		assert.Equal(t, raw, pan.Unscale(pan.Scale(raw, 127), 127))
	}
}

func TestNextAbsoluteInvert(t *testing.T) {
	vol := &Action{Min: 0, Max: 127}
	assert.Equal(t, 127, vol.Next(midi.EncodingAbsolute, 0, 127, 50, 1, true))
	assert.Equal(t, 127, vol.Next(midi.EncodingAbsolute, 200, 127, 0, 1, false))
	assert.Equal(t, 0, vol.Feedback(127, 127, true))
}

func TestNextRelativeStep(t *testing.T) {
	pan := &Action{Min: -64, Max: 63}
	assert.Equal(t, 1, pan.Next(midi.EncodingRelativeOffset, 65, 127, 0, 1, false))
	assert.Equal(t, 0, pan.Next(midi.EncodingRelativeOffset, 63, 127, 1, 1, false))
	assert.Equal(t, 5, pan.Next(midi.EncodingRelativeSigned, 0x01, 127, 0, 5, false))
	assert.Equal(t, -5, pan.Next(midi.EncodingRelativeSigned, 0x01, 127, 0, 5, true))
	assert.Equal(t, -64, pan.Next(midi.EncodingRelativeOffset, 0, 127, -60, 1, false))
}

func TestApplyIsIdempotent(t *testing.T) {
	h := host.NewMemory()
	vol := &Action{ID: TrackVolume, Min: 0, Max: 127, Channels: BankSize}

	changes := 0
	h.SubscribeAll(func(host.Key, int) { changes++ })

	assert.True(t, vol.Apply(h, 2, 300))
	assert.False(t, vol.Apply(h, 2, 127))
	assert.False(t, vol.Apply(h, 2, 127))
	assert.Equal(t, 1, changes)
	assert.Equal(t, 127, vol.Current(h, 2))

	assert.False(t, vol.Apply(h, BankSize, 10))
}

func TestMode(t *testing.T) {
	vol := &Action{Min: 0, Max: 127}
	bank := &Action{Min: 0, Max: 127, Relative: true}

	assert.Equal(t, midi.EncodingAbsolute, vol.Mode(midi.EncodingDefault, midi.EncodingRelativeOffset))
	assert.Equal(t, midi.EncodingRelativeOffset, vol.Mode(midi.EncodingRelativeOffset, midi.EncodingRelativeSigned))
	assert.Equal(t, midi.EncodingRelativeSigned, bank.Mode(midi.EncodingDefault, midi.EncodingRelativeSigned))
	assert.Equal(t, midi.EncodingAbsolute, bank.Mode(midi.EncodingAbsolute, midi.EncodingRelativeSigned))
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Action{ID: "a", Max: 1}))
	require.Error(t, r.Register(&Action{ID: "a", Max: 1}))
	require.Error(t, r.Register(&Action{ID: "b", Min: 2, Max: 1}))

	a, err := r.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, "a", a.ID)

	_, err = r.Resolve("missing")
	var unknown *UnknownActionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.ID)
}

func TestRegistryEncodingFor(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, midi.EncodingRelativeOffset, r.EncodingFor(midi.KindCC))

	r.SetRelativeEncoding(midi.KindCC, midi.EncodingRelativeSigned)
	assert.Equal(t, midi.EncodingRelativeSigned, r.EncodingFor(midi.KindCC))

	r.SetRelativeEncoding(midi.KindCC, midi.EncodingAbsolute)
	assert.Equal(t, midi.EncodingRelativeOffset, r.EncodingFor(midi.KindCC))
}

func TestCatalogFollowsCapabilities(t *testing.T) {
	ids := func(r *Registry) map[string]bool {
		out := map[string]bool{}
		for _, a := range r.All() {
			out[a.ID] = true
		}
		return out
	}

	sl := NewDefaultRegistry(surface.Lookup(surface.TypeSL).Capabilities)
	assert.True(t, ids(sl)[MixerCrossfader])
	assert.False(t, ids(sl)[ClipLaunch])
	assert.Equal(t, midi.EncodingRelativeSigned, sl.EncodingFor(midi.KindCC))

	lp := NewDefaultRegistry(surface.Lookup(surface.TypeLaunchpadClassic).Capabilities)
	assert.True(t, ids(lp)[ClipLaunch])
	assert.False(t, ids(lp)[MixerCrossfader])
}

func TestStopEndsPlayback(t *testing.T) {
	h := host.NewMemory()
	r := NewDefaultRegistry(surface.Capabilities{})
	play, _ := r.Resolve(TransportPlay)
	stop, _ := r.Resolve(TransportStop)

	play.Apply(h, 0, 1)
	stop.Apply(h, 0, 1)
	assert.Equal(t, 0, play.Current(h, 0))
}

func TestNextToggleFlipsOnPressOnly(t *testing.T) {
	mute := &Action{ID: TrackMute, Min: 0, Max: 1, Channels: BankSize}

	assert.Equal(t, 1, mute.Next(midi.EncodingToggle, 127, 127, 0, 1, false))
	assert.Equal(t, 1, mute.Next(midi.EncodingToggle, 0, 127, 1, 1, false))
	assert.Equal(t, 0, mute.Next(midi.EncodingToggle, 127, 127, 1, 1, false))
	assert.Equal(t, 0, mute.Next(midi.EncodingToggle, 0, 127, 0, 1, false))

	tempo := &Action{ID: TransportTempo, Min: 20, Max: 666}
	assert.Equal(t, 666, tempo.Next(midi.EncodingToggle, 1, 127, 120, 1, false))
	assert.Equal(t, 20, tempo.Next(midi.EncodingToggle, 1, 127, 666, 1, false))
}

func TestCatalogIDsAreUnique(t *testing.T) {
	full := surface.Capabilities{HasClips: true, HasCrossfader: true}
	seen := map[string]bool{}
	for _, a := range Catalog(full) {
		assert.False(t, seen[a.ID], a.ID)
		seen[a.ID] = true
	}
	assert.NotPanics(t, func() { NewDefaultRegistry(full) })
}
