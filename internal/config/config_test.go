package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *Config {
	cfg := Default()
	cfg.OpenAtStartup = true
	cfg.LearnTimeoutMs = 5000
	cfg.AddDevice(DeviceConfig{ID: "d1", Name: "Pads", InPort: "LP In", OutPort: "LP Out", Type: surface.TypeLaunchpadColorful})
	cfg.SetBindings([]binding.Binding{
		{
			ID:            "b1",
			Trigger:       midi.NewTrigger(midi.KindCC, 0, 7),
			ActionID:      "track.volume",
			ActionChannel: 2,
			Encoding:      midi.EncodingAbsolute,
			StepSize:      1,
			Feedback:      true,
		},
		{
			ID:       "b2",
			Name:     "any note",
			Trigger:  midi.NewTrigger(midi.KindNote, midi.Any, midi.Any),
			ActionID: "transport.play",
			Invert:   true,
		},
	})
	return cfg
}

func TestRoundTripFormats(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config"+ext)
			want := sampleConfig()
			require.NoError(t, want.SaveFile(path))

			got, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, path, got.Path())
			assert.Equal(t, want.Devices, got.Devices)
			assert.Equal(t, want.Bindings, got.Bindings)
			assert.True(t, got.OpenAtStartup)
			assert.Equal(t, 5*time.Second, got.LearnTimeout())
		})
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.yaml")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Devices)
	assert.Empty(t, cfg.Bindings)
	assert.Equal(t, "info", cfg.LogLevel)

	require.NoError(t, cfg.Save())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "config.ini"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestBindingList(t *testing.T) {
	cfg := sampleConfig()
	cfg.Bindings = append(cfg.Bindings,
		BindingConfig{ID: "bad-kind", MessageType: "sysex", ActionID: "transport.play"},
		BindingConfig{ID: "bad-enc", MessageType: "cc", Number: 1, ActionID: "track.pan", Encoding: "weird"},
	)

	list, errs := cfg.BindingList()
	require.Len(t, list, 2)
	assert.Len(t, errs, 2)

	assert.Equal(t, midi.NewTrigger(midi.KindCC, 0, 7), list[0].Trigger)
	assert.Equal(t, 2, list[0].ActionChannel)
	assert.True(t, list[0].Feedback)
	assert.True(t, list[1].Trigger.IsWildcard())
	assert.True(t, list[1].Invert)
}

func TestBindingWithoutIDGetsOne(t *testing.T) {
	b, err := BindingConfig{MessageType: "note", Channel: 1, Number: 60, ActionID: "track.mute"}.Binding()
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
}

func TestCapabilities(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Capabilities().HasCrossfader)

	cfg.AddDevice(DeviceConfig{ID: "a", Type: surface.TypeLaunchpadClassic})
	caps := cfg.Capabilities()
	assert.True(t, caps.HasClips)
	assert.False(t, caps.HasCrossfader)

	cfg.AddDevice(DeviceConfig{ID: "b", Type: surface.TypeSL})
	caps = cfg.Capabilities()
	assert.True(t, caps.HasCrossfader)
	assert.Equal(t, midi.EncodingRelativeSigned, caps.RelativeCC)

	cfg.RemoveDevice("b")
	assert.Len(t, cfg.Devices, 1)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveFile(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, path, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	}))

	require.NoError(t, sampleConfig().SaveFile(path))

	select {
	case cfg := <-reloaded:
		assert.Len(t, cfg.Bindings, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestToggleEncodingPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.SetBindings([]binding.Binding{{
		ID:       "pad",
		Trigger:  midi.NewTrigger(midi.KindNote, 0, 16),
		ActionID: "track.mute",
		Encoding: midi.EncodingToggle,
	}})
	require.NoError(t, cfg.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	list, errs := got.BindingList()
	require.Empty(t, errs)
	require.Len(t, list, 1)
	assert.Equal(t, midi.EncodingToggle, list[0].Encoding)
}
