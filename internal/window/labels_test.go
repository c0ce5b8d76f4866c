package window

import (
	"testing"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
	"github.com/stretchr/testify/assert"
)

func TestKindLabelsCoverAllKinds(t *testing.T) {
	opts := kindOptions()
	assert.Len(t, opts, len(midi.Kinds))
	for _, k := range midi.Kinds {
		got, ok := kindFromLabel(kindLabels[k])
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := kindFromLabel("SysEx")
	assert.False(t, ok)
}

func TestEncodingLabels(t *testing.T) {
	for _, e := range midi.Encodings {
		assert.Equal(t, e, encodingFromLabel(encodingLabels[e]))
	}
	assert.Equal(t, midi.EncodingDefault, encodingFromLabel("bogus"))
	assert.Len(t, encodingOptions(), len(midi.Encodings))
	assert.Equal(t, midi.EncodingToggle, encodingFromLabel("Toggle"))
}

func TestChannelLabels(t *testing.T) {
	assert.Equal(t, anyLabel, channelLabel(midi.Any))
	assert.Equal(t, "1", channelLabel(0))
	assert.Equal(t, "16", channelLabel(15))

	assert.Equal(t, 0, channelFromLabel("1"))
	assert.Equal(t, 15, channelFromLabel("16"))
	assert.Equal(t, midi.Any, channelFromLabel(anyLabel))
	assert.Equal(t, midi.Any, channelFromLabel("17"))
	assert.Len(t, channelOptions(), 17)
}

func TestNumberFromText(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"", midi.Any, true},
		{" any ", midi.Any, true},
		{"0", 0, true},
		{"127", 127, true},
		{"128", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := numberFromText(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
	assert.Equal(t, "", numberLabel(midi.Any))
	assert.Equal(t, "64", numberLabel(64))
}

func TestActionChannelOptions(t *testing.T) {
	assert.Equal(t, []string{"-"}, actionChannelOptions(0))
	assert.Equal(t, []string{"1", "2", "3"}, actionChannelOptions(3))
}

func TestSurfaceNames(t *testing.T) {
	for _, ty := range surface.Types {
		assert.Equal(t, ty, surfaceFromName(surface.Lookup(ty).Name))
	}
	assert.Equal(t, surface.TypeGeneric, surfaceFromName("Unknown Box"))
	assert.Equal(t, noneLabel, portOption(""))
	assert.Equal(t, "", portFromOption(noneLabel))
}

func TestStepFromText(t *testing.T) {
	n, ok := stepFromText(" 4 ")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = stepFromText("0")
	assert.False(t, ok)
	_, ok = stepFromText("fast")
	assert.False(t, ok)
}
