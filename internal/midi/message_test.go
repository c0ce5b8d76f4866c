package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChannelMessages(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		want  Trigger
		value int
	}{
		{"note on", []byte{0x91, 60, 100}, Trigger{KindNote, 1, 60}, 100},
		{"note on zero velocity", []byte{0x90, 60, 0}, Trigger{KindNote, 0, 60}, 0},
		{"note off", []byte{0x80, 60, 64}, Trigger{KindNote, 0, 60}, 0},
		{"control change", []byte{0xB0, 7, 90}, Trigger{KindCC, 0, 7}, 90},
		{"program change", []byte{0xC5, 12}, Trigger{KindProgramChange, 5, 12}, 127},
		{"channel aftertouch", []byte{0xDF, 33}, Trigger{KindAftertouch, 15, 0}, 33},
		{"pitch bend center", []byte{0xE0, 0x00, 0x40}, Trigger{KindPitchBend, 0, 0}, 8192},
		{"pitch bend max", []byte{0xE2, 0x7F, 0x7F}, Trigger{KindPitchBend, 2, 0}, 16383},
		{"extra bytes ignored", []byte{0xB3, 1, 2, 3}, Trigger{KindCC, 3, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Trigger)
			assert.Equal(t, tt.value, ev.Value)
		})
	}
}

func TestDecodeClampsOutOfRangeValue(t *testing.T) {
	ev, err := Decode([]byte{0xB0, 7, 200})
	require.NoError(t, err)
	assert.Equal(t, 127, ev.Value)

	ev, err = Decode([]byte{0xE0, 0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, MaxPitchBend, ev.Value)
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range [][]byte{
		nil,
		{0x40, 0x10},
		{0x90, 60},
		{0xC0},
		{0xB0, 0x90, 10},
	} {
		_, err := Decode(raw)
		var malformed *MalformedError
		assert.True(t, errors.As(err, &malformed), "% X", raw)
	}
}

func TestDecodeNotBindable(t *testing.T) {
	for _, raw := range [][]byte{
		{0xF0, 0x00, 0x20, 0x29, 0xF7},
		{0xF8},
		{0xA0, 60, 10},
	} {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrNotBindable)
	}
}

func TestEncode(t *testing.T) {
	msg, err := Encode(NewTrigger(KindCC, 2, 7), 100)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB2, 7, 100}, msg.Bytes())

	msg, err = Encode(NewTrigger(KindNote, 0, 36), 300)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90, 36, 127}, msg.Bytes())

	msg, err = Encode(NewTrigger(KindPitchBend, 0, 0), 8192)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xE0, 0x00, 0x40}, msg.Bytes())

	_, err = Encode(NewTrigger(KindCC, Any, 7), 1)
	assert.Error(t, err)
}

func TestEncodeProgramChangeOnlyWhenSet(t *testing.T) {
	msg, err := Encode(NewTrigger(KindProgramChange, 0, 5), 127)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 5}, msg.Bytes())

	_, err = Encode(NewTrigger(KindProgramChange, 0, 5), 0)
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestEncodeDecodeAgree(t *testing.T) {
	for _, trig := range []Trigger{
		NewTrigger(KindCC, 4, 21),
		NewTrigger(KindNote, 9, 36),
		NewTrigger(KindAftertouch, 0, 0),
		NewTrigger(KindPitchBend, 1, 0),
	} {
		msg, err := Encode(trig, 42)
		require.NoError(t, err)
		ev, err := Decode(msg.Bytes())
		require.NoError(t, err)
		assert.Equal(t, trig, ev.Trigger)
		assert.Equal(t, 42, ev.Value)
	}
}
