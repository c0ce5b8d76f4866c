package surface

import (
	"errors"
	"testing"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestLookupFallsBackToGeneric(t *testing.T) {
	assert.Equal(t, TypeGeneric, Lookup("push3").Type)
	assert.Equal(t, TypeSL, Lookup(TypeSL).Type)
}

func TestInitSendsProgrammerMode(t *testing.T) {
	var sent []gomidi.Message
	send := func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	}

	require.NoError(t, Lookup(TypeLaunchpadColorful).Init(send))
	require.Len(t, sent, 1)
	assert.Equal(t, []byte{0xF0, 0x00, 0x20, 0x29, 0x02, 0x0D, 0x0E, 0x01, 0xF7}, sent[0].Bytes())

	sent = nil
	require.NoError(t, Lookup(TypeLaunchpadClassic).Init(send))
	assert.Equal(t, []byte{0xB0, 0x00, 0x00}, sent[0].Bytes())

	sent = nil
	require.NoError(t, Lookup(TypeGeneric).Init(send))
	assert.Empty(t, sent)
}

func TestInitWrapsSendError(t *testing.T) {
	boom := errors.New("port closed")
	err := Lookup(TypeAPC).Init(func(gomidi.Message) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestMerge(t *testing.T) {
	caps := Merge(Lookup(TypeLaunchpadClassic).Capabilities, Lookup(TypeSL).Capabilities)
	assert.True(t, caps.HasClips)
	assert.True(t, caps.HasCrossfader)
	assert.Equal(t, 88, caps.PadCount)
	assert.Equal(t, midi.EncodingRelativeSigned, caps.RelativeCC)

	assert.Equal(t, Capabilities{}, Merge())
}
