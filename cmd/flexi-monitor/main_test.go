package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	line := describe([]byte{0xB1, 7, 100})
	assert.Contains(t, line, "cc ch=2 #7")
	assert.Contains(t, line, "value=100")
	assert.Contains(t, line, "message_type: cc, channel: 1, number: 7")

	line = describe([]byte{0xE0, 0x00, 0x40})
	assert.Contains(t, line, "pitchbend ch=1")
	assert.NotContains(t, line, "number:")

	assert.Contains(t, describe([]byte{0xF8}), "not bindable")
	assert.Contains(t, describe([]byte{0x90, 60}), "malformed")
}

func TestFindPort(t *testing.T) {
	ports := []string{"IAC Driver Bus 1", "Launchpad Mini MK3 LPMiniMK3 MIDI"}

	got, ok := findPort(ports, "launchpad")
	assert.True(t, ok)
	assert.Equal(t, ports[1], got)

	_, ok = findPort(ports, "apc")
	assert.False(t, ok)
}
