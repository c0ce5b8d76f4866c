package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryNotifiesOnlyOnChange(t *testing.T) {
	m := NewMemory()
	vol := Key{Action: "track.volume", Channel: 0}

	var got []int
	m.Subscribe(vol, func(_ Key, v int) { got = append(got, v) })

	m.SetValue(vol, 0) // unset reads as zero already
	m.SetValue(vol, 100)
	m.SetValue(vol, 100)
	m.SetValue(vol, 90)

	assert.Equal(t, []int{100, 90}, got)
	assert.Equal(t, 90, m.Value(vol))
}

func TestMemorySubscribeFilters(t *testing.T) {
	m := NewMemory()
	a := Key{Action: "track.pan", Channel: 1}
	b := Key{Action: "track.pan", Channel: 2}

	var one, all int
	m.Subscribe(a, func(Key, int) { one++ })
	m.SubscribeAll(func(Key, int) { all++ })

	m.SetValue(a, 5)
	m.SetValue(b, 5)

	assert.Equal(t, 1, one)
	assert.Equal(t, 2, all)
}

func TestMemoryCancel(t *testing.T) {
	m := NewMemory()
	k := Key{Action: "transport.play"}

	calls := 0
	cancel := m.SubscribeAll(func(Key, int) { calls++ })
	m.SetValue(k, 1)
	cancel()
	m.SetValue(k, 0)

	assert.Equal(t, 1, calls)
}

func TestMemoryCallbackMayReenter(t *testing.T) {
	m := NewMemory()
	k := Key{Action: "track.mute"}

	m.SubscribeAll(func(key Key, v int) {
		assert.Equal(t, v, m.Value(key))
	})
	m.SetValue(k, 1)
	assert.Equal(t, map[Key]int{k: 1}, m.Snapshot())
}
