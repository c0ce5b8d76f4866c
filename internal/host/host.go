// Package host models the state a controller mapping reads and writes. Values
// are addressed by opaque keys and always resolved on demand, so nothing in
// the engine holds on to host objects.
package host

import (
	"fmt"
	"sync"
)

// Key addresses one host value: an action applied to one channel (track,
// parameter slot, scene).
type Key struct {
	Action  string
	Channel int
}

func (k Key) String() string {
	return fmt.Sprintf("%s[%d]", k.Action, k.Channel)
}

// ChangeFunc is called with the new value of a key
type ChangeFunc func(key Key, value int)

// Provider is the boundary to the host application
type Provider interface {
	// Value returns the current value for key (zero if never set)
	Value(key Key) int

	// SetValue commits a new value
	SetValue(key Key, value int)

	// Subscribe registers fn for changes of one key and returns a cancel func
	Subscribe(key Key, fn ChangeFunc) func()

	// SubscribeAll registers fn for changes of every key
	SubscribeAll(fn ChangeFunc) func()
}

type subscriber struct {
	id  int
	key *Key
	fn  ChangeFunc
}

// Memory is an in-process Provider. Subscribers are notified synchronously,
// in subscription order, and only when a value actually changes.
type Memory struct {
	mu     sync.Mutex
	values map[Key]int
	subs   []subscriber
	nextID int
}

// NewMemory creates an empty host state
func NewMemory() *Memory {
	return &Memory{values: make(map[Key]int)}
}

// Value returns the current value for key
func (m *Memory) Value(key Key) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// SetValue stores value and notifies subscribers if it changed
func (m *Memory) SetValue(key Key, value int) {
	m.mu.Lock()
	old, ok := m.values[key]
	if ok && old == value {
		m.mu.Unlock()
		return
	}
	if !ok && value == 0 {
		// unset keys already read as zero
		m.values[key] = 0
		m.mu.Unlock()
		return
	}
	m.values[key] = value

	var fns []ChangeFunc
	for _, s := range m.subs {
		if s.key == nil || *s.key == key {
			fns = append(fns, s.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

// Subscribe registers fn for changes of key
func (m *Memory) Subscribe(key Key, fn ChangeFunc) func() {
	k := key
	return m.add(&k, fn)
}

// SubscribeAll registers fn for changes of every key
func (m *Memory) SubscribeAll(fn ChangeFunc) func() {
	return m.add(nil, fn)
}

func (m *Memory) add(key *Key, fn ChangeFunc) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, key: key, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of every stored value
func (m *Memory) Snapshot() map[Key]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Key]int, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
