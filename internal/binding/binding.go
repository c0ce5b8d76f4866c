package binding

import (
	"sync"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/google/uuid"
)

// Binding connects a trigger to an action slot
type Binding struct {
	ID            string
	Name          string
	Trigger       midi.Trigger
	ActionID      string
	ActionChannel int
	Encoding      midi.Encoding // EncodingDefault lets the action and message kind decide
	Invert        bool
	StepSize      int // relative encoders only; <= 0 means 1
	Feedback      bool
}

// New creates a binding with a generated ID
func New(trigger midi.Trigger, actionID string, channel int) Binding {
	return Binding{
		ID:            uuid.New().String(),
		Trigger:       trigger,
		ActionID:      actionID,
		ActionChannel: channel,
		StepSize:      1,
	}
}

// Step returns the effective step size
func (b Binding) Step() int {
	if b.StepSize <= 0 {
		return 1
	}
	return b.StepSize
}

type dupKey struct {
	trigger midi.Trigger
	action  string
	channel int
}

func (b Binding) dupKey() dupKey {
	return dupKey{trigger: b.Trigger, action: b.ActionID, channel: b.ActionChannel}
}

// Table holds bindings in insertion order. It is safe for concurrent use but
// callers that combine several calls into one edit must serialize themselves.
type Table struct {
	mu      sync.RWMutex
	entries []Binding
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{}
}

// Bind appends b and returns it with its ID filled in. Binding the same
// trigger and action twice is allowed; see Duplicates.
func (t *Table) Bind(b Binding) Binding {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, b)
	return b
}

// Unbind removes the index-th binding (in insertion order) whose trigger is
// exactly trigger.
func (t *Table) Unbind(trigger midi.Trigger, index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i, b := range t.entries {
		if b.Trigger != trigger {
			continue
		}
		if n == index {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
		n++
	}
	return false
}

// Remove deletes the binding with id
func (t *Table) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, b := range t.entries {
		if b.ID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the binding with id
func (t *Table) Get(id string) (Binding, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, b := range t.entries {
		if b.ID == id {
			return b, true
		}
	}
	return Binding{}, false
}

// Replace overwrites the binding with the same ID in place
func (t *Table) Replace(b Binding) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].ID == b.ID {
			t.entries[i] = b
			return true
		}
	}
	return false
}

// Lookup returns every binding matching the fully specified event trigger:
// exact matches first, then wildcard matches, each in insertion order.
func (t *Table) Lookup(event midi.Trigger) []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var exact, wild []Binding
	for _, b := range t.entries {
		if !b.Trigger.Matches(event) {
			continue
		}
		if b.Trigger.IsWildcard() {
			wild = append(wild, b)
		} else {
			exact = append(exact, b)
		}
	}
	return append(exact, wild...)
}

// ForAction returns the bindings targeting one action slot, in insertion order
func (t *Table) ForAction(actionID string, channel int) []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Binding
	for _, b := range t.entries {
		if b.ActionID == actionID && b.ActionChannel == channel {
			out = append(out, b)
		}
	}
	return out
}

// All returns a copy of every binding in insertion order
func (t *Table) All() []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Binding, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of bindings
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear removes every binding
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Duplicates groups bindings that share trigger, action and channel. It is
// advisory: duplicates still all fire.
func (t *Table) Duplicates() [][]Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	groups := make(map[dupKey][]Binding)
	var order []dupKey
	for _, b := range t.entries {
		k := b.dupKey()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], b)
	}

	var out [][]Binding
	for _, k := range order {
		if len(groups[k]) > 1 {
			out = append(out, groups[k])
		}
	}
	return out
}

// IsDuplicate reports whether another binding shares b's trigger, action and channel
func (t *Table) IsDuplicate(b Binding) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	k := b.dupKey()
	for _, other := range t.entries {
		if other.ID != b.ID && other.dupKey() == k {
			return true
		}
	}
	return false
}
