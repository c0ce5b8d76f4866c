package actions

import (
	"fmt"
	"sync"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
)

// UnknownActionError is returned when an action id is not registered
type UnknownActionError struct {
	ID string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.ID)
}

// Registry is the catalogue of actions bindings can target
type Registry struct {
	mu       sync.RWMutex
	actions  map[string]*Action
	order    []string
	relative map[midi.Kind]midi.Encoding
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		actions:  make(map[string]*Action),
		relative: make(map[midi.Kind]midi.Encoding),
	}
}

// Register adds an action. Registering an id twice is an error.
func (r *Registry) Register(a *Action) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("action id is required")
	}
	if a.Min > a.Max {
		return fmt.Errorf("action %s: min %d above max %d", a.ID, a.Min, a.Max)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.actions[a.ID]; ok {
		return fmt.Errorf("action already registered: %s", a.ID)
	}
	r.actions[a.ID] = a
	r.order = append(r.order, a.ID)
	return nil
}

// Resolve returns the action for id or an *UnknownActionError
func (r *Registry) Resolve(id string) (*Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[id]
	if !ok {
		return nil, &UnknownActionError{ID: id}
	}
	return a, nil
}

// All returns every action in registration order
func (r *Registry) All() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Action, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.actions[id])
	}
	return out
}

// SetRelativeEncoding overrides the relative encoding assumed for a message
// kind, for hardware that deviates from the usual convention.
func (r *Registry) SetRelativeEncoding(kind midi.Kind, enc midi.Encoding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enc.IsRelative() {
		r.relative[kind] = enc
	} else {
		delete(r.relative, kind)
	}
}

// EncodingFor returns the relative encoding a message kind implies
func (r *Registry) EncodingFor(kind midi.Kind) midi.Encoding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if enc, ok := r.relative[kind]; ok {
		return enc
	}
	return midi.DefaultRelative(kind)
}
