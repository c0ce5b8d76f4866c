// Package engine ties the binding table, the action registry and the host
// together: incoming MIDI is resolved to actions, host changes are mirrored
// back to the hardware, and learn mode creates bindings from live input.
//
// All table, learn and echo state is guarded by one mutex. Incoming events
// are additionally serialized so a relative control's read-modify-write is
// atomic. Host writes happen with the state mutex released, which lets a
// Provider report the change back through OnHostStateChanged synchronously.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/PixPMusic/gopher-flexi/internal/actions"
	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLearnTimeout = 10 * time.Second
	DefaultEchoWindow   = 250 * time.Millisecond
)

// Options tune an Engine. Zero values select the defaults.
type Options struct {
	Log          logrus.FieldLogger
	Scheduler    Scheduler
	Now          func() time.Time
	LearnTimeout time.Duration
	EchoWindow   time.Duration
}

// Engine is the mapping engine
type Engine struct {
	dispatchMu sync.Mutex
	mu         sync.Mutex

	table    *binding.Table
	registry *actions.Registry
	host     host.Provider
	sink     Sink
	log      logrus.FieldLogger

	scheduler    Scheduler
	now          func() time.Time
	learnTimeout time.Duration
	echoWindow   time.Duration

	learn  learnSession
	echoes map[host.Key][]echo

	onLearn   func(LearnResult)
	onChanged func([]binding.Binding)

	unsubscribe func()
}

// New creates an engine and subscribes it to host changes
func New(table *binding.Table, registry *actions.Registry, provider host.Provider, sink Sink, opts Options) *Engine {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LearnTimeout <= 0 {
		opts.LearnTimeout = DefaultLearnTimeout
	}
	if opts.EchoWindow <= 0 {
		opts.EchoWindow = DefaultEchoWindow
	}

	e := &Engine{
		table:        table,
		registry:     registry,
		host:         provider,
		sink:         sink,
		log:          opts.Log,
		scheduler:    opts.Scheduler,
		now:          opts.Now,
		learnTimeout: opts.LearnTimeout,
		echoWindow:   opts.EchoWindow,
		echoes:       make(map[host.Key][]echo),
	}
	e.unsubscribe = provider.SubscribeAll(e.OnHostStateChanged)
	return e
}

// Close detaches the engine from the host and cancels learn mode
func (e *Engine) Close() {
	e.Cancel()
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
}

// SetSink replaces the feedback output
func (e *Engine) SetSink(sink Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// OnLearnResult registers the callback told about learn commits and timeouts
func (e *Engine) OnLearnResult(fn func(LearnResult)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onLearn = fn
}

// OnBindingsChanged registers the callback told about every table edit, so
// the bindings can be persisted.
func (e *Engine) OnBindingsChanged(fn func([]binding.Binding)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChanged = fn
}

// Registry returns the action registry
func (e *Engine) Registry() *actions.Registry {
	return e.registry
}

// Bindings returns the current bindings in table order
func (e *Engine) Bindings() []binding.Binding {
	return e.table.All()
}

// Duplicates returns groups of bindings sharing trigger, action and channel
func (e *Engine) Duplicates() [][]binding.Binding {
	return e.table.Duplicates()
}

// normalize checks b against the registry and folds the channel of global
// actions to zero so feedback lookups find it.
func (e *Engine) normalize(b binding.Binding) (binding.Binding, error) {
	a, err := e.registry.Resolve(b.ActionID)
	if err != nil {
		return b, err
	}
	if a.Channels == 0 {
		b.ActionChannel = 0
	}
	return b, nil
}

// Bind validates and appends a binding
func (e *Engine) Bind(b binding.Binding) (binding.Binding, error) {
	e.mu.Lock()
	b, err := e.normalize(b)
	if err != nil {
		e.mu.Unlock()
		return b, fmt.Errorf("failed to bind %s: %w", b.Trigger, err)
	}
	b = e.table.Bind(b)
	notify := e.changedLocked()
	e.mu.Unlock()

	notify()
	return b, nil
}

// Update overwrites an existing binding in place
func (e *Engine) Update(b binding.Binding) error {
	e.mu.Lock()
	b, err := e.normalize(b)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to update binding %s: %w", b.ID, err)
	}
	if !e.table.Replace(b) {
		e.mu.Unlock()
		return fmt.Errorf("binding not found: %s", b.ID)
	}
	notify := e.changedLocked()
	e.mu.Unlock()

	notify()
	return nil
}

// Remove deletes a binding by ID
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	ok := e.table.Remove(id)
	notify := func() {}
	if ok {
		notify = e.changedLocked()
	}
	e.mu.Unlock()

	notify()
	return ok
}

// Load replaces the table with bindings. Bindings naming an unknown action
// are skipped and reported; the rest still load.
func (e *Engine) Load(bindings []binding.Binding) []error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.table.Clear()
	var errs []error
	for _, b := range bindings {
		nb, err := e.normalize(b)
		if err != nil {
			e.log.WithFields(logrus.Fields{"binding": b.ID, "action": b.ActionID}).Warn("skipping binding")
			errs = append(errs, fmt.Errorf("binding %s (%s): %w", b.ID, b.Name, err))
			continue
		}
		e.table.Bind(nb)
	}
	e.log.WithField("count", e.table.Len()).Info("bindings loaded")
	return errs
}

// changedLocked snapshots the table for the change callback. The returned
// func must run after e.mu is released.
func (e *Engine) changedLocked() func() {
	fn := e.onChanged
	if fn == nil {
		return func() {}
	}
	snapshot := e.table.All()
	return func() { fn(snapshot) }
}
