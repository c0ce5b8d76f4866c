package engine

import (
	"errors"
	"slices"
	"time"

	"github.com/PixPMusic/gopher-flexi/internal/actions"
	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/sirupsen/logrus"
)

// Sink receives outgoing feedback messages in emission order
type Sink interface {
	Send(msg []byte) error
}

// MultiSink sends every message to each sink in turn
type MultiSink []Sink

func (m MultiSink) Send(msg []byte) error {
	var first error
	for _, s := range m {
		if err := s.Send(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type echo struct {
	value int
	until time.Time
	// bindings whose control produced the change and already shows it
	sources []string
}

// expectEchoLocked records that a change of key to value was caused here by
// sources, so the host's report of it is not sent back to those controls.
func (e *Engine) expectEchoLocked(key host.Key, value int, sources []string) {
	e.echoes[key] = append(e.echoes[key], echo{value: value, until: e.now().Add(e.echoWindow), sources: sources})
}

// consumeEchoLocked drops expired marks for key and removes the first live
// mark for value, returning it.
func (e *Engine) consumeEchoLocked(key host.Key, value int) (echo, bool) {
	marks := e.echoes[key]
	if len(marks) == 0 {
		return echo{}, false
	}

	now := e.now()
	live := marks[:0]
	for _, m := range marks {
		if now.Before(m.until) {
			live = append(live, m)
		}
	}

	var found echo
	ok := false
	for i, m := range live {
		if m.value == value {
			found = m
			live = append(live[:i], live[i+1:]...)
			ok = true
			break
		}
	}

	if len(live) == 0 {
		delete(e.echoes, key)
	} else {
		e.echoes[key] = live
	}
	return found, ok
}

// OnHostStateChanged mirrors a host value to every feedback-enabled binding
// of that action slot. When the change is the echo of one this engine just
// applied, the bindings that caused it are left out.
func (e *Engine) OnHostStateChanged(key host.Key, value int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mark, echoed := e.consumeEchoLocked(key, value)

	a, err := e.registry.Resolve(key.Action)
	if err != nil {
		return
	}
	for _, b := range e.table.ForAction(key.Action, key.Channel) {
		if !b.Feedback {
			continue
		}
		if echoed && slices.Contains(mark.sources, b.ID) {
			continue
		}
		e.sendLocked(a, b, value)
	}
}

// Refresh sends the current host value of every feedback-enabled binding,
// for example after a device has been (re)connected.
func (e *Engine) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, b := range e.table.All() {
		if !b.Feedback {
			continue
		}
		a, err := e.registry.Resolve(b.ActionID)
		if err != nil {
			continue
		}
		e.sendLocked(a, b, a.Current(e.host, b.ActionChannel))
	}
}

func (e *Engine) sendLocked(a *actions.Action, b binding.Binding, value int) {
	log := e.log.WithFields(logrus.Fields{"binding": b.ID, "action": a.ID, "channel": b.ActionChannel})

	if b.Trigger.IsWildcard() {
		log.Debug("no feedback for wildcard trigger")
		return
	}
	if e.sink == nil {
		return
	}

	raw := a.Feedback(value, b.Trigger.Kind.RawMax(), b.Invert)
	msg, err := midi.Encode(b.Trigger, raw)
	if errors.Is(err, midi.ErrNoMessage) {
		return
	}
	if err != nil {
		log.WithError(err).Warn("cannot encode feedback")
		return
	}
	if err := e.sink.Send(msg.Bytes()); err != nil {
		log.WithError(err).Warn("feedback send failed")
	}
}
