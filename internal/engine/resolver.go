package engine

import (
	"errors"

	"github.com/PixPMusic/gopher-flexi/internal/actions"
	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/sirupsen/logrus"
)

type write struct {
	action  *actions.Action
	channel int
	value   int
}

// OnMidiEvent decodes a raw message and dispatches it to every matching
// binding in table order. Malformed or unbindable input is dropped. While
// learn mode is armed the event is captured instead of dispatched.
func (e *Engine) OnMidiEvent(raw []byte) {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()

	ev, err := midi.Decode(raw)
	if err != nil {
		if !errors.Is(err, midi.ErrNotBindable) {
			e.log.WithError(err).Debug("dropping MIDI message")
		}
		return
	}

	e.mu.Lock()
	report := func() {}
	if e.learn.armed {
		if !e.expiredLocked() {
			report = e.reportLocked(e.captureLocked(ev.Trigger))
			e.mu.Unlock()
			report()
			return
		}
		// the session ran out before its timer fired; dispatch normally
		report = e.reportLocked(e.expireLocked())
	}
	writes := e.planLocked(ev)
	e.mu.Unlock()
	report()

	for _, w := range writes {
		w.action.Apply(e.host, w.channel, w.value)
	}
}

// planLocked resolves ev into host writes. Values already equal to the host
// value are left out, and every write is registered as an expected echo,
// naming the bindings on this control, before it happens.
func (e *Engine) planLocked(ev midi.Event) []write {
	matched := e.table.Lookup(ev.Trigger)
	if len(matched) == 0 {
		return nil
	}

	rawMax := ev.Trigger.Kind.RawMax()
	kindRelative := e.registry.EncodingFor(ev.Trigger.Kind)
	pending := make(map[host.Key]int)
	sources := make(map[host.Key][]string)

	var writes []write
	for _, b := range matched {
		a, err := e.registry.Resolve(b.ActionID)
		if err != nil {
			e.log.WithError(err).WithField("binding", b.ID).Warn("binding targets unknown action")
			continue
		}
		if !a.ValidChannel(b.ActionChannel) {
			e.log.WithFields(logrus.Fields{"binding": b.ID, "action": a.ID, "channel": b.ActionChannel}).Debug("channel out of range")
			continue
		}

		key := a.Key(b.ActionChannel)
		current, ok := pending[key]
		if !ok {
			current = e.host.Value(key)
		}
		enc := a.Mode(b.Encoding, kindRelative)
		next := a.Next(enc, ev.Value, rawMax, current, b.Step(), b.Invert)
		pending[key] = next
		// a toggled button does not show the new state by itself
		if enc != midi.EncodingToggle {
			sources[key] = append(sources[key], b.ID)
		}
		if next == current {
			continue
		}

		writes = append(writes, write{action: a, channel: b.ActionChannel, value: next})
		e.log.WithFields(logrus.Fields{
			"trigger": ev.Trigger.String(),
			"action":  a.ID,
			"channel": b.ActionChannel,
			"value":   next,
		}).Debug("apply")
	}

	for _, w := range writes {
		key := w.action.Key(w.channel)
		e.expectEchoLocked(key, w.value, sources[key])
	}
	return writes
}
