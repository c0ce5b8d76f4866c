package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotArmed is returned when a candidate arrives while learn mode is idle
var ErrNotArmed = errors.New("learn mode is not armed")

// LearnTimeoutError reports a learn session that expired without input
type LearnTimeoutError struct {
	SlotID  string
	Timeout time.Duration
}

func (e *LearnTimeoutError) Error() string {
	return fmt.Sprintf("learn for %s timed out after %s", e.SlotID, e.Timeout)
}

// LearnResult is reported when a learn session ends by commit or timeout
type LearnResult struct {
	Slot    binding.Binding // the armed slot
	Binding binding.Binding // the committed binding; zero on error
	Err     error
}

type learnSession struct {
	armed    bool
	slot     binding.Binding
	deadline time.Time
	timer    Timer
	gen      uint64
}

// Arm starts learn mode for slot. If slot.ID names an existing binding the
// next event overwrites its trigger; otherwise a new binding is created from
// slot. Arming while armed replaces the previous slot. The returned binding
// is the slot with its ID filled in.
func (e *Engine) Arm(slot binding.Binding) binding.Binding {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLearnLocked()
	e.learn.gen++
	gen := e.learn.gen
	e.learn.armed = true
	e.learn.slot = slot
	e.learn.deadline = e.now().Add(e.learnTimeout)
	e.learn.timer = e.scheduler.AfterFunc(e.learnTimeout, func() { e.learnTimerFired(gen) })

	e.log.WithFields(logrus.Fields{"slot": slot.ID, "action": slot.ActionID}).Info("learn armed")
	return slot
}

// Cancel leaves learn mode without committing anything
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.learn.armed {
		e.log.WithField("slot", e.learn.slot.ID).Info("learn cancelled")
	}
	e.stopLearnLocked()
}

// LearnState returns the armed slot, if any
func (e *Engine) LearnState() (binding.Binding, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learn.slot, e.learn.armed
}

// OnCandidateEvent commits trigger to the armed slot
func (e *Engine) OnCandidateEvent(trigger midi.Trigger) (binding.Binding, error) {
	e.mu.Lock()
	var res LearnResult
	switch {
	case !e.learn.armed:
		e.mu.Unlock()
		return binding.Binding{}, ErrNotArmed
	case e.expiredLocked():
		res = e.expireLocked()
	default:
		res = e.captureLocked(trigger)
	}
	report := e.reportLocked(res)
	e.mu.Unlock()

	report()
	return res.Binding, res.Err
}

func (e *Engine) learnTimerFired(gen uint64) {
	e.mu.Lock()
	if !e.learn.armed || e.learn.gen != gen {
		e.mu.Unlock()
		return
	}
	report := e.reportLocked(e.expireLocked())
	e.mu.Unlock()
	report()
}

func (e *Engine) expiredLocked() bool {
	return !e.now().Before(e.learn.deadline)
}

func (e *Engine) expireLocked() LearnResult {
	slot := e.learn.slot
	e.stopLearnLocked()
	e.log.WithField("slot", slot.ID).Info("learn timed out")
	return LearnResult{Slot: slot, Err: &LearnTimeoutError{SlotID: slot.ID, Timeout: e.learnTimeout}}
}

// captureLocked writes trigger into the armed slot and returns to idle
func (e *Engine) captureLocked(trigger midi.Trigger) LearnResult {
	slot := e.learn.slot
	e.stopLearnLocked()

	b := slot
	if existing, ok := e.table.Get(slot.ID); ok {
		b = existing
	}
	b.Trigger = trigger

	b, err := e.normalize(b)
	if err != nil {
		return LearnResult{Slot: slot, Err: err}
	}
	if !e.table.Replace(b) {
		b = e.table.Bind(b)
	}

	e.log.WithFields(logrus.Fields{"slot": slot.ID, "trigger": trigger.String()}).Info("learned")
	return LearnResult{Slot: slot, Binding: b}
}

func (e *Engine) stopLearnLocked() {
	if e.learn.timer != nil {
		e.learn.timer.Stop()
	}
	e.learn = learnSession{gen: e.learn.gen}
}

// reportLocked prepares the learn and change callbacks for res. The returned
// func must run after e.mu is released.
func (e *Engine) reportLocked(res LearnResult) func() {
	learnFn := e.onLearn
	changed := func() {}
	if res.Err == nil {
		changed = e.changedLocked()
	}
	return func() {
		if learnFn != nil {
			learnFn(res)
		}
		changed()
	}
}
