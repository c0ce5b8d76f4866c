package actions

import (
	"github.com/PixPMusic/gopher-flexi/internal/host"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
)

// Action is a host operation with a bounded integer value domain
type Action struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`

	// Relative actions are driven by deltas (scrolling, nudging) unless a
	// binding asks for absolute values explicitly.
	Relative bool `json:"relative"`

	// Channels is the number of addressable slots (tracks, parameters).
	// Zero means a single global value.
	Channels int `json:"channels"`

	// after runs once a new value has been committed, for actions that touch
	// more than their own value
	after func(h host.Provider, channel, value int)
}

// Key returns the host key for channel
func (a *Action) Key(channel int) host.Key {
	if a.Channels == 0 {
		channel = 0
	}
	return host.Key{Action: a.ID, Channel: channel}
}

// ValidChannel reports whether channel addresses a slot of this action
func (a *Action) ValidChannel(channel int) bool {
	if a.Channels == 0 {
		return true
	}
	return channel >= 0 && channel < a.Channels
}

// Clamp limits v to the action's domain
func (a *Action) Clamp(v int) int {
	if v < a.Min {
		return a.Min
	}
	if v > a.Max {
		return a.Max
	}
	return v
}

// Current returns the host value for channel
func (a *Action) Current(h host.Provider, channel int) int {
	return h.Value(a.Key(channel))
}

// Apply clamps value and commits it. Applying the value the host already
// holds leaves the host untouched; the return value reports whether anything
// was written.
func (a *Action) Apply(h host.Provider, channel, value int) bool {
	if !a.ValidChannel(channel) {
		return false
	}
	v := a.Clamp(value)
	key := a.Key(channel)
	if h.Value(key) == v {
		return false
	}
	h.SetValue(key, v)
	if a.after != nil {
		a.after(h, channel, v)
	}
	return true
}

// Scale maps a raw absolute value in [0, rawMax] onto the domain
func (a *Action) Scale(raw, rawMax int) int {
	if raw < 0 {
		raw = 0
	}
	if raw > rawMax {
		raw = rawMax
	}
	span := a.Max - a.Min
	if span <= 0 || rawMax <= 0 {
		return a.Min
	}
	return a.Min + (raw*span*2+rawMax)/(rawMax*2)
}

// Unscale maps a domain value back onto [0, rawMax]
func (a *Action) Unscale(v, rawMax int) int {
	v = a.Clamp(v)
	span := a.Max - a.Min
	if span <= 0 {
		return 0
	}
	return ((v-a.Min)*rawMax*2 + span) / (span * 2)
}

// Mode returns the encoding a binding effectively uses for this action. An
// explicit binding encoding wins; otherwise relative actions take the
// encoding implied by the message kind and everything else is absolute.
func (a *Action) Mode(bindingEnc, kindRelative midi.Encoding) midi.Encoding {
	if bindingEnc != midi.EncodingDefault {
		return bindingEnc
	}
	if a.Relative {
		return kindRelative
	}
	return midi.EncodingAbsolute
}

// Next computes the value an incoming raw value produces. It never returns a
// value outside the domain.
func (a *Action) Next(enc midi.Encoding, raw, rawMax, current, step int, invert bool) int {
	if enc == midi.EncodingToggle {
		// releases carry zero and leave the value alone
		if raw <= 0 {
			return a.Clamp(current)
		}
		if a.Clamp(current) == a.Max {
			return a.Min
		}
		return a.Max
	}
	if !enc.IsRelative() {
		if raw < 0 {
			raw = 0
		}
		if raw > rawMax {
			raw = rawMax
		}
		if invert {
			raw = rawMax - raw
		}
		return a.Scale(raw, rawMax)
	}

	if step <= 0 {
		step = 1
	}
	delta := enc.Delta(raw, rawMax) * step
	if invert {
		delta = -delta
	}
	return a.Clamp(current + delta)
}

// Feedback converts a domain value into the raw value sent back to hardware
func (a *Action) Feedback(v, rawMax int, invert bool) int {
	raw := a.Unscale(v, rawMax)
	if invert {
		raw = rawMax - raw
	}
	return raw
}
