package midi

import (
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ErrNotBindable is returned for well-formed messages that no trigger can
// describe (SysEx, system common/realtime, polyphonic aftertouch).
var ErrNotBindable = errors.New("message kind cannot be bound")

// ErrNoMessage is returned by Encode when the value has no message to
// represent it, such as a released program change.
var ErrNoMessage = errors.New("no message for this value")

// MalformedError reports a raw message that could not be parsed
type MalformedError struct {
	Raw    []byte
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed MIDI message % X: %s", e.Raw, e.Reason)
}

// Event is a decoded incoming channel message
type Event struct {
	Trigger Trigger // fully specified, never a wildcard
	Value   int     // 0..Trigger.Kind.RawMax()
}

func (e Event) String() string {
	return fmt.Sprintf("%s value=%d", e.Trigger, e.Value)
}

// Decode parses a raw MIDI message. Data bytes above 127 carrying the value
// are clamped rather than masked so a broken sender saturates instead of
// wrapping around. Running status is not supported.
func Decode(raw []byte) (Event, error) {
	if len(raw) == 0 {
		return Event{}, &MalformedError{Raw: raw, Reason: "empty message"}
	}
	status := raw[0]
	if status < 0x80 {
		return Event{}, &MalformedError{Raw: raw, Reason: "missing status byte"}
	}
	if status >= 0xF0 {
		return Event{}, ErrNotBindable
	}

	channel := int(status & 0x0F)
	need := 3
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		need = 2
	}
	if len(raw) < need {
		return Event{}, &MalformedError{Raw: raw, Reason: fmt.Sprintf("need %d bytes, got %d", need, len(raw))}
	}

	switch status & 0xF0 {
	case 0x80, 0x90, 0xB0:
		if raw[1] > MaxValue {
			return Event{}, &MalformedError{Raw: raw, Reason: "data byte out of range"}
		}
		kind := KindCC
		value := clampByte(raw[2])
		switch status & 0xF0 {
		case 0x80:
			kind, value = KindNote, 0
		case 0x90:
			kind = KindNote
		}
		return Event{Trigger: NewTrigger(kind, channel, int(raw[1])), Value: value}, nil

	case 0xC0:
		if raw[1] > MaxValue {
			return Event{}, &MalformedError{Raw: raw, Reason: "program number out of range"}
		}
		return Event{Trigger: NewTrigger(KindProgramChange, channel, int(raw[1])), Value: MaxValue}, nil

	case 0xD0:
		return Event{Trigger: NewTrigger(KindAftertouch, channel, 0), Value: clampByte(raw[1])}, nil

	case 0xE0:
		value := clampByte(raw[1]) | clampByte(raw[2])<<7
		return Event{Trigger: NewTrigger(KindPitchBend, channel, 0), Value: value}, nil
	}

	// 0xA0 polyphonic aftertouch
	return Event{}, ErrNotBindable
}

func clampByte(b byte) int {
	if b > MaxValue {
		return MaxValue
	}
	return int(b)
}

// Encode builds the outgoing message that sets the control addressed by t to
// raw. The trigger must be fully specified. A program change is only sent
// for a non-zero value, mirroring Decode.
func Encode(t Trigger, raw int) (gomidi.Message, error) {
	if t.IsWildcard() {
		return nil, fmt.Errorf("cannot encode feedback for wildcard trigger %s", t)
	}
	if raw < 0 {
		raw = 0
	}
	if limit := t.Kind.RawMax(); raw > limit {
		raw = limit
	}

	channel := uint8(t.Channel)
	switch t.Kind {
	case KindNote:
		return gomidi.NoteOn(channel, uint8(t.Data1), uint8(raw)), nil
	case KindCC:
		return gomidi.ControlChange(channel, uint8(t.Data1), uint8(raw)), nil
	case KindProgramChange:
		if raw == 0 {
			return nil, ErrNoMessage
		}
		return gomidi.ProgramChange(channel, uint8(t.Data1)), nil
	case KindAftertouch:
		return gomidi.AfterTouch(channel, uint8(raw)), nil
	case KindPitchBend:
		return gomidi.Pitchbend(channel, int16(raw-8192)), nil
	}
	return nil, fmt.Errorf("unknown trigger kind: %s", t.Kind)
}
