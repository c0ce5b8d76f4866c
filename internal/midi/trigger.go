package midi

import (
	"fmt"
	"strconv"
)

// Kind is the class of channel message a trigger listens to
type Kind string

const (
	KindNote          Kind = "note"
	KindCC            Kind = "cc"
	KindPitchBend     Kind = "pitchbend"
	KindProgramChange Kind = "program_change"
	KindAftertouch    Kind = "aftertouch"
)

// Any marks a wildcard channel or data byte in a Trigger
const Any = -1

const (
	// MaxValue is the largest 7-bit data value
	MaxValue = 127
	// MaxPitchBend is the largest 14-bit pitch bend value (center is 8192)
	MaxPitchBend = 16383
)

// Kinds lists every bindable kind in display order
var Kinds = []Kind{KindNote, KindCC, KindPitchBend, KindProgramChange, KindAftertouch}

// Valid reports whether k is a bindable kind
func (k Kind) Valid() bool {
	switch k {
	case KindNote, KindCC, KindPitchBend, KindProgramChange, KindAftertouch:
		return true
	}
	return false
}

// HasData1 reports whether the kind carries an addressable data byte
// (note number, controller number, program number).
func (k Kind) HasData1() bool {
	return k == KindNote || k == KindCC || k == KindProgramChange
}

// RawMax returns the largest raw value an event of this kind can carry
func (k Kind) RawMax() int {
	if k == KindPitchBend {
		return MaxPitchBend
	}
	return MaxValue
}

// Trigger identifies a class of incoming messages. It is a comparable value
// and is never modified after construction.
type Trigger struct {
	Kind    Kind
	Channel int // 0-15 or Any
	Data1   int // 0-127 or Any; always 0 for kinds without a data byte
}

// NewTrigger builds a normalized trigger. Out-of-range channel or data values
// are treated as wildcards.
func NewTrigger(kind Kind, channel, data1 int) Trigger {
	if channel < 0 || channel > 15 {
		channel = Any
	}
	if !kind.HasData1() {
		data1 = 0
	} else if data1 < 0 || data1 > MaxValue {
		data1 = Any
	}
	return Trigger{Kind: kind, Channel: channel, Data1: data1}
}

// IsWildcard reports whether any dimension of the trigger is a wildcard
func (t Trigger) IsWildcard() bool {
	return t.Channel == Any || t.Data1 == Any
}

// Matches reports whether the fully specified trigger of an incoming event
// falls into the class described by t.
func (t Trigger) Matches(event Trigger) bool {
	if t.Kind != event.Kind {
		return false
	}
	if t.Channel != Any && t.Channel != event.Channel {
		return false
	}
	if t.Data1 != Any && t.Data1 != event.Data1 {
		return false
	}
	return true
}

func (t Trigger) String() string {
	ch := "any"
	if t.Channel != Any {
		ch = strconv.Itoa(t.Channel + 1)
	}
	if !t.Kind.HasData1() {
		return fmt.Sprintf("%s ch=%s", t.Kind, ch)
	}
	d := "any"
	if t.Data1 != Any {
		d = strconv.Itoa(t.Data1)
	}
	return fmt.Sprintf("%s ch=%s #%s", t.Kind, ch, d)
}
