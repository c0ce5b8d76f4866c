package midi

import "fmt"

// Encoding describes how a control's value is to be read
type Encoding string

const (
	// EncodingDefault defers to the action and the trigger kind
	EncodingDefault Encoding = ""
	// EncodingAbsolute: the value replaces the target value
	EncodingAbsolute Encoding = "absolute"
	// EncodingRelativeOffset: signed delta as an offset from the center (64 for 7-bit data)
	EncodingRelativeOffset Encoding = "relative_offset"
	// EncodingRelativeSigned: sign bit (0x40 for 7-bit data) plus magnitude
	EncodingRelativeSigned Encoding = "relative_signed"
	// EncodingToggle: a non-zero value flips between the domain ends, zero is ignored
	EncodingToggle Encoding = "toggle"
)

// Encodings lists the selectable encodings in display order
var Encodings = []Encoding{EncodingDefault, EncodingAbsolute, EncodingRelativeOffset, EncodingRelativeSigned, EncodingToggle}

// ParseEncoding validates a configured encoding name
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(s)
	switch e {
	case EncodingDefault, EncodingAbsolute, EncodingRelativeOffset, EncodingRelativeSigned, EncodingToggle:
		return e, nil
	}
	return "", fmt.Errorf("unknown encoding: %s", s)
}

// IsRelative reports whether the encoding carries deltas
func (e Encoding) IsRelative() bool {
	return e == EncodingRelativeOffset || e == EncodingRelativeSigned
}

// Delta decodes a relative raw value. rawMax is the largest raw value of the
// message kind; out-of-range raw values are clamped first.
func (e Encoding) Delta(raw, rawMax int) int {
	if raw < 0 {
		raw = 0
	}
	if raw > rawMax {
		raw = rawMax
	}
	center := (rawMax + 1) / 2

	switch e {
	case EncodingRelativeOffset:
		return raw - center
	case EncodingRelativeSigned:
		magnitude := raw & (center - 1)
		if raw&center != 0 {
			return -magnitude
		}
		return magnitude
	}
	return 0
}

// DefaultRelative returns the relative encoding a message kind implies when
// neither the binding nor the surface says otherwise. Endless encoders sending
// CC almost always use the offset-from-64 convention.
func DefaultRelative(kind Kind) Encoding {
	if kind == KindCC || kind == KindPitchBend {
		return EncodingRelativeOffset
	}
	return EncodingRelativeSigned
}
