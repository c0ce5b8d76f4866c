package window

import (
	"strconv"
	"strings"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
)

const (
	anyLabel  = "Any"
	noneLabel = "(None)"
)

var kindLabels = map[midi.Kind]string{
	midi.KindNote:          "Note",
	midi.KindCC:            "CC",
	midi.KindPitchBend:     "Pitch Bend",
	midi.KindProgramChange: "Program Change",
	midi.KindAftertouch:    "Aftertouch",
}

var encodingLabels = map[midi.Encoding]string{
	midi.EncodingDefault:        "Default",
	midi.EncodingAbsolute:       "Absolute",
	midi.EncodingRelativeOffset: "Relative (offset)",
	midi.EncodingRelativeSigned: "Relative (signed)",
	midi.EncodingToggle:         "Toggle",
}

func kindOptions() []string {
	out := make([]string, 0, len(midi.Kinds))
	for _, k := range midi.Kinds {
		out = append(out, kindLabels[k])
	}
	return out
}

func kindFromLabel(s string) (midi.Kind, bool) {
	for k, l := range kindLabels {
		if l == s {
			return k, true
		}
	}
	return "", false
}

func encodingOptions() []string {
	out := make([]string, 0, len(midi.Encodings))
	for _, e := range midi.Encodings {
		out = append(out, encodingLabels[e])
	}
	return out
}

func encodingFromLabel(s string) midi.Encoding {
	for e, l := range encodingLabels {
		if l == s {
			return e
		}
	}
	return midi.EncodingDefault
}

// channelOptions lists MIDI channels the way users count them, 1 to 16
func channelOptions() []string {
	out := []string{anyLabel}
	for ch := 1; ch <= 16; ch++ {
		out = append(out, strconv.Itoa(ch))
	}
	return out
}

func channelLabel(ch int) string {
	if ch == midi.Any {
		return anyLabel
	}
	return strconv.Itoa(ch + 1)
}

func channelFromLabel(s string) int {
	ch, err := strconv.Atoi(s)
	if err != nil || ch < 1 || ch > 16 {
		return midi.Any
	}
	return ch - 1
}

func numberLabel(n int) string {
	if n == midi.Any {
		return ""
	}
	return strconv.Itoa(n)
}

// numberFromText parses a note/CC number. Blank or "any" is the wildcard.
func numberFromText(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, anyLabel) {
		return midi.Any, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > midi.MaxValue {
		return 0, false
	}
	return n, true
}

// stepFromText parses the step size of relative bindings
func stepFromText(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// actionChannelOptions lists the slots of an action, numbered from 1
func actionChannelOptions(channels int) []string {
	if channels <= 1 {
		return []string{"-"}
	}
	out := make([]string, 0, channels)
	for ch := 1; ch <= channels; ch++ {
		out = append(out, strconv.Itoa(ch))
	}
	return out
}
