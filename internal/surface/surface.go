package surface

import (
	"fmt"

	"github.com/PixPMusic/gopher-flexi/internal/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Type names a hardware family in the configuration
type Type string

const (
	TypeGeneric           Type = "generic"            // Any controller, no init
	TypeLaunchpadClassic  Type = "launchpad_classic"  // Launchpad S
	TypeLaunchpadColorful Type = "launchpad_colorful" // Launchpad Mini Mk3
	TypeSL                Type = "sl"                 // Novation SL MkII
	TypeAPC               Type = "apc"                // Akai APC40
)

// Types lists the known surface types in display order
var Types = []Type{TypeGeneric, TypeLaunchpadClassic, TypeLaunchpadColorful, TypeSL, TypeAPC}

// Capabilities describes what a surface offers. The action catalogue and the
// resolver consult it instead of branching on the surface type.
type Capabilities struct {
	HasClips      bool
	HasCrossfader bool
	PadCount      int
	Encoders      int
	// RelativeCC overrides the relative encoding assumed for CC encoders.
	// Empty keeps the message-kind default.
	RelativeCC midi.Encoding
}

// Profile is a surface type with its capabilities and hardware init
type Profile struct {
	Type         Type
	Name         string
	Capabilities Capabilities
	// init prepares the hardware before feedback is sent; may be nil
	init func(send func(gomidi.Message) error) error
}

// Init puts the device into the state the mapping expects
func (p Profile) Init(send func(gomidi.Message) error) error {
	if p.init == nil {
		return nil
	}
	if err := p.init(send); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", p.Name, err)
	}
	return nil
}

var profiles = map[Type]Profile{
	TypeGeneric: {
		Type: TypeGeneric,
		Name: "Generic",
		Capabilities: Capabilities{
			HasClips:      true,
			HasCrossfader: true,
		},
	},
	TypeLaunchpadClassic: {
		Type: TypeLaunchpadClassic,
		Name: "Launchpad S",
		Capabilities: Capabilities{
			HasClips: true,
			PadCount: 80,
		},
		// Reset to the default layout: B0 00 00
		init: func(send func(gomidi.Message) error) error {
			return send(gomidi.ControlChange(0, 0, 0))
		},
	},
	TypeLaunchpadColorful: {
		Type: TypeLaunchpadColorful,
		Name: "Launchpad Mini Mk3",
		Capabilities: Capabilities{
			HasClips: true,
			PadCount: 81,
		},
		// Programmer mode: F0 00 20 29 02 0D 0E 01 F7
		init: func(send func(gomidi.Message) error) error {
			return send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0D, 0x0E, 0x01}))
		},
	},
	TypeSL: {
		Type: TypeSL,
		Name: "Novation SL MkII",
		Capabilities: Capabilities{
			HasCrossfader: true,
			PadCount:      8,
			Encoders:      8,
			RelativeCC:    midi.EncodingRelativeSigned,
		},
	},
	TypeAPC: {
		Type: TypeAPC,
		Name: "Akai APC40",
		Capabilities: Capabilities{
			HasClips:      true,
			HasCrossfader: true,
			PadCount:      40,
			Encoders:      16,
		},
		// Ableton mode 2 so the unit sends and accepts LED state: F0 47 7F 73 60 00 04 41 00 00 00 F7
		init: func(send func(gomidi.Message) error) error {
			return send(gomidi.SysEx([]byte{0x47, 0x7F, 0x73, 0x60, 0x00, 0x04, 0x41, 0x00, 0x00, 0x00}))
		},
	},
}

// Lookup returns the profile for a surface type. Unknown types fall back to
// the generic profile.
func Lookup(t Type) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return profiles[TypeGeneric]
}

// Merge combines the capabilities of several connected surfaces: a feature is
// available when any surface offers it.
func Merge(caps ...Capabilities) Capabilities {
	var out Capabilities
	for _, c := range caps {
		out.HasClips = out.HasClips || c.HasClips
		out.HasCrossfader = out.HasCrossfader || c.HasCrossfader
		out.PadCount += c.PadCount
		out.Encoders += c.Encoders
		if out.RelativeCC == midi.EncodingDefault {
			out.RelativeCC = c.RelativeCC
		}
	}
	return out
}
