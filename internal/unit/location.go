package unit

import "fmt"

// Location indexes the body sections of a mech. On a quad the arm locations
// carry the front legs.
type Location int

const (
	Head Location = iota
	CenterTorso
	LeftTorso
	RightTorso
	LeftArm
	RightArm
	LeftLeg
	RightLeg

	NumLocations = 8
)

// NoLocation ends a transfer chain.
const NoLocation Location = -1

var locationCodes = [NumLocations]string{"HD", "CT", "LT", "RT", "LA", "RA", "LL", "RL"}

// Locations lists every location in index order.
var Locations = [NumLocations]Location{Head, CenterTorso, LeftTorso, RightTorso, LeftArm, RightArm, LeftLeg, RightLeg}

func (l Location) String() string {
	if l.Valid() {
		return locationCodes[l]
	}
	if l == NoLocation {
		return "none"
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// Valid reports whether l is one of the eight body locations.
func (l Location) Valid() bool { return l >= 0 && l < NumLocations }

func (l Location) MarshalText() ([]byte, error) {
	if !l.Valid() && l != NoLocation {
		return nil, fmt.Errorf("marshal location %d: out of range", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(b []byte) error {
	loc, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = loc
	return nil
}

// ParseLocation accepts the two-letter codes produced by String, and "none".
func ParseLocation(s string) (Location, error) {
	if s == "none" || s == "" {
		return NoLocation, nil
	}
	for i, c := range locationCodes {
		if c == s {
			return Location(i), nil
		}
	}
	return NoLocation, fmt.Errorf("unknown location %q", s)
}

// TransferTarget is where overflow damage goes once a location is destroyed.
// The head and center torso end the chain.
func (l Location) TransferTarget() Location {
	switch l {
	case LeftArm, LeftLeg:
		return LeftTorso
	case RightArm, RightLeg:
		return RightTorso
	case LeftTorso, RightTorso:
		return CenterTorso
	default:
		return NoLocation
	}
}

// AttachedLimb is the limb lost together with a side torso.
func (l Location) AttachedLimb() Location {
	switch l {
	case LeftTorso:
		return LeftArm
	case RightTorso:
		return RightArm
	default:
		return NoLocation
	}
}

// HasRear reports whether the location carries separate rear armor.
func (l Location) HasRear() bool {
	return l == CenterTorso || l == LeftTorso || l == RightTorso
}

// IsSideTorso reports whether l is the left or right torso.
func (l Location) IsSideTorso() bool { return l == LeftTorso || l == RightTorso }

// Config is the chassis layout.
type Config string

const (
	Biped Config = "biped"
	Quad  Config = "quad"
)

// IsLeg reports whether loc is a leg for this chassis layout.
func (c Config) IsLeg(loc Location) bool {
	switch loc {
	case LeftLeg, RightLeg:
		return true
	case LeftArm, RightArm:
		return c == Quad
	}
	return false
}

// IsArm reports whether loc is an arm for this chassis layout.
func (c Config) IsArm(loc Location) bool {
	return (loc == LeftArm || loc == RightArm) && c != Quad
}

// Legs lists the leg locations for the layout.
func (c Config) Legs() []Location {
	if c == Quad {
		return []Location{LeftArm, RightArm, LeftLeg, RightLeg}
	}
	return []Location{LeftLeg, RightLeg}
}
