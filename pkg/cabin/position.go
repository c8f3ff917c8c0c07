// Package cabin names the fixed set of places the camera can occupy inside the
// truck cabin.
package cabin

import (
	"fmt"
	"strings"
)

// Position is a logical camera location.
type Position int

const (
	// None means "no position". It is never a camera state.
	None Position = iota
	Driver
	Passenger
	Standing
	SofaSit1
	SofaLie
	SofaSit2
	// Bed is reserved. It has no transitions and no settings.
	Bed
)

var names = map[Position]string{
	None:      "none",
	Driver:    "driver",
	Passenger: "passenger",
	Standing:  "standing",
	SofaSit1:  "sofa_sit1",
	SofaLie:   "sofa_lie",
	SofaSit2:  "sofa_sit2",
	Bed:       "bed",
}

// settingsKeys maps positions with authored coordinates to their section
// under "positions" in the settings file.
var settingsKeys = map[Position]string{
	Passenger: "passenger_seat",
	Standing:  "standing",
	SofaSit1:  "sofa_sit1",
	SofaLie:   "sofa_lie",
	SofaSit2:  "sofa_sit2",
}

func (p Position) String() string {
	if s, ok := names[p]; ok {
		return s
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// All returns every camera position in declaration order. None and Bed are
// excluded.
func All() []Position {
	return []Position{Driver, Passenger, Standing, SofaSit1, SofaLie, SofaSit2}
}

// Valid reports whether p is a position the camera can be in.
func (p Position) Valid() bool {
	return p >= Driver && p <= SofaSit2
}

// IsSeat reports whether p is the driver or passenger seat.
func (p Position) IsSeat() bool {
	return p == Driver || p == Passenger
}

// IsSofa reports whether p is one of the sofa spots.
func (p Position) IsSofa() bool {
	return p == SofaSit1 || p == SofaLie || p == SofaSit2
}

// FreeLook reports whether the camera may turn all the way around at p.
func (p Position) FreeLook() bool {
	return p == Standing || p.IsSofa()
}

// SettingsKey returns the settings section for p, or "" when p has no
// authored coordinates (the driver seat uses the live game pose).
func (p Position) SettingsKey() string {
	return settingsKeys[p]
}

// ParsePosition resolves a name such as "sofa_lie", "SofaLie" or "sofa-lie".
func ParsePosition(s string) (Position, error) {
	norm := normalize(s)
	for p, name := range names {
		if normalize(name) == norm {
			return p, nil
		}
	}
	if norm == "passengerseat" {
		return Passenger, nil
	}
	if norm == "driverseat" {
		return Driver, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	v, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
