package stance

import "fmt"

// State is the sub-state of the Standing position.
type State int

const (
	Standing State = iota
	Crouching
	Tiptoes
	// InTransition plays a crouch or tiptoe sequence; its target is committed
	// when the sequence finishes.
	InTransition
	// ReturningToHome walks back toward a seat before sitting down.
	ReturningToHome
)

var stateNames = map[State]string{
	Standing:        "standing",
	Crouching:       "crouching",
	Tiptoes:         "tiptoes",
	InTransition:    "in_transition",
	ReturningToHome: "returning_to_home",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
