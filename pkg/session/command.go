package session

import (
	"fmt"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
)

// Action is an input the session dispatches on its tick goroutine.
type Action int

const (
	ActionDriverSeat Action = iota
	ActionPassengerSeat
	ActionStanding
	ActionCycleSofa
	// ActionMoveTo requests any position by name.
	ActionMoveTo
	// ActionWalk sets or releases the walk key.
	ActionWalk
	// ActionLook turns the head, as mouse input would.
	ActionLook
	// ActionSettingsChanged reports a changed settings key path.
	ActionSettingsChanged
)

var actionNames = map[Action]string{
	ActionDriverSeat:      "driver_seat",
	ActionPassengerSeat:   "passenger_seat",
	ActionStanding:        "standing",
	ActionCycleSofa:       "cycle_sofa",
	ActionMoveTo:          "move_to",
	ActionWalk:            "walk",
	ActionLook:            "look",
	ActionSettingsChanged: "settings_changed",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction resolves an action by name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Command is one queued input. Only the fields the action needs are read.
type Command struct {
	Action   Action
	Position cabin.Position // ActionMoveTo
	Walk     bool           // ActionWalk
	Yaw      float64        // ActionLook, radians
	Pitch    float64        // ActionLook, radians
	Key      string         // ActionSettingsChanged

	reply chan error
}
