package cabin

import "errors"

// ErrUnknownPosition is returned when a position name cannot be resolved.
var ErrUnknownPosition = errors.New("unknown cabin position")
