package session

import "errors"

var (
	// ErrUnsafe is returned when the truck must be stopped with the parking
	// brake set before leaving the driver seat.
	ErrUnsafe = errors.New("session: stop the truck and set the parking brake first")

	// ErrDisabled is returned when the requested position is disabled in
	// settings.
	ErrDisabled = errors.New("session: position disabled")

	// ErrBusy is returned while a transition is playing or queued.
	ErrBusy = errors.New("session: camera is moving")

	// ErrInboxFull is returned when commands arrive faster than ticks drain
	// them.
	ErrInboxFull = errors.New("session: command inbox full")

	// ErrUnknownAction is returned for commands the session cannot dispatch.
	ErrUnknownAction = errors.New("session: unknown action")
)
