package protocol

import "errors"

var (
	// ErrMalformed is returned for frames that are not valid JSON.
	ErrMalformed = errors.New("protocol: malformed message")

	// ErrMissingType is returned for frames without a type field.
	ErrMissingType = errors.New("protocol: message has no type")

	// ErrMissingPosition is returned for move_to commands without a position.
	ErrMissingPosition = errors.New("protocol: move_to needs a position")
)
