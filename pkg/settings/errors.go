package settings

import "errors"

var (
	// ErrUnknownKey is returned by Store.Set for paths not in the settings tree.
	ErrUnknownKey = errors.New("unknown settings key")

	// ErrNoFile is returned by Store.Save when the store was loaded without a
	// backing file.
	ErrNoFile = errors.New("settings store has no file")
)
