package camera

import "errors"

// ErrUnavailable is returned while the host camera API is not ready.
var ErrUnavailable = errors.New("camera: device unavailable")
