package camera

import "time"

// WallClock reports real time elapsed since it was created. It drives the
// service when no game clock is attached.
type WallClock struct {
	start time.Time
}

// NewWallClock starts a clock at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now returns the time since the clock was created.
func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}

var _ Clock = (*WallClock)(nil)
