package camera

import (
	"sync"
	"time"
)

// DefaultLimits are the stock interior look limits of a left-hand-drive cab.
var DefaultLimits = Limits{Left: 150, Right: -110, Up: 60, Down: -60}

// SimDevice is an in-memory camera. It is what `serve` drives when no game is
// attached, and what the tests assert against.
type SimDevice struct {
	mu          sync.Mutex
	pose        Pose
	limits      Limits
	unavailable bool
	writes      int
}

// NewSimDevice creates a simulated camera resting at the given pose.
func NewSimDevice(initial Pose) *SimDevice {
	return &SimDevice{pose: initial, limits: DefaultLimits}
}

// GetPose returns the current pose.
func (d *SimDevice) GetPose() (Pose, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unavailable {
		return Pose{}, ErrUnavailable
	}
	return d.pose, nil
}

// SetPose writes position, yaw and pitch. Roll is left untouched.
func (d *SimDevice) SetPose(p Pose) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unavailable {
		return ErrUnavailable
	}
	roll := d.pose.Rotation.Roll
	d.pose = p
	d.pose.Rotation.Roll = roll
	d.writes++
	return nil
}

// SetHeadRotation simulates the player moving the mouse.
func (d *SimDevice) SetHeadRotation(yaw, pitch float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pose.Rotation.Yaw = yaw
	d.pose.Rotation.Pitch = pitch
}

// SetUnavailable toggles the simulated API outage.
func (d *SimDevice) SetUnavailable(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unavailable = v
}

// Writes returns how many SetPose calls succeeded.
func (d *SimDevice) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// RotationLimits returns the current look limits.
func (d *SimDevice) RotationLimits() Limits {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.limits
}

// SetRotationLimits replaces the look limits.
func (d *SimDevice) SetRotationLimits(l Limits) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.limits = l
}

// SimClock is a manually advanced simulation clock.
type SimClock struct {
	mu  sync.Mutex
	now time.Duration
}

// Now returns the current simulation time.
func (c *SimClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// SimTelemetry is a settable vehicle state.
type SimTelemetry struct {
	mu     sync.Mutex
	speed  float64
	parked bool
}

// NewParkedTelemetry returns telemetry for a stationary truck with the
// parking brake set.
func NewParkedTelemetry() *SimTelemetry {
	return &SimTelemetry{parked: true}
}

// Speed returns the simulated truck speed in m/s.
func (t *SimTelemetry) Speed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

// ParkingBrake reports whether the simulated parking brake is set.
func (t *SimTelemetry) ParkingBrake() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parked
}

// Set updates speed (m/s) and the parking brake.
func (t *SimTelemetry) Set(speed float64, parkingBrake bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speed = speed
	t.parked = parkingBrake
}
