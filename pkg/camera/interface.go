// Package camera defines the interior camera as seen by the animation core.
//
// Like the rest of the codebase, it follows the Interface Segregation
// Principle: consumers depend only on the small interface they use. The
// animation engine needs a Device, the controllers add a Clock, the hook layer
// a LimitsController, and the safety gate a Telemetry source.
package camera

import "time"

// Device reads and writes the interior camera pose.
// SetPose applies position, yaw and pitch only; roll is not settable.
type Device interface {
	GetPose() (Pose, error)
	SetPose(p Pose) error
}

// Clock is a monotonic simulation clock. Deltas between readings drive all
// animation and hold-timer progress.
type Clock interface {
	Now() time.Duration
}

// LimitsController reads and writes the free-look rotation limits.
type LimitsController interface {
	RotationLimits() Limits
	SetRotationLimits(l Limits)
}

// Telemetry exposes the vehicle state needed by the safety gate.
type Telemetry interface {
	Speed() float64
	ParkingBrake() bool
}

// Rig is the composite of everything a session drives.
type Rig interface {
	Device
	LimitsController
}

var (
	_ Rig       = (*SimDevice)(nil)
	_ Clock     = (*SimClock)(nil)
	_ Telemetry = (*SimTelemetry)(nil)
)
