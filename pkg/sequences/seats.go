package sequences

import (
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
)

// DriverToPassenger leans over the center console and drops into the
// passenger seat.
func (b *Builder) DriverToPassenger(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Main.DriverToPassenger, tracks{
		x: curve(
			k{0, s.X(), lin},
			k{0.25, s.X(), lin},
			k{0.75, t.X(), inOutCubic},
			k{1, t.X(), outCubic},
		),
		y: curve(
			k{0, s.Y(), lin},
			k{0.35, 0.25, outCubic},
			k{0.55, 0.26, inOutQuint},
			k{0.75, 0.25, inQuint},
			k{1, t.Y(), inOutCubic},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{0.25, -0.1, outExpo},
			k{0.5, 0.05, inOutCubic},
			k{0.75, -0.1, inOutCubic},
			k{0.95, -0.25, inOutCubic},
			k{1, t.Z(), lin},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, lin},
			k{0.2, -1.15, outCubic},
			k{0.4, -0.85, inOutQuad},
			k{0.6, -1.0, inOutQuad},
			k{0.85, 0.5, inOutQuad},
			k{1, t.Rotation.Yaw, inOutCubic},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, lin},
			k{0.35, 0.15, outCubic},
			k{0.65, -0.75, inOutCubic},
			k{0.85, -0.3, inOutCubic},
			k{1, t.Rotation.Pitch, inOutCubic},
		),
	})
}

// PassengerToDriver climbs back over the console. The crossing height comes
// from general.height; the turn direction follows the cabin layout.
func (b *Builder) PassengerToDriver(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	h := cfg.General.Height
	m := cfg.General.CabinLayout.YawMultiplier()

	return assemble(cfg.Durations.Main.PassengerToDriver, tracks{
		x: curve(
			k{0, s.X(), lin},
			k{0.25, s.X(), lin},
			k{0.75, t.X(), inOutCubic},
			k{1, t.X(), outCubic},
		),
		y: curve(
			k{0, s.Y(), lin},
			k{0.3, s.Y(), lin},
			k{0.35, h, outCubic},
			k{0.55, h + 0.01, inQuint},
			k{0.85, h, lin},
			k{1, t.Y(), inOutCubic},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{0.15, -0.1, outExpo},
			k{0.5, -0.35, inOutCubic},
			k{0.75, -0.35, lin},
			k{0.85, -0.15, lin},
			k{0.97, -0.05, inOutCubic},
			k{1, t.Z(), lin},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, lin},
			k{0.2, 1.35 * m, outCubic},
			k{0.65, 0.15 * m, lin},
			k{1, t.Rotation.Yaw, inOutCubic},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, lin},
			k{0.35, -0.15, outCubic},
			k{0.65, -0.55, inOutCubic},
			k{0.95, 0.05, inOutCubic},
			k{1, t.Rotation.Pitch, inOutCubic},
		),
	})
}

// DriverToStanding gets up from the driver seat. When more legs follow, the
// yaw track ends on its 0.73 key and the next leg finishes the turn.
func (b *Builder) DriverToStanding(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()

	yaw := curve(
		k{0, s.Rotation.Yaw, outCubic},
		k{0.1, 0, inOutCubic},
		k{0.23, 0.1, inOutCubic},
		k{0.73, t.Rotation.Yaw - 0.75, inCubic},
	)
	if !b.chained() {
		yaw.Add(1, t.Rotation.Yaw, outQuad)
	}

	return assemble(cfg.Durations.Main.DriverToStanding, tracks{
		x: curve(
			k{0, s.X(), outCubic},
			k{0.35, s.X(), inCubic},
			k{0.5, s.X() + 0.35, outCubic},
			k{0.65, t.X() - 0.05, inOutCubic},
			k{1, t.X(), outCubic},
		),
		y: getUpY(s, t),
		z: curve(
			k{0, s.Z(), inOutCubic},
			k{0.15, s.Z() - 0.15, outCubic},
			k{0.65, s.Z() - 0.05, inOutCubic},
			k{1, t.Z(), outCubic},
		),
		yaw:   yaw,
		pitch: getUpPitch(s, t),
	})
}

// PassengerToStanding gets up from the passenger seat, turning the opposite
// way to DriverToStanding.
func (b *Builder) PassengerToStanding(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Main.PassengerToStanding, tracks{
		x: curve(
			k{0, s.X(), outCubic},
			k{0.35, s.X(), inCubic},
			k{0.5, s.X() - 0.2, outCubic},
			k{0.65, t.X() + 0.05, inOutCubic},
			k{1, t.X(), outCubic},
		),
		y: getUpY(s, t),
		z: curve(
			k{0, s.Z(), inOutCubic},
			k{0.15, s.Z() - 0.15, outCubic},
			k{0.65, s.Z() - 0.05, inOutCubic},
			k{1, t.Z(), outCubic},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{0.1, 0, inOutCubic},
			k{0.23, -0.1, inOutCubic},
			k{0.73, t.Rotation.Yaw + 0.75, inCubic},
			k{1, t.Rotation.Yaw, outQuad},
		),
		pitch: getUpPitch(s, t),
	})
}

func getUpY(s, t camera.Pose) *animation.Track[float64] {
	return curve(
		k{0, s.Y(), inCubic},
		k{0.3, t.Y(), outCubic},
		k{0.45, t.Y() + 0.01, outCubic},
		k{0.5, t.Y(), outCubic},
		k{0.75, t.Y() + 0.01, inOutCubic},
		k{1, t.Y(), inCubic},
	)
}

func getUpPitch(s, t camera.Pose) *animation.Track[float64] {
	return curve(
		k{0, s.Rotation.Pitch, outCubic},
		k{0.1, 0, inOutCubic},
		k{0.35, -0.25, inOutCubic},
		k{0.75, 0.05, inCubic},
		k{1, t.Rotation.Pitch, outCubic},
	)
}

// StandingToDriver sits down in the driver seat.
func (b *Builder) StandingToDriver(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	m := cfg.General.CabinLayout.YawMultiplier()
	return sitDown(cfg.Durations.Main.StandingToDriver, s, t, 0.75*m, -0.15*m)
}

// StandingToPassenger sits down in the passenger seat.
func (b *Builder) StandingToPassenger(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return sitDown(cfg.Durations.Main.StandingToPassenger, s, t, -0.75, 0.15)
}

// sitDown is the shared seat approach. swing and settle are the yaw keys at
// 0.45 and 0.65 that turn the body toward the seat.
func sitDown(d time.Duration, s, t camera.Pose, swing, settle float64) *animation.Sequence {
	return assemble(d, tracks{
		x: curve(
			k{0, s.X(), outCubic},
			k{0.35, s.X(), inCubic},
			k{0.85, t.X(), inOutCubic},
			k{1, t.X(), outCubic},
		),
		y: curve(
			k{0, s.Y(), inCubic},
			k{0.3, s.Y() + 0.01, outCubic},
			k{0.45, s.Y(), outCubic},
			k{0.55, s.Y(), outCubic},
			k{1, t.Y(), inCubic},
		),
		z: curve(
			k{0, s.Z(), inOutCubic},
			k{0.15, -0.15, outCubic},
			k{0.25, -0.15, outCubic},
			k{0.55, -0.35, inOutCubic},
			k{0.85, -0.15, inOutCubic},
			k{1, t.Z(), inOutCubic},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{0.15, 0, inOutCubic},
			k{0.45, swing, inOutCubic},
			k{0.65, settle, outCubic},
			k{1, t.Rotation.Yaw, outQuad},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, outCubic},
			k{0.1, -0.1, inOutCubic},
			k{0.35, -0.45, inOutCubic},
			k{0.85, 0.15, inCubic},
			k{1, t.Rotation.Pitch, outCubic},
		),
	})
}
