package sequences

import (
	"math"
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
)

// leanTrack builds the body sway that accompanies a stance change. Offsets
// are authored for a Forward gaze and applied along Z; Backward mirrors them.
// Side gazes sway along X, with right giving the sign used for Right and Left
// taking the opposite.
func leanTrack(s camera.Pose, gaze cabin.Gaze, right float64, offsets []k) (x, z *animation.Track[float64]) {
	build := func(base, sign float64) *animation.Track[float64] {
		t := animation.NewFloatTrack()
		for _, o := range offsets {
			t.Add(o.at, base+sign*o.value, o.ease)
		}
		return t
	}

	switch gaze {
	case cabin.Forward:
		z = build(s.Z(), 1)
	case cabin.Backward:
		z = build(s.Z(), -1)
	case cabin.Right:
		x = build(s.X(), right)
	case cabin.Left:
		x = build(s.X(), -right)
	}
	return x, z
}

func stancePitch(p, dip, dipAt float64) *animation.Track[float64] {
	return curve(
		k{0, p, outCubic},
		k{dipAt, p + dip, inOutCubic},
		k{0.87, 0, outCubic},
		k{1, 0, outCubic},
	)
}

// CrouchDown lowers the camera by the crouch depth.
func (b *Builder) CrouchDown(s camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	depth := cfg.StandingMovement.StanceControl.Crouch.Depth
	x, z := leanTrack(s, cabin.ClassifyGaze(s.Rotation.Yaw), -1, []k{
		{0, 0, inOutQuint},
		{0.5, -0.07, inOutQuint},
		{0.65, -0.03, inOutQuint},
		{0.91, 0, inOutQuint},
		{1, 0, outQuint},
	})
	return assemble(cfg.Durations.Stance.Crouch, tracks{
		x: x,
		y: curve(
			k{0, s.Y(), outCubic},
			k{1, s.Y() - depth, outCubic},
		),
		z:     z,
		yaw:   crouchShake(s.Rotation.Yaw),
		pitch: stancePitch(s.Rotation.Pitch, 0.07, 0.43),
	})
}

// StandUp raises the camera back out of a crouch.
func (b *Builder) StandUp(s camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	depth := cfg.StandingMovement.StanceControl.Crouch.Depth
	x, z := leanTrack(s, cabin.ClassifyGaze(s.Rotation.Yaw), -1, []k{
		{0, 0, inOutQuint},
		{0.5, -0.07, inOutQuint},
		{0.65, -0.05, inOutQuint},
		{0.91, 0, inOutQuint},
		{1, 0, outQuint},
	})
	return assemble(cfg.Durations.Stance.Crouch, tracks{
		x: x,
		y: curve(
			k{0, s.Y(), outCubic},
			k{1, s.Y() + depth, outCubic},
		),
		z:     z,
		yaw:   crouchShake(s.Rotation.Yaw),
		pitch: stancePitch(s.Rotation.Pitch, -0.07, 0.45),
	})
}

// Tiptoe raises the camera by the tiptoe height.
func (b *Builder) Tiptoe(s camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	height := cfg.StandingMovement.StanceControl.Tiptoe.Height
	x, z := leanTrack(s, cabin.ClassifyGaze(s.Rotation.Yaw), 1, []k{
		{0, 0, inOutQuint},
		{0.25, -0.13, inOutQuint},
		{1, 0, inOutQuint},
	})
	return assemble(cfg.Durations.Stance.Tiptoe, tracks{
		x: x,
		y: curve(
			k{0, s.Y(), outCubic},
			k{1, s.Y() + height, outCubic},
		),
		z:     z,
		yaw:   tiptoeShake(s.Rotation.Yaw),
		pitch: stancePitch(s.Rotation.Pitch, 0.07, 0.45),
	})
}

// StandDown lowers the camera off tiptoes.
func (b *Builder) StandDown(s camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	height := cfg.StandingMovement.StanceControl.Tiptoe.Height
	x, z := leanTrack(s, cabin.ClassifyGaze(s.Rotation.Yaw), 1, []k{
		{0, 0, inOutQuint},
		{0.85, 0.01, inOutQuint},
		{1, 0, outQuint},
	})
	return assemble(cfg.Durations.Stance.Tiptoe, tracks{
		x: x,
		y: curve(
			k{0, s.Y(), outCubic},
			k{1, s.Y() - height, outCubic},
		),
		z:     z,
		yaw:   tiptoeShake(s.Rotation.Yaw),
		pitch: stancePitch(s.Rotation.Pitch, -0.09, 0.45),
	})
}

func crouchShake(yaw float64) *animation.Track[float64] {
	return curve(
		k{0, yaw, inOutQuint},
		k{0.3, yaw - 0.03, inOutQuint},
		k{0.7, yaw + 0.01, inOutQuint},
		k{1, yaw, inOutQuint},
	)
}

func tiptoeShake(yaw float64) *animation.Track[float64] {
	return curve(
		k{0, yaw, inOutQuint},
		k{0.3, yaw - 0.02, inQuint},
		k{0.7, yaw + 0.02, outQuint},
		k{1, yaw, inOutQuint},
	)
}

// stepTarget is the Z after one step. Forward walks toward negative Z.
func stepTarget(z, step float64, forward bool) float64 {
	if forward {
		return z - step
	}
	return z + step
}

// WalkStep takes one step with a head bob at mid-stride.
func (b *Builder) WalkStep(s camera.Pose, forward bool) *animation.Sequence {
	cfg := b.cfg()
	w := cfg.StandingMovement.Walking
	return assemble(cfg.Walking.WalkStep, tracks{
		y: curve(
			k{0, s.Y(), outCubic},
			k{0.5, s.Y() + w.BobAmount, inCubic},
			k{1, s.Y(), inCubic},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{1, stepTarget(s.Z(), w.StepAmount, forward), lin},
		),
	})
}

// FirstStepTurn returns the yaw the body turns to before the first step, and
// the length of that turn in radians. Walking backward turns to whichever of
// ±π is closer.
func FirstStepTurn(yaw float64, forward bool) (target, angle float64) {
	switch {
	case forward:
		target = 0
	case yaw < 0:
		target = -math.Pi
	default:
		target = math.Pi
	}
	angle = math.Abs(yaw - target)
	if angle > math.Pi {
		angle = 2*math.Pi - angle
	}
	return target, angle
}

// DynamicFirstStep turns the head to the walking direction, then steps. The
// turn time grows with the angle; the step itself occupies the last walk_step
// of the sequence.
func (b *Builder) DynamicFirstStep(s camera.Pose, forward bool) *animation.Sequence {
	cfg := b.cfg()
	w := cfg.StandingMovement.Walking
	stepDur := cfg.Walking.WalkStep

	target, angle := FirstStepTurn(s.Rotation.Yaw, forward)
	d := cfg.Walking.FirstStepBase + time.Duration(angle/math.Pi*float64(cfg.Walking.FirstStepTurnExtra))
	if d < stepDur {
		d = stepDur
	}

	var r float64
	if d > 0 {
		r = float64(d-stepDur) / float64(d)
	}

	z := curve(k{0, s.Z(), lin})
	y := curve(k{0, s.Y(), outCubic})
	if r > 0 {
		z.Add(r-0.001, s.Z(), lin)
		y.Add(r-0.001, s.Y(), outCubic)
	}
	z.Add(1, stepTarget(s.Z(), w.StepAmount, forward), lin)
	y.Add(r+(1-r)*0.5, s.Y()+w.BobAmount, inCubic)
	y.Add(1, s.Y(), inCubic)

	return assemble(d, tracks{
		y: y,
		z: z,
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{1, target, outCubic},
		),
	})
}
