package sequences

import (
	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
)

// StandingToSofa turns toward the sofa and sits on its first spot.
func (b *Builder) StandingToSofa(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Main.StandingToSofa, tracks{
		x: curve(
			k{0, s.X(), lin},
			k{0.5, t.X(), outQuad},
			k{1, t.X(), lin},
		),
		y: curve(
			k{0, s.Y(), lin},
			k{0.3, s.Y() + 0.02, outQuad},
			k{0.8, t.Y() - 0.03, inCubic},
			k{1, t.Y(), outQuint},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{0.6, t.Z() + 0.05, inOutCubic},
			k{1, t.Z(), outQuad},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, lin},
			k{0.3, s.Rotation.Yaw + 0.15, outQuad},
			k{0.7, t.Rotation.Yaw - 0.1, inOutCubic},
			k{1, t.Rotation.Yaw, outCubic},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, lin},
			k{0.25, s.Rotation.Pitch - 0.2, outQuad},
			k{0.7, t.Rotation.Pitch + 0.1, inOutCubic},
			k{1, t.Rotation.Pitch, outCubic},
		),
	})
}

// SofaToStanding gets up off the sofa.
func (b *Builder) SofaToStanding(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Main.SofaToStanding, tracks{
		x: curve(
			k{0, s.X(), lin},
			k{0.5, s.X(), outCubic},
			k{1, t.X(), inQuad},
		),
		y: curve(
			k{0, s.Y(), lin},
			k{0.2, s.Y() + 0.1, outQuad},
			k{0.6, t.Y() - 0.05, inOutCubic},
			k{1, t.Y(), outQuint},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{0.4, s.Z() - 0.05, outQuad},
			k{1, t.Z(), inCubic},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, lin},
			k{0.45, t.Rotation.Yaw + 0.15, outQuad},
			k{0.75, t.Rotation.Yaw - 0.1, outQuad},
			k{1, t.Rotation.Yaw, inCubic},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, lin},
			k{0.25, t.Rotation.Pitch - 0.25, outQuad},
			k{0.6, t.Rotation.Pitch - 0.05, outQuad},
			k{0.85, t.Rotation.Pitch + 0.15, outQuad},
			k{1, t.Rotation.Pitch, inCubic},
		),
	})
}

// SofaSit1ToLie lies down along the sofa.
func (b *Builder) SofaSit1ToLie(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Sofa.Sit1ToLie, tracks{
		x: curve(
			k{0, s.X(), outCubic},
			k{0.75, s.X(), outCubic},
			k{1, t.X(), inOutCubic},
		),
		y: curve(
			k{0.65, s.Y(), outCubic},
			k{1, t.Y(), inCubic},
		),
		z: curve(
			k{0, s.Z(), inCubic},
			k{0.5, t.Z(), inOutCubic},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{0.55, t.Rotation.Yaw, inOutCubic},
			k{0.85, t.Rotation.Yaw + 0.25, inOutCubic},
			k{1, t.Rotation.Yaw, inCubic},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, outCubic},
			k{0.35, s.Rotation.Pitch + 0.25, inCubic},
			k{0.65, -0.05, outCubic},
			k{1, t.Rotation.Pitch, outCubic},
		),
	})
}

// SofaSit1ToSit2 slides along the sofa to the far seat.
func (b *Builder) SofaSit1ToSit2(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Sofa.Sit1ToSit2, tracks{
		x: curve(
			k{0, s.X(), outCubic},
			k{1, t.X(), inOutCubic},
		),
		y: curve(
			k{0, s.Y(), inQuad},
			k{0.5, s.Y() + 0.05, outQuad},
			k{1, t.Y(), inCubic},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{1, t.Z(), lin},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{0.4, s.Rotation.Yaw + 0.15, outQuad},
			k{1, t.Rotation.Yaw, inQuad},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, outCubic},
			k{1, t.Rotation.Pitch, inCubic},
		),
	})
}

// SofaLieToSit2 sits up at the far end.
func (b *Builder) SofaLieToSit2(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Sofa.LieToSit2, tracks{
		x: curve(
			k{0.5, s.X(), outCubic},
			k{1, t.X(), inOutCubic},
		),
		y: curve(
			k{0, s.Y(), inCubic},
			k{0.5, t.Y(), outQuad},
			k{1, t.Y(), outCubic},
		),
		z: curve(
			k{0.5, s.Z(), lin},
			k{1, t.Z(), lin},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{1, t.Rotation.Yaw, inCubic},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, inCubic},
			k{0.3, -0.4, outCubic},
			k{0.9, 0.1, inQuad},
			k{1, t.Rotation.Pitch, outCubic},
		),
	})
}

// SofaSit2ToSit1 slides back to the first seat.
func (b *Builder) SofaSit2ToSit1(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Sofa.Sit2ToSit1, tracks{
		x: curve(
			k{0, s.X(), outCubic},
			k{1, t.X(), inOutCubic},
		),
		y: curve(
			k{0, s.Y(), inQuad},
			k{0.5, s.Y() + 0.05, outQuad},
			k{1, t.Y(), inCubic},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{1, t.Z(), lin},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{0.4, s.Rotation.Yaw - 0.15, outQuad},
			k{1, t.Rotation.Yaw, inQuad},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, outCubic},
			k{1, t.Rotation.Pitch, inCubic},
		),
	})
}

// SofaLieToSit1 is the shortcut from lying straight back to the first seat.
func (b *Builder) SofaLieToSit1(s, t camera.Pose) *animation.Sequence {
	cfg := b.cfg()
	return assemble(cfg.Durations.Sofa.LieToSit1Shortcut, tracks{
		x: curve(
			k{0, s.X(), lin},
			k{0.15, s.X(), inCubic},
			k{0.75, t.X(), inCubic},
			k{1, t.X(), inOutCubic},
		),
		y: curve(
			k{0, s.Y(), inCubic},
			k{0.6, t.Y(), outCubic},
			k{1, t.Y(), lin},
		),
		z: curve(
			k{0, s.Z(), lin},
			k{0.85, s.Z(), inCubic},
			k{1, t.Z(), inOutCubic},
		),
		yaw: curve(
			k{0, s.Rotation.Yaw, outCubic},
			k{0.6, t.Rotation.Yaw - 1.0, inCubic},
			k{1, t.Rotation.Yaw, lin},
		),
		pitch: curve(
			k{0, s.Rotation.Pitch, inCubic},
			k{0.5, -0.4, outCubic},
			k{0.9, 0.1, inQuad},
			k{1, t.Rotation.Pitch, outCubic},
		),
	})
}
