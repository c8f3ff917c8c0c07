// Package sequences authors the camera animations: one factory per directed
// cabin transition, plus the stance and walking sequences used while
// standing.
//
// Factories read live settings at build time, so a settings change takes
// effect on the next leg without rebuilding anything.
package sequences

import (
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/easing"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

// Factory builds a sequence that carries the camera from start to target.
type Factory func(start, target camera.Pose) *animation.Sequence

// Edge is one registered transition.
type Edge struct {
	From  cabin.Position
	To    cabin.Position
	Name  string
	Build Factory
}

// Builder creates sequences from the current settings.
type Builder struct {
	settings settings.Provider

	// Chained reports whether more legs are queued after the one being
	// built. Driver->Standing leaves the final turn to the next leg when it
	// is. Nil means never chained.
	Chained func() bool
}

// NewBuilder returns a builder reading from p.
func NewBuilder(p settings.Provider) *Builder {
	return &Builder{settings: p}
}

func (b *Builder) cfg() settings.Settings {
	if b.settings == nil {
		return settings.Defaults()
	}
	return b.settings.Current()
}

func (b *Builder) chained() bool {
	return b.Chained != nil && b.Chained()
}

// Edges lists every transition the builder can animate.
func (b *Builder) Edges() []Edge {
	return []Edge{
		{cabin.Driver, cabin.Passenger, "driver_to_passenger", b.DriverToPassenger},
		{cabin.Passenger, cabin.Driver, "passenger_to_driver", b.PassengerToDriver},
		{cabin.Driver, cabin.Standing, "driver_to_standing", b.DriverToStanding},
		{cabin.Standing, cabin.Driver, "standing_to_driver", b.StandingToDriver},
		{cabin.Passenger, cabin.Standing, "passenger_to_standing", b.PassengerToStanding},
		{cabin.Standing, cabin.Passenger, "standing_to_passenger", b.StandingToPassenger},
		{cabin.Standing, cabin.SofaSit1, "standing_to_sofa", b.StandingToSofa},
		{cabin.SofaSit1, cabin.Standing, "sofa_to_standing", b.SofaToStanding},
		{cabin.SofaSit1, cabin.SofaLie, "sofa_sit1_to_lie", b.SofaSit1ToLie},
		{cabin.SofaSit1, cabin.SofaSit2, "sofa_sit1_to_sit2", b.SofaSit1ToSit2},
		{cabin.SofaLie, cabin.SofaSit2, "sofa_lie_to_sit2", b.SofaLieToSit2},
		{cabin.SofaLie, cabin.SofaSit1, "sofa_lie_to_sit1_shortcut", b.SofaLieToSit1},
		{cabin.SofaSit2, cabin.SofaSit1, "sofa_sit2_to_sit1", b.SofaSit2ToSit1},
	}
}

// Short aliases keep the keyframe tables readable.
var (
	lin        = easing.Linear
	inQuad     = easing.EaseInQuad
	outQuad    = easing.EaseOutQuad
	inOutQuad  = easing.EaseInOutQuad
	inCubic    = easing.EaseInCubic
	outCubic   = easing.EaseOutCubic
	inOutCubic = easing.EaseInOutCubic
	inQuint    = easing.EaseInQuint
	outQuint   = easing.EaseOutQuint
	inOutQuint = easing.EaseInOutQuint
	outExpo    = easing.EaseOutExpo
)

// k is one row of a keyframe table: progress, value, easing.
type k struct {
	at    float64
	value float64
	ease  easing.Func
}

func curve(keys ...k) *animation.Track[float64] {
	t := animation.NewFloatTrack()
	for _, key := range keys {
		t.Add(key.at, key.value, key.ease)
	}
	return t
}

// tracks is the set of channel curves handed to assemble. Nil entries are
// left untracked.
type tracks struct {
	x, y, z, yaw, pitch *animation.Track[float64]
}

func assemble(d time.Duration, t tracks) *animation.Sequence {
	return animation.NewSequence(d).
		SetTrack(animation.PosX, t.x).
		SetTrack(animation.PosY, t.y).
		SetTrack(animation.PosZ, t.z).
		SetTrack(animation.Yaw, t.yaw).
		SetTrack(animation.Pitch, t.pitch)
}
