package sequences

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

const eps = 1e-9

func floatEquals(t *testing.T, want, got float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want, got, eps, msgAndArgs...)
}

func driverPose() camera.Pose {
	return camera.NewPose(0, 0, 0, 0, 0)
}

func poseOf(t *testing.T, s settings.Settings, p cabin.Position) camera.Pose {
	t.Helper()
	if p == cabin.Driver {
		return driverPose()
	}
	pose, ok := s.PoseFor(p)
	require.True(t, ok, "no pose for %s", p)
	return pose
}

func TestEdgesLandOnTarget(t *testing.T) {
	cfg := settings.Defaults()
	b := NewBuilder(settings.NewStatic(cfg))

	for _, e := range b.Edges() {
		t.Run(e.Name, func(t *testing.T) {
			start := poseOf(t, cfg, e.From)
			target := poseOf(t, cfg, e.To)

			seq := e.Build(start, target)
			require.NotNil(t, seq)
			assert.Greater(t, seq.Duration(), time.Duration(0))

			seq.Start(start)
			got := seq.Final()
			floatEquals(t, target.X(), got.X(), "x")
			floatEquals(t, target.Y(), got.Y(), "y")
			floatEquals(t, target.Z(), got.Z(), "z")
			floatEquals(t, target.Rotation.Yaw, got.Rotation.Yaw, "yaw")
			floatEquals(t, target.Rotation.Pitch, got.Rotation.Pitch, "pitch")

			// First sample sits on the start pose for every tracked channel.
			first := seq.Sample(0)
			floatEquals(t, start.X(), first.X(), "start x")
			floatEquals(t, start.Y(), first.Y(), "start y")
			floatEquals(t, start.Z(), first.Z(), "start z")
		})
	}
}

func TestEdgesCoverGraph(t *testing.T) {
	b := NewBuilder(nil)
	seen := map[[2]cabin.Position]bool{}
	for _, e := range b.Edges() {
		key := [2]cabin.Position{e.From, e.To}
		assert.False(t, seen[key], "duplicate edge %s", e.Name)
		seen[key] = true
	}
	assert.Len(t, seen, 13)
	assert.False(t, seen[[2]cabin.Position{cabin.SofaSit2, cabin.SofaLie}])
}

func TestDurationsFollowSettings(t *testing.T) {
	p := settings.NewStatic(settings.Defaults())
	b := NewBuilder(p)

	seq := b.DriverToPassenger(driverPose(), driverPose())
	assert.Equal(t, 4000*time.Millisecond, seq.Duration())

	p.Update(func(s *settings.Settings) {
		s.Durations.Main.DriverToPassenger = 1234 * time.Millisecond
	})
	seq = b.DriverToPassenger(driverPose(), driverPose())
	assert.Equal(t, 1234*time.Millisecond, seq.Duration())
}

func TestDriverToStandingChained(t *testing.T) {
	cfg := settings.Defaults()
	b := NewBuilder(settings.NewStatic(cfg))
	target := poseOf(t, cfg, cabin.Standing)

	chained := true
	b.Chained = func() bool { return chained }

	seq := b.DriverToStanding(driverPose(), target)
	yaw := seq.Track(animation.Yaw)
	require.NotNil(t, yaw)
	assert.Equal(t, 4, yaw.Len())
	floatEquals(t, target.Rotation.Yaw-0.75, seq.Final().Rotation.Yaw)

	chained = false
	seq = b.DriverToStanding(driverPose(), target)
	assert.Equal(t, 5, seq.Track(animation.Yaw).Len())
	floatEquals(t, target.Rotation.Yaw, seq.Final().Rotation.Yaw)
}

func TestLayoutMirrorsDriverTurns(t *testing.T) {
	p := settings.NewStatic(settings.Defaults())
	b := NewBuilder(p)
	start := poseOf(t, p.Current(), cabin.Passenger)

	lhd := b.PassengerToDriver(start, driverPose())
	lhd.Start(start)
	p.Update(func(s *settings.Settings) { s.General.CabinLayout = settings.RHD })
	rhd := b.PassengerToDriver(start, driverPose())
	rhd.Start(start)

	floatEquals(t, 1.35, lhd.Sample(0.2).Rotation.Yaw)
	floatEquals(t, -1.35, rhd.Sample(0.2).Rotation.Yaw)
	floatEquals(t, 0.25, lhd.Sample(0.35).Y(), "crossing height")
}

func TestCrouchAndStandUpReturnToHeight(t *testing.T) {
	cfg := settings.Defaults()
	b := NewBuilder(settings.NewStatic(cfg))
	start := camera.NewPose(0.5, 0.2, 0.25, 0.1, -0.8)

	down := b.CrouchDown(start)
	down.Start(start)
	crouched := down.Final()
	floatEquals(t, 0.2-cfg.StandingMovement.StanceControl.Crouch.Depth, crouched.Y())
	floatEquals(t, 0, crouched.Rotation.Pitch, "crouch ends looking level")
	floatEquals(t, start.Z(), crouched.Z())
	assert.Equal(t, cfg.Durations.Stance.Crouch, down.Duration())

	up := b.StandUp(crouched)
	up.Start(crouched)
	floatEquals(t, start.Y(), up.Final().Y())
}

func TestLeanFollowsGaze(t *testing.T) {
	b := NewBuilder(nil)

	tests := []struct {
		name  string
		yaw   float64
		axis  animation.Channel
		other animation.Channel
		sign  float64
	}{
		{"forward", 0, animation.PosZ, animation.PosX, -1},
		{"backward", math.Pi, animation.PosZ, animation.PosX, 1},
		{"right", -math.Pi / 2, animation.PosX, animation.PosZ, 1},
		{"left", math.Pi / 2, animation.PosX, animation.PosZ, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := camera.NewPose(0.5, 0.2, 0.25, tt.yaw, 0)
			seq := b.CrouchDown(start)
			seq.Start(start)

			assert.Nil(t, seq.Track(tt.other))
			lean := seq.Track(tt.axis)
			require.NotNil(t, lean)

			base := start.Position[0]
			if tt.axis == animation.PosZ {
				base = start.Position[2]
			}
			floatEquals(t, base+tt.sign*0.07, lean.Evaluate(0.5, 0))
		})
	}
}

func TestTiptoeSideLeanIsOppositeToCrouch(t *testing.T) {
	b := NewBuilder(nil)
	start := camera.NewPose(0.5, 0.2, 0.25, -math.Pi/2, 0)

	tip := b.Tiptoe(start)
	floatEquals(t, 0.5-0.13, tip.Track(animation.PosX).Evaluate(0.25, 0))

	down := b.StandDown(start)
	floatEquals(t, 0.5+0.01, down.Track(animation.PosX).Evaluate(0.85, 0))
}

func TestWalkStep(t *testing.T) {
	cfg := settings.Defaults()
	b := NewBuilder(settings.NewStatic(cfg))
	start := camera.NewPose(0.5, 0.2, 0.25, 0, 0)

	fwd := b.WalkStep(start, true)
	fwd.Start(start)
	floatEquals(t, 0.25-0.35, fwd.Final().Z())
	floatEquals(t, 0.2+0.02, fwd.Sample(0.5).Y(), "bob")
	assert.Equal(t, 450*time.Millisecond, fwd.Duration())

	back := b.WalkStep(start, false)
	back.Start(start)
	floatEquals(t, 0.25+0.35, back.Final().Z())
}

func TestFirstStepTurn(t *testing.T) {
	tests := []struct {
		yaw, wantTarget, wantAngle float64
		forward                    bool
	}{
		{0, 0, 0, true},
		{math.Pi / 2, 0, math.Pi / 2, true},
		{0.5, math.Pi, math.Pi - 0.5, false},
		{-0.5, -math.Pi, math.Pi - 0.5, false},
		{-3, 0, 3, true},
	}
	for _, tt := range tests {
		target, angle := FirstStepTurn(tt.yaw, tt.forward)
		floatEquals(t, tt.wantTarget, target)
		floatEquals(t, tt.wantAngle, angle)
	}
}

func TestDynamicFirstStep(t *testing.T) {
	cfg := settings.Defaults()
	b := NewBuilder(settings.NewStatic(cfg))

	// Facing backward and walking forward: a full half turn.
	start := camera.NewPose(0.5, 0.2, 0.25, math.Pi, 0)
	seq := b.DynamicFirstStep(start, true)
	assert.Equal(t, 1250*time.Millisecond, seq.Duration())

	seq.Start(start)
	end := seq.Final()
	floatEquals(t, 0, end.Rotation.Yaw)
	floatEquals(t, 0.25-0.35, end.Z())
	floatEquals(t, 0.2, end.Y())

	// Z holds still until the step portion begins.
	r := float64(1250-450) / 1250
	floatEquals(t, 0.25, seq.Sample(r-0.01).Z())

	// Already facing forward: the turn is shorter than a step, so the
	// sequence is exactly one step long and walks from the start.
	start = camera.NewPose(0.5, 0.2, 0.25, 0, 0)
	seq = b.DynamicFirstStep(start, true)
	assert.Equal(t, cfg.Walking.WalkStep, seq.Duration())
	assert.Equal(t, 2, seq.Track(animation.PosZ).Len())
}
