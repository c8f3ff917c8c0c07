package stance

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

const tick = 50 * time.Millisecond

type recordingMover struct {
	moves []cabin.Position
}

func (m *recordingMover) MoveTo(target cabin.Position) {
	m.moves = append(m.moves, target)
}

type harness struct {
	dev   *camera.SimDevice
	walk  bool
	mover *recordingMover
	ctrl  *Controller
}

func newHarness(t *testing.T, start camera.Pose) *harness {
	t.Helper()
	h := &harness{
		dev:   camera.NewSimDevice(start),
		mover: &recordingMover{},
	}
	h.ctrl = New(h.dev, settings.NewStatic(settings.Defaults()), nil,
		WalkIntentFunc(func() bool { return h.walk }), nil)
	h.ctrl.SetMover(h.mover)
	return h
}

func (h *harness) step(t *testing.T, dt time.Duration) {
	t.Helper()
	pose, err := h.dev.GetPose()
	require.NoError(t, err)
	h.ctrl.Update(pose, dt)
}

// settle runs ticks until no sequence is playing.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 200; i++ {
		h.step(t, tick)
		if !h.ctrl.IsAnimating() {
			return
		}
	}
	t.Fatal("sequence never finished")
}

func (h *harness) z(t *testing.T) float64 {
	t.Helper()
	pose, err := h.dev.GetPose()
	require.NoError(t, err)
	return pose.Z()
}

func TestCrouchNeedsFullHoldTime(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, -0.8))

	for i := 0; i < 9; i++ {
		h.step(t, 100*time.Millisecond)
	}
	assert.Equal(t, Standing, h.ctrl.Current())
	assert.False(t, h.ctrl.IsAnimating())

	h.step(t, 100*time.Millisecond)
	assert.Equal(t, InTransition, h.ctrl.Current())
	assert.True(t, h.ctrl.IsAnimating())

	h.settle(t)
	assert.Equal(t, Crouching, h.ctrl.Current())

	pose, _ := h.dev.GetPose()
	assert.InDelta(t, 0.2-0.5, pose.Y(), 1e-9)
}

func TestHoldTimeBoundary(t *testing.T) {
	tests := []struct {
		name  string
		pitch float64
		want  State
	}{
		{"crouch", -0.8, Crouching},
		{"tiptoe", 0.6, Tiptoes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, tt.pitch))

			h.step(t, 999*time.Millisecond)
			assert.Equal(t, Standing, h.ctrl.Current())
			assert.False(t, h.ctrl.IsAnimating())

			h.step(t, time.Millisecond)
			assert.Equal(t, InTransition, h.ctrl.Current())
			h.settle(t)
			assert.Equal(t, tt.want, h.ctrl.Current())
		})
	}
}

func TestLookingAwayResetsHoldTimer(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, -0.8))

	for i := 0; i < 8; i++ {
		h.step(t, 100*time.Millisecond)
	}
	h.dev.SetHeadRotation(0, 0)
	h.step(t, 100*time.Millisecond)
	h.dev.SetHeadRotation(0, -0.8)
	for i := 0; i < 9; i++ {
		h.step(t, 100*time.Millisecond)
	}
	assert.Equal(t, Standing, h.ctrl.Current())
}

func TestCrouchAndStandBackUp(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, -0.8))
	for i := 0; i < 10; i++ {
		h.step(t, 100*time.Millisecond)
	}
	h.settle(t)
	require.Equal(t, Crouching, h.ctrl.Current())

	// The crouch sequence levels the head; looking up past the
	// deactivation angle stands back up.
	h.dev.SetHeadRotation(0, 0.4)
	for i := 0; i < 10; i++ {
		h.step(t, 100*time.Millisecond)
	}
	assert.Equal(t, InTransition, h.ctrl.Current())
	h.settle(t)
	assert.Equal(t, Standing, h.ctrl.Current())

	pose, _ := h.dev.GetPose()
	assert.InDelta(t, 0.2, pose.Y(), 1e-9)
}

func TestTiptoeAndStandDown(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, 0.6))
	for i := 0; i < 10; i++ {
		h.step(t, 100*time.Millisecond)
	}
	h.settle(t)
	require.Equal(t, Tiptoes, h.ctrl.Current())

	pose, _ := h.dev.GetPose()
	assert.InDelta(t, 0.2+0.17, pose.Y(), 1e-9)

	h.ctrl.TriggerStandUp()
	assert.False(t, h.ctrl.IsAnimating(), "stand up only leaves a crouch")

	h.ctrl.TriggerStandDown()
	assert.True(t, h.ctrl.IsAnimating())
	h.settle(t)
	assert.Equal(t, Standing, h.ctrl.Current())
}

func TestTriggersIgnoredWhileStanding(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, 0))
	h.ctrl.TriggerStandUp()
	h.ctrl.TriggerStandDown()
	assert.False(t, h.ctrl.IsAnimating())
	assert.Equal(t, Standing, h.ctrl.Current())
}

func TestWalkStaysInsideZone(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, 0))
	h.walk = true

	h.step(t, tick)
	require.True(t, h.ctrl.IsAnimating())
	h.settle(t)
	assert.InDelta(t, -0.1, h.z(t), 1e-9)

	h.step(t, tick)
	h.settle(t)
	assert.InDelta(t, -0.45, h.z(t), 1e-9)

	// One more step would reach -0.8, past walk_zone_z.min.
	h.step(t, tick)
	assert.False(t, h.ctrl.IsAnimating())
	assert.InDelta(t, -0.45, h.z(t), 1e-9)
}

func TestFirstStepThenPlainSteps(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.6, 1.2, 0))
	cfg := settings.Defaults().Walking
	firstStep := cfg.FirstStepBase + time.Duration(1.2/math.Pi*float64(cfg.FirstStepTurnExtra))
	require.Greater(t, firstStep, cfg.WalkStep)

	h.walk = true
	h.step(t, tick)
	require.True(t, h.ctrl.IsAnimating())
	assert.Equal(t, firstStep, h.ctrl.seq.Duration())
	assert.NotNil(t, h.ctrl.seq.Track(animation.Yaw))
	h.settle(t)
	assert.InDelta(t, 0.25, h.z(t), 1e-9)
	pose, _ := h.dev.GetPose()
	assert.InDelta(t, 0, pose.Rotation.Yaw, 1e-9, "turned to face forward")

	// Key still held: a plain step with no turn.
	h.step(t, tick)
	require.True(t, h.ctrl.IsAnimating())
	assert.Equal(t, cfg.WalkStep, h.ctrl.seq.Duration())
	assert.Nil(t, h.ctrl.seq.Track(animation.Yaw))
	h.settle(t)
	assert.InDelta(t, -0.1, h.z(t), 1e-9)

	h.walk = false
	h.step(t, tick)
	assert.False(t, h.ctrl.IsAnimating())
	assert.False(t, h.ctrl.stepping)

	// Pressing again starts over with a turning first step.
	h.dev.SetHeadRotation(1.2, 0)
	h.walk = true
	h.step(t, tick)
	require.True(t, h.ctrl.IsAnimating())
	assert.Equal(t, firstStep, h.ctrl.seq.Duration())
	h.settle(t)
	assert.InDelta(t, -0.45, h.z(t), 1e-9)
}

func TestWalkBackwardWhenFacingRear(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, -0.2, 3.0, 0))
	h.walk = true

	h.step(t, tick)
	h.settle(t)
	assert.InDelta(t, 0.15, h.z(t), 1e-9)

	pose, _ := h.dev.GetPose()
	assert.InDelta(t, 3.14159265, pose.Rotation.Yaw, 1e-6, "turned to face the rear")
}

func TestCanSitDownWhenClose(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, 0))
	assert.True(t, h.ctrl.CanSitDown(cabin.Driver, 0))
	assert.Equal(t, Standing, h.ctrl.Current())
}

func TestWalksHomeBeforeSitting(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.6, 0, 0))

	assert.False(t, h.ctrl.CanSitDown(cabin.Driver, 0))
	assert.Equal(t, ReturningToHome, h.ctrl.Current())
	assert.Equal(t, cabin.Driver, h.ctrl.ReturnTarget())

	h.step(t, tick)
	require.True(t, h.ctrl.IsAnimating())
	h.settle(t)
	assert.InDelta(t, 0.25, h.z(t), 1e-9)
	assert.Empty(t, h.mover.moves)

	h.step(t, tick)
	assert.Equal(t, []cabin.Position{cabin.Driver}, h.mover.moves)
	assert.Equal(t, Standing, h.ctrl.Current())
	assert.Equal(t, cabin.None, h.ctrl.ReturnTarget())
	assert.True(t, h.ctrl.CanSitDown(cabin.Driver, 0))
}

func TestWalkHomeGivesUpAtZoneEdge(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.6, 0, 0))

	require.False(t, h.ctrl.CanSitDown(cabin.Passenger, -2))
	for i := 0; i < 20 && len(h.mover.moves) == 0; i++ {
		h.step(t, tick)
		if h.ctrl.IsAnimating() {
			h.settle(t)
		}
	}

	require.Equal(t, []cabin.Position{cabin.Passenger}, h.mover.moves)
	assert.InDelta(t, -0.45, h.z(t), 1e-9)

	// The next sit check is let through once.
	assert.True(t, h.ctrl.CanSitDown(cabin.Passenger, -2))
	assert.False(t, h.ctrl.CanSitDown(cabin.Passenger, -2))
}

func TestOnEnterStandingResets(t *testing.T) {
	h := newHarness(t, camera.NewPose(0.5, 0.2, 0.25, 0, -0.8))
	for i := 0; i < 10; i++ {
		h.step(t, 100*time.Millisecond)
	}
	require.True(t, h.ctrl.IsAnimating())

	h.ctrl.OnEnterStanding()
	assert.False(t, h.ctrl.IsAnimating())
	assert.Equal(t, Standing, h.ctrl.Current())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "returning_to_home", ReturningToHome.String())
	assert.Equal(t, "state(42)", State(42).String())

	text, err := Crouching.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "crouching", string(text))
}
