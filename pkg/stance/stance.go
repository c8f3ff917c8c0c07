// Package stance runs the locomotion layer that is active while the camera
// is at the Standing position: walking along the cabin aisle, crouching and
// rising onto tiptoes.
//
// Crouch and tiptoe are driven by head pitch held past a threshold for
// stance_control.hold_time. Walking is driven by a held key and is bounded by
// the walk zone.
package stance

import (
	"log/slog"
	"math"
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/sequences"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

// Mover is the outer controller the stance layer hands back to once the
// player has walked home.
type Mover interface {
	MoveTo(target cabin.Position)
}

// WalkIntent reports whether the walk key is held.
type WalkIntent interface {
	WalkKeyDown() bool
}

// WalkIntentFunc adapts a plain function to WalkIntent.
type WalkIntentFunc func() bool

// WalkKeyDown calls f.
func (f WalkIntentFunc) WalkKeyDown() bool { return f() }

// Controller is the stance state machine. It is not safe for concurrent use;
// the owning session serializes every call.
type Controller struct {
	device   camera.Device
	settings settings.Provider
	builder  *sequences.Builder
	walk     WalkIntent
	mover    Mover
	logger   *slog.Logger

	state State
	next  State // committed when an InTransition sequence finishes
	seq   *animation.Sequence

	crouchHeld    time.Duration
	tiptoeHeld    time.Duration
	standUpHeld   time.Duration
	standDownHeld time.Duration

	stepping bool // first step already taken while the key is held

	home        cabin.Position
	homeZ       float64
	sitOverride bool
}

// New creates a stance controller in the Standing state. A nil logger uses
// the default logger.
func New(device camera.Device, p settings.Provider, b *sequences.Builder, walk WalkIntent, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if b == nil {
		b = sequences.NewBuilder(p)
	}
	return &Controller{
		device:   device,
		settings: p,
		builder:  b,
		walk:     walk,
		logger:   logger.With("component", "stance"),
		state:    Standing,
	}
}

// SetMover injects the controller that receives MoveTo once the player has
// returned home.
func (c *Controller) SetMover(m Mover) {
	c.mover = m
}

// Current returns the current stance.
func (c *Controller) Current() State { return c.state }

// IsAnimating reports whether a stance or walk sequence is playing.
func (c *Controller) IsAnimating() bool {
	return c.seq != nil && c.seq.IsPlaying()
}

// ReturnTarget returns the seat the player is walking back to, or None.
func (c *Controller) ReturnTarget() cabin.Position {
	if c.state != ReturningToHome {
		return cabin.None
	}
	return c.home
}

func (c *Controller) cfg() settings.Settings {
	if c.settings == nil {
		return settings.Defaults()
	}
	return c.settings.Current()
}

// OnEnterStanding resets the layer. Called every time the camera arrives at
// the Standing position.
func (c *Controller) OnEnterStanding() {
	if c.seq != nil {
		c.seq.Stop()
		c.seq = nil
	}
	c.state = Standing
	c.next = Standing
	c.resetTimers()
	c.stepping = false
	c.sitOverride = false
	c.home = cabin.None
}

func (c *Controller) resetTimers() {
	c.crouchHeld, c.tiptoeHeld = 0, 0
	c.standUpHeld, c.standDownHeld = 0, 0
}

// Update advances the layer by dt using the live camera pose.
func (c *Controller) Update(pose camera.Pose, dt time.Duration) {
	if c.IsAnimating() {
		if !c.seq.Update(dt, c.device) {
			c.seq = nil
			if c.state == InTransition {
				c.logger.Debug("stance committed", "stance", c.next)
				c.state = c.next
			}
		}
		return
	}

	cfg := c.cfg()
	sc := cfg.StandingMovement.StanceControl
	pitch := pose.Rotation.Pitch

	switch c.state {
	case Standing:
		c.standUpHeld, c.standDownHeld = 0, 0
		if c.walking(pose, cfg) {
			return
		}
		switch {
		case pitch < sc.Crouch.ActivationAngle:
			c.crouchHeld += dt
			c.tiptoeHeld = 0
			if c.crouchHeld >= sc.HoldTime {
				c.crouchHeld = 0
				c.transition(Crouching, c.builder.CrouchDown(pose), pose)
			}
		case pitch > sc.Tiptoe.ActivationAngle:
			c.tiptoeHeld += dt
			c.crouchHeld = 0
			if c.tiptoeHeld >= sc.HoldTime {
				c.tiptoeHeld = 0
				c.transition(Tiptoes, c.builder.Tiptoe(pose), pose)
			}
		default:
			c.crouchHeld, c.tiptoeHeld = 0, 0
		}

	case Crouching:
		c.crouchHeld, c.tiptoeHeld = 0, 0
		if pitch > sc.Crouch.DeactivationAngle {
			c.standUpHeld += dt
			if c.standUpHeld >= sc.HoldTime {
				c.standUpHeld = 0
				c.standUp(pose)
			}
		} else {
			c.standUpHeld = 0
		}

	case Tiptoes:
		c.crouchHeld, c.tiptoeHeld = 0, 0
		if pitch < sc.Tiptoe.DeactivationAngle {
			c.standDownHeld += dt
			if c.standDownHeld >= sc.HoldTime {
				c.standDownHeld = 0
				c.standDown(pose)
			}
		} else {
			c.standDownHeld = 0
		}

	case InTransition:

	case ReturningToHome:
		c.returnHome(pose, cfg)
	}
}

// walking starts the next step if the walk key is held and the step stays
// inside the walk zone. It reports whether a step was started.
func (c *Controller) walking(pose camera.Pose, cfg settings.Settings) bool {
	if c.walk == nil || !c.walk.WalkKeyDown() {
		c.stepping = false
		return false
	}

	w := cfg.StandingMovement.Walking
	forward := math.Abs(camera.WrapYaw(pose.Rotation.Yaw)) <= math.Pi/2
	next := pose.Z() + w.StepAmount
	if forward {
		next = pose.Z() - w.StepAmount
	}
	if !w.WalkZoneZ.Contains(next) {
		return false
	}

	if c.stepping {
		c.start(c.builder.WalkStep(pose, forward), pose)
	} else {
		c.start(c.builder.DynamicFirstStep(pose, forward), pose)
	}
	c.stepping = true
	return true
}

func (c *Controller) returnHome(pose camera.Pose, cfg settings.Settings) {
	w := cfg.StandingMovement.Walking
	dz := pose.Z() - c.homeZ

	if math.Abs(dz) <= w.StepAmount {
		c.arrive(false)
		return
	}

	forward := dz > 0
	next := pose.Z() + w.StepAmount
	if forward {
		next = pose.Z() - w.StepAmount
	}
	if !w.WalkZoneZ.Contains(next) {
		c.logger.Debug("walk home left the walk zone, sitting anyway",
			"to", c.home, "z", pose.Z(), "target_z", c.homeZ)
		c.arrive(true)
		return
	}

	if c.stepping {
		c.start(c.builder.WalkStep(pose, forward), pose)
	} else {
		c.start(c.builder.DynamicFirstStep(pose, forward), pose)
	}
	c.stepping = true
}

func (c *Controller) arrive(override bool) {
	target := c.home
	c.state = Standing
	c.stepping = false
	c.home = cabin.None
	c.sitOverride = override
	if c.mover != nil {
		c.mover.MoveTo(target)
	}
}

// CanSitDown reports whether the player is close enough to a seat at targetZ
// to sit. If not, the layer starts walking home and the outer controller is
// called back on arrival.
func (c *Controller) CanSitDown(target cabin.Position, targetZ float64) bool {
	if c.sitOverride {
		c.sitOverride = false
		return true
	}
	if c.device == nil {
		return false
	}
	pose, err := c.device.GetPose()
	if err != nil {
		return false
	}

	step := c.cfg().StandingMovement.Walking.StepAmount
	if pose.Z()-targetZ > step {
		c.logger.Debug("too far to sit, walking home",
			"to", target, "z", pose.Z(), "target_z", targetZ)
		c.state = ReturningToHome
		c.home = target
		c.homeZ = targetZ
		c.stepping = false
		return false
	}
	return true
}

// TriggerStandUp leaves a crouch. It does nothing unless the stance is
// Crouching and no sequence is playing.
func (c *Controller) TriggerStandUp() {
	if c.state != Crouching || c.IsAnimating() {
		return
	}
	if pose, ok := c.livePose(); ok {
		c.standUp(pose)
	}
}

// TriggerStandDown comes down off tiptoes. It does nothing unless the stance
// is Tiptoes and no sequence is playing.
func (c *Controller) TriggerStandDown() {
	if c.state != Tiptoes || c.IsAnimating() {
		return
	}
	if pose, ok := c.livePose(); ok {
		c.standDown(pose)
	}
}

func (c *Controller) standUp(pose camera.Pose) {
	c.transition(Standing, c.builder.StandUp(pose), pose)
}

func (c *Controller) standDown(pose camera.Pose) {
	c.transition(Standing, c.builder.StandDown(pose), pose)
}

func (c *Controller) livePose() (camera.Pose, bool) {
	if c.device == nil {
		return camera.Pose{}, false
	}
	pose, err := c.device.GetPose()
	return pose, err == nil
}

func (c *Controller) transition(to State, seq *animation.Sequence, pose camera.Pose) {
	c.logger.Debug("stance transition", "from", c.state, "to", to)
	c.state = InTransition
	c.next = to
	c.start(seq, pose)
}

func (c *Controller) start(seq *animation.Sequence, pose camera.Pose) {
	seq.Start(pose)
	c.seq = seq
}
