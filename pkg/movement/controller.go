package movement

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-cabinwalk/pkg/animation"
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/sequences"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
	"github.com/teslashibe/go-cabinwalk/pkg/stance"
)

// Controller moves the camera between cabin positions.
//
// It is not safe for concurrent use. The owning session calls every method
// from its tick goroutine.
type Controller struct {
	device   camera.Device
	clock    camera.Clock
	settings settings.Provider
	stance   StanceLayer
	notifier Notifier
	logger   *slog.Logger

	graph map[edge]sequences.Factory

	// Position state
	current cabin.Position
	target  cabin.Position
	seq     *animation.Sequence
	leg     string
	pending []cabin.Position

	// The driver seat has no authored pose; it is whatever the camera was at
	// when the player last got up.
	driverPose camera.Pose

	// Clock reference for dt
	lastTick      time.Duration
	ticking       bool
	settingsDirty bool
}

// New creates a controller at the driver seat with an empty graph.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	c := &Controller{
		device:   opts.Device,
		clock:    opts.Clock,
		settings: opts.Settings,
		stance:   opts.Stance,
		notifier: notifier,
		logger:   logger.With("component", "movement"),
		graph:    make(map[edge]sequences.Factory),
		current:  cabin.Driver,
		target:   cabin.None,
	}
	if c.device != nil {
		if pose, err := c.device.GetPose(); err == nil {
			c.driverPose = pose
		}
	}
	return c
}

// RegisterSequence adds or replaces the transition from one position to
// another.
func (c *Controller) RegisterSequence(from, to cabin.Position, f sequences.Factory) {
	c.graph[edge{from, to}] = f
}

// RegisterDefaultSequences registers every transition b knows. The builder is
// told about chained legs through HasPendingMoves.
func (c *Controller) RegisterDefaultSequences(b *sequences.Builder) {
	b.Chained = c.HasPendingMoves
	for _, e := range b.Edges() {
		c.RegisterSequence(e.From, e.To, e.Build)
	}
}

// HasEdge reports whether a direct transition is registered.
func (c *Controller) HasEdge(from, to cabin.Position) bool {
	_, ok := c.graph[edge{from, to}]
	return ok
}

// Plan returns the waypoints from one position to another over this
// controller's graph.
func (c *Controller) Plan(from, to cabin.Position) []cabin.Position {
	return Plan(from, to, c.HasEdge)
}

// ============================================================
// Queries
// ============================================================

// CurrentPosition returns the committed position.
func (c *Controller) CurrentPosition() cabin.Position { return c.current }

// TargetPosition returns the destination of the playing leg, or None.
func (c *Controller) TargetPosition() cabin.Position { return c.target }

// IsAnimating reports whether a transition sequence is playing.
func (c *Controller) IsAnimating() bool {
	return c.seq != nil && c.seq.IsPlaying()
}

// HasPendingMoves reports whether legs remain queued.
func (c *Controller) HasPendingMoves() bool { return len(c.pending) > 0 }

// PendingMoves returns a copy of the queued legs.
func (c *Controller) PendingMoves() []cabin.Position {
	return slices.Clone(c.pending)
}

// NotifySettingsUpdated marks settings dirty. They are applied on the next
// idle tick.
func (c *Controller) NotifySettingsUpdated() {
	c.settingsDirty = true
}

// Snapshot returns the current status.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Position:  c.current,
		Target:    c.target,
		Pending:   c.PendingMoves(),
		Stance:    c.stanceState(),
		Animating: c.IsAnimating() || (c.stance != nil && c.stance.IsAnimating()),
		Leg:       c.leg,
	}
	if c.seq != nil {
		s.Progress = c.seq.Progress()
	}
	if c.device != nil {
		if pose, err := c.device.GetPose(); err == nil {
			s.Pose = pose
		}
	}
	return s
}

func (c *Controller) stanceState() stance.State {
	if c.stance == nil {
		return stance.Standing
	}
	return c.stance.Current()
}

func (c *Controller) idle() bool {
	if c.IsAnimating() {
		return false
	}
	return c.stance == nil || !c.stance.IsAnimating()
}

// Busy reports whether a new request would be ignored: a leg or stance
// sequence is playing, legs are queued, or the stance layer is between
// states or walking back to a seat.
func (c *Controller) Busy() bool {
	if !c.idle() || c.HasPendingMoves() {
		return true
	}
	switch c.stanceState() {
	case stance.InTransition, stance.ReturningToHome:
		return true
	}
	return false
}

func (c *Controller) cfg() settings.Settings {
	if c.settings == nil {
		return settings.Defaults()
	}
	return c.settings.Current()
}

// poseFor returns where the camera rests at p.
func (c *Controller) poseFor(p cabin.Position) (camera.Pose, bool) {
	if p == cabin.Driver {
		return c.driverPose, true
	}
	return c.cfg().PoseFor(p)
}

// ============================================================
// Move API
// ============================================================

// OnRequestMove plans a path to dest and starts its first leg. It is ignored
// while Busy.
func (c *Controller) OnRequestMove(dest cabin.Position) {
	if c.Busy() {
		c.logger.Debug("move request ignored, busy", "to", dest)
		return
	}
	if dest == c.current || dest == cabin.None {
		return
	}

	path := c.Plan(c.current, dest)
	if len(path) == 0 {
		return
	}
	c.logger.Info("move requested", "from", c.current, "to", dest, "path", path)

	c.pending = append(c.pending[:0], path[1:]...)
	c.MoveTo(path[0])
}

// MoveTo starts a single leg to target, or snaps there if no transition is
// registered. Leaving Standing for a seat or the sofa first waits for the
// stance layer to be upright and close enough.
func (c *Controller) MoveTo(target cabin.Position) {
	if !c.idle() || target == c.current || c.device == nil {
		return
	}
	if _, ok := c.poseFor(target); !ok {
		c.logger.Debug("no pose for target", "to", target)
		return
	}

	if c.current == cabin.Standing && sitsDown(target) && c.stance != nil {
		switch c.stance.Current() {
		case stance.Standing:
			if !c.stance.CanSitDown(target, c.targetZ(target)) {
				return
			}
		case stance.Crouching:
			c.pending = slices.Insert(c.pending, 0, target)
			c.stance.TriggerStandUp()
			return
		case stance.Tiptoes:
			c.pending = slices.Insert(c.pending, 0, target)
			c.stance.TriggerStandDown()
			return
		default:
			return
		}
	}

	pose, err := c.device.GetPose()
	if err != nil {
		c.logger.Debug("camera unavailable", "to", target, "error", err)
		return
	}

	build, ok := c.graph[edge{c.current, target}]
	if !ok {
		c.snap(target)
		return
	}

	if c.current == cabin.Driver {
		c.driverPose = pose
	}
	targetPose, _ := c.poseFor(target)

	if c.clock != nil {
		c.lastTick = c.clock.Now()
		c.ticking = true
	}
	seq := build(pose, targetPose)
	seq.Start(pose)
	c.seq = seq
	c.target = target
	c.leg = uuid.NewString()

	c.logger.Info("leg started", "from", c.current, "to", target,
		"leg", c.leg, "duration", seq.Duration())
}

func sitsDown(target cabin.Position) bool {
	return target == cabin.Driver || target == cabin.Passenger || target == cabin.SofaSit1
}

// targetZ is the Z the player must be near before sitting at target.
func (c *Controller) targetZ(target cabin.Position) float64 {
	pose, _ := c.poseFor(target)
	return pose.Z()
}

func (c *Controller) snap(target cabin.Position) {
	c.logger.Info("no transition, snapping", "from", c.current, "to", target)
	c.current = target
	if pose, ok := c.poseFor(target); ok {
		if err := c.device.SetPose(pose); err != nil {
			c.logger.Debug("snap write failed", "to", target, "error", err)
		}
	}
	if target == cabin.Standing && c.stance != nil {
		c.stance.OnEnterStanding()
	}
	c.notifier.NotifyCurrentPosition(target)
}

func (c *Controller) popAndMove() {
	next := c.pending[0]
	c.pending = c.pending[1:]
	c.MoveTo(next)
}

// ============================================================
// Tick
// ============================================================

// Update advances the controller by one tick.
func (c *Controller) Update() {
	if c.clock == nil || c.device == nil {
		return
	}

	now := c.clock.Now()
	var dt time.Duration
	if c.ticking {
		dt = now - c.lastTick
	}
	if dt < 0 {
		dt = 0
	}
	c.lastTick = now
	c.ticking = true

	if c.settingsDirty && c.idle() {
		c.applySettings()
	}

	if c.HasPendingMoves() && c.idle() && c.stanceState() == stance.Standing {
		c.popAndMove()
		return
	}

	if c.seq != nil {
		if c.seq.Update(dt, c.device) {
			return
		}
		c.finishLeg()
		if c.HasPendingMoves() && c.idle() {
			c.popAndMove()
		}
		return
	}

	if c.current == cabin.Standing && c.stance != nil {
		pose, err := c.device.GetPose()
		if err != nil {
			return
		}
		c.stance.Update(pose, dt)
	}
}

func (c *Controller) applySettings() {
	c.settingsDirty = false
	if c.current != cabin.Driver {
		if pose, ok := c.cfg().PoseFor(c.current); ok {
			if err := c.device.SetPose(pose); err != nil {
				c.logger.Debug("settings snap failed", "error", err)
			}
		}
	}
	c.logger.Debug("settings applied", "position", c.current)
	c.notifier.NotifySettingsChanged()
}

func (c *Controller) finishLeg() {
	if err := c.seq.Err(); err != nil {
		c.logger.Warn("leg finished with camera errors", "leg", c.leg, "error", err)
	}
	c.logger.Info("leg finished", "from", c.current, "to", c.target, "leg", c.leg)

	c.current = c.target
	c.target = cabin.None
	c.seq = nil
	c.leg = ""

	c.notifier.NotifyCurrentPosition(c.current)
	if c.current == cabin.Standing && c.stance != nil {
		c.stance.OnEnterStanding()
	}
}
