// Package session composes the cabin camera: it owns the animation
// controller, the stance layer and the hook notifiers, dispatches input
// actions, and drives everything from one tick goroutine.
//
// Other goroutines (HTTP handlers, websocket readers, the settings watcher)
// never touch the controllers directly. They Submit commands, which the next
// Tick drains before advancing the animation.
package session

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/hook"
	"github.com/teslashibe/go-cabinwalk/pkg/movement"
	"github.com/teslashibe/go-cabinwalk/pkg/sequences"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
	"github.com/teslashibe/go-cabinwalk/pkg/stance"
)

// DefaultInboxSize is the command buffer used when Options leaves it zero.
const DefaultInboxSize = 64

// Options configures a Session.
type Options struct {
	Device    camera.Rig
	Clock     camera.Clock
	Telemetry camera.Telemetry
	Settings  settings.Provider
	Logger    *slog.Logger

	// Notifiers receive position and settings notifications after the
	// look-limit hook. They run on the tick goroutine and must not call back
	// into the session.
	Notifiers []hook.Notifier

	InboxSize int
}

// Status is the published view of a session.
type Status struct {
	movement.Snapshot
	Walking bool `json:"walking"`
	Warning bool `json:"warning"`
}

// Session is one cabin camera and everything that drives it.
type Session struct {
	device    camera.Rig
	clock     camera.Clock
	telemetry camera.Telemetry
	settings  settings.Provider
	logger    *slog.Logger

	ctrl   *movement.Controller
	stance *stance.Controller
	limits *hook.LimitsApplier
	notify hook.Fanout

	inbox chan Command

	// Everything below is guarded by mu. Tick holds it for the whole cycle.
	mu           sync.Mutex
	walkDown     bool
	warning      bool
	warningUntil time.Duration
	last         Status
	published    bool
	listeners    []func(Status)
}

// New wires a session. The camera starts at the driver seat.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.InboxSize
	if size <= 0 {
		size = DefaultInboxSize
	}

	s := &Session{
		device:    opts.Device,
		clock:     opts.Clock,
		telemetry: opts.Telemetry,
		settings:  opts.Settings,
		logger:    logger.With("component", "session"),
		inbox:     make(chan Command, size),
	}

	var dev camera.Device
	var lc camera.LimitsController
	if opts.Device != nil {
		dev, lc = opts.Device, opts.Device
	}

	builder := sequences.NewBuilder(opts.Settings)
	s.limits = hook.NewLimitsApplier(lc, opts.Settings, logger)
	s.notify = append(hook.Fanout{s.limits}, opts.Notifiers...)
	s.stance = stance.New(dev, opts.Settings, builder, stance.WalkIntentFunc(s.walkKeyDown), logger)
	s.ctrl = movement.New(movement.Options{
		Device:   dev,
		Clock:    opts.Clock,
		Settings: opts.Settings,
		Stance:   s.stance,
		Notifier: s.notify,
		Logger:   logger,
	})
	s.stance.SetMover(s.ctrl)
	s.ctrl.RegisterDefaultSequences(builder)
	return s
}

// walkKeyDown is read by the stance layer during Tick, with mu held.
func (s *Session) walkKeyDown() bool { return s.walkDown }

// Controller exposes the animation controller for read-only inspection such
// as path planning. Mutate only through commands.
func (s *Session) Controller() *movement.Controller { return s.ctrl }

// OnStatus registers fn to receive the status after every tick that changed
// it. Callbacks run on the tick goroutine and must not block.
func (s *Session) OnStatus(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ============================================================
// Command inbox
// ============================================================

// Submit queues a command for the next tick without waiting for it.
func (s *Session) Submit(cmd Command) error {
	cmd.reply = nil
	select {
	case s.inbox <- cmd:
		return nil
	default:
		return ErrInboxFull
	}
}

// Do queues a command and waits for the tick that dispatches it.
func (s *Session) Do(ctx context.Context, cmd Command) error {
	cmd.reply = make(chan error, 1)
	select {
	case s.inbox <- cmd:
	default:
		return ErrInboxFull
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SettingsChanged forwards a settings key path to the tick goroutine. It is
// meant to be registered with settings.Store.OnChange.
func (s *Session) SettingsChanged(keyPath string) {
	if err := s.Submit(Command{Action: ActionSettingsChanged, Key: keyPath}); err != nil {
		s.logger.Warn("settings change dropped", "key", keyPath, "error", err)
	}
}

// ============================================================
// Tick
// ============================================================

// Run ticks at the given rate until ctx is cancelled.
func (s *Session) Run(ctx context.Context, rate time.Duration) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	s.logger.Info("session started", "hz", 1.0/rate.Seconds())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick drains pending commands, advances the controllers by one step and
// publishes the status if it changed.
func (s *Session) Tick() {
	s.mu.Lock()
	s.drain()
	s.ctrl.Update()

	if !s.busy() {
		hook.WrapYaw(s.device, s.ctrl.CurrentPosition())
	}
	if s.warning && s.clock != nil && s.clock.Now() >= s.warningUntil {
		s.warning = false
	}

	status := s.status()
	changed := !s.published || !reflect.DeepEqual(status, s.last)
	s.last = status
	s.published = true
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(status)
		}
	}
}

func (s *Session) drain() {
	var poseDirty, otherDirty bool
	for {
		select {
		case cmd := <-s.inbox:
			if cmd.Action == ActionSettingsChanged {
				if settings.AffectsPose(cmd.Key) {
					poseDirty = true
				} else {
					otherDirty = true
				}
				reply(cmd, nil)
				continue
			}
			reply(cmd, s.dispatch(cmd))
		default:
			if poseDirty {
				s.ctrl.NotifySettingsUpdated()
			} else if otherDirty {
				s.notify.NotifySettingsChanged()
			}
			return
		}
	}
}

func reply(cmd Command, err error) {
	if cmd.reply != nil {
		cmd.reply <- err
	}
}

// Status returns the latest status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) status() Status {
	return Status{
		Snapshot: s.ctrl.Snapshot(),
		Walking:  s.walkDown,
		Warning:  s.warning,
	}
}

func (s *Session) busy() bool {
	return s.ctrl.Busy()
}

func (s *Session) cfg() settings.Settings {
	if s.settings == nil {
		return settings.Defaults()
	}
	return s.settings.Current()
}
