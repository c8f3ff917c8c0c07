// Package hook adapts controller notifications to the host camera: look
// limits per position, yaw wrapping for free-look positions, and fan-out to
// any number of listeners.
package hook

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

// Look limits while standing, in degrees.
const (
	// StandingYawLimit lets the player turn all the way around and a bit more.
	StandingYawLimit = 231.0

	// StandingPitchDown lets the player look at their feet.
	StandingPitchDown = -80.0
)

// LimitsApplier sets the host camera's look limits for each position. The
// limits found on the first change are treated as the stock driver limits
// and restored on return to the driver seat.
type LimitsApplier struct {
	camera   camera.LimitsController
	settings settings.Provider
	logger   *slog.Logger

	mu       sync.Mutex
	original camera.Limits
	captured bool
	position cabin.Position
}

// NewLimitsApplier creates an applier. A nil logger uses the default logger.
func NewLimitsApplier(lc camera.LimitsController, p settings.Provider, logger *slog.Logger) *LimitsApplier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LimitsApplier{
		camera:   lc,
		settings: p,
		logger:   logger.With("component", "hook.limits"),
		position: cabin.Driver,
	}
}

// NotifyCurrentPosition applies the limits for p.
func (a *LimitsApplier) NotifyCurrentPosition(p cabin.Position) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = p
	a.apply()
}

// NotifySettingsChanged re-applies the limits of the current position so
// edited sofa limits take effect in place.
func (a *LimitsApplier) NotifySettingsChanged() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.apply()
}

// Original returns the captured stock limits. ok is false before the first
// change.
func (a *LimitsApplier) Original() (limits camera.Limits, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.original, a.captured
}

func (a *LimitsApplier) apply() {
	if a.camera == nil {
		return
	}
	if !a.captured {
		a.original = a.camera.RotationLimits()
		a.captured = true
	}

	limits := LimitsFor(a.position, a.original, a.sofaLimits())
	a.camera.SetRotationLimits(limits)
	a.logger.Debug("look limits applied", "position", a.position,
		"left", limits.Left, "right", limits.Right, "up", limits.Up, "down", limits.Down)
}

func (a *LimitsApplier) sofaLimits() settings.SofaLimits {
	if a.settings == nil {
		return settings.Defaults().SofaLimits
	}
	return a.settings.Current().SofaLimits
}

// LimitsFor returns the look limits at p given the stock driver limits.
func LimitsFor(p cabin.Position, original camera.Limits, sofa settings.SofaLimits) camera.Limits {
	switch {
	case p == cabin.Passenger:
		return original.Mirrored()
	case p == cabin.Standing:
		return camera.Limits{
			Left:  StandingYawLimit,
			Right: -StandingYawLimit,
			Up:    original.Up,
			Down:  StandingPitchDown,
		}
	case p.IsSofa():
		return sofa.Limits()
	}
	return original
}
