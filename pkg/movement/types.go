// Package movement is the animation controller. It owns the current cabin
// position, the transition graph and the pending leg queue, and drives at
// most one transition sequence per tick.
//
// The controller composes two layers:
// - Transition sequences move the camera between cabin positions
// - The stance layer (walk, crouch, tiptoe) runs while at Standing
//
// Only one of them animates at a time. Every tick reads the clock once and
// advances whichever layer is active.
package movement

import (
	"log/slog"
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
	"github.com/teslashibe/go-cabinwalk/pkg/stance"
)

// Notifier is told about position arrivals and applied settings changes.
// Calls are fire-and-forget.
type Notifier interface {
	NotifyCurrentPosition(p cabin.Position)
	NotifySettingsChanged()
}

// StanceLayer is the locomotion layer active at Standing.
type StanceLayer interface {
	Update(pose camera.Pose, dt time.Duration)
	CanSitDown(target cabin.Position, targetZ float64) bool
	TriggerStandUp()
	TriggerStandDown()
	OnEnterStanding()
	IsAnimating() bool
	Current() stance.State
}

// Options configures a Controller. Device and Clock may be nil at
// construction; the controller no-ops until both are present.
type Options struct {
	Device   camera.Device
	Clock    camera.Clock
	Settings settings.Provider
	Stance   StanceLayer
	Notifier Notifier
	Logger   *slog.Logger
}

// Snapshot is a point-in-time view of the controller.
type Snapshot struct {
	Position  cabin.Position   `json:"position"`
	Target    cabin.Position   `json:"target"`
	Pending   []cabin.Position `json:"pending"`
	Stance    stance.State     `json:"stance"`
	Animating bool             `json:"animating"`
	Leg       string           `json:"leg,omitempty"`
	Progress  float64          `json:"progress"`
	Pose      camera.Pose      `json:"pose"`
}

type edge struct {
	from, to cabin.Position
}

type nopNotifier struct{}

func (nopNotifier) NotifyCurrentPosition(cabin.Position) {}
func (nopNotifier) NotifySettingsChanged()               {}
