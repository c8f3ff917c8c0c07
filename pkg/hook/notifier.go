package hook

import (
	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
)

// Notifier receives controller notifications.
type Notifier interface {
	NotifyCurrentPosition(p cabin.Position)
	NotifySettingsChanged()
}

// Fanout forwards every notification to each listener in order. Nil entries
// are skipped.
type Fanout []Notifier

func (f Fanout) NotifyCurrentPosition(p cabin.Position) {
	for _, n := range f {
		if n != nil {
			n.NotifyCurrentPosition(p)
		}
	}
}

func (f Fanout) NotifySettingsChanged() {
	for _, n := range f {
		if n != nil {
			n.NotifySettingsChanged()
		}
	}
}

// Funcs adapts plain functions to Notifier. Either may be nil.
type Funcs struct {
	OnPosition func(p cabin.Position)
	OnSettings func()
}

func (f Funcs) NotifyCurrentPosition(p cabin.Position) {
	if f.OnPosition != nil {
		f.OnPosition(p)
	}
}

func (f Funcs) NotifySettingsChanged() {
	if f.OnSettings != nil {
		f.OnSettings()
	}
}

// WrapYaw keeps the yaw of a free-look position inside (-π, π] so repeated
// turning never accumulates. It writes only when the yaw actually changed
// and reports whether it did.
func WrapYaw(dev camera.Device, p cabin.Position) bool {
	if dev == nil || !p.FreeLook() {
		return false
	}
	pose, err := dev.GetPose()
	if err != nil {
		return false
	}
	wrapped := camera.WrapYaw(pose.Rotation.Yaw)
	if wrapped == pose.Rotation.Yaw {
		return false
	}
	pose.Rotation.Yaw = wrapped
	return dev.SetPose(pose) == nil
}

var (
	_ Notifier = Fanout(nil)
	_ Notifier = Funcs{}
	_ Notifier = (*LimitsApplier)(nil)
)
