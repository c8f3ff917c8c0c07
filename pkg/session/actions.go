package session

import (
	"math"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
)

// Speed below which the truck counts as stopped, in m/s.
const stoppedSpeed = 0.1

// dispatch runs one command on the tick goroutine. Caller holds mu.
func (s *Session) dispatch(cmd Command) error {
	s.logger.Debug("command", "action", cmd.Action)

	switch cmd.Action {
	case ActionDriverSeat:
		return s.moveToDriverSeat()
	case ActionPassengerSeat:
		return s.moveToPassengerSeat()
	case ActionStanding:
		return s.moveToStandingPosition()
	case ActionCycleSofa:
		return s.cycleSofaPositions()
	case ActionMoveTo:
		return s.moveTo(cmd.Position)
	case ActionWalk:
		s.walkDown = cmd.Walk
		return nil
	case ActionLook:
		return s.look(cmd.Yaw, cmd.Pitch)
	}
	return ErrUnknownAction
}

// ============================================================
// Keybind actions
// ============================================================

// MoveToDriverSeat returns to the driver seat. It is always allowed.
func (s *Session) MoveToDriverSeat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveToDriverSeat()
}

// MoveToPassengerSeat moves to the passenger seat if it is safe and enabled.
func (s *Session) MoveToPassengerSeat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveToPassengerSeat()
}

// MoveToStandingPosition stands up. Pressed again while standing, it toggles
// the walk key instead.
func (s *Session) MoveToStandingPosition() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveToStandingPosition()
}

// CycleSofaPositions moves to the next enabled sofa spot.
func (s *Session) CycleSofaPositions() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycleSofaPositions()
}

func (s *Session) moveToDriverSeat() error {
	return s.request(cabin.Driver)
}

func (s *Session) moveToPassengerSeat() error {
	if !s.safeToLeaveDriverSeat() {
		return ErrUnsafe
	}
	if !s.cfg().Enabled(cabin.Passenger) {
		return ErrDisabled
	}
	return s.request(cabin.Passenger)
}

func (s *Session) moveToStandingPosition() error {
	if !s.safeToLeaveDriverSeat() {
		return ErrUnsafe
	}
	if s.ctrl.CurrentPosition() == cabin.Standing {
		s.walkDown = !s.walkDown
		s.logger.Debug("walk toggled", "walking", s.walkDown)
		return nil
	}
	if !s.cfg().Enabled(cabin.Standing) {
		return ErrDisabled
	}
	return s.request(cabin.Standing)
}

func (s *Session) cycleSofaPositions() error {
	if !s.safeToLeaveDriverSeat() {
		return ErrUnsafe
	}
	if s.busy() {
		return ErrBusy
	}
	cfg := s.cfg()
	next, ok := cabin.NextSofa(s.ctrl.CurrentPosition(), cfg.Enabled)
	if !ok {
		return nil
	}
	return s.request(next)
}

// moveTo handles a request for an arbitrary position with the same rules as
// the keybinds.
func (s *Session) moveTo(p cabin.Position) error {
	switch {
	case p == cabin.Driver:
		return s.moveToDriverSeat()
	case p == cabin.Passenger:
		return s.moveToPassengerSeat()
	case p == cabin.Standing:
		if s.ctrl.CurrentPosition() == cabin.Standing {
			return nil
		}
		return s.moveToStandingPosition()
	case p.IsSofa():
		if !s.safeToLeaveDriverSeat() {
			return ErrUnsafe
		}
		if !s.cfg().Enabled(p) {
			return ErrDisabled
		}
		return s.request(p)
	}
	return cabin.ErrUnknownPosition
}

func (s *Session) request(p cabin.Position) error {
	if s.busy() {
		return ErrBusy
	}
	if p != cabin.Standing {
		s.walkDown = false
	}
	s.ctrl.OnRequestMove(p)
	return nil
}

func (s *Session) look(yaw, pitch float64) error {
	if s.device == nil || s.ctrl.IsAnimating() {
		return nil
	}
	pose, err := s.device.GetPose()
	if err != nil {
		return err
	}
	pose.Rotation.Yaw = yaw
	pose.Rotation.Pitch = pitch
	return s.device.SetPose(pose)
}

// ============================================================
// Safety gate
// ============================================================

// safeToLeaveDriverSeat allows leaving the driver seat only when the truck is
// stopped with the parking brake set. A refusal raises the warning for
// general.warning_duration. Away from the driver seat it always allows.
func (s *Session) safeToLeaveDriverSeat() bool {
	if s.ctrl.CurrentPosition() != cabin.Driver {
		return true
	}

	safe := s.telemetry != nil &&
		math.Abs(s.telemetry.Speed()) < stoppedSpeed &&
		s.telemetry.ParkingBrake()
	if safe {
		return true
	}

	if !s.warning {
		s.warning = true
		if s.clock != nil {
			s.warningUntil = s.clock.Now() + s.cfg().General.WarningDuration
		}
		s.logger.Info("leaving the driver seat refused, truck not parked")
	}
	return false
}
