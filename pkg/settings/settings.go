// Package settings holds the user-tunable parameters of the cabin camera:
// authored seat coordinates, transition durations, walking and stance
// thresholds.
//
// The tree mirrors the settings file. Every key has a built-in default, so an
// empty or missing file yields a fully working configuration.
package settings

import (
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/camera"
)

// Settings is the root of the settings tree.
type Settings struct {
	General          General          `mapstructure:"general" yaml:"general" json:"general"`
	Positions        Positions        `mapstructure:"positions" yaml:"positions" json:"positions"`
	Durations        Durations        `mapstructure:"animation_durations" yaml:"animation_durations" json:"animation_durations"`
	Walking          WalkingSpeed     `mapstructure:"walking_animation_speed" yaml:"walking_animation_speed" json:"walking_animation_speed"`
	StandingMovement StandingMovement `mapstructure:"standing_movement" yaml:"standing_movement" json:"standing_movement"`
	SofaLimits       SofaLimits       `mapstructure:"sofa_limits" yaml:"sofa_limits" json:"sofa_limits"`
}

// Layout is the side of the cabin the driver sits on.
type Layout string

const (
	LHD Layout = "lhd"
	RHD Layout = "rhd"
)

// YawMultiplier flips authored turn directions for right-hand-drive cabs.
func (l Layout) YawMultiplier() float64 {
	if l == RHD {
		return -1
	}
	return 1
}

type General struct {
	// WarningDuration is how long the "stop the truck first" warning stays up.
	WarningDuration time.Duration `mapstructure:"warning_duration" yaml:"warning_duration" json:"warning_duration"`
	CabinLayout     Layout        `mapstructure:"cabin_layout" yaml:"cabin_layout" json:"cabin_layout"`
	// Height is how high the camera rises when crossing over to the driver seat.
	Height float64 `mapstructure:"height" yaml:"height" json:"height"`
}

// Vec is an authored position in cabin space.
type Vec struct {
	X float64 `mapstructure:"x" yaml:"x" json:"x"`
	Y float64 `mapstructure:"y" yaml:"y" json:"y"`
	Z float64 `mapstructure:"z" yaml:"z" json:"z"`
}

// Rot is an authored head orientation in radians.
type Rot struct {
	Yaw   float64 `mapstructure:"yaw" yaml:"yaw" json:"yaw"`
	Pitch float64 `mapstructure:"pitch" yaml:"pitch" json:"pitch"`
}

// Spot is one authored camera position.
type Spot struct {
	Enabled  bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Position Vec  `mapstructure:"position" yaml:"position" json:"position"`
	Rotation Rot  `mapstructure:"rotation" yaml:"rotation" json:"rotation"`
}

// Pose converts the spot to a camera pose.
func (s Spot) Pose() camera.Pose {
	return camera.NewPose(s.Position.X, s.Position.Y, s.Position.Z, s.Rotation.Yaw, s.Rotation.Pitch)
}

type Positions struct {
	PassengerSeat Spot `mapstructure:"passenger_seat" yaml:"passenger_seat" json:"passenger_seat"`
	Standing      Spot `mapstructure:"standing" yaml:"standing" json:"standing"`
	SofaSit1      Spot `mapstructure:"sofa_sit1" yaml:"sofa_sit1" json:"sofa_sit1"`
	SofaLie       Spot `mapstructure:"sofa_lie" yaml:"sofa_lie" json:"sofa_lie"`
	SofaSit2      Spot `mapstructure:"sofa_sit2" yaml:"sofa_sit2" json:"sofa_sit2"`
}

type Durations struct {
	Main   MainDurations   `mapstructure:"main_animation_speed" yaml:"main_animation_speed" json:"main_animation_speed"`
	Sofa   SofaDurations   `mapstructure:"sofa_animation_speed" yaml:"sofa_animation_speed" json:"sofa_animation_speed"`
	Stance StanceDurations `mapstructure:"crouch_and_stand_animation_speed" yaml:"crouch_and_stand_animation_speed" json:"crouch_and_stand_animation_speed"`
}

type MainDurations struct {
	DriverToPassenger   time.Duration `mapstructure:"driver_to_passenger" yaml:"driver_to_passenger" json:"driver_to_passenger"`
	PassengerToDriver   time.Duration `mapstructure:"passenger_to_driver" yaml:"passenger_to_driver" json:"passenger_to_driver"`
	DriverToStanding    time.Duration `mapstructure:"driver_to_standing" yaml:"driver_to_standing" json:"driver_to_standing"`
	StandingToDriver    time.Duration `mapstructure:"standing_to_driver" yaml:"standing_to_driver" json:"standing_to_driver"`
	PassengerToStanding time.Duration `mapstructure:"passenger_to_standing" yaml:"passenger_to_standing" json:"passenger_to_standing"`
	StandingToPassenger time.Duration `mapstructure:"standing_to_passenger" yaml:"standing_to_passenger" json:"standing_to_passenger"`
	StandingToSofa      time.Duration `mapstructure:"standing_to_sofa" yaml:"standing_to_sofa" json:"standing_to_sofa"`
	SofaToStanding      time.Duration `mapstructure:"sofa_to_standing" yaml:"sofa_to_standing" json:"sofa_to_standing"`
}

type SofaDurations struct {
	Sit1ToLie         time.Duration `mapstructure:"sofa_sit1_to_lie" yaml:"sofa_sit1_to_lie" json:"sofa_sit1_to_lie"`
	Sit1ToSit2        time.Duration `mapstructure:"sofa_sit1_to_sit2" yaml:"sofa_sit1_to_sit2" json:"sofa_sit1_to_sit2"`
	LieToSit2         time.Duration `mapstructure:"sofa_lie_to_sit2" yaml:"sofa_lie_to_sit2" json:"sofa_lie_to_sit2"`
	Sit2ToSit1        time.Duration `mapstructure:"sofa_sit2_to_sit1" yaml:"sofa_sit2_to_sit1" json:"sofa_sit2_to_sit1"`
	LieToSit1Shortcut time.Duration `mapstructure:"sofa_lie_to_sit1_shortcut" yaml:"sofa_lie_to_sit1_shortcut" json:"sofa_lie_to_sit1_shortcut"`
}

type StanceDurations struct {
	Crouch time.Duration `mapstructure:"crouch" yaml:"crouch" json:"crouch"`
	Tiptoe time.Duration `mapstructure:"tiptoe" yaml:"tiptoe" json:"tiptoe"`
}

type WalkingSpeed struct {
	WalkStep           time.Duration `mapstructure:"walk_step" yaml:"walk_step" json:"walk_step"`
	FirstStepBase      time.Duration `mapstructure:"walk_first_step_base" yaml:"walk_first_step_base" json:"walk_first_step_base"`
	FirstStepTurnExtra time.Duration `mapstructure:"walk_first_step_turn_extra" yaml:"walk_first_step_turn_extra" json:"walk_first_step_turn_extra"`
}

type StandingMovement struct {
	Walking       Walking       `mapstructure:"walking" yaml:"walking" json:"walking"`
	StanceControl StanceControl `mapstructure:"stance_control" yaml:"stance_control" json:"stance_control"`
}

// Range is a closed interval.
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min" json:"min"`
	Max float64 `mapstructure:"max" yaml:"max" json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type Walking struct {
	StepAmount float64 `mapstructure:"step_amount" yaml:"step_amount" json:"step_amount"`
	BobAmount  float64 `mapstructure:"bob_amount" yaml:"bob_amount" json:"bob_amount"`
	WalkZoneZ  Range   `mapstructure:"walk_zone_z" yaml:"walk_zone_z" json:"walk_zone_z"`
}

type StanceControl struct {
	HoldTime time.Duration `mapstructure:"hold_time" yaml:"hold_time" json:"hold_time"`
	Crouch   Crouch        `mapstructure:"crouch" yaml:"crouch" json:"crouch"`
	Tiptoe   Tiptoe        `mapstructure:"tiptoe" yaml:"tiptoe" json:"tiptoe"`
}

// Crouch angles are head pitch in radians. Looking below ActivationAngle
// crouches; looking above DeactivationAngle stands back up.
type Crouch struct {
	Depth             float64 `mapstructure:"depth" yaml:"depth" json:"depth"`
	ActivationAngle   float64 `mapstructure:"activation_angle" yaml:"activation_angle" json:"activation_angle"`
	DeactivationAngle float64 `mapstructure:"deactivation_angle" yaml:"deactivation_angle" json:"deactivation_angle"`
}

type Tiptoe struct {
	Height            float64 `mapstructure:"height" yaml:"height" json:"height"`
	ActivationAngle   float64 `mapstructure:"activation_angle" yaml:"activation_angle" json:"activation_angle"`
	DeactivationAngle float64 `mapstructure:"deactivation_angle" yaml:"deactivation_angle" json:"deactivation_angle"`
}

// SofaLimits are free-look limits in degrees applied on the sofa.
type SofaLimits struct {
	YawLeft   float64 `mapstructure:"yaw_left" yaml:"yaw_left" json:"yaw_left"`
	YawRight  float64 `mapstructure:"yaw_right" yaml:"yaw_right" json:"yaw_right"`
	PitchUp   float64 `mapstructure:"pitch_up" yaml:"pitch_up" json:"pitch_up"`
	PitchDown float64 `mapstructure:"pitch_down" yaml:"pitch_down" json:"pitch_down"`
}

// Limits converts to camera limits.
func (s SofaLimits) Limits() camera.Limits {
	return camera.Limits{Left: s.YawLeft, Right: s.YawRight, Up: s.PitchUp, Down: s.PitchDown}
}

// Defaults returns the built-in configuration.
func Defaults() Settings {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	spot := func(x, y, z, yaw, pitch float64) Spot {
		return Spot{Enabled: true, Position: Vec{x, y, z}, Rotation: Rot{yaw, pitch}}
	}

	return Settings{
		General: General{
			WarningDuration: ms(3000),
			CabinLayout:     LHD,
			Height:          0.25,
		},
		Positions: Positions{
			PassengerSeat: spot(0.95, 0.0, -0.03, 0.03, 0.03),
			Standing:      spot(0.5, 0.2, 0.25, -0.17, -0.3),
			SofaSit1:      spot(0.5, 0.0, 0.8, 0.0, 0.0),
			SofaLie:       spot(-0.15, -0.25, 1.25, -1.65, 0.35),
			SofaSit2:      spot(0.65, 0.0, 1.0, -1.0, -0.10),
		},
		Durations: Durations{
			Main: MainDurations{
				DriverToPassenger:   ms(4000),
				PassengerToDriver:   ms(3000),
				DriverToStanding:    ms(3600),
				StandingToDriver:    ms(4300),
				PassengerToStanding: ms(3300),
				StandingToPassenger: ms(4500),
				StandingToSofa:      ms(2900),
				SofaToStanding:      ms(1700),
			},
			Sofa: SofaDurations{
				Sit1ToLie:         ms(4000),
				Sit1ToSit2:        ms(1200),
				LieToSit2:         ms(2500),
				Sit2ToSit1:        ms(1200),
				LieToSit1Shortcut: ms(1700),
			},
			Stance: StanceDurations{
				Crouch: ms(1250),
				Tiptoe: ms(1100),
			},
		},
		Walking: WalkingSpeed{
			WalkStep:           ms(450),
			FirstStepBase:      ms(250),
			FirstStepTurnExtra: ms(1000),
		},
		StandingMovement: StandingMovement{
			Walking: Walking{
				StepAmount: 0.35,
				BobAmount:  0.02,
				WalkZoneZ:  Range{Min: -0.55, Max: 0.65},
			},
			StanceControl: StanceControl{
				HoldTime: ms(1000),
				Crouch:   Crouch{Depth: 0.5, ActivationAngle: -0.7, DeactivationAngle: 0.3},
				Tiptoe:   Tiptoe{Height: 0.17, ActivationAngle: 0.5, DeactivationAngle: -0.3},
			},
		},
		SofaLimits: SofaLimits{YawLeft: 180, YawRight: -180, PitchUp: 90, PitchDown: -65},
	}
}

// Normalize clamps values the animation core cannot work with. The core
// trusts whatever it reads, so every provider passes through here.
func (s *Settings) Normalize() {
	switch s.General.CabinLayout {
	case RHD, "RHD", "1":
		s.General.CabinLayout = RHD
	default:
		s.General.CabinLayout = LHD
	}
	nonNeg(&s.General.WarningDuration)

	for _, d := range []*time.Duration{
		&s.Durations.Main.DriverToPassenger, &s.Durations.Main.PassengerToDriver,
		&s.Durations.Main.DriverToStanding, &s.Durations.Main.StandingToDriver,
		&s.Durations.Main.PassengerToStanding, &s.Durations.Main.StandingToPassenger,
		&s.Durations.Main.StandingToSofa, &s.Durations.Main.SofaToStanding,
		&s.Durations.Sofa.Sit1ToLie, &s.Durations.Sofa.Sit1ToSit2, &s.Durations.Sofa.LieToSit2,
		&s.Durations.Sofa.Sit2ToSit1, &s.Durations.Sofa.LieToSit1Shortcut,
		&s.Durations.Stance.Crouch, &s.Durations.Stance.Tiptoe,
		&s.Walking.WalkStep, &s.Walking.FirstStepBase, &s.Walking.FirstStepTurnExtra,
		&s.StandingMovement.StanceControl.HoldTime,
	} {
		nonNeg(d)
	}

	w := &s.StandingMovement.Walking
	if w.StepAmount <= 0 {
		w.StepAmount = Defaults().StandingMovement.Walking.StepAmount
	}
	if w.BobAmount < 0 {
		w.BobAmount = 0
	}
	if w.WalkZoneZ.Min > w.WalkZoneZ.Max {
		w.WalkZoneZ.Min, w.WalkZoneZ.Max = w.WalkZoneZ.Max, w.WalkZoneZ.Min
	}

	sc := &s.StandingMovement.StanceControl
	if sc.Crouch.Depth < 0 {
		sc.Crouch.Depth = 0
	}
	if sc.Tiptoe.Height < 0 {
		sc.Tiptoe.Height = 0
	}
}

func nonNeg(d *time.Duration) {
	if *d < 0 {
		*d = 0
	}
}

// Spot returns the authored spot for p. ok is false for positions without
// authored coordinates (Driver, Bed, None).
func (s Settings) Spot(p cabin.Position) (Spot, bool) {
	switch p {
	case cabin.Passenger:
		return s.Positions.PassengerSeat, true
	case cabin.Standing:
		return s.Positions.Standing, true
	case cabin.SofaSit1:
		return s.Positions.SofaSit1, true
	case cabin.SofaLie:
		return s.Positions.SofaLie, true
	case cabin.SofaSit2:
		return s.Positions.SofaSit2, true
	}
	return Spot{}, false
}

// PoseFor returns the authored pose for p.
func (s Settings) PoseFor(p cabin.Position) (camera.Pose, bool) {
	spot, ok := s.Spot(p)
	if !ok {
		return camera.Pose{}, false
	}
	return spot.Pose(), true
}

// Enabled reports whether the player may move to p. The driver seat is always
// enabled.
func (s Settings) Enabled(p cabin.Position) bool {
	if p == cabin.Driver {
		return true
	}
	spot, ok := s.Spot(p)
	return ok && spot.Enabled
}
