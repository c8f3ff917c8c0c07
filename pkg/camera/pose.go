package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is a head orientation in radians.
type Rotation struct {
	Yaw   float64 `json:"yaw"`   // Positive = left
	Pitch float64 `json:"pitch"` // Positive = up
	Roll  float64 `json:"roll"`  // Carried, never driven by input
}

// Pose is a camera position plus orientation. It is a value type.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation Rotation   `json:"rotation"`
}

// NewPose builds a pose from seat coordinates and a yaw/pitch pair.
func NewPose(x, y, z, yaw, pitch float64) Pose {
	return Pose{
		Position: mgl64.Vec3{x, y, z},
		Rotation: Rotation{Yaw: yaw, Pitch: pitch},
	}
}

// X, Y and Z are shorthands for the position components.
func (p Pose) X() float64 { return p.Position.X() }
func (p Pose) Y() float64 { return p.Position.Y() }
func (p Pose) Z() float64 { return p.Position.Z() }

// ApproxEqual reports whether two poses match within eps on every
// position and rotation component.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	if !p.Position.ApproxEqualThreshold(o.Position, eps) {
		return false
	}
	return math.Abs(p.Rotation.Yaw-o.Rotation.Yaw) <= eps &&
		math.Abs(p.Rotation.Pitch-o.Rotation.Pitch) <= eps &&
		math.Abs(p.Rotation.Roll-o.Rotation.Roll) <= eps
}

func (p Pose) String() string {
	return fmt.Sprintf("pos=(%.3f,%.3f,%.3f) yaw=%.3f pitch=%.3f",
		p.X(), p.Y(), p.Z(), p.Rotation.Yaw, p.Rotation.Pitch)
}

// Limits are free-look rotation limits in degrees, as the host camera
// stores them.
type Limits struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	Up    float64 `json:"up"`
	Down  float64 `json:"down"`
}

// Mirrored swaps and negates the horizontal limits. Used when the seat sits
// on the opposite side of the cabin from the driver.
func (l Limits) Mirrored() Limits {
	return Limits{Left: -l.Right, Right: -l.Left, Up: l.Up, Down: l.Down}
}

// WrapYaw normalizes an angle into (-pi, pi].
func WrapYaw(yaw float64) float64 {
	for yaw > math.Pi {
		yaw -= 2 * math.Pi
	}
	for yaw <= -math.Pi {
		yaw += 2 * math.Pi
	}
	return yaw
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
