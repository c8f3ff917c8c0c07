package cabin

import "math"

// Gaze is the horizontal direction the player is looking, bucketed into four
// 90° sectors.
type Gaze int

const (
	Forward Gaze = iota
	Left
	Right
	Backward
)

func (g Gaze) String() string {
	switch g {
	case Forward:
		return "forward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Backward:
		return "backward"
	}
	return "unknown"
}

// ClassifyGaze buckets a yaw in radians (positive = left).
//
//	[-45°, 45°]    Forward
//	(45°, 135°]    Left
//	[-135°, -45°)  Right
//	otherwise      Backward
func ClassifyGaze(yaw float64) Gaze {
	deg := yaw * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}

	switch {
	case deg >= -45 && deg <= 45:
		return Forward
	case deg > 45 && deg <= 135:
		return Left
	case deg >= -135 && deg < -45:
		return Right
	default:
		return Backward
	}
}
