// Package animation implements keyframed curves and the multi-channel
// sequences that drive the cabin camera.
package animation

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-cabinwalk/pkg/easing"
)

// Keyframe is a value at a progress point, plus the easing used to arrive at
// it from the previous key.
type Keyframe[T any] struct {
	Progress float64
	Value    T
	Easing   easing.Func
}

// Interpolator blends a and b by t in [0,1].
type Interpolator[T any] func(a, b T, t float64) T

// LerpFloat performs scalar linear interpolation.
func LerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates component-wise.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		LerpFloat(a[0], b[0], t),
		LerpFloat(a[1], b[1], t),
		LerpFloat(a[2], b[2], t),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
