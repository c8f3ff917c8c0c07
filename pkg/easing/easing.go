// Package easing provides the easing curves used to shape keyframe segments.
//
// Every curve maps normalized progress t in [0,1] to eased progress and
// satisfies f(0)=0 and f(1)=1.
package easing

import "math"

// Func maps normalized segment progress to eased progress.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

// EaseInQuad accelerates from zero velocity (quadratic).
func EaseInQuad(t float64) float64 { return t * t }

// EaseOutQuad decelerates to zero velocity (quadratic).
func EaseOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

// EaseInOutQuad accelerates to the midpoint, then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// EaseInCubic accelerates from zero velocity (cubic).
func EaseInCubic(t float64) float64 { return t * t * t }

// EaseOutCubic decelerates to zero velocity (cubic).
func EaseOutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

// EaseInOutCubic accelerates to the midpoint, then decelerates.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseInQuart accelerates from zero velocity (quartic).
func EaseInQuart(t float64) float64 { return t * t * t * t }

// EaseOutQuart decelerates to zero velocity (quartic).
func EaseOutQuart(t float64) float64 { return 1 - math.Pow(1-t, 4) }

// EaseInOutQuart accelerates to the midpoint, then decelerates.
func EaseInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 4)/2
}

// EaseInQuint accelerates from zero velocity (quintic).
func EaseInQuint(t float64) float64 { return t * t * t * t * t }

// EaseOutQuint decelerates to zero velocity (quintic).
func EaseOutQuint(t float64) float64 { return 1 - math.Pow(1-t, 5) }

// EaseInOutQuint accelerates to the midpoint, then decelerates.
func EaseInOutQuint(t float64) float64 {
	if t < 0.5 {
		return 16 * t * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 5)/2
}

// EaseInExpo special-cases t == 0 since 2^-10 is not exactly zero.
func EaseInExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

// EaseOutExpo special-cases t == 1 for the same reason.
func EaseOutExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// EaseInOutExpo is exponential in both halves, exact at 0 and 1.
func EaseInOutExpo(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	default:
		return (2 - math.Pow(2, -20*t+10)) / 2
	}
}
