// Package anim holds the time-based state machines shared by every
// backend: easing curves, the effect crossfade and the intensity tween.
package anim

import "math"

// EaseInOutCubic eases t in [0, 1] with a cubic in-out curve.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutCubic eases t in [0, 1] with a decelerating cubic curve.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// Smoothstep is the Hermite ramp f*f*(3-2f).
func Smoothstep(f float64) float64 {
	f = clamp01(f)
	return f * f * (3 - 2*f)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
