package common

import "math"

// Gravity is the world gravity in units per second squared, screen-down.
const Gravity = 980.0

// FrameDT is the fixed simulation step.
const FrameDT = 1.0 / 60.0

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Approach moves cur toward target by at most step.
func Approach(cur, target, step float64) float64 {
	if step <= 0 {
		return cur
	}
	if cur < target {
		return math.Min(cur+step, target)
	}
	return math.Max(cur-step, target)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
