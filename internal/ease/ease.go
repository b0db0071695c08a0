// Package ease holds the easing curves shared by animations.
package ease

import "math"

// OutCubic decelerates to rest: 1-(1-t)^3.
func OutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// InOutCubic accelerates then decelerates.
func InOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Progress returns elapsed/total clamped to [0,1]. A non-positive total is done.
func Progress(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return clamp01(elapsed / total)
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
