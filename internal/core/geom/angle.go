package geom

import "math"

// WrapDegrees maps an angle onto [0, 360). Negative inputs wrap upward, so
// −90 becomes 270.
func WrapDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// ShortestArc returns the signed rotation from one orientation to another,
// mapped onto (−180, 180]. Positive results rotate counter-clockwise.
func ShortestArc(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
