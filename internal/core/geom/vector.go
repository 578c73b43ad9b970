// Package geom provides the 2D float math the engine is built on: vectors,
// degree-based angles and axis-aligned rectangles. All angles in this package
// and everywhere downstream are degrees; trigonometric helpers convert at the
// boundary.
package geom

import "math"

// epsilon guards divisions by near-zero magnitudes. Normalizing a vector
// shorter than this yields the zero vector instead of garbage.
const epsilon = 1e-9

// Vector2 is a 2D point or direction in world units.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec is shorthand for Vector2{x, y}.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v − o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product v·o.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the Euclidean magnitude of v.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSq returns the squared magnitude, avoiding the square root when only
// comparisons are needed.
func (v Vector2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns v scaled to unit length. Vectors shorter than epsilon
// normalize to the zero vector.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l < epsilon {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// ClampLength returns v unchanged when its magnitude is at most max,
// otherwise v rescaled to magnitude max.
func (v Vector2) ClampLength(max float64) Vector2 {
	if max <= 0 {
		return Vector2{}
	}
	l := v.Length()
	if l <= max || l < epsilon {
		return v
	}
	return v.Scale(max / l)
}

// IsZero reports whether v is shorter than epsilon.
func (v Vector2) IsZero() bool {
	return v.Length() < epsilon
}

// Distance returns |a − b|.
func Distance(a, b Vector2) float64 {
	return a.Sub(b).Length()
}

// DistanceSq returns |a − b|² for cheap nearest-point comparisons.
func DistanceSq(a, b Vector2) float64 {
	return a.Sub(b).LengthSq()
}

// FromAngle returns the unit vector pointing along an orientation given in
// degrees (0° = +X, 90° = +Y).
func FromAngle(deg float64) Vector2 {
	r := deg * math.Pi / 180
	return Vector2{X: math.Cos(r), Y: math.Sin(r)}
}

// Heading returns the orientation of v in degrees, wrapped to [0, 360).
// The zero vector has heading 0.
func (v Vector2) Heading() float64 {
	if v.IsZero() {
		return 0
	}
	return WrapDegrees(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}
