package geom

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// NewRect builds a rectangle from its top-left corner and extent.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains reports whether p lies inside r. Edges count as inside, so
// adjacent rectangles both claim their shared boundary.
func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() Vector2 {
	return Vector2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Expand grows r by m on every side, used for clearance checks around
// obstacles.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}
