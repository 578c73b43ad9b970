package world

import (
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// LineOfSight reports whether the straight segment from a to b crosses no
// obstacle. The segment is rasterized at integer world coordinates with an
// error-accumulating walk that advances one axis per step, so it visits the
// full staircase of points under the line and cannot slip diagonally between
// two touching obstacle cells. Endpoints are included in the check.
func (e *Environment) LineOfSight(a, b geom.Vector2) bool {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx - dy
	x, y := x0, y0
	for {
		if e.Blocked(geom.Vec(float64(x), float64(y))) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		} else if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
