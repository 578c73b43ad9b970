package nav

import (
	"math"
	"math/rand"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Heuristic estimates the remaining cost from v to goal. A* injects one per
// instance; nothing assumes admissibility.
type Heuristic interface {
	Estimate(g *Graph, v, goal int) float64
}

// HeuristicFunc adapts a plain function to the Heuristic interface.
type HeuristicFunc func(g *Graph, v, goal int) float64

func (f HeuristicFunc) Estimate(g *Graph, v, goal int) float64 {
	return f(g, v, goal)
}

// Euclidean is the straight-line distance between vertex positions. Vertices
// without positions estimate zero, which degrades A* to Dijkstra.
type Euclidean struct{}

func (Euclidean) Estimate(g *Graph, v, goal int) float64 {
	a, ok1 := g.VertexPosition(v)
	b, ok2 := g.VertexPosition(goal)
	if !ok1 || !ok2 {
		return 0
	}
	return geom.Distance(a, b)
}

// Manhattan is the axis-aligned distance |Δx| + |Δy|. Admissible on 4-connected
// grids; it overestimates diagonals on 8-connected ones.
type Manhattan struct{}

func (Manhattan) Estimate(g *Graph, v, goal int) float64 {
	a, ok1 := g.VertexPosition(v)
	b, ok2 := g.VertexPosition(goal)
	if !ok1 || !ok2 {
		return 0
	}
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// DirectionalBias weights the axes asymmetrically, which skews the search
// toward progress along the heavier axis.
type DirectionalBias struct {
	WeightX float64
	WeightY float64
}

func (h DirectionalBias) Estimate(g *Graph, v, goal int) float64 {
	a, ok1 := g.VertexPosition(v)
	b, ok2 := g.VertexPosition(goal)
	if !ok1 || !ok2 {
		return 0
	}
	return h.WeightX*math.Abs(a.X-b.X) + h.WeightY*math.Abs(a.Y-b.Y)
}

// Inadmissible bounds for the Euclidean scale factor.
const (
	inadmissibleMinScale = 1.5
	inadmissibleMaxScale = 2.0
)

// Inadmissible deliberately overestimates: Euclidean distance scaled into
// [1.5, 2.0] plus an optional random perturbation. It explores fewer nodes at
// the price of optimality; returned paths may cost more than Dijkstra's.
type Inadmissible struct {
	scale        float64
	perturbation float64
	rng          *rand.Rand
}

// NewInadmissible clamps scale into [1.5, 2.0] (zero selects the minimum).
// perturbation is the maximum random addend per estimate; rng may be nil when
// perturbation is zero.
func NewInadmissible(scale, perturbation float64, rng *rand.Rand) *Inadmissible {
	if scale == 0 {
		scale = inadmissibleMinScale
	}
	scale = geom.Clamp(scale, inadmissibleMinScale, inadmissibleMaxScale)
	return &Inadmissible{scale: scale, perturbation: perturbation, rng: rng}
}

func (h *Inadmissible) Estimate(g *Graph, v, goal int) float64 {
	base := Euclidean{}.Estimate(g, v, goal) * h.scale
	if h.perturbation > 0 && h.rng != nil {
		base += h.rng.Float64() * h.perturbation
	}
	return base
}
