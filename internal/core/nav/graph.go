// Package nav implements the navigation layer: a weighted digraph with
// adjacency lists, Dijkstra and A* searches with pluggable heuristics, a
// grid-to-graph compiler over a world.Environment, and a plain-text
// persistence format.
//
// Graphs are mutable during construction and read-only afterward; concurrent
// reads are safe once no writer remains. Pathfinder instances are NOT
// re-entrant: each FindPath call overwrites the instance metrics.
package nav

import (
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Edge is an outgoing adjacency record.
type Edge struct {
	To     int
	Weight float64
}

// Graph is a weighted digraph over vertices [0, N). Vertices may carry world
// positions, which heuristics and PointToVertex rely on.
type Graph struct {
	adjacency [][]Edge
	positions []geom.Vector2
	edges     int
}

// NewGraph allocates a graph with n vertices and no edges.
func NewGraph(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{adjacency: make([][]Edge, n)}
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.adjacency) }

// NumEdges returns the number of edges added so far.
func (g *Graph) NumEdges() int { return g.edges }

// AddEdge adds a directed edge. It reports false and leaves the graph
// untouched when either endpoint is out of range or the weight is not
// strictly positive.
func (g *Graph) AddEdge(from, to int, weight float64) bool {
	if from < 0 || from >= len(g.adjacency) || to < 0 || to >= len(g.adjacency) {
		return false
	}
	if weight <= 0 || math.IsNaN(weight) {
		return false
	}
	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, Weight: weight})
	g.edges++
	return true
}

// Neighbors returns the outgoing edges of v, empty for out-of-range indices.
// The returned slice is owned by the graph and must not be mutated.
func (g *Graph) Neighbors(v int) []Edge {
	if v < 0 || v >= len(g.adjacency) {
		return nil
	}
	return g.adjacency[v]
}

// SetVertexPosition attaches a world position to v.
func (g *Graph) SetVertexPosition(v int, p geom.Vector2) bool {
	if v < 0 || v >= len(g.adjacency) {
		return false
	}
	if g.positions == nil {
		g.positions = make([]geom.Vector2, len(g.adjacency))
	}
	g.positions[v] = p
	return true
}

// VertexPosition returns the world position of v; ok is false when v is out
// of range or the graph carries no positions.
func (g *Graph) VertexPosition(v int) (geom.Vector2, bool) {
	if g.positions == nil || v < 0 || v >= len(g.positions) {
		return geom.Vector2{}, false
	}
	return g.positions[v], true
}

// HasPositions reports whether any vertex position has been set.
func (g *Graph) HasPositions() bool { return g.positions != nil }

// PointToVertex returns the vertex nearest to p by squared distance, with
// ties going to the lower index. It returns -1 when the graph carries no
// positions.
func (g *Graph) PointToVertex(p geom.Vector2) int {
	if len(g.positions) == 0 {
		return -1
	}
	best := -1
	bestD := math.Inf(1)
	for i, q := range g.positions {
		if d := geom.DistanceSq(p, q); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
