package nav

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/pkg/sequence"
)

// AStar orders its fringe by gScore plus an injected heuristic estimate. No
// admissibility assumption is made: with an overestimating heuristic the
// returned path may cost more than Dijkstra's for the same endpoints, which
// is observable through Metrics().PathCost. Instances are not safe for
// concurrent use.
type AStar struct {
	heuristic Heuristic
	metrics   SearchMetrics
	log       log.Log
}

// NewAStar builds a pathfinder around h; a nil h selects Euclidean.
func NewAStar(h Heuristic) *AStar {
	if h == nil {
		h = Euclidean{}
	}
	return &AStar{heuristic: h, log: log.Provide()}
}

// Metrics reports on the most recent FindPath call.
func (a *AStar) Metrics() SearchMetrics { return a.metrics }

// FindPath returns a path from start to goal, empty when unreachable.
func (a *AStar) FindPath(g *Graph, start, goal int) []int {
	a.metrics = SearchMetrics{}
	n := g.NumVertices()
	if start < 0 || start >= n || goal < 0 || goal >= n {
		return nil
	}

	fringe := sequence.NewPriorityQueue[int]()
	gScore := make(map[int]float64, n)
	cameFrom := make(map[int]int, n)
	visited := make([]bool, n)

	gScore[start] = 0
	fringe.Enqueue(start, a.heuristic.Estimate(g, start, goal))
	a.metrics.trackFringe(fringe.Len())

	for !fringe.IsEmpty() {
		v, _ := fringe.Dequeue()
		if visited[v] {
			continue
		}
		visited[v] = true
		a.metrics.NodesExplored++

		if v == goal {
			a.metrics.PathCost = gScore[v]
			path := reconstruct(cameFrom, start, goal)
			if a.log != nil {
				a.log.Debug("astar path found",
					log.Int("start", start),
					log.Int("goal", goal),
					log.Int("length", len(path)),
					log.Float64("cost", a.metrics.PathCost),
					log.Int("explored", a.metrics.NodesExplored),
				)
			}
			return path
		}

		for _, e := range g.Neighbors(v) {
			if visited[e.To] {
				continue
			}
			tentativeG := gScore[v] + e.Weight
			if old, seen := gScore[e.To]; !seen || tentativeG < old {
				gScore[e.To] = tentativeG
				cameFrom[e.To] = v
				fringe.Enqueue(e.To, tentativeG+a.heuristic.Estimate(g, e.To, goal))
				a.metrics.trackFringe(fringe.Len())
			}
		}
	}
	return nil
}
