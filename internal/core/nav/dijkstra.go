package nav

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/pkg/sequence"
)

// Dijkstra is the uniform-cost pathfinder. The fringe tolerates duplicate
// entries; stale pops are skipped via the visited set instead of decreasing
// keys. Instances are not safe for concurrent use.
type Dijkstra struct {
	metrics SearchMetrics
	log     log.Log
}

// NewDijkstra returns a pathfinder logging through the process logger.
func NewDijkstra() *Dijkstra {
	return &Dijkstra{log: log.Provide()}
}

// Metrics reports on the most recent FindPath call.
func (d *Dijkstra) Metrics() SearchMetrics { return d.metrics }

// FindPath returns the cheapest path from start to goal, empty when the goal
// is unreachable or either endpoint is out of range.
func (d *Dijkstra) FindPath(g *Graph, start, goal int) []int {
	d.metrics = SearchMetrics{}
	n := g.NumVertices()
	if start < 0 || start >= n || goal < 0 || goal >= n {
		return nil
	}

	fringe := sequence.NewPriorityQueue[int]()
	gScore := make(map[int]float64, n)
	cameFrom := make(map[int]int, n)
	visited := make([]bool, n)

	gScore[start] = 0
	fringe.Enqueue(start, 0)
	d.metrics.trackFringe(fringe.Len())

	for !fringe.IsEmpty() {
		v, _ := fringe.Dequeue()
		if visited[v] {
			continue
		}
		visited[v] = true
		d.metrics.NodesExplored++

		if v == goal {
			d.metrics.PathCost = gScore[v]
			path := reconstruct(cameFrom, start, goal)
			if d.log != nil {
				d.log.Debug("dijkstra path found",
					log.Int("start", start),
					log.Int("goal", goal),
					log.Int("length", len(path)),
					log.Float64("cost", d.metrics.PathCost),
					log.Int("explored", d.metrics.NodesExplored),
				)
			}
			return path
		}

		for _, e := range g.Neighbors(v) {
			if visited[e.To] {
				continue
			}
			newCost := gScore[v] + e.Weight
			if old, seen := gScore[e.To]; !seen || newCost < old {
				gScore[e.To] = newCost
				cameFrom[e.To] = v
				fringe.Enqueue(e.To, newCost)
				d.metrics.trackFringe(fringe.Len())
			}
		}
	}

	if d.log != nil {
		d.log.Debug("dijkstra goal unreachable",
			log.Int("start", start),
			log.Int("goal", goal),
			log.Int("explored", d.metrics.NodesExplored),
		)
	}
	return nil
}
