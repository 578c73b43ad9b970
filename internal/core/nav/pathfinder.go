package nav

// SearchMetrics captures the cost profile of the most recent search on a
// pathfinder instance.
type SearchMetrics struct {
	NodesExplored int     // vertices popped from the fringe
	MaxFringeSize int     // fringe high-water mark
	PathCost      float64 // cumulative weight of the returned path, 0 when empty
}

// Pathfinder is the search contract: an empty result means the goal is
// unreachable (not an error), and Metrics reports on the last FindPath call.
type Pathfinder interface {
	FindPath(g *Graph, start, goal int) []int
	Metrics() SearchMetrics
}

// reconstruct walks cameFrom backward from goal to start and reverses the
// result in place.
func reconstruct(cameFrom map[int]int, start, goal int) []int {
	path := []int{goal}
	for v := goal; v != start; {
		v = cameFrom[v]
		path = append(path, v)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func (m *SearchMetrics) trackFringe(size int) {
	if size > m.MaxFringeSize {
		m.MaxFringeSize = size
	}
}
