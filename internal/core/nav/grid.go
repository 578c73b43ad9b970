package nav

import (
	"errors"
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
	"github.com/miles-hollifield/BuildingGameAI-sub000/pkg/concurrent"
)

var (
	// ErrCellSize rejects a non-positive grid cell size.
	ErrCellSize = errors.New("nav: cell size must be positive")
	// ErrEmptyEnvironment rejects an environment with no room area.
	ErrEmptyEnvironment = errors.New("nav: environment has no area")
)

// GridLayout describes the discretization a compile produced: vertex
// row*Cols+col sits at Origin + ((col+0.5)·CellSize, (row+0.5)·CellSize).
type GridLayout struct {
	Rows     int
	Cols     int
	CellSize float64
	Origin   geom.Vector2
}

// Index returns the vertex id for a cell, -1 when out of range.
func (l GridLayout) Index(row, col int) int {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return -1
	}
	return row*l.Cols + col
}

// Center returns the world position of a cell center.
func (l GridLayout) Center(row, col int) geom.Vector2 {
	return geom.Vec(
		l.Origin.X+(float64(col)+0.5)*l.CellSize,
		l.Origin.Y+(float64(row)+0.5)*l.CellSize,
	)
}

// GridCompiler discretizes an Environment into a navigation graph: one vertex
// per cell center, edges to the 8 neighbors kept only when both endpoints are
// walkable and the line of sight between their centers is clear. Edge weight
// is the Euclidean distance between centers.
type GridCompiler struct {
	CellSize float64
	Workers  int // concurrent rows during edge generation; <=0 means one goroutine per row
	log      log.Log
}

// NewGridCompiler returns a compiler for the given cell size.
func NewGridCompiler(cellSize float64) *GridCompiler {
	return &GridCompiler{CellSize: cellSize, log: log.Provide()}
}

// Compile builds the graph for env. Edge generation runs rows in parallel
// against the read-only environment; the assembled graph is identical
// regardless of scheduling because edges are merged in row order.
func (c *GridCompiler) Compile(env *world.Environment) (*Graph, GridLayout, error) {
	if c.CellSize <= 0 {
		return nil, GridLayout{}, ErrCellSize
	}
	b := env.Bounds()
	cols := int(math.Ceil(b.W / c.CellSize))
	rows := int(math.Ceil(b.H / c.CellSize))
	if rows <= 0 || cols <= 0 {
		return nil, GridLayout{}, ErrEmptyEnvironment
	}
	layout := GridLayout{Rows: rows, Cols: cols, CellSize: c.CellSize, Origin: geom.Vec(b.X, b.Y)}

	n := rows * cols
	g := NewGraph(n)
	centers := make([]geom.Vector2, n)
	walkable := make([]bool, n)
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			i := layout.Index(r, col)
			centers[i] = layout.Center(r, col)
			walkable[i] = env.Walkable(centers[i])
			g.SetVertexPosition(i, centers[i])
		}
	}

	type edgeRec struct {
		from, to int
		weight   float64
	}
	rowEdges := make([][]edgeRec, rows)
	err := concurrent.Range(rows, c.Workers, func(r int) error {
		var edges []edgeRec
		for col := 0; col < cols; col++ {
			from := layout.Index(r, col)
			if !walkable[from] {
				continue
			}
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					to := layout.Index(r+dr, col+dc)
					if to < 0 || !walkable[to] {
						continue
					}
					if !env.LineOfSight(centers[from], centers[to]) {
						continue
					}
					edges = append(edges, edgeRec{from, to, geom.Distance(centers[from], centers[to])})
				}
			}
		}
		rowEdges[r] = edges
		return nil
	})
	if err != nil {
		return nil, layout, err
	}

	for _, edges := range rowEdges {
		for _, e := range edges {
			g.AddEdge(e.from, e.to, e.weight)
		}
	}

	if c.log != nil {
		c.log.Info("grid compiled",
			log.Int("rows", rows),
			log.Int("cols", cols),
			log.Int("vertices", n),
			log.Int("edges", g.NumEdges()),
		)
	}
	return g, layout, nil
}
