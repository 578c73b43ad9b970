package nav

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrVertexCount marks a missing or malformed vertex-count header.
	ErrVertexCount = errors.New("nav: invalid vertex count")
	// ErrEdgeRecord marks an edge line the graph refused.
	ErrEdgeRecord = errors.New("nav: invalid edge record")
)

// Save writes the graph in its text form: a vertex-count header followed by
// one "from to weight" line per edge. Weights are formatted so that a
// save/load/save cycle is byte-identical.
func (g *Graph) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", g.NumVertices()); err != nil {
		return err
	}
	for from, edges := range g.adjacency {
		for _, e := range edges {
			weight := strconv.FormatFloat(e.Weight, 'g', -1, 64)
			if _, err := fmt.Fprintf(bw, "%d %d %s\n", from, e.To, weight); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Load reads a graph from its text form. Blank lines are skipped; any
// malformed or rejected record aborts the load with an error naming the line.
func Load(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)

	var g *Graph
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if g == nil {
			n, err := strconv.Atoi(line)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: %q", ErrVertexCount, lineNo, line)
			}
			g = NewGraph(n)
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrEdgeRecord, lineNo, line)
		}
		from, err1 := strconv.Atoi(fields[0])
		to, err2 := strconv.Atoi(fields[1])
		weight, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrEdgeRecord, lineNo, line)
		}
		if !g.AddEdge(from, to, weight) {
			return nil, fmt.Errorf("%w: line %d: %q", ErrEdgeRecord, lineNo, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrVertexCount
	}
	return g, nil
}

// SaveFile writes the graph to path, creating or truncating it.
func (g *Graph) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nav: save %s: %w", path, err)
	}
	if err := g.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("nav: save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("nav: save %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a graph from path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nav: load %s: %w", path, err)
	}
	defer f.Close()
	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("nav: load %s: %w", path, err)
	}
	return g, nil
}
