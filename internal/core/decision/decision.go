// Package decision implements hand-authored decision trees. A tree is built
// from condition closures and resolves to an action label each frame; unlike
// behavior trees there is no Running state and no resumption, every Decide
// call walks the tree from the root.
//
// Conditions close over an EnvironmentState, which snapshots the queries they
// ask so that one frame sees one consistent answer per question.
package decision

import (
	"math/rand"
	"time"
)

// DefaultLabel is returned when no branch of a tree produces a label.
const DefaultLabel = "Idle"

// Node resolves to an action label.
type Node interface {
	Decide() string
}

// Action is a leaf holding a fixed label.
type Action struct {
	Label string
}

// NewAction returns a leaf resolving to label.
func NewAction(label string) *Action { return &Action{Label: label} }

func (a *Action) Decide() string { return a.Label }

// Branch evaluates its condition once per Decide and dispatches to the true
// or false subtree.
type Branch struct {
	cond    func() bool
	onTrue  Node
	onFalse Node
}

// NewBranch builds a two-way branch over cond.
func NewBranch(cond func() bool, onTrue, onFalse Node) *Branch {
	return &Branch{cond: cond, onTrue: onTrue, onFalse: onFalse}
}

func (b *Branch) Decide() string {
	next := b.onFalse
	if b.cond() {
		next = b.onTrue
	}
	if next == nil {
		return DefaultLabel
	}
	return next.Decide()
}

// Priority evaluates its entries in insertion order and dispatches to the
// first whose condition holds. When none match it resolves to DefaultLabel.
type Priority struct {
	entries []priorityEntry
}

type priorityEntry struct {
	cond func() bool
	node Node
}

// NewPriority returns an empty priority list.
func NewPriority() *Priority { return &Priority{} }

// Add appends an entry; returns the receiver for chaining.
func (p *Priority) Add(cond func() bool, node Node) *Priority {
	p.entries = append(p.entries, priorityEntry{cond: cond, node: node})
	return p
}

func (p *Priority) Decide() string {
	for _, e := range p.entries {
		if e.cond() {
			if e.node == nil {
				return DefaultLabel
			}
			return e.node.Decide()
		}
	}
	return DefaultLabel
}

// WeightedRandom samples one child per Decide, with probability proportional
// to its weight, using the cumulative-bucket method: a single draw in
// [0, totalWeight) selects the first child whose running weight sum exceeds
// it.
type WeightedRandom struct {
	children []weightedChild
	total    float64
	rng      *rand.Rand
}

type weightedChild struct {
	weight float64
	node   Node
}

// NewWeightedRandom returns an empty sampler. A nil rng falls back to a
// time-seeded source; inject one for reproducible runs.
func NewWeightedRandom(rng *rand.Rand) *WeightedRandom {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &WeightedRandom{rng: rng}
}

// Add appends a child; non-positive weights are ignored. Returns the receiver
// for chaining.
func (w *WeightedRandom) Add(weight float64, node Node) *WeightedRandom {
	if weight <= 0 || node == nil {
		return w
	}
	w.children = append(w.children, weightedChild{weight: weight, node: node})
	w.total += weight
	return w
}

func (w *WeightedRandom) Decide() string {
	if len(w.children) == 0 {
		return DefaultLabel
	}
	r := w.rng.Float64() * w.total
	acc := 0.0
	for _, c := range w.children {
		acc += c.weight
		if r < acc {
			return c.node.Decide()
		}
	}
	return w.children[len(w.children)-1].node.Decide()
}
