// Package behavior implements stateful, resumable behavior trees.
//
// A tree is ticked once per frame. Composite nodes remember which child was
// running and re-enter it on the next tick instead of restarting from the
// first child; any terminal status clears that memory. Reset restores a node
// and all of its descendants to their freshly-built state and is the only
// abort mechanism between ticks.
//
// Nodes are not safe for concurrent use and must not be shared between trees:
// resumption cursors live on the node instances.
package behavior

import (
	"context"
	"time"
)

// Status is the three-valued result of a node tick. Running means the node has
// not produced a terminal result and must be re-ticked next frame.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

// String returns the status name for logs and test failures.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the status ends the node's current run.
func (s Status) Terminal() bool { return s != StatusRunning }

// TickContext carries the per-tick environment into nodes: a context for the
// whole frame, the blackboard the agent refreshed before ticking, and a clock
// for time-based nodes.
type TickContext struct {
	Ctx   context.Context
	BB    *Blackboard
	Clock func() time.Time
}

// NewTickContext builds a context around bb with the wall clock.
func NewTickContext(ctx context.Context, bb *Blackboard) TickContext {
	return TickContext{Ctx: ctx, BB: bb, Clock: time.Now}
}

// Node is a behavior-tree node. Tick advances it by one frame; an error is
// treated as Failure by composites and propagated to the tree root. Reset
// clears the node's resumption state and recursively that of its descendants.
type Node interface {
	Tick(t TickContext) (Status, error)
	Reset()
	Name() string
}

// Tree wraps a root node with a name for diagnostics.
type Tree struct {
	name string
	root Node
}

// NewTree builds a tree around root.
func NewTree(name string, root Node) *Tree {
	return &Tree{name: name, root: root}
}

// Name returns the tree's configured name.
func (t *Tree) Name() string { return t.name }

// Root returns the root node.
func (t *Tree) Root() Node { return t.root }

// Tick advances the tree one frame. A nil root succeeds immediately.
func (t *Tree) Tick(tc TickContext) (Status, error) {
	if t.root == nil {
		return StatusSuccess, nil
	}
	return t.root.Tick(tc)
}

// Reset clears all resumption state in the tree.
func (t *Tree) Reset() {
	if t.root != nil {
		t.root.Reset()
	}
}
