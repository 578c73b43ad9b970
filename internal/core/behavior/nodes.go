package behavior

type baseNode struct{ name string }

func (b baseNode) Name() string { return b.name }

// Action is a leaf that calls an effect function. The function may return
// Running to keep the tree parked on this leaf across frames.
type Action struct {
	baseNode
	fn func(t TickContext) (Status, error)
}

// NewAction wraps fn as an action leaf.
func NewAction(name string, fn func(t TickContext) (Status, error)) *Action {
	return &Action{baseNode: baseNode{name: name}, fn: fn}
}

func (a *Action) Tick(t TickContext) (Status, error) { return a.fn(t) }

// Reset is a no-op: actions keep no resumption state of their own.
func (a *Action) Reset() {}

// Condition is a leaf that evaluates a predicate: true maps to Success, false
// to Failure. Conditions never return Running.
type Condition struct {
	baseNode
	fn func(t TickContext) (bool, error)
}

// NewCondition wraps fn as a condition leaf.
func NewCondition(name string, fn func(t TickContext) (bool, error)) *Condition {
	return &Condition{baseNode: baseNode{name: name}, fn: fn}
}

func (c *Condition) Tick(t TickContext) (Status, error) {
	ok, err := c.fn(t)
	if err != nil {
		return StatusFailure, err
	}
	if ok {
		return StatusSuccess, nil
	}
	return StatusFailure, nil
}

// Reset is a no-op: conditions keep no resumption state.
func (c *Condition) Reset() {}
