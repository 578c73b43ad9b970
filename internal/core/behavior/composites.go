package behavior

import (
	"errors"
	"math/rand"
	"time"
)

// Sequence ticks children in order until one fails. It remembers the index of
// a Running child and re-enters there on the next tick; any terminal result
// moves the cursor back to the first child.
type Sequence struct {
	baseNode
	children []Node
	cursor   int
}

// NewSequence builds a sequence over children.
func NewSequence(name string, children ...Node) *Sequence {
	return &Sequence{baseNode: baseNode{name: name}, children: children}
}

func (s *Sequence) Tick(t TickContext) (Status, error) {
	for s.cursor < len(s.children) {
		st, err := s.children[s.cursor].Tick(t)
		if err != nil {
			s.cursor = 0
			return StatusFailure, err
		}
		switch st {
		case StatusRunning:
			return StatusRunning, nil
		case StatusFailure:
			s.cursor = 0
			return StatusFailure, nil
		}
		s.cursor++
	}
	s.cursor = 0
	return StatusSuccess, nil
}

// Reset clears the cursor and resets every child.
func (s *Sequence) Reset() {
	s.cursor = 0
	for _, ch := range s.children {
		ch.Reset()
	}
}

// Selector ticks children in order until one succeeds. Resumption mirrors
// Sequence with the roles reversed: Failure advances, Success terminates, a
// Running child is re-entered on the next tick.
type Selector struct {
	baseNode
	children []Node
	cursor   int
}

// NewSelector builds a selector over children.
func NewSelector(name string, children ...Node) *Selector {
	return &Selector{baseNode: baseNode{name: name}, children: children}
}

func (s *Selector) Tick(t TickContext) (Status, error) {
	var errs []error
	for s.cursor < len(s.children) {
		st, err := s.children[s.cursor].Tick(t)
		if err != nil {
			errs = append(errs, err)
			s.cursor++
			continue
		}
		switch st {
		case StatusRunning:
			return StatusRunning, nil
		case StatusSuccess:
			s.cursor = 0
			return StatusSuccess, nil
		}
		s.cursor++
	}
	s.cursor = 0
	return StatusFailure, errors.Join(errs...)
}

// Reset clears the cursor and resets every child.
func (s *Selector) Reset() {
	s.cursor = 0
	for _, ch := range s.children {
		ch.Reset()
	}
}

// Inverter swaps Success and Failure; Running passes through unchanged.
type Inverter struct {
	baseNode
	child Node
}

// NewInverter wraps child.
func NewInverter(name string, child Node) *Inverter {
	return &Inverter{baseNode: baseNode{name: name}, child: child}
}

func (i *Inverter) Tick(t TickContext) (Status, error) {
	st, err := i.child.Tick(t)
	if err != nil {
		return StatusFailure, err
	}
	switch st {
	case StatusSuccess:
		return StatusFailure, nil
	case StatusFailure:
		return StatusSuccess, nil
	default:
		return StatusRunning, nil
	}
}

// Reset resets the child.
func (i *Inverter) Reset() { i.child.Reset() }

// Repeat re-runs its child until it has completed (Success or Failure) Times
// times, resetting the child between completions. The child is ticked once per
// frame; Repeat reports Running until the final completion, whose status
// becomes the repeat's own. Times = 0 repeats forever and never terminates.
type Repeat struct {
	baseNode
	child     Node
	times     int
	completed int
}

// NewRepeat wraps child; times = 0 means infinite.
func NewRepeat(name string, times int, child Node) *Repeat {
	return &Repeat{baseNode: baseNode{name: name}, times: times, child: child}
}

func (r *Repeat) Tick(t TickContext) (Status, error) {
	st, err := r.child.Tick(t)
	if err != nil {
		st = StatusFailure
	}
	if st == StatusRunning {
		return StatusRunning, nil
	}
	r.completed++
	r.child.Reset()
	if r.times > 0 && r.completed >= r.times {
		r.completed = 0
		return st, err
	}
	return StatusRunning, err
}

// Reset clears the completion counter and resets the child.
func (r *Repeat) Reset() {
	r.completed = 0
	r.child.Reset()
}

// RandomSelector picks one child uniformly on a fresh tick and sticks with it
// while it returns Running; once the child resolves, the result is returned
// and the next tick picks anew.
type RandomSelector struct {
	baseNode
	children []Node
	rng      *rand.Rand
	current  int
}

// NewRandomSelector builds the selector over children. A nil rng falls back to
// a time-seeded source; inject one for reproducible runs.
func NewRandomSelector(name string, rng *rand.Rand, children ...Node) *RandomSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomSelector{
		baseNode: baseNode{name: name},
		children: children,
		rng:      rng,
		current:  -1,
	}
}

func (r *RandomSelector) Tick(t TickContext) (Status, error) {
	if len(r.children) == 0 {
		return StatusFailure, nil
	}
	if r.current < 0 {
		r.current = r.rng.Intn(len(r.children))
	}
	st, err := r.children[r.current].Tick(t)
	if err != nil {
		st = StatusFailure
	}
	if st == StatusRunning {
		return StatusRunning, nil
	}
	r.current = -1
	return st, err
}

// Reset forgets the sticky pick and resets every child.
func (r *RandomSelector) Reset() {
	r.current = -1
	for _, ch := range r.children {
		ch.Reset()
	}
}

// Parallel ticks every not-yet-completed child each frame. It succeeds once at
// least SuccessThreshold children have succeeded and fails once at least
// FailureThreshold have failed; otherwise it keeps running. A terminal result
// resets all children. Should every child complete without either threshold
// being reached (a misconfigured pair of thresholds), the node fails rather
// than running forever.
type Parallel struct {
	baseNode
	children         []Node
	successThreshold int
	failureThreshold int
	done             []bool
	successes        int
	failures         int
}

// NewParallel builds the composite; thresholds at or below zero are treated
// as 1.
func NewParallel(name string, successThreshold, failureThreshold int, children ...Node) *Parallel {
	if successThreshold <= 0 {
		successThreshold = 1
	}
	if failureThreshold <= 0 {
		failureThreshold = 1
	}
	return &Parallel{
		baseNode:         baseNode{name: name},
		children:         children,
		successThreshold: successThreshold,
		failureThreshold: failureThreshold,
		done:             make([]bool, len(children)),
	}
}

func (p *Parallel) Tick(t TickContext) (Status, error) {
	if len(p.children) == 0 {
		return StatusSuccess, nil
	}

	var errs []error
	remaining := 0
	for i, ch := range p.children {
		if p.done[i] {
			continue
		}
		st, err := ch.Tick(t)
		if err != nil {
			errs = append(errs, err)
			st = StatusFailure
		}
		switch st {
		case StatusSuccess:
			p.done[i] = true
			p.successes++
		case StatusFailure:
			p.done[i] = true
			p.failures++
		default:
			remaining++
		}
	}

	joined := errors.Join(errs...)
	switch {
	case p.successes >= p.successThreshold:
		p.terminate()
		return StatusSuccess, joined
	case p.failures >= p.failureThreshold:
		p.terminate()
		return StatusFailure, joined
	case remaining == 0:
		p.terminate()
		return StatusFailure, joined
	default:
		return StatusRunning, joined
	}
}

func (p *Parallel) terminate() {
	p.successes = 0
	p.failures = 0
	for i := range p.done {
		p.done[i] = false
	}
	for _, ch := range p.children {
		ch.Reset()
	}
}

// Reset clears completion tracking and resets every child.
func (p *Parallel) Reset() { p.terminate() }
