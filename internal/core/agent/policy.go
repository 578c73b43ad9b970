package agent

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/behavior"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision/id3"
)

// Policy picks the action a monster pursues this frame. Implementations are
// stateful exactly where their decision maker is: behavior trees keep their
// cursors between frames, hand decision trees and learned trees do not.
type Policy interface {
	// Decide returns one of the dispatcher's action labels.
	Decide(ctx context.Context) (string, error)
	// Reset drops whatever per-episode state the policy carries.
	Reset()
	// Kind names the policy family for logs and snapshots.
	Kind() string
}

// Policy kinds as they appear in configs and snapshots.
const (
	KindDecisionTree = "decision_tree"
	KindBehaviorTree = "behavior_tree"
	KindLearned      = "learned"
)

// TreePolicy drives a behavior tree: each Decide writes fresh sensor facts
// to the blackboard, ticks the tree once, and reads the action label the
// leaves chose. Terminal ticks reset the tree so the next frame starts a new
// pass; a Running tick leaves the cursor in place, which is what lets long
// actions resume mid-tree. Frames where no leaf wrote a label keep the last
// one.
type TreePolicy struct {
	tree  *behavior.Tree
	bb    *behavior.Blackboard
	sense func(bb *behavior.Blackboard)
	last  string
}

// NewTreePolicy wraps a built tree. sense is called before every tick to
// refresh the blackboard facts; nil is allowed for trees driven externally.
func NewTreePolicy(tree *behavior.Tree, sense func(*behavior.Blackboard)) *TreePolicy {
	return &TreePolicy{tree: tree, bb: behavior.NewBlackboard(), sense: sense, last: ActionIdle}
}

// Blackboard exposes the policy's blackboard to sensors and tests.
func (p *TreePolicy) Blackboard() *behavior.Blackboard { return p.bb }

func (p *TreePolicy) Decide(ctx context.Context) (string, error) {
	if p.sense != nil {
		p.sense(p.bb)
	}
	status, err := p.tree.Tick(behavior.NewTickContext(ctx, p.bb))
	if status.Terminal() {
		p.tree.Reset()
	}
	if label, ok := p.bb.GetString(KeyAction); ok && label != "" {
		p.last = label
	}
	return p.last, err
}

func (p *TreePolicy) Reset() {
	p.tree.Reset()
	p.bb.Clear()
	p.last = ActionIdle
}

func (p *TreePolicy) Kind() string { return KindBehaviorTree }

// DecisionPolicy wraps a hand-authored decision tree. The tree re-derives
// its label from the root every frame, so there is no state to reset beyond
// the environment cache its conditions read.
type DecisionPolicy struct {
	root decision.Node
}

// NewDecisionPolicy wraps a decision tree root.
func NewDecisionPolicy(root decision.Node) *DecisionPolicy {
	return &DecisionPolicy{root: root}
}

func (p *DecisionPolicy) Decide(context.Context) (string, error) {
	if p.root == nil {
		return decision.DefaultLabel, nil
	}
	return p.root.Decide(), nil
}

func (p *DecisionPolicy) Reset() {}

func (p *DecisionPolicy) Kind() string { return KindDecisionTree }

// LearnedPolicy classifies the live trace attributes through an ID3 tree,
// reproducing whatever controller generated the training data.
type LearnedPolicy struct {
	tree       *id3.Tree
	attributes func() []string
}

// NewLearnedPolicy wraps a learned tree and the extractor sampling the same
// attribute schema it was trained on.
func NewLearnedPolicy(tree *id3.Tree, attributes func() []string) *LearnedPolicy {
	return &LearnedPolicy{tree: tree, attributes: attributes}
}

func (p *LearnedPolicy) Decide(context.Context) (string, error) {
	if p.tree == nil || p.tree.Root == nil || p.attributes == nil {
		return ActionIdle, nil
	}
	label := p.tree.Classify(p.attributes())
	if label == "" {
		label = ActionIdle
	}
	return label, nil
}

func (p *LearnedPolicy) Reset() {}

func (p *LearnedPolicy) Kind() string { return KindLearned }

// PolicySpec selects and parameterizes one policy implementation, the way
// configs describe them.
type PolicySpec struct {
	// Kind is decision_tree, behavior_tree or learned; empty means decision_tree.
	Kind string `yaml:"kind" json:"kind"`
	// Variant picks a stock decision tree: chase (default) or coward.
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`
	// File locates the tree config (behavior_tree) or saved model (learned).
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// NewPolicy builds the policy a spec describes for one monster. The monster
// supplies the environment state behind decision-tree conditions, the sensor
// behind behavior-tree facts and the trace extractor behind learned
// classification.
func NewPolicy(spec PolicySpec, m *Monster, rng *rand.Rand) (Policy, error) {
	switch spec.Kind {
	case KindDecisionTree, "":
		switch spec.Variant {
		case "", "chase":
			return NewDecisionPolicy(NewChaseTree(m.EnvState(), rng)), nil
		case "coward":
			return NewDecisionPolicy(NewCowardTree(m.EnvState())), nil
		default:
			return nil, fmt.Errorf("agent: unknown decision tree variant %q", spec.Variant)
		}

	case KindBehaviorTree:
		cfg, err := behavior.LoadFile(spec.File)
		if err != nil {
			return nil, err
		}
		tree, err := cfg.Build(NewSandboxRegistry(), rng)
		if err != nil {
			return nil, err
		}
		return NewTreePolicy(tree, m.Sense), nil

	case KindLearned:
		tree, err := id3.LoadFile(spec.File)
		if err != nil {
			return nil, err
		}
		return NewLearnedPolicy(tree, m.TraceFunc(DefaultTraceThresholds(), TraceDiscretizer())), nil

	default:
		return nil, fmt.Errorf("agent: unknown policy kind %q", spec.Kind)
	}
}
