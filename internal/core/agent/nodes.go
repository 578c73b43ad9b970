package agent

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/behavior"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision"
)

// Blackboard keys written by Monster.Sense each frame. Behavior-tree
// conditions read facts, action leaves write KeyAction for the dispatcher.
const (
	KeyAction         = "action"
	KeyTargetVisible  = "target_visible"
	KeyTargetDistance = "target_distance"
	KeyIdleFor        = "idle_for"
	KeySpeed          = "speed"
	KeyNearObstacle   = "near_obstacle"
	KeyPathDone       = "path_done"
	KeyDanceDone      = "dance_done"
)

// Defaults for condition parameters left out of a tree config.
const (
	defaultNearRadius    = 150.0
	defaultFastThreshold = 60.0
)

// actionLeaf writes its label to the blackboard. A leaf without a done key
// succeeds immediately, one with a done key runs until the sensed fact under
// that key turns true, which is how FollowPath and Dance hold the tree's
// cursor while they play out.
type actionLeaf struct {
	name    string
	label   string
	doneKey string
	started bool
}

func (a *actionLeaf) Name() string { return a.name }

func (a *actionLeaf) Reset() { a.started = false }

func (a *actionLeaf) Tick(t behavior.TickContext) (behavior.Status, error) {
	t.BB.Set(KeyAction, a.label)
	if a.doneKey == "" {
		return behavior.StatusSuccess, nil
	}
	if !a.started {
		a.started = true
		return behavior.StatusRunning, nil
	}
	if t.BB.GetBool(a.doneKey) {
		a.started = false
		return behavior.StatusSuccess, nil
	}
	return behavior.StatusRunning, nil
}

func leafFactory(label, doneKey string) behavior.NodeFactory {
	return func(map[string]any) (behavior.Node, error) {
		return &actionLeaf{name: label, label: label, doneKey: doneKey}, nil
	}
}

// NewSandboxRegistry returns a node registry carrying the action vocabulary
// and the stock conditions tree configs may reference.
func NewSandboxRegistry() *behavior.Registry {
	reg := behavior.NewRegistry()

	reg.RegisterAction(ActionPathfindToPlayer, leafFactory(ActionPathfindToPlayer, ""))
	reg.RegisterAction(ActionWander, leafFactory(ActionWander, ""))
	reg.RegisterAction(ActionFlee, leafFactory(ActionFlee, ""))
	reg.RegisterAction(ActionIdle, leafFactory(ActionIdle, ""))
	reg.RegisterAction(ActionFollowPath, leafFactory(ActionFollowPath, KeyPathDone))
	reg.RegisterAction(ActionDance, leafFactory(ActionDance, KeyDanceDone))

	reg.RegisterCondition("TargetVisible", func(map[string]any) (behavior.Node, error) {
		return behavior.NewCondition("TargetVisible", func(t behavior.TickContext) (bool, error) {
			return t.BB.GetBool(KeyTargetVisible), nil
		}), nil
	})
	reg.RegisterCondition("TargetNear", func(params map[string]any) (behavior.Node, error) {
		radius := behavior.ParamFloat(params, "radius", defaultNearRadius)
		return behavior.NewCondition("TargetNear", func(t behavior.TickContext) (bool, error) {
			d, ok := t.BB.GetFloat(KeyTargetDistance)
			return ok && d < radius, nil
		}), nil
	})
	reg.RegisterCondition("IdleTooLong", func(params map[string]any) (behavior.Node, error) {
		limit := behavior.ParamFloat(params, "seconds", decision.IdleLimitSeconds)
		return behavior.NewCondition("IdleTooLong", func(t behavior.TickContext) (bool, error) {
			idle, ok := t.BB.GetFloat(KeyIdleFor)
			return ok && idle >= limit, nil
		}), nil
	})
	reg.RegisterCondition("MovingFast", func(params map[string]any) (behavior.Node, error) {
		threshold := behavior.ParamFloat(params, "threshold", defaultFastThreshold)
		return behavior.NewCondition("MovingFast", func(t behavior.TickContext) (bool, error) {
			speed, ok := t.BB.GetFloat(KeySpeed)
			return ok && speed > threshold, nil
		}), nil
	})
	reg.RegisterCondition("NearObstacle", func(map[string]any) (behavior.Node, error) {
		return behavior.NewCondition("NearObstacle", func(t behavior.TickContext) (bool, error) {
			return t.BB.GetBool(KeyNearObstacle), nil
		}), nil
	})
	reg.RegisterCondition("PathDone", func(map[string]any) (behavior.Node, error) {
		return behavior.NewCondition("PathDone", func(t behavior.TickContext) (bool, error) {
			return t.BB.GetBool(KeyPathDone), nil
		}), nil
	})

	return reg
}
