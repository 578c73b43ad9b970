package agent

import (
	"sync"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
)

// The action vocabulary shared by every decision layer. Policies emit these
// labels, recorded traces store them, and the dispatcher maps them to
// movement.
const (
	ActionPathfindToPlayer = "PathfindToPlayer"
	ActionWander           = "Wander"
	ActionFollowPath       = "FollowPath"
	ActionDance            = "Dance"
	ActionFlee             = "Flee"
	ActionIdle             = "Idle"
)

// Actions lists the vocabulary in a stable order.
func Actions() []string {
	return []string{
		ActionPathfindToPlayer,
		ActionWander,
		ActionFollowPath,
		ActionDance,
		ActionFlee,
		ActionIdle,
	}
}

// Effect advances one frame of an action for a monster.
type Effect func(m *Monster, dt float64)

// Dispatcher routes action labels to their effects. Labels outside the
// registered vocabulary degrade to Idle with a diagnostic, so a misauthored
// tree or a stale learned model cannot wedge an agent.
type Dispatcher struct {
	mu      sync.RWMutex
	effects map[string]Effect
	log     log.Log
}

// NewDispatcher returns a dispatcher preloaded with the built-in vocabulary.
func NewDispatcher(logger log.Log) *Dispatcher {
	if logger == nil {
		logger = log.Provide()
	}
	d := &Dispatcher{effects: make(map[string]Effect), log: logger}
	d.Register(ActionPathfindToPlayer, effectPathfindToPlayer)
	d.Register(ActionWander, effectWander)
	d.Register(ActionFollowPath, effectFollowPath)
	d.Register(ActionDance, effectDance)
	d.Register(ActionFlee, effectFlee)
	d.Register(ActionIdle, effectIdle)
	return d
}

// Register installs or replaces the effect for a label.
func (d *Dispatcher) Register(label string, e Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.effects[label] = e
}

// Known reports whether a label has a registered effect.
func (d *Dispatcher) Known(label string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.effects[label]
	return ok
}

// Labels returns the registered labels, unordered.
func (d *Dispatcher) Labels() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.effects))
	for label := range d.effects {
		out = append(out, label)
	}
	return out
}

// Resolve maps a requested label to the one that will actually run: labels
// without an effect degrade to ActionIdle with a diagnostic naming the
// offender.
func (d *Dispatcher) Resolve(label, who string) string {
	if d.Known(label) {
		return label
	}
	d.log.Warn("unknown action label, idling",
		log.String("label", label),
		log.String("monster", who),
	)
	return ActionIdle
}

// Apply runs one frame of the effect for label on m and returns the label
// actually applied. Unknown labels fall back to ActionIdle silently; callers
// that want the diagnostic resolve first.
func (d *Dispatcher) Apply(m *Monster, label string, dt float64) string {
	d.mu.RLock()
	effect, ok := d.effects[label]
	if !ok {
		label = ActionIdle
		effect = d.effects[ActionIdle]
	}
	d.mu.RUnlock()

	if effect != nil {
		effect(m, dt)
	}
	return label
}
