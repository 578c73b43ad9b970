package agent

import (
	"math/rand"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision"
)

// Ranges for the stock hand-authored trees.
const (
	// ChaseSightRange is how far the hunter reacts to a visible player.
	ChaseSightRange = 220.0
	// PanicRange is how close a visible player gets before the coward bolts.
	PanicRange = 140.0

	keepMovingSpeed = 40.0
)

// NewChaseTree is the stock hunter: chase the player on sight, taunt with a
// dance once the target is spent, and break boredom with a weighted coin
// between wandering and dancing.
func NewChaseTree(state *decision.EnvironmentState, rng *rand.Rand) decision.Node {
	boredom := decision.NewWeightedRandom(rng).
		Add(0.7, decision.NewAction(ActionWander)).
		Add(0.3, decision.NewAction(ActionDance))
	engage := decision.NewBranch(
		state.ShouldChangeTarget,
		decision.NewAction(ActionDance),
		decision.NewAction(ActionPathfindToPlayer),
	)
	return decision.NewPriority().
		Add(func() bool {
			return state.LineOfSightToTarget() && state.DistanceToTarget() < ChaseSightRange
		}, engage).
		Add(func() bool { return state.IdleTooLong(decision.IdleLimitSeconds) }, boredom).
		Add(func() bool { return state.MovingFast(keepMovingSpeed) }, decision.NewAction(ActionWander))
}

// NewCowardTree keeps its distance: flee a visible player inside PanicRange,
// wander when bored, otherwise idle.
func NewCowardTree(state *decision.EnvironmentState) decision.Node {
	return decision.NewPriority().
		Add(func() bool {
			return state.LineOfSightToTarget() && state.DistanceToTarget() < PanicRange
		}, decision.NewAction(ActionFlee)).
		Add(func() bool { return state.IdleTooLong(decision.IdleLimitSeconds) }, decision.NewAction(ActionWander))
}
