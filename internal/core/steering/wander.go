package steering

import (
	"math/rand"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Wander produces temporally-correlated random movement using the smoothed
// circle-projection method: a circle is projected ahead of the agent along
// its velocity, a persistent angle walks around that circle by a bounded
// random jitter each tick, and the agent seeks the resulting point.
//
// The jitter is (r1 − r2)·AngleSmoothing with r1, r2 uniform in [0,1), so a
// single tick can never turn the wander point by more than AngleSmoothing
// degrees. The RNG is injected so simulations replay deterministically.
type Wander struct {
	Distance       float64 // how far ahead the circle center sits
	Radius         float64 // circle radius
	AngleSmoothing float64 // max per-tick jitter, degrees
	Seek           Arrive  // behavior aimed at the wander point

	rng   *rand.Rand
	angle float64
}

// NewWander builds a wander behavior around an Arrive tuned by the caller.
// rng must not be nil.
func NewWander(distance, radius, angleSmoothing float64, seek Arrive, rng *rand.Rand) *Wander {
	return &Wander{
		Distance:       distance,
		Radius:         radius,
		AngleSmoothing: angleSmoothing,
		Seek:           seek,
		rng:            rng,
	}
}

// Compute advances the wander angle and seeks the projected point. The target
// argument is ignored.
func (w *Wander) Compute(me, _ *Kinematic) SteeringOutput {
	target := Kinematic{Position: w.NextTarget(me)}
	return w.Seek.Compute(me, &target)
}

// NextTarget advances the persistent angle by one jitter step and returns the
// wander point for this tick. Exposed so followers can aim path-style
// behaviors at the same point the steering used.
func (w *Wander) NextTarget(me *Kinematic) geom.Vector2 {
	ahead := me.Velocity.Normalize()
	if ahead.IsZero() {
		ahead = geom.FromAngle(me.Orientation)
	}
	center := me.Position.Add(ahead.Scale(w.Distance))

	w.angle += (w.rng.Float64() - w.rng.Float64()) * w.AngleSmoothing
	displacement := geom.FromAngle(w.angle).Scale(w.Radius)
	return center.Add(displacement)
}

// Angle reports the current smoothed wander angle in degrees.
func (w *Wander) Angle() float64 {
	return w.angle
}

// Reset clears the persistent wander angle.
func (w *Wander) Reset() {
	w.angle = 0
}
