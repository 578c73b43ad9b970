// Package steering implements point-mass movement for sandbox agents: the
// Kinematic state record, the SteeringOutput accelerations produced per tick,
// and the behavior family (matching primitives, Arrive, Align, Wander, Flee
// and the flocking composite).
//
// All behaviors are pure with respect to the kinematic snapshot they read;
// the only stateful behavior is Wander, which carries its smoothed angle and
// an injected RNG on the instance. Orientations are degrees in [0, 360),
// rotations are degrees per second.
package steering

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Kinematic is the physical state of an agent: a point mass with an
// orientation. Behaviors read it; the integrator mutates it.
type Kinematic struct {
	Position    geom.Vector2
	Velocity    geom.Vector2
	Orientation float64 // degrees, kept in [0,360) by Update
	Rotation    float64 // degrees per second
}

// Update advances the kinematic by dt seconds: position by velocity,
// orientation by rotation. Orientation is wrapped back into [0,360) with a
// positive wrap, so negative rotation never produces a negative orientation.
// Velocity is not clamped here; clamping belongs to the controlling behavior.
func (k *Kinematic) Update(dt float64) {
	k.Position = k.Position.Add(k.Velocity.Scale(dt))
	k.Orientation = geom.WrapDegrees(k.Orientation + k.Rotation*dt)
}

// Speed returns the magnitude of the current velocity.
func (k *Kinematic) Speed() float64 {
	return k.Velocity.Length()
}

// SteeringOutput is the per-tick result of a behavior: a linear acceleration
// in world units/s² and an angular acceleration in degrees/s². Outputs are
// values; behaviors never mutate the kinematics they read.
type SteeringOutput struct {
	Linear  geom.Vector2
	Angular float64
}

// Add combines two outputs component-wise, used by weighted blends.
func (o SteeringOutput) Add(other SteeringOutput) SteeringOutput {
	return SteeringOutput{
		Linear:  o.Linear.Add(other.Linear),
		Angular: o.Angular + other.Angular,
	}
}

// Scale multiplies both channels by w.
func (o SteeringOutput) Scale(w float64) SteeringOutput {
	return SteeringOutput{Linear: o.Linear.Scale(w), Angular: o.Angular * w}
}

// Behavior computes one tick of steering for me relative to target. Behaviors
// that need no target (Wander) ignore it; passing nil is allowed for those.
type Behavior interface {
	Compute(me, target *Kinematic) SteeringOutput
}

// Integrate applies one steering tick to k: acceleration into velocity,
// angular acceleration into rotation, then a kinematic update over dt.
func Integrate(k *Kinematic, out SteeringOutput, dt float64) {
	k.Velocity = k.Velocity.Add(out.Linear.Scale(dt))
	k.Rotation += out.Angular * dt
	k.Update(dt)
}

// defaultTimeToTarget guards behaviors configured with a zero horizon; a zero
// TimeToTarget would otherwise divide by zero.
const defaultTimeToTarget = 0.1
