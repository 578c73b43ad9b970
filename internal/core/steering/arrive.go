package steering

import (
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Arrive seeks the target position with smooth deceleration: full speed
// outside SlowRadius, speed tapering linearly inside it, and a hard stop
// (zero output) inside TargetRadius.
type Arrive struct {
	MaxAcceleration float64
	MaxSpeed        float64
	TargetRadius    float64
	SlowRadius      float64
	TimeToTarget    float64
}

func (b Arrive) Compute(me, target *Kinematic) SteeringOutput {
	dir := target.Position.Sub(me.Position)
	d := dir.Length()
	if d < b.TargetRadius || dir.IsZero() {
		return SteeringOutput{}
	}

	targetSpeed := b.MaxSpeed
	if d <= b.SlowRadius && b.SlowRadius > 0 {
		targetSpeed = b.MaxSpeed * (d / b.SlowRadius)
	}
	desired := dir.Scale(targetSpeed / d)

	tt := b.TimeToTarget
	if tt <= 0 {
		tt = defaultTimeToTarget
	}
	linear := desired.Sub(me.Velocity).Scale(1 / tt)
	return SteeringOutput{Linear: linear.ClampLength(b.MaxAcceleration)}
}

// Align is the rotational analogue of Arrive: it rotates toward the target
// orientation along the shortest arc, slowing inside SlowRadius and stopping
// inside TargetRadius. Radii are in degrees.
type Align struct {
	MaxAngularAcceleration float64
	MaxRotation            float64
	TargetRadius           float64
	SlowRadius             float64
	TimeToTarget           float64
}

func (b Align) Compute(me, target *Kinematic) SteeringOutput {
	arc := geom.ShortestArc(me.Orientation, target.Orientation)
	size := math.Abs(arc)
	if size < b.TargetRadius {
		return SteeringOutput{}
	}

	targetRotation := b.MaxRotation
	if size <= b.SlowRadius && b.SlowRadius > 0 {
		targetRotation = b.MaxRotation * (size / b.SlowRadius)
	}
	if arc < 0 {
		targetRotation = -targetRotation
	}

	tt := b.TimeToTarget
	if tt <= 0 {
		tt = defaultTimeToTarget
	}
	angular := (targetRotation - me.Rotation) / tt
	angular = geom.Clamp(angular, -b.MaxAngularAcceleration, b.MaxAngularAcceleration)
	return SteeringOutput{Angular: angular}
}
