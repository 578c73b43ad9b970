package steering

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// PositionMatching is the raw seek primitive: it accelerates along the offset
// to the target. The offset is deliberately NOT normalized, so the output
// magnitude grows with distance; callers that want a unit-direction seek
// normalize themselves or use Arrive.
type PositionMatching struct {
	MaxAcceleration float64
}

func (b PositionMatching) Compute(me, target *Kinematic) SteeringOutput {
	dir := target.Position.Sub(me.Position)
	return SteeringOutput{Linear: dir.Scale(b.MaxAcceleration)}
}

// VelocityMatching accelerates toward the target's velocity over TimeToTarget
// seconds, clamped to MaxAcceleration.
type VelocityMatching struct {
	MaxAcceleration float64
	TimeToTarget    float64
}

func (b VelocityMatching) Compute(me, target *Kinematic) SteeringOutput {
	tt := b.TimeToTarget
	if tt <= 0 {
		tt = defaultTimeToTarget
	}
	linear := target.Velocity.Sub(me.Velocity).Scale(1 / tt)
	return SteeringOutput{Linear: linear.ClampLength(b.MaxAcceleration)}
}

// OrientationMatching applies full angular acceleration in the direction of
// the shortest arc to the target orientation. Already-aligned kinematics get
// zero output.
type OrientationMatching struct {
	MaxAngularAcceleration float64
}

func (b OrientationMatching) Compute(me, target *Kinematic) SteeringOutput {
	arc := geom.ShortestArc(me.Orientation, target.Orientation)
	switch {
	case arc > 0:
		return SteeringOutput{Angular: b.MaxAngularAcceleration}
	case arc < 0:
		return SteeringOutput{Angular: -b.MaxAngularAcceleration}
	default:
		return SteeringOutput{}
	}
}

// RotationMatching accelerates toward the target's angular velocity over
// TimeToTarget seconds, clamped to MaxAngularAcceleration.
type RotationMatching struct {
	MaxAngularAcceleration float64
	TimeToTarget           float64
}

func (b RotationMatching) Compute(me, target *Kinematic) SteeringOutput {
	tt := b.TimeToTarget
	if tt <= 0 {
		tt = defaultTimeToTarget
	}
	angular := (target.Rotation - me.Rotation) / tt
	angular = geom.Clamp(angular, -b.MaxAngularAcceleration, b.MaxAngularAcceleration)
	return SteeringOutput{Angular: angular}
}

// Flee accelerates directly away from the target at full strength. Standing
// exactly on the target yields zero output rather than a NaN direction.
type Flee struct {
	MaxAcceleration float64
}

func (b Flee) Compute(me, target *Kinematic) SteeringOutput {
	away := me.Position.Sub(target.Position).Normalize()
	return SteeringOutput{Linear: away.Scale(b.MaxAcceleration)}
}
