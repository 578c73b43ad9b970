// Package agent glues the movement, navigation and decision layers into
// playable characters: the Monster that hunts the player, the PathFollower
// that walks graph paths, the policy family that picks one action label per
// frame, and the dispatcher that turns labels into movement.
//
// The split keeps the layers replaceable. Policies only ever emit labels;
// effects only ever read the monster and its tuning. Swapping a hand-authored
// tree for a learned one changes nothing but the policy field.
package agent

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
)

// Tuning bundles the kinematic limits and steering radii one agent moves
// under. Zero values are replaced by the defaults, so partial configs stay
// usable.
type Tuning struct {
	MaxSpeed               float64 `yaml:"max_speed" json:"max_speed"`
	MaxAcceleration        float64 `yaml:"max_acceleration" json:"max_acceleration"`
	MaxRotation            float64 `yaml:"max_rotation" json:"max_rotation"`
	MaxAngularAcceleration float64 `yaml:"max_angular_acceleration" json:"max_angular_acceleration"`
	ArriveTargetRadius     float64 `yaml:"arrive_target_radius" json:"arrive_target_radius"`
	ArriveSlowRadius       float64 `yaml:"arrive_slow_radius" json:"arrive_slow_radius"`
	AlignTargetRadius      float64 `yaml:"align_target_radius" json:"align_target_radius"`
	AlignSlowRadius        float64 `yaml:"align_slow_radius" json:"align_slow_radius"`
	TimeToTarget           float64 `yaml:"time_to_target" json:"time_to_target"`
}

// DefaultTuning returns the stock movement limits shared by the player and
// the monsters.
func DefaultTuning() Tuning {
	return Tuning{
		MaxSpeed:               120,
		MaxAcceleration:        240,
		MaxRotation:            180,
		MaxAngularAcceleration: 360,
		ArriveTargetRadius:     5,
		ArriveSlowRadius:       60,
		AlignTargetRadius:      2,
		AlignSlowRadius:        30,
		TimeToTarget:           0.1,
	}
}

func (t *Tuning) applyDefaults() {
	d := DefaultTuning()
	if t.MaxSpeed <= 0 {
		t.MaxSpeed = d.MaxSpeed
	}
	if t.MaxAcceleration <= 0 {
		t.MaxAcceleration = d.MaxAcceleration
	}
	if t.MaxRotation <= 0 {
		t.MaxRotation = d.MaxRotation
	}
	if t.MaxAngularAcceleration <= 0 {
		t.MaxAngularAcceleration = d.MaxAngularAcceleration
	}
	if t.ArriveTargetRadius <= 0 {
		t.ArriveTargetRadius = d.ArriveTargetRadius
	}
	if t.ArriveSlowRadius <= 0 {
		t.ArriveSlowRadius = d.ArriveSlowRadius
	}
	if t.AlignTargetRadius <= 0 {
		t.AlignTargetRadius = d.AlignTargetRadius
	}
	if t.AlignSlowRadius <= 0 {
		t.AlignSlowRadius = d.AlignSlowRadius
	}
	if t.TimeToTarget <= 0 {
		t.TimeToTarget = d.TimeToTarget
	}
}

// Arrive builds the positional arrive behavior for these limits.
func (t Tuning) Arrive() steering.Arrive {
	return steering.Arrive{
		MaxAcceleration: t.MaxAcceleration,
		MaxSpeed:        t.MaxSpeed,
		TargetRadius:    t.ArriveTargetRadius,
		SlowRadius:      t.ArriveSlowRadius,
		TimeToTarget:    t.TimeToTarget,
	}
}

// Align builds the rotational align behavior for these limits.
func (t Tuning) Align() steering.Align {
	return steering.Align{
		MaxAngularAcceleration: t.MaxAngularAcceleration,
		MaxRotation:            t.MaxRotation,
		TargetRadius:           t.AlignTargetRadius,
		SlowRadius:             t.AlignSlowRadius,
		TimeToTarget:           t.TimeToTarget,
	}
}

// brake bleeds linear and angular speed toward rest by matching a standing
// target.
func brake(k *steering.Kinematic, tuning Tuning, dt float64) {
	still := steering.Kinematic{}
	out := steering.VelocityMatching{
		MaxAcceleration: tuning.MaxAcceleration,
		TimeToTarget:    tuning.TimeToTarget,
	}.Compute(k, &still)
	out.Angular = steering.RotationMatching{
		MaxAngularAcceleration: tuning.MaxAngularAcceleration,
		TimeToTarget:           tuning.TimeToTarget,
	}.Compute(k, &still).Angular
	steering.Integrate(k, out, dt)
}

// faceVelocity snaps orientation to the direction of travel once the agent
// moves faster than the idle floor; slower agents keep their heading.
func faceVelocity(k *steering.Kinematic, floor float64) {
	if k.Speed() > floor {
		k.Orientation = k.Velocity.Heading()
		k.Rotation = 0
	}
}
