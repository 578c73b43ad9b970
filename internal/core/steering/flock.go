package steering

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Default blend weights for the flocking composite. Hand-tuned; overridable
// via FlockConfig.
const (
	DefaultSeparationWeight = 2.0
	DefaultAlignmentWeight  = 0.9
	DefaultCohesionWeight   = 0.8
)

// Internal scale factors relating the partial behaviors to the flock's speed
// and force limits.
const (
	alignSpeedFactor    = 0.8
	alignForceFactor    = 0.7
	cohesionForceFactor = 0.6
)

// Separation pushes an agent away from neighbors inside Radius, weighting
// closer neighbors more ((Radius − d)/Radius), averaging the contributions
// and rescaling the result to MaxForce.
type Separation struct {
	Radius   float64
	MaxForce float64
}

func (s Separation) Accumulate(me *Kinematic, neighbors []*Kinematic) geom.Vector2 {
	var sum geom.Vector2
	count := 0
	for _, other := range neighbors {
		if other == me {
			continue
		}
		d := geom.Distance(me.Position, other.Position)
		if d >= s.Radius {
			continue
		}
		w := (s.Radius - d) / s.Radius
		sum = sum.Add(me.Position.Sub(other.Position).Normalize().Scale(w))
		count++
	}
	if count == 0 {
		return geom.Vector2{}
	}
	avg := sum.Scale(1 / float64(count))
	if avg.IsZero() {
		return geom.Vector2{}
	}
	return avg.Normalize().Scale(s.MaxForce)
}

// Alignment steers toward the average velocity of neighbors inside Radius.
// The desired speed is alignSpeedFactor·MaxSpeed and the steering delta is
// clamped to alignForceFactor·MaxForce.
type Alignment struct {
	Radius   float64
	MaxSpeed float64
	MaxForce float64
}

func (a Alignment) Accumulate(me *Kinematic, neighbors []*Kinematic) geom.Vector2 {
	var sum geom.Vector2
	count := 0
	for _, other := range neighbors {
		if other == me {
			continue
		}
		if geom.Distance(me.Position, other.Position) >= a.Radius {
			continue
		}
		sum = sum.Add(other.Velocity)
		count++
	}
	if count == 0 {
		return geom.Vector2{}
	}
	avg := sum.Scale(1 / float64(count))
	if avg.IsZero() {
		return geom.Vector2{}
	}
	desired := avg.Normalize().Scale(alignSpeedFactor * a.MaxSpeed)
	return desired.Sub(me.Velocity).ClampLength(alignForceFactor * a.MaxForce)
}

// Cohesion steers toward the average position of neighbors inside Radius,
// scaled to cohesionForceFactor·MaxForce.
type Cohesion struct {
	Radius   float64
	MaxForce float64
}

func (c Cohesion) Accumulate(me *Kinematic, neighbors []*Kinematic) geom.Vector2 {
	var sum geom.Vector2
	count := 0
	for _, other := range neighbors {
		if other == me {
			continue
		}
		if geom.Distance(me.Position, other.Position) >= c.Radius {
			continue
		}
		sum = sum.Add(other.Position)
		count++
	}
	if count == 0 {
		return geom.Vector2{}
	}
	center := sum.Scale(1 / float64(count))
	toCenter := center.Sub(me.Position)
	if toCenter.IsZero() {
		return geom.Vector2{}
	}
	return toCenter.Normalize().Scale(cohesionForceFactor * c.MaxForce)
}

// FlockConfig tunes the flocking composite. Zero weights fall back to the
// package defaults; Extent defines the toroidal world the flock wraps on.
type FlockConfig struct {
	SeparationRadius float64      `yaml:"separation_radius" json:"separation_radius"`
	AlignmentRadius  float64      `yaml:"alignment_radius" json:"alignment_radius"`
	CohesionRadius   float64      `yaml:"cohesion_radius" json:"cohesion_radius"`
	SeparationWeight float64      `yaml:"separation_weight" json:"separation_weight"`
	AlignmentWeight  float64      `yaml:"alignment_weight" json:"alignment_weight"`
	CohesionWeight   float64      `yaml:"cohesion_weight" json:"cohesion_weight"`
	MaxSpeed         float64      `yaml:"max_speed" json:"max_speed"`
	MaxForce         float64      `yaml:"max_force" json:"max_force"`
	Extent           geom.Vector2 `yaml:"extent" json:"extent"`
}

func (c *FlockConfig) applyDefaults() {
	if c.SeparationWeight == 0 {
		c.SeparationWeight = DefaultSeparationWeight
	}
	if c.AlignmentWeight == 0 {
		c.AlignmentWeight = DefaultAlignmentWeight
	}
	if c.CohesionWeight == 0 {
		c.CohesionWeight = DefaultCohesionWeight
	}
}

// Flock blends separation, alignment and cohesion into one steering force and
// integrates a whole group per tick with speed clamping and toroidal wrap.
type Flock struct {
	cfg   FlockConfig
	sep   Separation
	align Alignment
	coh   Cohesion
}

// NewFlock builds the composite from cfg, filling defaulted weights.
func NewFlock(cfg FlockConfig) *Flock {
	cfg.applyDefaults()
	return &Flock{
		cfg:   cfg,
		sep:   Separation{Radius: cfg.SeparationRadius, MaxForce: cfg.MaxForce},
		align: Alignment{Radius: cfg.AlignmentRadius, MaxSpeed: cfg.MaxSpeed, MaxForce: cfg.MaxForce},
		coh:   Cohesion{Radius: cfg.CohesionRadius, MaxForce: cfg.MaxForce},
	}
}

// Steer computes the blended acceleration for one member against the group.
func (f *Flock) Steer(me *Kinematic, neighbors []*Kinematic) SteeringOutput {
	total := f.sep.Accumulate(me, neighbors).Scale(f.cfg.SeparationWeight).
		Add(f.align.Accumulate(me, neighbors).Scale(f.cfg.AlignmentWeight)).
		Add(f.coh.Accumulate(me, neighbors).Scale(f.cfg.CohesionWeight))
	return SteeringOutput{Linear: total}
}

// Step advances every member by dt. Steering for all members is computed
// against the same position snapshot before any member moves, then velocity
// is clamped to MaxSpeed, positions wrap toroidally on Extent and members
// face their velocity.
func (f *Flock) Step(members []*Kinematic, dt float64) {
	outs := make([]SteeringOutput, len(members))
	for i, m := range members {
		outs[i] = f.Steer(m, members)
	}
	for i, m := range members {
		m.Velocity = m.Velocity.Add(outs[i].Linear.Scale(dt)).ClampLength(f.cfg.MaxSpeed)
		m.Update(dt)
		m.Position = wrapTorus(m.Position, f.cfg.Extent)
		if !m.Velocity.IsZero() {
			m.Orientation = m.Velocity.Heading()
		}
	}
}

// wrapTorus folds p back into [0,extent) on each axis. A zero extent disables
// wrapping on that axis.
func wrapTorus(p geom.Vector2, extent geom.Vector2) geom.Vector2 {
	if extent.X > 0 {
		for p.X < 0 {
			p.X += extent.X
		}
		for p.X >= extent.X {
			p.X -= extent.X
		}
	}
	if extent.Y > 0 {
		for p.Y < 0 {
			p.Y += extent.Y
		}
		for p.Y >= extent.Y {
			p.Y -= extent.Y
		}
	}
	return p
}
