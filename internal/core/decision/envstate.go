package decision

import (
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
)

// Tunables for the idle stopwatch and the compound retarget query. The speed
// floor marks an agent as idle, the limit is how long it may stay idle, and
// the radius treats a close-enough target as reached.
const (
	IdleSpeedFloor     = 5.0
	IdleLimitSeconds   = 3.0
	ChangeTargetRadius = 20.0
)

// EnvironmentState answers the queries decision-tree conditions ask about one
// agent and its target. Answers are cached for the duration of a frame so a
// tree walk sees consistent values; Refresh starts the next frame, advances
// the idle stopwatch and drops the cache.
//
// Not safe for concurrent use; the frame loop owns it.
type EnvironmentState struct {
	env    *world.Environment
	me     *steering.Kinematic
	target *steering.Kinematic

	idleFor float64

	dist     float64
	distOK   bool
	los      bool
	losOK    bool
	nearMemo map[float64]bool
}

// NewEnvironmentState binds the query object to an environment, the observed
// agent and its target. Target may be repointed later via SetTarget.
func NewEnvironmentState(env *world.Environment, me, target *steering.Kinematic) *EnvironmentState {
	return &EnvironmentState{env: env, me: me, target: target}
}

// SetTarget repoints the target kinematic and drops the cache.
func (s *EnvironmentState) SetTarget(target *steering.Kinematic) {
	s.target = target
	s.invalidate()
}

// Refresh advances the frame clock by dt seconds: the idle stopwatch
// accumulates while the agent moves slower than IdleSpeedFloor and clears the
// moment it speeds up, and all cached answers are invalidated.
func (s *EnvironmentState) Refresh(dt float64) {
	if s.me.Speed() < IdleSpeedFloor {
		s.idleFor += dt
	} else {
		s.idleFor = 0
	}
	s.invalidate()
}

func (s *EnvironmentState) invalidate() {
	s.distOK = false
	s.losOK = false
	s.nearMemo = nil
}

// DistanceToTarget returns the distance between the agent and its target.
// Without a target it returns +Inf, which reads as "nothing in range".
func (s *EnvironmentState) DistanceToTarget() float64 {
	if s.distOK {
		return s.dist
	}
	if s.target == nil {
		s.dist = math.Inf(1)
	} else {
		s.dist = geom.Distance(s.me.Position, s.target.Position)
	}
	s.distOK = true
	return s.dist
}

// NearObstacle reports whether any obstacle lies within radius of the agent.
func (s *EnvironmentState) NearObstacle(radius float64) bool {
	if v, ok := s.nearMemo[radius]; ok {
		return v
	}
	v := s.env.NearObstacle(s.me.Position, radius)
	if s.nearMemo == nil {
		s.nearMemo = make(map[float64]bool)
	}
	s.nearMemo[radius] = v
	return v
}

// MovingFast reports whether the agent's speed exceeds threshold.
func (s *EnvironmentState) MovingFast(threshold float64) bool {
	return s.me.Speed() > threshold
}

// LineOfSightToTarget reports whether the straight segment from the agent to
// its target crosses no obstacle. False without a target.
func (s *EnvironmentState) LineOfSightToTarget() bool {
	if s.losOK {
		return s.los
	}
	if s.target == nil {
		s.los = false
	} else {
		s.los = s.env.LineOfSight(s.me.Position, s.target.Position)
	}
	s.losOK = true
	return s.los
}

// IdleTooLong reports whether the agent has been below IdleSpeedFloor for at
// least limit seconds.
func (s *EnvironmentState) IdleTooLong(limit float64) bool {
	return s.idleFor >= limit
}

// IdleFor returns the current idle stopwatch reading in seconds.
func (s *EnvironmentState) IdleFor() float64 { return s.idleFor }

// ShouldChangeTarget is the compound retarget query: the target counts as
// spent when the agent has closed within ChangeTargetRadius of it or has sat
// idle past IdleLimitSeconds.
func (s *EnvironmentState) ShouldChangeTarget() bool {
	return s.DistanceToTarget() < ChangeTargetRadius || s.IdleTooLong(IdleLimitSeconds)
}
