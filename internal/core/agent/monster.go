package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/behavior"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/events/bus"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/nav"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
)

const (
	// CatchDistance is how close a monster must get to the player to score a
	// catch.
	CatchDistance = 30.0
	// ReplanDistance is how far the player may drift from the goal of the
	// current chase path before the monster replans.
	ReplanDistance = 25.0
	// DanceDuration bounds one dance in seconds.
	DanceDuration = 5.0

	danceRadius = 40.0
	dancePoints = 12

	wanderDistance  = 60.0
	wanderRadius    = 30.0
	wanderSmoothing = 15.0
)

// EventPlayerCaught is published the first time in an episode a monster
// closes within CatchDistance of the player. Reset re-arms it.
const EventPlayerCaught = "agent.player_caught"

// PlayerCaught is the payload of EventPlayerCaught.
type PlayerCaught struct {
	MonsterID   string
	MonsterName string
	Distance    float64
}

// MonsterConfig wires one monster into its world. Env, Graph and Player are
// required; the rest defaults.
type MonsterConfig struct {
	Name       string
	Sprite     string
	Start      geom.Vector2
	Facing     float64
	Tuning     Tuning
	Env        *world.Environment
	Graph      *nav.Graph
	Player     *steering.Kinematic
	Policy     Policy         // nil selects the stock chase tree
	Pathfinder nav.Pathfinder // nil selects Dijkstra
	Dispatcher *Dispatcher    // nil builds a private one
	Bus        *bus.Bus       // nil disables events
	Log        log.Log
	RNG        *rand.Rand // nil seeds from the clock
}

// Monster is one AI-driven agent: a kinematic body, a decision policy that
// picks an action label each frame, and the per-action state those labels
// need (a path follower for the navigation actions, a wander behavior, a
// dance countdown).
type Monster struct {
	id     uuid.UUID
	name   string
	sprite string
	tuning Tuning

	kin   steering.Kinematic
	start steering.Kinematic

	env        *world.Environment
	graph      *nav.Graph
	pathfinder nav.Pathfinder
	player     *steering.Kinematic

	policy     Policy
	dispatcher *Dispatcher
	envState   *decision.EnvironmentState
	follower   *PathFollower
	wander     *steering.Wander
	rng        *rand.Rand

	action      string
	danceLeft   float64
	danceCenter geom.Vector2
	pathGoal    geom.Vector2
	hasPathGoal bool
	caught      bool

	bus *bus.Bus
	log log.Log
}

// NewMonster builds a monster at its start pose. The policy may be installed
// later with SetPolicy; until then the stock chase tree drives it.
func NewMonster(cfg MonsterConfig) *Monster {
	cfg.Tuning.applyDefaults()
	if cfg.Log == nil {
		cfg.Log = log.Provide()
	}
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Pathfinder == nil {
		cfg.Pathfinder = nav.NewDijkstra()
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = NewDispatcher(cfg.Log)
	}
	if cfg.Name == "" {
		cfg.Name = "monster"
	}

	m := &Monster{
		id:         uuid.New(),
		name:       cfg.Name,
		sprite:     cfg.Sprite,
		tuning:     cfg.Tuning,
		kin:        steering.Kinematic{Position: cfg.Start, Orientation: geom.WrapDegrees(cfg.Facing)},
		env:        cfg.Env,
		graph:      cfg.Graph,
		pathfinder: cfg.Pathfinder,
		player:     cfg.Player,
		dispatcher: cfg.Dispatcher,
		follower:   NewPathFollower(cfg.Tuning),
		rng:        cfg.RNG,
		action:     ActionIdle,
		bus:        cfg.Bus,
		log:        cfg.Log,
	}
	m.start = m.kin
	m.envState = decision.NewEnvironmentState(cfg.Env, &m.kin, cfg.Player)
	m.wander = steering.NewWander(wanderDistance, wanderRadius, wanderSmoothing, cfg.Tuning.Arrive(), cfg.RNG)
	m.policy = cfg.Policy
	if m.policy == nil {
		m.policy = NewDecisionPolicy(NewChaseTree(m.envState, cfg.RNG))
	}
	return m
}

// ID returns the monster's unique id.
func (m *Monster) ID() uuid.UUID { return m.id }

// Name returns the display name.
func (m *Monster) Name() string { return m.name }

// Sprite returns the sprite key renderers use for this monster.
func (m *Monster) Sprite() string { return m.sprite }

// Kinematic exposes the live body for integration and collision handling.
func (m *Monster) Kinematic() *steering.Kinematic { return &m.kin }

// Action returns the label applied on the most recent update.
func (m *Monster) Action() string { return m.action }

// Dancing reports whether a dance is still counting down.
func (m *Monster) Dancing() bool { return m.danceLeft > 0 }

// Path returns the waypoints the monster is currently following.
func (m *Monster) Path() []geom.Vector2 { return m.follower.Path() }

// EnvState exposes the query cache policies read.
func (m *Monster) EnvState() *decision.EnvironmentState { return m.envState }

// Policy returns the active decision policy.
func (m *Monster) Policy() Policy { return m.policy }

// SetPolicy swaps the decision policy in place. The new policy starts from a
// clean slate; the current action keeps running until its first Decide.
func (m *Monster) SetPolicy(p Policy) {
	if p == nil {
		return
	}
	p.Reset()
	m.policy = p
	m.log.Info("policy swapped",
		log.String("monster", m.name),
		log.String("kind", p.Kind()),
	)
}

// Reset returns the monster to its start pose and clears every per-episode
// latch: path, wander angle, dance countdown, catch flag and policy state.
func (m *Monster) Reset() {
	m.kin = m.start
	m.action = ActionIdle
	m.danceLeft = 0
	m.hasPathGoal = false
	m.caught = false
	m.follower.Clear()
	m.wander.Reset()
	m.policy.Reset()
}

// Update advances the monster by one frame: refresh the sensed state, let
// the policy pick a label, run the transition bookkeeping when the label
// changed, apply the action's effect, then check for a catch.
func (m *Monster) Update(ctx context.Context, dt float64) {
	m.envState.Refresh(dt)

	label, err := m.policy.Decide(ctx)
	if err != nil {
		m.log.Warn("policy error",
			log.String("monster", m.name),
			log.Error(err),
		)
	}
	label = m.dispatcher.Resolve(label, m.name)
	if label != m.action {
		m.enter(label)
	}
	m.dispatcher.Apply(m, m.action, dt)
	m.checkCatch()
}

// enter runs the one-time bookkeeping for an action transition.
func (m *Monster) enter(next string) {
	prev := m.action
	m.action = next
	if prev == ActionDance {
		m.danceLeft = 0
	}
	switch next {
	case ActionDance:
		m.danceLeft = DanceDuration
		m.danceCenter = m.kin.Position
		m.follower.SetPath(danceRing(m.danceCenter))
	case ActionPathfindToPlayer:
		m.hasPathGoal = false
	}
	m.log.Debug("action change",
		log.String("monster", m.name),
		log.String("from", prev),
		log.String("to", next),
	)
}

func (m *Monster) checkCatch() {
	if m.caught || m.player == nil {
		return
	}
	d := geom.Distance(m.kin.Position, m.player.Position)
	if d >= CatchDistance {
		return
	}
	m.caught = true
	m.log.Info("player caught",
		log.String("monster", m.name),
		log.Float64("distance", d),
	)
	if m.bus != nil {
		_ = m.bus.Publish(bus.NewEvent(EventPlayerCaught, m.name, PlayerCaught{
			MonsterID:   m.id.String(),
			MonsterName: m.name,
			Distance:    d,
		}))
	}
}

// Sense publishes the monster's view of the world onto a blackboard, one
// fact per key, for behavior-tree conditions to read.
func (m *Monster) Sense(bb *behavior.Blackboard) {
	th := DefaultTraceThresholds()
	bb.Set(KeyTargetVisible, m.envState.LineOfSightToTarget())
	bb.Set(KeyTargetDistance, m.envState.DistanceToTarget())
	bb.Set(KeyIdleFor, m.envState.IdleFor())
	bb.Set(KeySpeed, m.kin.Speed())
	bb.Set(KeyNearObstacle, m.envState.NearObstacle(th.ObstacleRadius))
	bb.Set(KeyPathDone, m.follower.Done())
	bb.Set(KeyDanceDone, m.action == ActionDance && m.danceLeft <= 0)
}

func (m *Monster) needsReplan() bool {
	if !m.hasPathGoal || m.follower.Done() {
		return true
	}
	return geom.Distance(m.player.Position, m.pathGoal) > ReplanDistance
}

// planTo routes from the monster's nearest vertex to the one nearest goal
// and hands the vertex centers to the follower, with the exact goal appended
// when it is walkable so the final hop leaves the grid.
func (m *Monster) planTo(goal geom.Vector2) {
	m.pathGoal = goal
	m.hasPathGoal = true

	start := m.graph.PointToVertex(m.kin.Position)
	end := m.graph.PointToVertex(goal)
	if start < 0 || end < 0 {
		m.follower.Clear()
		return
	}

	vertices := m.pathfinder.FindPath(m.graph, start, end)
	if len(vertices) == 0 {
		m.follower.Clear()
		m.log.Debug("chase target unreachable", log.String("monster", m.name))
		return
	}
	points := make([]geom.Vector2, 0, len(vertices)+1)
	for _, v := range vertices {
		if p, ok := m.graph.VertexPosition(v); ok {
			points = append(points, p)
		}
	}
	if m.env.Walkable(goal) {
		points = append(points, goal)
	}
	m.follower.SetPath(points)

	metrics := m.pathfinder.Metrics()
	m.log.Debug("chase path replanned",
		log.String("monster", m.name),
		log.Int("waypoints", len(points)),
		log.Int("explored", metrics.NodesExplored),
		log.Float64("cost", metrics.PathCost),
	)
}

// danceRing traces the loop a dancing monster struts around.
func danceRing(center geom.Vector2) []geom.Vector2 {
	pts := make([]geom.Vector2, 0, dancePoints+1)
	for i := 0; i <= dancePoints; i++ {
		deg := float64(i) / dancePoints * 360
		pts = append(pts, center.Add(geom.FromAngle(deg).Scale(danceRadius)))
	}
	return pts
}

// FollowWaypoints hands an externally planned route to the monster, used by
// the FollowPath action.
func (m *Monster) FollowWaypoints(points []geom.Vector2) {
	m.follower.SetPath(points)
}

func effectIdle(m *Monster, dt float64) {
	brake(&m.kin, m.tuning, dt)
}

func effectWander(m *Monster, dt float64) {
	out := m.wander.Compute(&m.kin, nil)
	steering.Integrate(&m.kin, out, dt)
	m.kin.Velocity = m.kin.Velocity.ClampLength(m.tuning.MaxSpeed)
	faceVelocity(&m.kin, decision.IdleSpeedFloor)
}

func effectFlee(m *Monster, dt float64) {
	if m.player == nil {
		brake(&m.kin, m.tuning, dt)
		return
	}
	out := steering.Flee{MaxAcceleration: m.tuning.MaxAcceleration}.Compute(&m.kin, m.player)
	steering.Integrate(&m.kin, out, dt)
	m.kin.Velocity = m.kin.Velocity.ClampLength(m.tuning.MaxSpeed)
	faceVelocity(&m.kin, decision.IdleSpeedFloor)
}

func effectPathfindToPlayer(m *Monster, dt float64) {
	if m.player == nil {
		brake(&m.kin, m.tuning, dt)
		return
	}
	if m.needsReplan() {
		m.planTo(m.player.Position)
	}
	m.follower.Step(&m.kin, dt)
}

func effectFollowPath(m *Monster, dt float64) {
	m.follower.Step(&m.kin, dt)
}

func effectDance(m *Monster, dt float64) {
	if m.danceLeft <= 0 {
		brake(&m.kin, m.tuning, dt)
		return
	}
	m.danceLeft -= dt
	if m.follower.Done() {
		m.follower.SetPath(danceRing(m.danceCenter))
	}
	m.follower.Step(&m.kin, dt)
}
