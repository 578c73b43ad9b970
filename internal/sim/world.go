// Package sim runs the sandbox: a fixed-step loop stepping the player, the
// monsters and the ambient flock inside one environment, applying queued
// client commands between ticks and publishing a snapshot after each one.
//
// The World is single-threaded on purpose. The Loop goroutine owns it; the
// network layer talks to it only through the command queue and the snapshot
// channel, so no simulation state ever needs a lock.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/config"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/agent"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision/id3"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/events/bus"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/nav"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
)

// Events published by the world.
const (
	// EventReset fires after every agent returned to its start pose.
	EventReset = "sim.reset"
	// EventModelLearned fires after a learned policy was installed.
	EventModelLearned = "sim.model_learned"
)

// ModelLearned is the payload of EventModelLearned.
type ModelLearned struct {
	Monster   string
	Examples  int
	ModelPath string
}

// World owns one playable scene: the environment with its compiled nav grid,
// the routed player, the policy-driven monsters, the boid flock and the
// decision-trace recorder.
type World struct {
	env   *world.Environment
	graph *nav.Graph

	player         steering.Kinematic
	playerStart    steering.Kinematic
	playerView     steering.Kinematic
	playerFollower *agent.PathFollower
	playerFinder   *nav.AStar

	monsters *agent.Registry
	active   int

	flock      *steering.Flock
	boids      []*steering.Kinematic
	boidsStart []steering.Kinematic

	recorder   *Recorder
	thresholds agent.TraceThresholds
	tracePath  string
	modelPath  string

	tick uint64
	time float64

	bus *bus.Bus
	log log.Log
}

// NewWorld assembles the scene a config describes: environment, grid,
// player, monsters with their policies, and the flock. Monsters all read the
// same per-tick copy of the player, so update order never leaks between
// them.
func NewWorld(cfg *config.Config, b *bus.Bus, logger log.Log) (*World, error) {
	if logger == nil {
		logger = log.Provide()
	}

	env := cfg.World.Build()
	graph, _, err := nav.NewGridCompiler(cfg.Grid.CellSize).Compile(env)
	if err != nil {
		return nil, fmt.Errorf("sim: compile nav grid: %w", err)
	}

	w := &World{
		env:            env,
		graph:          graph,
		player:         steering.Kinematic{Position: cfg.Player.Start},
		playerFollower: agent.NewPathFollower(cfg.Player.Tuning),
		playerFinder:   nav.NewAStar(nav.Euclidean{}),
		monsters:       agent.NewRegistry(),
		recorder:       NewRecorder(cfg.Recording.Thresholds, logger),
		thresholds:     cfg.Recording.Thresholds,
		tracePath:      cfg.Recording.TracePath,
		modelPath:      cfg.Recording.ModelPath,
		bus:            b,
		log:            logger,
	}
	w.playerStart = w.player
	w.playerView = w.player

	for _, mc := range cfg.Monsters {
		rng := seededRand(mc.Seed)
		m := agent.NewMonster(agent.MonsterConfig{
			Name:   mc.Name,
			Sprite: mc.Sprite,
			Start:  mc.Start,
			Tuning: mc.Tuning,
			Env:    env,
			Graph:  graph,
			Player: &w.playerView,
			Bus:    b,
			Log:    logger,
			RNG:    rng,
		})
		policy, err := agent.NewPolicy(mc.Policy, m, rng)
		if err != nil {
			return nil, fmt.Errorf("sim: monster %q: %w", mc.Name, err)
		}
		m.SetPolicy(policy)
		w.monsters.Add(m)
	}

	if cfg.Flock.Members > 0 {
		w.flock = steering.NewFlock(cfg.Flock.FlockConfig)
		frng := seededRand(cfg.Flock.Seed)
		for i := 0; i < cfg.Flock.Members; i++ {
			k := &steering.Kinematic{
				Position: geom.Vec(
					frng.Float64()*cfg.Flock.Extent.X,
					frng.Float64()*cfg.Flock.Extent.Y,
				),
				Velocity: geom.FromAngle(frng.Float64() * 360).Scale(cfg.Flock.MaxSpeed / 2),
			}
			k.Orientation = k.Velocity.Heading()
			w.boids = append(w.boids, k)
			w.boidsStart = append(w.boidsStart, *k)
		}
	}

	logger.Info("world assembled",
		log.Int("vertices", graph.NumVertices()),
		log.Int("edges", graph.NumEdges()),
		log.Int("monsters", w.monsters.Len()),
		log.Int("boids", len(w.boids)),
	)
	return w, nil
}

func seededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Env returns the environment the world runs in.
func (w *World) Env() *world.Environment { return w.env }

// Graph returns the compiled navigation graph.
func (w *World) Graph() *nav.Graph { return w.graph }

// Player exposes the live player kinematic.
func (w *World) Player() *steering.Kinematic { return &w.player }

// Monsters exposes the monster registry.
func (w *World) Monsters() *agent.Registry { return w.monsters }

// Recorder exposes the trace recorder.
func (w *World) Recorder() *Recorder { return w.recorder }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// ActiveMonster returns the monster commands address, nil when none exist.
func (w *World) ActiveMonster() *agent.Monster {
	m, ok := w.monsters.At(w.active)
	if !ok {
		return nil
	}
	return m
}

// CycleActive advances the active-monster cursor in registration order.
func (w *World) CycleActive() {
	n := w.monsters.Len()
	if n == 0 {
		return
	}
	w.active = (w.active + 1) % n
	if m := w.ActiveMonster(); m != nil {
		w.log.Info("active monster", log.String("monster", m.Name()))
	}
}

// SetPlayerGoal routes the player to goal across the grid, appending the
// exact goal when it is walkable so the last hop leaves the cell centers.
func (w *World) SetPlayerGoal(goal geom.Vector2) error {
	start := w.graph.PointToVertex(w.player.Position)
	end := w.graph.PointToVertex(goal)
	if start < 0 || end < 0 {
		return fmt.Errorf("sim: goal (%g, %g) is off the grid", goal.X, goal.Y)
	}
	vertices := w.playerFinder.FindPath(w.graph, start, end)
	if len(vertices) == 0 {
		return fmt.Errorf("sim: goal (%g, %g) is unreachable", goal.X, goal.Y)
	}
	points := make([]geom.Vector2, 0, len(vertices)+1)
	for _, v := range vertices {
		if p, ok := w.graph.VertexPosition(v); ok {
			points = append(points, p)
		}
	}
	if w.env.Walkable(goal) {
		points = append(points, goal)
	}
	w.playerFollower.SetPath(points)

	metrics := w.playerFinder.Metrics()
	w.log.Debug("player route planned",
		log.Int("waypoints", len(points)),
		log.Int("explored", metrics.NodesExplored),
		log.Float64("cost", metrics.PathCost),
	)
	return nil
}

// PlayerRouting reports whether the player still has waypoints to walk.
func (w *World) PlayerRouting() bool { return !w.playerFollower.Done() }

// SetRecording toggles trace capture of the active monster.
func (w *World) SetRecording(on bool) {
	w.recorder.SetEnabled(on)
	w.log.Info("trace recording",
		log.Bool("enabled", on),
		log.Int("rows", w.recorder.Len()),
	)
}

// Learn trains a tree from the recorded trace and installs it on the active
// monster, saving the trace and the model when the config names paths.
func (w *World) Learn() error {
	active := w.ActiveMonster()
	if active == nil {
		return errors.New("sim: no monster to teach")
	}
	tree, err := w.recorder.Learn()
	if err != nil {
		return fmt.Errorf("sim: learn: %w", err)
	}
	if w.tracePath != "" {
		if err := w.recorder.SaveCSVFile(w.tracePath); err != nil {
			w.log.Warn("trace save failed", log.Error(err))
		}
	}
	if w.modelPath != "" {
		if err := tree.SaveFile(w.modelPath); err != nil {
			w.log.Warn("model save failed", log.Error(err))
		}
	}
	active.SetPolicy(agent.NewLearnedPolicy(tree, active.TraceFunc(w.thresholds, agent.TraceDiscretizer())))
	w.log.Info("learned policy installed",
		log.String("monster", active.Name()),
		log.Int("examples", w.recorder.Len()),
	)
	if w.bus != nil {
		_ = w.bus.Publish(bus.NewEvent(EventModelLearned, active.Name(), ModelLearned{
			Monster:   active.Name(),
			Examples:  w.recorder.Len(),
			ModelPath: w.modelPath,
		}))
	}
	return nil
}

// LearnFromCSV trains from a trace on disk instead of the live recorder and
// installs the result on the active monster.
func (w *World) LearnFromCSV(path string) error {
	active := w.ActiveMonster()
	if active == nil {
		return errors.New("sim: no monster to teach")
	}
	ds, err := id3.LoadCSVFile(path, agent.TraceDiscretizer())
	if err != nil {
		return fmt.Errorf("sim: learn from %s: %w", path, err)
	}
	tree, err := id3.Learn(ds)
	if err != nil {
		return fmt.Errorf("sim: learn from %s: %w", path, err)
	}
	active.SetPolicy(agent.NewLearnedPolicy(tree, active.TraceFunc(w.thresholds, agent.TraceDiscretizer())))
	w.log.Info("learned policy installed",
		log.String("monster", active.Name()),
		log.String("trace", path),
		log.Int("examples", len(ds.Points)),
	)
	return nil
}

// Reset returns the player, the monsters and the flock to their start poses
// and clears per-episode latches. Recorded trace rows survive, so training
// data accumulates across episodes.
func (w *World) Reset() {
	w.player = w.playerStart
	w.playerView = w.playerStart
	w.playerFollower.Clear()
	for _, m := range w.monsters.All() {
		m.Reset()
	}
	for i, k := range w.boids {
		*k = w.boidsStart[i]
	}
	w.log.Info("world reset", log.Uint64("tick", w.tick))
	if w.bus != nil {
		_ = w.bus.Publish(bus.NewEvent(EventReset, "world", nil))
	}
}

// Apply executes one queued command against the world.
func (w *World) Apply(cmd Command) error {
	switch cmd.Kind {
	case CommandSetGoal:
		return w.SetPlayerGoal(geom.Vec(cmd.X, cmd.Y))
	case CommandReset:
		w.Reset()
		return nil
	case CommandRecord:
		w.SetRecording(cmd.On)
		return nil
	case CommandLearn:
		return w.Learn()
	case CommandCycleMonster:
		w.CycleActive()
		return nil
	default:
		return fmt.Errorf("sim: unknown command %q", cmd.Kind)
	}
}

// Step advances the world one tick. The player view is copied first, so
// every monster decides against the same pre-move player; then the player
// walks its route, the monsters update, the flock steps and the recorder
// samples the active monster.
func (w *World) Step(ctx context.Context, dt float64) {
	w.tick++
	w.time += dt
	w.playerView = w.player

	prev := w.player.Position
	w.playerFollower.Step(&w.player, dt)
	w.settle(&w.player, prev)

	for _, m := range w.monsters.All() {
		k := m.Kinematic()
		at := k.Position
		m.Update(ctx, dt)
		w.settle(k, at)
	}

	if w.flock != nil {
		w.flock.Step(w.boids, dt)
	}

	if w.recorder.Enabled() {
		w.recorder.Record(w.ActiveMonster())
	}
}

// settle reverts an agent that stepped into a wall and zeroes its velocity,
// so blocked agents come to rest instead of vibrating against the obstacle.
func (w *World) settle(k *steering.Kinematic, prev geom.Vector2) {
	if w.env.Walkable(k.Position) {
		return
	}
	k.Position = prev
	k.Velocity = geom.Vector2{}
}

// Snapshot assembles the broadcast view of the current tick and seals its
// checksum.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick: w.tick,
		Time: w.time,
		Player: AgentState{
			Name:        "player",
			Position:    w.player.Position,
			Orientation: w.player.Orientation,
		},
		Monsters: make([]AgentState, 0, w.monsters.Len()),
	}
	for i, m := range w.monsters.All() {
		k := m.Kinematic()
		snap.Monsters = append(snap.Monsters, AgentState{
			ID:          m.ID().String(),
			Name:        m.Name(),
			Kind:        m.Policy().Kind(),
			Sprite:      m.Sprite(),
			Position:    k.Position,
			Orientation: k.Orientation,
			Action:      m.Action(),
			Active:      i == w.active,
		})
	}
	for _, b := range w.boids {
		snap.Boids = append(snap.Boids, BoidState{
			Position:    b.Position,
			Orientation: b.Orientation,
		})
	}
	snap.Seal()
	return snap
}
