package agent

import (
	"context"
	"testing"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/behavior"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/events/bus"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
)

func TestMonsterChasesAndCatchesThePlayer(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(200, 60)}
	b := bus.New()
	caught := 0
	b.Subscribe(EventPlayerCaught, func(e bus.Event) error {
		caught++
		payload, ok := e.Data.(PlayerCaught)
		if !ok || payload.MonsterName != "grunt" {
			t.Errorf("unexpected payload %+v", e.Data)
		}
		return nil
	})

	m := testMonster(t, player, nil, b)
	ctx := context.Background()
	for i := 0; i < 600; i++ {
		m.Update(ctx, 0.05)
	}

	if caught != 1 {
		t.Fatalf("caught fired %d times, want exactly once", caught)
	}
	d := geom.Distance(m.Kinematic().Position, player.Position)
	if d > CatchDistance+danceRadius+WaypointThreshold {
		t.Fatalf("monster ended %v away from the player", d)
	}
}

func TestMonsterChaseReplansWhenPlayerMoves(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(200, 60)}
	m := testMonster(t, player, fixedPolicy{label: ActionPathfindToPlayer}, nil)
	ctx := context.Background()

	m.Update(ctx, 0.05)
	if !m.hasPathGoal || m.pathGoal != geom.Vec(200, 60) {
		t.Fatalf("first update planned toward %+v", m.pathGoal)
	}
	if len(m.Path()) == 0 {
		t.Fatal("no path after the first update")
	}

	player.Position = geom.Vec(350, 250)
	m.Update(ctx, 0.05)
	if m.pathGoal != geom.Vec(350, 250) {
		t.Fatalf("goal not replanned, still %+v", m.pathGoal)
	}
	last := m.Path()[len(m.Path())-1]
	if geom.Distance(last, player.Position) > 20 {
		t.Fatalf("replanned path ends %v away from the player", geom.Distance(last, player.Position))
	}
}

func TestMonsterSmallPlayerDriftKeepsThePath(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(200, 60)}
	m := testMonster(t, player, fixedPolicy{label: ActionPathfindToPlayer}, nil)
	ctx := context.Background()

	m.Update(ctx, 0.05)
	planned := m.pathGoal
	player.Position = player.Position.Add(geom.Vec(ReplanDistance-5, 0))
	m.Update(ctx, 0.05)
	if m.pathGoal != planned {
		t.Fatalf("replanned on a %v drift, goal now %+v", ReplanDistance-5, m.pathGoal)
	}
}

func TestMonsterUnknownActionIdles(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(300, 150)}
	m := testMonster(t, player, fixedPolicy{label: "Teleport"}, nil)
	m.Update(context.Background(), 0.05)
	if m.Action() != ActionIdle {
		t.Fatalf("action = %q, want Idle for an unknown label", m.Action())
	}
}

func TestMonsterDanceExpires(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(300, 150)}
	m := testMonster(t, player, fixedPolicy{label: ActionDance}, nil)
	ctx := context.Background()

	m.Update(ctx, 0.1)
	if !m.Dancing() {
		t.Fatal("dance did not start")
	}
	for i := 0; i < 70; i++ {
		m.Update(ctx, 0.1)
	}
	if m.Dancing() {
		t.Fatalf("dance still running after %v seconds", 71*0.1)
	}
	if d := geom.Distance(m.Kinematic().Position, geom.Vec(50, 50)); d > 60 {
		t.Fatalf("dance wandered %v from its center", d)
	}
}

func TestMonsterFollowsExternalWaypoints(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(300, 150)}
	m := testMonster(t, player, fixedPolicy{label: ActionFollowPath}, nil)
	m.FollowWaypoints([]geom.Vector2{geom.Vec(150, 50), geom.Vec(150, 150)})

	ctx := context.Background()
	for i := 0; i < 400; i++ {
		m.Update(ctx, 0.05)
	}
	if d := geom.Distance(m.Kinematic().Position, geom.Vec(150, 150)); d > 15 {
		t.Fatalf("ended %v from the final waypoint", d)
	}
}

func TestMonsterResetRestoresTheEpisode(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(200, 60)}
	m := testMonster(t, player, nil, nil)
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		m.Update(ctx, 0.05)
	}
	if m.Kinematic().Position == geom.Vec(50, 50) {
		t.Fatal("monster never moved; chase fixture broken")
	}

	m.Reset()
	if m.Kinematic().Position != geom.Vec(50, 50) {
		t.Fatalf("position after reset = %+v", m.Kinematic().Position)
	}
	if m.Action() != ActionIdle || m.Dancing() || len(m.Path()) != 0 {
		t.Fatalf("reset left action %q dancing %v path %d", m.Action(), m.Dancing(), len(m.Path()))
	}
	if m.caught || m.hasPathGoal {
		t.Fatal("reset kept episode latches")
	}
}

func TestMonsterCatchFiresOncePerEpisode(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(60, 50)}
	b := bus.New()
	count := 0
	b.Subscribe(EventPlayerCaught, func(bus.Event) error { count++; return nil })
	m := testMonster(t, player, fixedPolicy{label: ActionIdle}, b)

	m.checkCatch()
	m.checkCatch()
	if count != 1 {
		t.Fatalf("latched catch fired %d times", count)
	}

	// Escaping and closing in again stays silent within the same episode.
	player.Position = geom.Vec(300, 150)
	m.checkCatch()
	player.Position = geom.Vec(60, 50)
	m.checkCatch()
	if count != 1 {
		t.Fatalf("catch re-fired mid-episode, %d events", count)
	}

	m.Reset()
	m.checkCatch()
	if count != 2 {
		t.Fatalf("reset did not re-arm the catch, %d events", count)
	}
}

func TestMonsterSensePublishesFacts(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(150, 50)}
	m := testMonster(t, player, fixedPolicy{label: ActionIdle}, nil)
	m.EnvState().Refresh(0.5)

	bb := behavior.NewBlackboard()
	m.Sense(bb)

	if !bb.GetBool(KeyTargetVisible) {
		t.Fatal("clear room reported no line of sight")
	}
	d, ok := bb.GetFloat(KeyTargetDistance)
	if !ok || d < 99 || d > 101 {
		t.Fatalf("sensed distance = %v, want ~100", d)
	}
	if !bb.GetBool(KeyPathDone) {
		t.Fatal("empty follower not reported done")
	}
	idle, ok := bb.GetFloat(KeyIdleFor)
	if !ok || idle != 0.5 {
		t.Fatalf("idle stopwatch = %v, want 0.5", idle)
	}
}

func TestMonsterSetPolicySwapsInPlace(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(300, 150)}
	m := testMonster(t, player, fixedPolicy{label: ActionWander}, nil)
	m.Update(context.Background(), 0.05)
	if m.Action() != ActionWander {
		t.Fatalf("action = %q before the swap", m.Action())
	}

	m.SetPolicy(fixedPolicy{label: ActionFlee})
	m.Update(context.Background(), 0.05)
	if m.Action() != ActionFlee {
		t.Fatalf("action = %q after the swap", m.Action())
	}
	if m.Policy().Kind() != "fixed" {
		t.Fatalf("policy kind = %q", m.Policy().Kind())
	}

	m.SetPolicy(nil)
	if m.Policy() == nil {
		t.Fatal("nil swap removed the policy")
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(300, 150)}
	a := testMonster(t, player, fixedPolicy{label: ActionIdle}, nil)
	c := testMonster(t, player, fixedPolicy{label: ActionIdle}, nil)

	r := NewRegistry()
	r.Add(a)
	r.Add(c)
	r.Add(a) // duplicate
	if r.Len() != 2 {
		t.Fatalf("registry has %d monsters, want 2", r.Len())
	}
	if got, ok := r.Get(a.ID()); !ok || got != a {
		t.Fatal("lookup by id failed")
	}
	if got, ok := r.At(1); !ok || got != c {
		t.Fatal("registration order broken")
	}
	if _, ok := r.At(2); ok {
		t.Fatal("out-of-range index succeeded")
	}
	if !r.Remove(a.ID()) || r.Len() != 1 {
		t.Fatal("remove failed")
	}
	if r.Remove(a.ID()) {
		t.Fatal("second remove succeeded")
	}
}
