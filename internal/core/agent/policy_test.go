package agent

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/behavior"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision/id3"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
)

const hunterYAML = `
name: hunter
root:
  type: selector
  children:
    - type: sequence
      name: chase
      children:
        - type: condition
          condition: TargetVisible
        - type: condition
          condition: TargetNear
          params: {radius: 220}
        - type: action
          action: PathfindToPlayer
    - type: sequence
      name: bored
      children:
        - type: condition
          condition: IdleTooLong
          params: {seconds: 3}
        - type: action
          action: Dance
    - type: action
      action: Wander
`

func TestChaseTreeStates(t *testing.T) {
	env := world.New([]geom.Rect{geom.NewRect(0, 0, 600, 300)}, nil)
	me := &steering.Kinematic{Position: geom.Vec(10, 50)}
	target := &steering.Kinematic{Position: geom.Vec(110, 50)}
	state := decision.NewEnvironmentState(env, me, target)
	tree := NewChaseTree(state, rand.New(rand.NewSource(3)))

	state.Refresh(0.016)
	if got := tree.Decide(); got != ActionPathfindToPlayer {
		t.Fatalf("visible close target = %q, want chase", got)
	}

	// A long stretch of standing still spends the target: taunt instead.
	state.Refresh(5)
	if got := tree.Decide(); got != ActionDance {
		t.Fatalf("spent target = %q, want dance", got)
	}

	// Out of sight range while bored: the weighted coin picks a filler.
	target.Position = geom.Vec(580, 50)
	state.Refresh(0.016)
	if got := tree.Decide(); got != ActionWander && got != ActionDance {
		t.Fatalf("bored pick = %q, want wander or dance", got)
	}

	// Moving briskly with nothing in sight keeps wandering.
	me.Velocity = geom.Vec(50, 0)
	state.Refresh(0.016)
	if got := tree.Decide(); got != ActionWander {
		t.Fatalf("cruising = %q, want wander", got)
	}

	// Calm, slow and alone: nothing matches.
	me.Velocity = geom.Vector2{}
	state.Refresh(0.016)
	if got := tree.Decide(); got != decision.DefaultLabel {
		t.Fatalf("calm = %q, want the default", got)
	}
}

func TestCowardTreePanics(t *testing.T) {
	env := world.New([]geom.Rect{geom.NewRect(0, 0, 600, 300)}, nil)
	me := &steering.Kinematic{Position: geom.Vec(10, 50)}
	target := &steering.Kinematic{Position: geom.Vec(110, 50)}
	state := decision.NewEnvironmentState(env, me, target)
	tree := NewCowardTree(state)

	state.Refresh(0.016)
	if got := tree.Decide(); got != ActionFlee {
		t.Fatalf("close threat = %q, want flee", got)
	}

	target.Position = geom.Vec(580, 50)
	state.Refresh(4)
	if got := tree.Decide(); got != ActionWander {
		t.Fatalf("bored coward = %q, want wander", got)
	}
}

func TestTreePolicyResumesRunningActions(t *testing.T) {
	cfg, err := behavior.LoadYAML(strings.NewReader(hunterYAML))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	tree, err := cfg.Build(NewSandboxRegistry(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	visible, dist, idle, danceDone := false, 400.0, 0.0, false
	sense := func(bb *behavior.Blackboard) {
		bb.Set(KeyTargetVisible, visible)
		bb.Set(KeyTargetDistance, dist)
		bb.Set(KeyIdleFor, idle)
		bb.Set(KeySpeed, 0.0)
		bb.Set(KeyNearObstacle, false)
		bb.Set(KeyPathDone, false)
		bb.Set(KeyDanceDone, danceDone)
	}
	p := NewTreePolicy(tree, sense)
	ctx := context.Background()

	visible, dist = true, 100
	if got, _ := p.Decide(ctx); got != ActionPathfindToPlayer {
		t.Fatalf("chase pass = %q", got)
	}

	// Boredom starts a dance, which holds the tree's cursor.
	visible, idle = false, 5
	if got, _ := p.Decide(ctx); got != ActionDance {
		t.Fatalf("bored pass = %q", got)
	}

	// The player appearing mid-dance must not preempt the running leaf.
	visible = true
	if got, _ := p.Decide(ctx); got != ActionDance {
		t.Fatalf("running dance preempted by %q", got)
	}

	// The dance finishing releases the cursor; the next pass chases again.
	danceDone = true
	if got, _ := p.Decide(ctx); got != ActionDance {
		t.Fatalf("finishing pass = %q", got)
	}
	danceDone, idle, dist = false, 0, 100
	if got, _ := p.Decide(ctx); got != ActionPathfindToPlayer {
		t.Fatalf("post-dance pass = %q", got)
	}

	p.Reset()
	visible = false
	if got, _ := p.Decide(ctx); got != ActionWander {
		t.Fatalf("fallback pass = %q", got)
	}
	if p.Kind() != KindBehaviorTree {
		t.Fatalf("kind = %q", p.Kind())
	}
}

func TestTreePolicyKeepsLastLabelWhenNoLeafWrites(t *testing.T) {
	tree := behavior.NewTree("cond-only", behavior.NewCondition("never",
		func(behavior.TickContext) (bool, error) { return false, nil }))
	p := NewTreePolicy(tree, nil)
	if got, err := p.Decide(context.Background()); err != nil || got != ActionIdle {
		t.Fatalf("Decide = %q, %v", got, err)
	}
}

func TestDecisionPolicyWrapsTrees(t *testing.T) {
	p := NewDecisionPolicy(decision.NewAction(ActionWander))
	if got, _ := p.Decide(context.Background()); got != ActionWander {
		t.Fatalf("Decide = %q", got)
	}
	if p.Kind() != KindDecisionTree {
		t.Fatalf("kind = %q", p.Kind())
	}
	empty := NewDecisionPolicy(nil)
	if got, _ := empty.Decide(context.Background()); got != decision.DefaultLabel {
		t.Fatalf("nil root = %q", got)
	}
}

func TestLearnedPolicyClassifiesLiveRows(t *testing.T) {
	ds := id3.DataSet{AttributeNames: TraceAttributeNames}
	for i := 0; i < 3; i++ {
		ds.Add(ActionWander, "far", "false", "false", "false", "false")
		ds.Add(ActionDance, "very_near", "false", "false", "true", "false")
		ds.Add(ActionPathfindToPlayer, "medium", "false", "false", "true", "false")
	}
	tree, err := id3.Learn(ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}

	row := []string{"far", "false", "false", "false", "false"}
	p := NewLearnedPolicy(tree, func() []string { return row })
	if got, _ := p.Decide(context.Background()); got != ActionWander {
		t.Fatalf("far row = %q", got)
	}
	row = []string{"very_near", "false", "false", "true", "false"}
	if got, _ := p.Decide(context.Background()); got != ActionDance {
		t.Fatalf("near row = %q", got)
	}
	if p.Kind() != KindLearned {
		t.Fatalf("kind = %q", p.Kind())
	}

	hollow := NewLearnedPolicy(nil, func() []string { return row })
	if got, _ := hollow.Decide(context.Background()); got != ActionIdle {
		t.Fatalf("nil tree = %q", got)
	}
}

func TestNewPolicyFromSpecs(t *testing.T) {
	player := &steering.Kinematic{Position: geom.Vec(300, 150)}
	m := testMonster(t, player, fixedPolicy{label: ActionIdle}, nil)
	rng := rand.New(rand.NewSource(11))

	p, err := NewPolicy(PolicySpec{}, m, rng)
	if err != nil || p.Kind() != KindDecisionTree {
		t.Fatalf("empty spec: %v, kind %v", err, p)
	}
	if _, err := NewPolicy(PolicySpec{Kind: KindDecisionTree, Variant: "coward"}, m, rng); err != nil {
		t.Fatalf("coward variant: %v", err)
	}
	if _, err := NewPolicy(PolicySpec{Kind: KindDecisionTree, Variant: "bogus"}, m, rng); err == nil {
		t.Fatal("bogus variant accepted")
	}
	if _, err := NewPolicy(PolicySpec{Kind: "bogus"}, m, rng); err == nil {
		t.Fatal("bogus kind accepted")
	}

	dir := t.TempDir()
	treePath := filepath.Join(dir, "hunter.yaml")
	if err := os.WriteFile(treePath, []byte(hunterYAML), 0o644); err != nil {
		t.Fatalf("write tree: %v", err)
	}
	bt, err := NewPolicy(PolicySpec{Kind: KindBehaviorTree, File: treePath}, m, rng)
	if err != nil {
		t.Fatalf("behavior tree spec: %v", err)
	}
	// The fixture player stands beyond sight range, so the fallback wins.
	m.EnvState().Refresh(0.016)
	if got, _ := bt.Decide(context.Background()); got != ActionWander {
		t.Fatalf("behavior tree decide = %q", got)
	}
	if _, err := NewPolicy(PolicySpec{Kind: KindBehaviorTree, File: filepath.Join(dir, "absent.yaml")}, m, rng); err == nil {
		t.Fatal("missing tree file accepted")
	}

	ds := id3.DataSet{AttributeNames: TraceAttributeNames}
	for i := 0; i < 3; i++ {
		ds.Add(ActionWander, "far", "false", "false", "true", "false")
		ds.Add(ActionDance, "very_near", "false", "false", "true", "false")
	}
	learned, err := id3.Learn(ds)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	modelPath := filepath.Join(dir, "model.dt")
	if err := learned.SaveFile(modelPath); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	lp, err := NewPolicy(PolicySpec{Kind: KindLearned, File: modelPath}, m, rng)
	if err != nil {
		t.Fatalf("learned spec: %v", err)
	}
	// Distance to the fixture player lands in the far bucket.
	if got, _ := lp.Decide(context.Background()); got != ActionWander {
		t.Fatalf("learned decide = %q", got)
	}
}
