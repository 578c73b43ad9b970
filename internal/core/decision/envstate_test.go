package decision

import (
	"math"
	"testing"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
)

func testEnv() *world.Environment {
	return world.New(
		[]geom.Rect{geom.NewRect(0, 0, 200, 200)},
		[]geom.Rect{geom.NewRect(90, 90, 20, 20)},
	)
}

func TestDistanceToTargetCachedPerFrame(t *testing.T) {
	me := &steering.Kinematic{Position: geom.Vec(0, 0)}
	target := &steering.Kinematic{Position: geom.Vec(30, 40)}
	s := NewEnvironmentState(testEnv(), me, target)

	if d := s.DistanceToTarget(); d != 50 {
		t.Fatalf("distance = %v, want 50", d)
	}

	// Same frame: a position change must not leak into the cached answer.
	target.Position = geom.Vec(0, 10)
	if d := s.DistanceToTarget(); d != 50 {
		t.Fatalf("cached distance = %v, want 50", d)
	}

	s.Refresh(0.016)
	if d := s.DistanceToTarget(); d != 10 {
		t.Fatalf("post-refresh distance = %v, want 10", d)
	}
}

func TestDistanceWithoutTargetIsInfinite(t *testing.T) {
	s := NewEnvironmentState(testEnv(), &steering.Kinematic{}, nil)
	if d := s.DistanceToTarget(); !math.IsInf(d, 1) {
		t.Fatalf("distance = %v, want +Inf", d)
	}
	if s.LineOfSightToTarget() {
		t.Fatal("no target should never have line of sight")
	}
}

func TestIdleStopwatch(t *testing.T) {
	me := &steering.Kinematic{Position: geom.Vec(10, 10)}
	s := NewEnvironmentState(testEnv(), me, nil)

	for i := 0; i < 35; i++ {
		s.Refresh(0.1)
	}
	if !s.IdleTooLong(IdleLimitSeconds) {
		t.Fatalf("idleFor = %v after 3.5s standstill", s.IdleFor())
	}

	// Any movement above the floor clears the stopwatch.
	me.Velocity = geom.Vec(IdleSpeedFloor+1, 0)
	s.Refresh(0.1)
	if s.IdleFor() != 0 {
		t.Fatalf("idleFor = %v after moving, want 0", s.IdleFor())
	}
	if s.IdleTooLong(IdleLimitSeconds) {
		t.Fatal("moving agent flagged idle")
	}
}

func TestNearObstacleAndLineOfSight(t *testing.T) {
	me := &steering.Kinematic{Position: geom.Vec(10, 10)}
	target := &steering.Kinematic{Position: geom.Vec(150, 150)}
	s := NewEnvironmentState(testEnv(), me, target)

	if s.NearObstacle(10) {
		t.Fatal("obstacle 80+ units away flagged near at radius 10")
	}
	if !s.NearObstacle(200) {
		t.Fatal("radius 200 should cover the obstacle")
	}

	// The diagonal to (150,150) crosses the (90,90,20,20) block.
	if s.LineOfSightToTarget() {
		t.Fatal("line of sight through obstacle")
	}

	// Straight north misses it.
	target.Position = geom.Vec(10, 150)
	s.Refresh(0.016)
	if !s.LineOfSightToTarget() {
		t.Fatal("clear vertical segment reported blocked")
	}
}

func TestMovingFast(t *testing.T) {
	me := &steering.Kinematic{Velocity: geom.Vec(60, 0)}
	s := NewEnvironmentState(testEnv(), me, nil)
	if !s.MovingFast(50) {
		t.Fatal("speed 60 not flagged fast at threshold 50")
	}
	if s.MovingFast(80) {
		t.Fatal("speed 60 flagged fast at threshold 80")
	}
}

func TestShouldChangeTarget(t *testing.T) {
	me := &steering.Kinematic{Position: geom.Vec(10, 10), Velocity: geom.Vec(50, 0)}
	target := &steering.Kinematic{Position: geom.Vec(150, 10)}
	s := NewEnvironmentState(testEnv(), me, target)
	s.Refresh(0.016)
	if s.ShouldChangeTarget() {
		t.Fatal("far, moving agent wants a new target")
	}

	// Close enough counts as reached.
	me.Position = geom.Vec(150-ChangeTargetRadius+1, 10)
	s.Refresh(0.016)
	if !s.ShouldChangeTarget() {
		t.Fatal("agent within ChangeTargetRadius should retarget")
	}

	// Far but idle past the limit also retargets.
	me.Position = geom.Vec(10, 10)
	me.Velocity = geom.Vec(0, 0)
	for i := 0; i < 40; i++ {
		s.Refresh(0.1)
	}
	if !s.ShouldChangeTarget() {
		t.Fatal("long-idle agent should retarget")
	}
}

func TestSetTargetInvalidatesCache(t *testing.T) {
	me := &steering.Kinematic{}
	a := &steering.Kinematic{Position: geom.Vec(100, 0)}
	b := &steering.Kinematic{Position: geom.Vec(0, 40)}
	s := NewEnvironmentState(testEnv(), me, a)

	if d := s.DistanceToTarget(); d != 100 {
		t.Fatalf("distance = %v", d)
	}
	s.SetTarget(b)
	if d := s.DistanceToTarget(); d != 40 {
		t.Fatalf("distance after SetTarget = %v, want 40", d)
	}
}
