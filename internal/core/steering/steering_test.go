package steering

import (
	"math"
	"testing"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

func TestKinematicUpdateIntegrates(t *testing.T) {
	k := Kinematic{
		Position: geom.Vec(1, 2),
		Velocity: geom.Vec(10, -5),
		Rotation: 90,
	}
	k.Update(0.5)
	if k.Position != geom.Vec(6, -0.5) {
		t.Fatalf("position = %+v", k.Position)
	}
	if k.Orientation != 45 {
		t.Fatalf("orientation = %v, want 45", k.Orientation)
	}
}

func TestKinematicOrientationStaysInRange(t *testing.T) {
	rotations := []float64{-1000, -360, -90.5, 0, 33.3, 359, 720}
	dts := []float64{0, 0.016, 0.1, 1, 10}
	for _, rot := range rotations {
		for _, dt := range dts {
			k := Kinematic{Orientation: 300, Rotation: rot}
			k.Update(dt)
			if k.Orientation < 0 || k.Orientation >= 360 {
				t.Fatalf("rotation %v dt %v: orientation = %v, outside [0,360)", rot, dt, k.Orientation)
			}
		}
	}
}

func TestPositionMatchingIsUnnormalized(t *testing.T) {
	b := PositionMatching{MaxAcceleration: 2}
	me := &Kinematic{Position: geom.Vec(0, 0)}
	near := &Kinematic{Position: geom.Vec(1, 0)}
	far := &Kinematic{Position: geom.Vec(10, 0)}

	outNear := b.Compute(me, near)
	outFar := b.Compute(me, far)
	if outNear.Linear != geom.Vec(2, 0) {
		t.Fatalf("near output = %+v, want (2,0)", outNear.Linear)
	}
	// Output scales with distance: ten times farther, ten times stronger.
	if outFar.Linear != geom.Vec(20, 0) {
		t.Fatalf("far output = %+v, want (20,0)", outFar.Linear)
	}
}

func TestVelocityMatchingClamps(t *testing.T) {
	b := VelocityMatching{MaxAcceleration: 5, TimeToTarget: 0.1}
	me := &Kinematic{Velocity: geom.Vec(0, 0)}
	target := &Kinematic{Velocity: geom.Vec(100, 0)}
	out := b.Compute(me, target)
	if math.Abs(out.Linear.Length()-5) > 1e-9 {
		t.Fatalf("|linear| = %v, want clamp at 5", out.Linear.Length())
	}
	if out.Linear.X <= 0 {
		t.Fatalf("clamp flipped direction: %+v", out.Linear)
	}
}

func TestOrientationMatchingShortestArc(t *testing.T) {
	b := OrientationMatching{MaxAngularAcceleration: 30}
	cases := []struct {
		me, target, want float64
	}{
		{350, 10, 30},  // crossing zero forward
		{10, 350, -30}, // crossing zero backward
		{0, 180, 30},   // exact opposite takes the positive arc
		{90, 90, 0},
	}
	for _, c := range cases {
		out := b.Compute(&Kinematic{Orientation: c.me}, &Kinematic{Orientation: c.target})
		if out.Angular != c.want {
			t.Errorf("orientation %v→%v: angular = %v, want %v", c.me, c.target, out.Angular, c.want)
		}
	}
}

func TestRotationMatchingClamps(t *testing.T) {
	b := RotationMatching{MaxAngularAcceleration: 10, TimeToTarget: 0.1}
	me := &Kinematic{Rotation: 0}
	target := &Kinematic{Rotation: 500}
	if out := b.Compute(me, target); out.Angular != 10 {
		t.Fatalf("angular = %v, want clamp at 10", out.Angular)
	}
	target.Rotation = -500
	if out := b.Compute(me, target); out.Angular != -10 {
		t.Fatalf("angular = %v, want clamp at -10", out.Angular)
	}
}

func TestArriveStopsInsideTargetRadius(t *testing.T) {
	b := Arrive{
		MaxAcceleration: 100,
		MaxSpeed:        100,
		TargetRadius:    5,
		SlowRadius:      50,
		TimeToTarget:    0.1,
	}
	me := &Kinematic{Position: geom.Vec(0, 0)}
	target := &Kinematic{Position: geom.Vec(3, 0)}
	out := b.Compute(me, target)
	if out.Linear != (geom.Vector2{}) {
		t.Fatalf("linear = %+v, want zero inside target radius (d=3 < 5)", out.Linear)
	}
}

func TestArriveTapersInsideSlowRadius(t *testing.T) {
	b := Arrive{
		MaxAcceleration: 1000,
		MaxSpeed:        100,
		TargetRadius:    1,
		SlowRadius:      50,
		TimeToTarget:    1,
	}
	me := &Kinematic{Position: geom.Vec(0, 0)}

	// Halfway into the slow radius the desired speed is half of max. With
	// zero current velocity and timeToTarget 1 the output equals it.
	out := b.Compute(me, &Kinematic{Position: geom.Vec(25, 0)})
	if math.Abs(out.Linear.Length()-50) > 1e-9 {
		t.Fatalf("taper output = %v, want 50", out.Linear.Length())
	}

	// Outside the slow radius the desired speed is max.
	out = b.Compute(me, &Kinematic{Position: geom.Vec(80, 0)})
	if math.Abs(out.Linear.Length()-100) > 1e-9 {
		t.Fatalf("full-speed output = %v, want 100", out.Linear.Length())
	}
}

func TestArriveClampsAcceleration(t *testing.T) {
	b := Arrive{
		MaxAcceleration: 10,
		MaxSpeed:        100,
		TargetRadius:    1,
		SlowRadius:      10,
		TimeToTarget:    0.01,
	}
	me := &Kinematic{Position: geom.Vec(0, 0), Velocity: geom.Vec(-50, 0)}
	out := b.Compute(me, &Kinematic{Position: geom.Vec(200, 0)})
	if out.Linear.Length() > 10+1e-9 {
		t.Fatalf("|linear| = %v, exceeds MaxAcceleration", out.Linear.Length())
	}
}

func TestAlignStopsInsideTargetRadius(t *testing.T) {
	b := Align{
		MaxAngularAcceleration: 100,
		MaxRotation:            90,
		TargetRadius:           2,
		SlowRadius:             30,
		TimeToTarget:           0.1,
	}
	me := &Kinematic{Orientation: 100}
	target := &Kinematic{Orientation: 101.5}
	if out := b.Compute(me, target); out.Angular != 0 {
		t.Fatalf("angular = %v, want 0 inside target radius", out.Angular)
	}
}

func TestAlignTakesShortestArcAcrossWrap(t *testing.T) {
	b := Align{
		MaxAngularAcceleration: 1000,
		MaxRotation:            90,
		TargetRadius:           1,
		SlowRadius:             45,
		TimeToTarget:           1,
	}
	me := &Kinematic{Orientation: 350}
	target := &Kinematic{Orientation: 10}
	out := b.Compute(me, target)
	if out.Angular <= 0 {
		t.Fatalf("angular = %v, want positive rotation across 0°", out.Angular)
	}

	me, target = &Kinematic{Orientation: 10}, &Kinematic{Orientation: 350}
	out = b.Compute(me, target)
	if out.Angular >= 0 {
		t.Fatalf("angular = %v, want negative rotation across 0°", out.Angular)
	}
}

func TestFleePointsAway(t *testing.T) {
	b := Flee{MaxAcceleration: 40}
	me := &Kinematic{Position: geom.Vec(10, 10)}
	target := &Kinematic{Position: geom.Vec(13, 14)}
	out := b.Compute(me, target)
	if math.Abs(out.Linear.Length()-40) > 1e-9 {
		t.Fatalf("|linear| = %v, want 40", out.Linear.Length())
	}
	if out.Linear.Dot(target.Position.Sub(me.Position)) >= 0 {
		t.Fatalf("flee output %+v points toward the target", out.Linear)
	}
}

func TestFleeOnTopOfTargetIsZero(t *testing.T) {
	b := Flee{MaxAcceleration: 40}
	k := &Kinematic{Position: geom.Vec(5, 5)}
	if out := b.Compute(k, &Kinematic{Position: geom.Vec(5, 5)}); out.Linear != (geom.Vector2{}) {
		t.Fatalf("coincident flee = %+v, want zero", out.Linear)
	}
}

func TestIntegrateAppliesBothChannels(t *testing.T) {
	k := Kinematic{}
	Integrate(&k, SteeringOutput{Linear: geom.Vec(10, 0), Angular: 90}, 0.1)
	if math.Abs(k.Velocity.X-1) > 1e-9 {
		t.Fatalf("velocity = %+v", k.Velocity)
	}
	if math.Abs(k.Rotation-9) > 1e-9 {
		t.Fatalf("rotation = %v", k.Rotation)
	}
}
