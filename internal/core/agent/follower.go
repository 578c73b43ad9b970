package agent

import (
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
)

// WaypointThreshold is how close an agent must be to the active waypoint
// before the follower advances to the next one. Smaller values make agents
// trace paths exactly but stall against obstacle corners; this one matches a
// grid cell comfortably.
const WaypointThreshold = 10.0

// PathFollower walks a kinematic along an ordered waypoint list using Arrive
// for position and Align for facing. The follower holds only an index into
// the path, so replanning is just SetPath with the new route.
type PathFollower struct {
	tuning Tuning
	arrive steering.Arrive
	align  steering.Align
	path   []geom.Vector2
	index  int
}

// NewPathFollower builds a follower moving under the given limits.
func NewPathFollower(tuning Tuning) *PathFollower {
	tuning.applyDefaults()
	return &PathFollower{tuning: tuning, arrive: tuning.Arrive(), align: tuning.Align()}
}

// SetPath installs a new waypoint list and rewinds to its head. The points
// are copied, so callers may reuse their slice.
func (f *PathFollower) SetPath(points []geom.Vector2) {
	f.path = append(f.path[:0:0], points...)
	f.index = 0
}

// Clear drops the current path.
func (f *PathFollower) Clear() {
	f.path = nil
	f.index = 0
}

// Path returns the waypoints currently followed.
func (f *PathFollower) Path() []geom.Vector2 { return f.path }

// Index returns the offset of the active waypoint within the path.
func (f *PathFollower) Index() int { return f.index }

// Done reports whether every waypoint has been consumed. An empty path
// counts as done.
func (f *PathFollower) Done() bool { return f.index >= len(f.path) }

// Waypoint returns the active waypoint, or false when the path is spent.
func (f *PathFollower) Waypoint() (geom.Vector2, bool) {
	if f.Done() {
		return geom.Vector2{}, false
	}
	return f.path[f.index], true
}

// Step advances k toward the active waypoint for one tick: Arrive toward the
// point, Align toward the direction of travel, integration, then a clamp to
// the tuned maximum speed. Waypoints within WaypointThreshold after the move
// are consumed, several at once when the path is dense. A spent path brakes
// the kinematic to rest instead.
func (f *PathFollower) Step(k *steering.Kinematic, dt float64) {
	wp, ok := f.Waypoint()
	if !ok {
		brake(k, f.tuning, dt)
		return
	}

	target := steering.Kinematic{Position: wp, Orientation: k.Orientation}
	if dir := wp.Sub(k.Position); !dir.IsZero() {
		target.Orientation = dir.Heading()
	}
	out := f.arrive.Compute(k, &target)
	out.Angular = f.align.Compute(k, &target).Angular
	steering.Integrate(k, out, dt)
	k.Velocity = k.Velocity.ClampLength(f.tuning.MaxSpeed)

	for {
		wp, ok := f.Waypoint()
		if !ok || geom.Distance(k.Position, wp) >= WaypointThreshold {
			return
		}
		f.index++
	}
}
