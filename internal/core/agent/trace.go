package agent

import (
	"strconv"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision/id3"
)

// TraceAttributeNames is the column schema of recorded decision traces:
// distance bucket to the player, obstacle proximity, speed class, line of
// sight, and the idle stopwatch verdict. Training tables and live
// classification must both use this order.
var TraceAttributeNames = []string{
	"distance",
	"near_obstacle",
	"moving_fast",
	"visible",
	"idle_too_long",
}

// TraceThresholds parameterize the boolean trace columns. A model is only
// valid with the thresholds it was recorded under.
type TraceThresholds struct {
	ObstacleRadius float64 `yaml:"obstacle_radius" json:"obstacle_radius"`
	FastThreshold  float64 `yaml:"fast_threshold" json:"fast_threshold"`
}

// DefaultTraceThresholds returns the stock trace parameters.
func DefaultTraceThresholds() TraceThresholds {
	return TraceThresholds{ObstacleRadius: 25, FastThreshold: 60}
}

func (t *TraceThresholds) applyDefaults() {
	d := DefaultTraceThresholds()
	if t.ObstacleRadius <= 0 {
		t.ObstacleRadius = d.ObstacleRadius
	}
	if t.FastThreshold <= 0 {
		t.FastThreshold = d.FastThreshold
	}
}

// TraceDiscretizer returns the discretizer applied to the trace's distance
// column, shared by recording, training and inference.
func TraceDiscretizer() *id3.Discretizer {
	return id3.NewDiscretizer().SetColumn("distance", id3.DistanceBuckets())
}

// TraceAttributes samples one row of the trace schema from an environment
// state. An absent target yields an infinite distance, which the distance
// policy buckets as far.
func TraceAttributes(state *decision.EnvironmentState, th TraceThresholds, disc *id3.Discretizer) []string {
	th.applyDefaults()
	return []string{
		disc.Apply("distance", strconv.FormatFloat(state.DistanceToTarget(), 'f', -1, 64)),
		strconv.FormatBool(state.NearObstacle(th.ObstacleRadius)),
		strconv.FormatBool(state.MovingFast(th.FastThreshold)),
		strconv.FormatBool(state.LineOfSightToTarget()),
		strconv.FormatBool(state.IdleTooLong(decision.IdleLimitSeconds)),
	}
}

// TraceFunc returns an extractor sampling this monster's trace row under the
// given thresholds, suitable for NewLearnedPolicy.
func (m *Monster) TraceFunc(th TraceThresholds, disc *id3.Discretizer) func() []string {
	return func() []string {
		return TraceAttributes(m.envState, th, disc)
	}
}
