package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/agent"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/decision/id3"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
)

// labelColumn heads the trailing CSV column carrying the action label.
const labelColumn = "action"

// Recorder captures one decision trace row per tick while enabled: the trace
// attributes a monster's policy saw and the action it picked. The rows feed
// the ID3 learner and round-trip through CSV, so a trace recorded in one run
// can train a model in another.
//
// Like the world that drives it, the recorder is owned by the loop goroutine
// and is not safe for concurrent use.
type Recorder struct {
	enabled    bool
	thresholds agent.TraceThresholds
	disc       *id3.Discretizer
	data       id3.DataSet
	log        log.Log
}

// NewRecorder builds an empty, disabled recorder sampling under th.
func NewRecorder(th agent.TraceThresholds, logger log.Log) *Recorder {
	if logger == nil {
		logger = log.Provide()
	}
	return &Recorder{
		thresholds: th,
		disc:       agent.TraceDiscretizer(),
		data:       id3.DataSet{AttributeNames: append([]string(nil), agent.TraceAttributeNames...)},
		log:        logger,
	}
}

// SetEnabled toggles capture. Disabling keeps the rows collected so far.
func (r *Recorder) SetEnabled(on bool) { r.enabled = on }

// Enabled reports whether Record captures rows.
func (r *Recorder) Enabled() bool { return r.enabled }

// Len returns how many rows have been captured.
func (r *Recorder) Len() int { return len(r.data.Points) }

// Clear drops every captured row.
func (r *Recorder) Clear() { r.data.Points = nil }

// Record appends one row for m: its trace attributes this tick, labeled with
// the action it is running. No-op while disabled.
func (r *Recorder) Record(m *agent.Monster) {
	if !r.enabled || m == nil {
		return
	}
	row := agent.TraceAttributes(m.EnvState(), r.thresholds, r.disc)
	r.data.Add(m.Action(), row...)
}

// DataSet returns a copy of the captured table, safe to mutate or learn from
// while recording continues.
func (r *Recorder) DataSet() id3.DataSet {
	return id3.DataSet{
		AttributeNames: append([]string(nil), r.data.AttributeNames...),
		Points:         append([]id3.DataPoint(nil), r.data.Points...),
	}
}

// Learn trains an ID3 tree from the captured rows.
func (r *Recorder) Learn() (*id3.Tree, error) {
	return id3.Learn(r.DataSet())
}

// SaveCSV writes the trace in the table format LoadCSV reads back: a header
// of attribute names plus the trailing action column, then one row per tick.
func (r *Recorder) SaveCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), r.data.AttributeNames...), labelColumn)); err != nil {
		return fmt.Errorf("sim: write trace header: %w", err)
	}
	for _, p := range r.data.Points {
		if err := cw.Write(append(append([]string(nil), p.Attributes...), p.Label)); err != nil {
			return fmt.Errorf("sim: write trace row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSVFile writes the trace to path.
func (r *Recorder) SaveCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sim: save trace %s: %w", path, err)
	}
	if err := r.SaveCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
