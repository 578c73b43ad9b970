package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// AgentState is the rendered view of one agent for a single tick.
type AgentState struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Kind        string       `json:"kind,omitempty"`
	Sprite      string       `json:"sprite,omitempty"`
	Position    geom.Vector2 `json:"position"`
	Orientation float64      `json:"orientation"`
	Action      string       `json:"action,omitempty"`
	Active      bool         `json:"active,omitempty"`
}

// BoidState is the minimal view of one flock member.
type BoidState struct {
	Position    geom.Vector2 `json:"position"`
	Orientation float64      `json:"orientation"`
}

// Snapshot is the full simulation state at the end of one tick, the unit
// broadcast to every connected client. Checksum fingerprints the dynamic
// state so two runs of the same seed can be compared tick by tick.
type Snapshot struct {
	Tick     uint64       `json:"tick"`
	Time     float64      `json:"time"`
	Player   AgentState   `json:"player"`
	Monsters []AgentState `json:"monsters"`
	Boids    []BoidState  `json:"boids,omitempty"`
	Checksum uint64       `json:"checksum"`
}

// computeChecksum hashes the tick and every agent's pose and action with
// xxhash over little-endian float bits. Field order is fixed; changing it
// changes every checksum.
func (s *Snapshot) computeChecksum() uint64 {
	h := xxhash.New()
	var buf [8]byte
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	putAgent := func(a AgentState) {
		putFloat(a.Position.X)
		putFloat(a.Position.Y)
		putFloat(a.Orientation)
		h.WriteString(a.Action)
	}

	binary.LittleEndian.PutUint64(buf[:], s.Tick)
	h.Write(buf[:])
	putAgent(s.Player)
	for _, m := range s.Monsters {
		putAgent(m)
	}
	for _, b := range s.Boids {
		putFloat(b.Position.X)
		putFloat(b.Position.Y)
		putFloat(b.Orientation)
	}
	return h.Sum64()
}

// Seal computes and stores the checksum. The world calls it once per tick
// after the snapshot is assembled.
func (s *Snapshot) Seal() {
	s.Checksum = s.computeChecksum()
}

// Verify recomputes the checksum and compares it to the stored one.
func (s *Snapshot) Verify() bool {
	return s.Checksum == s.computeChecksum()
}
