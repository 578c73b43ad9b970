// Package config loads the sandbox configuration: the world layout, the
// simulation loop rates, the player and monster setups, the boid flock and
// the serving endpoints. One YAML file describes a whole scenario; zeroed
// fields fall back to playable defaults so small configs stay small.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/agent"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/steering"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/world"
)

// Stock values filled in for zeroed fields.
const (
	DefaultLogLevel        = "info"
	DefaultTickRate        = 30
	DefaultCatchupMaxTicks = 4
	DefaultCellSize        = 20.0
	DefaultWSAddr          = ":8080"
	DefaultQUICAddr        = ":8443"
	DefaultSprite          = "monster"
)

// Default arena used when a config names no rooms.
var defaultRoom = geom.NewRect(0, 0, 800, 600)

// Config is the root of the sandbox configuration file.
type Config struct {
	LogLevel  string          `yaml:"log_level" json:"log_level"`
	World     WorldConfig     `yaml:"world" json:"world"`
	Grid      GridConfig      `yaml:"grid" json:"grid"`
	Loop      LoopConfig      `yaml:"loop" json:"loop"`
	Player    PlayerConfig    `yaml:"player" json:"player"`
	Monsters  []MonsterConfig `yaml:"monsters" json:"monsters"`
	Flock     FlockConfig     `yaml:"flock" json:"flock"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	Recording RecordingConfig `yaml:"recording" json:"recording"`
}

// WorldConfig lists the walkable rooms and the obstacles punched out of them.
type WorldConfig struct {
	Rooms     []geom.Rect `yaml:"rooms" json:"rooms"`
	Obstacles []geom.Rect `yaml:"obstacles" json:"obstacles"`
}

// Build constructs the environment the config describes.
func (w WorldConfig) Build() *world.Environment {
	return world.New(w.Rooms, w.Obstacles)
}

// GridConfig parameterizes the navigation grid compiled over the world.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size" json:"cell_size"`
}

// LoopConfig sets the fixed-step loop rates. CatchupMaxTicks bounds how many
// tick budgets a late frame may integrate at once.
type LoopConfig struct {
	TickRate        int `yaml:"tick_rate" json:"tick_rate"`
	CatchupMaxTicks int `yaml:"catchup_max_ticks" json:"catchup_max_ticks"`
}

// PlayerConfig places the player and tunes its movement.
type PlayerConfig struct {
	Start  geom.Vector2 `yaml:"start" json:"start"`
	Tuning agent.Tuning `yaml:"tuning" json:"tuning"`
}

// MonsterConfig describes one monster: where it spawns, what drives it and
// how it moves. A zero Seed leaves the monster on a time-seeded source.
type MonsterConfig struct {
	Name   string           `yaml:"name" json:"name"`
	Sprite string           `yaml:"sprite" json:"sprite"`
	Start  geom.Vector2     `yaml:"start" json:"start"`
	Policy agent.PolicySpec `yaml:"policy" json:"policy"`
	Tuning agent.Tuning     `yaml:"tuning" json:"tuning"`
	Seed   int64            `yaml:"seed" json:"seed"`
}

// FlockConfig sets up the ambient boid flock. Members 0 disables it; a zero
// Extent wraps on the far corner of the first room.
type FlockConfig struct {
	steering.FlockConfig `yaml:",inline"`

	Members int   `yaml:"members" json:"members"`
	Seed    int64 `yaml:"seed" json:"seed"`
}

// ServerConfig exposes the simulation over WebSocket and QUIC.
type ServerConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	WSAddr   string `yaml:"ws_addr" json:"ws_addr"`
	QUICAddr string `yaml:"quic_addr" json:"quic_addr"`
}

// RecordingConfig routes decision traces and learned models to disk.
type RecordingConfig struct {
	TracePath  string                `yaml:"trace_path" json:"trace_path"`
	ModelPath  string                `yaml:"model_path" json:"model_path"`
	Thresholds agent.TraceThresholds `yaml:"thresholds" json:"thresholds"`
}

// Load reads, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads, defaults and validates a YAML config from r.
func Parse(r io.Reader) (*Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the stock single-room scenario used when no config file is
// given: one chasing monster and a small flock.
func Default() *Config {
	c := &Config{
		Player: PlayerConfig{Start: geom.Vec(100, 100)},
		Monsters: []MonsterConfig{
			{Name: "hunter", Start: geom.Vec(600, 450)},
		},
		Flock: FlockConfig{Members: 8},
	}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zeroed fields with the stock values. Parse and Load
// call it; hand-built configs should too.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.World.Rooms) == 0 {
		c.World.Rooms = []geom.Rect{defaultRoom}
	}
	if c.Grid.CellSize <= 0 {
		c.Grid.CellSize = DefaultCellSize
	}
	if c.Loop.TickRate == 0 {
		c.Loop.TickRate = DefaultTickRate
	}
	if c.Loop.CatchupMaxTicks == 0 {
		c.Loop.CatchupMaxTicks = DefaultCatchupMaxTicks
	}
	for i := range c.Monsters {
		m := &c.Monsters[i]
		if m.Name == "" {
			m.Name = fmt.Sprintf("monster-%d", i+1)
		}
		if m.Sprite == "" {
			m.Sprite = DefaultSprite
		}
	}
	if c.Flock.Members > 0 {
		if c.Flock.SeparationRadius <= 0 {
			c.Flock.SeparationRadius = 25
		}
		if c.Flock.AlignmentRadius <= 0 {
			c.Flock.AlignmentRadius = 60
		}
		if c.Flock.CohesionRadius <= 0 {
			c.Flock.CohesionRadius = 80
		}
		if c.Flock.MaxSpeed <= 0 {
			c.Flock.MaxSpeed = 80
		}
		if c.Flock.MaxForce <= 0 {
			c.Flock.MaxForce = 120
		}
		if c.Flock.Extent.IsZero() {
			room := c.World.Rooms[0]
			c.Flock.Extent = geom.Vec(room.X+room.W, room.Y+room.H)
		}
	}
	if c.Server.WSAddr == "" {
		c.Server.WSAddr = DefaultWSAddr
	}
	if c.Server.QUICAddr == "" {
		c.Server.QUICAddr = DefaultQUICAddr
	}
}

// Validate rejects configs the simulation cannot run: degenerate geometry,
// non-positive rates, spawns outside walkable ground and malformed policy
// specs.
func (c *Config) Validate() error {
	if c.Loop.TickRate < 0 {
		return fmt.Errorf("config: tick_rate %d must be positive", c.Loop.TickRate)
	}
	if c.Loop.CatchupMaxTicks < 0 {
		return fmt.Errorf("config: catchup_max_ticks %d must be positive", c.Loop.CatchupMaxTicks)
	}
	for i, r := range c.World.Rooms {
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("config: room %d has degenerate extent %gx%g", i, r.W, r.H)
		}
	}
	for i, o := range c.World.Obstacles {
		if o.W <= 0 || o.H <= 0 {
			return fmt.Errorf("config: obstacle %d has degenerate extent %gx%g", i, o.W, o.H)
		}
	}

	env := c.World.Build()
	if !env.Walkable(c.Player.Start) {
		return fmt.Errorf("config: player start (%g, %g) is not walkable", c.Player.Start.X, c.Player.Start.Y)
	}

	seen := make(map[string]bool, len(c.Monsters))
	for _, m := range c.Monsters {
		if seen[m.Name] {
			return fmt.Errorf("config: duplicate monster name %q", m.Name)
		}
		seen[m.Name] = true
		if !env.Walkable(m.Start) {
			return fmt.Errorf("config: monster %q start (%g, %g) is not walkable", m.Name, m.Start.X, m.Start.Y)
		}
		if err := validatePolicy(m.Policy); err != nil {
			return fmt.Errorf("config: monster %q: %w", m.Name, err)
		}
	}

	if c.Flock.Members < 0 {
		return fmt.Errorf("config: flock members %d must not be negative", c.Flock.Members)
	}
	return nil
}

func validatePolicy(spec agent.PolicySpec) error {
	switch spec.Kind {
	case "", agent.KindDecisionTree:
		switch spec.Variant {
		case "", "chase", "coward":
			return nil
		default:
			return fmt.Errorf("unknown decision tree variant %q", spec.Variant)
		}
	case agent.KindBehaviorTree, agent.KindLearned:
		if spec.File == "" {
			return fmt.Errorf("%s policy needs a file", spec.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown policy kind %q", spec.Kind)
	}
}
