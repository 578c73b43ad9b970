package behavior

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TreeConfig is the authored form of a behavior tree, readable from YAML or
// JSON. Nodes nest structurally, so every reference produces its own node
// instance and no resumption state is ever shared.
type TreeConfig struct {
	Name string      `json:"name" yaml:"name"`
	Root *NodeConfig `json:"root" yaml:"root"`
}

// NodeConfig describes one node. Type selects the variant; composites list
// Children, decorators hold a single Child, and leaves name a registered
// Action or Condition with optional Params.
type NodeConfig struct {
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Type      string         `json:"type" yaml:"type"`
	Action    string         `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Children  []*NodeConfig  `json:"children,omitempty" yaml:"children,omitempty"`
	Child     *NodeConfig    `json:"child,omitempty" yaml:"child,omitempty"`
}

// LoadJSON reads a tree config from JSON.
func LoadJSON(r io.Reader) (*TreeConfig, error) {
	var c TreeConfig
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("behavior: decode json config: %w", err)
	}
	return &c, nil
}

// LoadYAML reads a tree config from YAML.
func LoadYAML(r io.Reader) (*TreeConfig, error) {
	var c TreeConfig
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("behavior: decode yaml config: %w", err)
	}
	return &c, nil
}

// LoadFile reads a tree config, picking the codec from the file extension
// (.json selects JSON, anything else YAML).
func LoadFile(path string) (*TreeConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("behavior: open config %s: %w", path, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

// Validate checks the config for structural errors before building.
func (c *TreeConfig) Validate() error {
	if c.Root == nil {
		return fmt.Errorf("behavior: tree %q has no root node", c.Name)
	}
	return c.Root.validate()
}

func (nc *NodeConfig) validate() error {
	switch strings.ToLower(nc.Type) {
	case "sequence", "selector", "random_selector", "parallel":
		if len(nc.Children) == 0 {
			return fmt.Errorf("behavior: %s node %q has no children", nc.Type, nc.Name)
		}
		for _, ch := range nc.Children {
			if err := ch.validate(); err != nil {
				return err
			}
		}
	case "inverter", "repeat":
		if nc.Child == nil {
			return fmt.Errorf("behavior: %s node %q has no child", nc.Type, nc.Name)
		}
		return nc.Child.validate()
	case "action":
		if nc.Action == "" {
			return fmt.Errorf("behavior: action node %q names no action", nc.Name)
		}
	case "condition":
		if nc.Condition == "" {
			return fmt.Errorf("behavior: condition node %q names no condition", nc.Name)
		}
	case "":
		return fmt.Errorf("behavior: node %q has no type", nc.Name)
	default:
		return fmt.Errorf("behavior: unsupported node type %q", nc.Type)
	}
	return nil
}

// Build constructs a fresh tree from the config, resolving leaves through reg.
// rng seeds the RandomSelector nodes; nil selects a time-seeded source.
func (c *TreeConfig) Build(reg *Registry, rng *rand.Rand) (*Tree, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	root, err := c.Root.build(reg, rng)
	if err != nil {
		return nil, err
	}
	return NewTree(c.Name, root), nil
}

func (nc *NodeConfig) build(reg *Registry, rng *rand.Rand) (Node, error) {
	name := nc.Name
	if name == "" {
		name = nc.Type
	}

	buildChildren := func() ([]Node, error) {
		children := make([]Node, 0, len(nc.Children))
		for _, ch := range nc.Children {
			node, err := ch.build(reg, rng)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
		}
		return children, nil
	}

	switch strings.ToLower(nc.Type) {
	case "sequence":
		children, err := buildChildren()
		if err != nil {
			return nil, err
		}
		return NewSequence(name, children...), nil
	case "selector":
		children, err := buildChildren()
		if err != nil {
			return nil, err
		}
		return NewSelector(name, children...), nil
	case "random_selector":
		children, err := buildChildren()
		if err != nil {
			return nil, err
		}
		return NewRandomSelector(name, rng, children...), nil
	case "parallel":
		children, err := buildChildren()
		if err != nil {
			return nil, err
		}
		s := paramInt(nc.Params, "success_threshold", 1)
		f := paramInt(nc.Params, "failure_threshold", 1)
		return NewParallel(name, s, f, children...), nil
	case "inverter":
		child, err := nc.Child.build(reg, rng)
		if err != nil {
			return nil, err
		}
		return NewInverter(name, child), nil
	case "repeat":
		child, err := nc.Child.build(reg, rng)
		if err != nil {
			return nil, err
		}
		return NewRepeat(name, paramInt(nc.Params, "times", 0), child), nil
	case "action":
		return reg.NewAction(nc.Action, nc.Params)
	case "condition":
		return reg.NewCondition(nc.Condition, nc.Params)
	default:
		return nil, fmt.Errorf("behavior: unsupported node type %q", nc.Type)
	}
}

// paramInt reads an integer parameter, tolerating the float64 values JSON
// decoding produces.
func paramInt(params map[string]any, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch tv := v.(type) {
	case int:
		return tv
	case int64:
		return int(tv)
	case float64:
		return int(tv)
	default:
		return fallback
	}
}

// ParamFloat reads a float parameter from leaf params, tolerating ints.
// Exposed for leaf factories registered by other packages.
func ParamFloat(params map[string]any, key string, fallback float64) float64 {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch tv := v.(type) {
	case float64:
		return tv
	case float32:
		return float64(tv)
	case int:
		return float64(tv)
	case int64:
		return float64(tv)
	default:
		return fallback
	}
}

// ParamString reads a string parameter from leaf params.
func ParamString(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return fallback
}
