package behavior

import (
	"fmt"
	"sync"
)

// NodeFactory builds a leaf node from its config parameters.
type NodeFactory func(params map[string]any) (Node, error)

// Registry resolves the action and condition names a tree config references
// into node instances. It decouples authored configs from the code that
// implements their leaves; the agent layer registers the sandbox vocabulary.
type Registry struct {
	mu         sync.RWMutex
	actions    map[string]NodeFactory
	conditions map[string]NodeFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]NodeFactory),
		conditions: make(map[string]NodeFactory),
	}
}

// RegisterAction makes factory available under name.
func (r *Registry) RegisterAction(name string, factory NodeFactory) {
	r.mu.Lock()
	r.actions[name] = factory
	r.mu.Unlock()
}

// RegisterCondition makes factory available under name.
func (r *Registry) RegisterCondition(name string, factory NodeFactory) {
	r.mu.Lock()
	r.conditions[name] = factory
	r.mu.Unlock()
}

// NewAction instantiates the action registered under name.
func (r *Registry) NewAction(name string, params map[string]any) (Node, error) {
	r.mu.RLock()
	f := r.actions[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("behavior: unknown action %q", name)
	}
	return f(params)
}

// NewCondition instantiates the condition registered under name.
func (r *Registry) NewCondition(name string, params map[string]any) (Node, error) {
	r.mu.RLock()
	f := r.conditions[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("behavior: unknown condition %q", name)
	}
	return f(params)
}

// Actions returns the registered action names, for diagnostics.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for n := range r.actions {
		names = append(names, n)
	}
	return names
}
