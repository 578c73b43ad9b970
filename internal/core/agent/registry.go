package agent

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live monsters by id and preserves registration order, so
// snapshots list agents stably and the active-monster cycle is predictable.
type Registry struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Monster
	order []*Monster
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uuid.UUID]*Monster)}
}

// Add registers a monster. Re-adding the same id is a no-op.
func (r *Registry) Add(m *Monster) {
	if m == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID()]; ok {
		return
	}
	r.byID[m.ID()] = m
	r.order = append(r.order, m)
}

// Get looks a monster up by id.
func (r *Registry) Get(id uuid.UUID) (*Monster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

// At returns the monster at a registration-order index.
func (r *Registry) At(i int) (*Monster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.order) {
		return nil, false
	}
	return r.order[i], true
}

// All returns the monsters in registration order.
func (r *Registry) All() []*Monster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Monster, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of registered monsters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Remove unregisters a monster by id.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, m := range r.order {
		if m.ID() == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
