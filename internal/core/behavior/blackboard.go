package behavior

import "sync"

// Blackboard is the shared key/value state a tree's nodes read and write
// during a tick. The owning agent refreshes sensor facts on it before each
// tick and reads the chosen action back afterwards.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{data: make(map[string]any)}
}

// Get retrieves a value by key; ok is false when absent.
func (b *Blackboard) Get(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

// Set assigns a value by key.
func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	b.data[key] = value
	b.mu.Unlock()
}

// Delete removes a key.
func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	delete(b.data, key)
	b.mu.Unlock()
}

// Clear removes every key.
func (b *Blackboard) Clear() {
	b.mu.Lock()
	b.data = make(map[string]any)
	b.mu.Unlock()
}

// GetBool reads key as a bool; absent or differently-typed values are false.
func (b *Blackboard) GetBool(key string) bool {
	v, ok := b.Get(key)
	if !ok {
		return false
	}
	bv, _ := v.(bool)
	return bv
}

// GetFloat reads key as a float64, converting the common numeric types.
func (b *Blackboard) GetFloat(key string) (float64, bool) {
	v, ok := b.Get(key)
	if !ok {
		return 0, false
	}
	switch tv := v.(type) {
	case float64:
		return tv, true
	case float32:
		return float64(tv), true
	case int:
		return float64(tv), true
	case int64:
		return float64(tv), true
	default:
		return 0, false
	}
}

// GetString reads key as a string; ok is false when absent or not a string.
func (b *Blackboard) GetString(key string) (string, bool) {
	v, ok := b.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
