// Package ordered provides a small insertion-order-preserving string-keyed
// map, used wherever the VPM manifest format requires keys to round-trip
// in the order they were written rather than the alphabetized order
// encoding/json's map marshaling would otherwise produce.
package ordered

// Map is a string-keyed map that remembers the order keys were first
// inserted in. The zero value is ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// NewMap returns an empty ordered map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Set inserts or updates the value for key. Existing keys keep their
// original position; new keys are appended.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, preserving the relative order of the rest.
func (m *Map[V]) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *Map[V]) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *Map[V]) Range(f func(key string, value V) bool) {
	for _, k := range m.keys {
		if !f(k, m.values[k]) {
			return
		}
	}
}
