// Package linear implements the simplest correct associative container: an
// insertion-ordered slice of entries searched by linear scan. It is the
// bucket type used by the bucketed and growable hash maps.
package linear

import (
	"iter"
	"reflect"
)

// Entry is a key/value pair owned by a map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered list of entries with unique keys. Every
// operation is O(n) in the number of entries. The zero value is an empty map
// ready to use.
type Map[K comparable, V any] struct {
	entries []Entry[K, V]
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// find returns the index of the entry holding key, or -1.
func (m *Map[K, V]) find(key K) int {
	for i := range m.entries {
		if m.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i := m.find(key); i >= 0 {
		return m.entries[i].Value, true
	}
	var zero V
	return zero, false
}

// Put stores value under key. If key was already present its value is
// replaced in place and the previous value is returned with true; otherwise a
// new entry is appended.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	if i := m.find(key); i >= 0 {
		old := m.entries[i].Value
		m.entries[i].Value = value
		return old, true
	}
	m.entries = append(m.entries, Entry[K, V]{Key: key, Value: value})
	var zero V
	return zero, false
}

// Remove deletes key and returns its value. A missing key leaves the map
// untouched and returns false.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	i := m.find(key)
	if i < 0 {
		var zero V
		return zero, false
	}
	old := m.entries[i].Value
	copy(m.entries[i:], m.entries[i+1:])
	m.entries[len(m.entries)-1] = Entry[K, V]{}
	m.entries = m.entries[:len(m.entries)-1]
	return old, true
}

func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.find(key) >= 0
}

// ContainsValue reports whether any entry holds a value deeply equal to value.
func (m *Map[K, V]) ContainsValue(value V) bool {
	return m.ContainsValueFunc(func(v V) bool {
		return reflect.DeepEqual(v, value)
	})
}

// ContainsValueFunc reports whether match returns true for any value.
func (m *Map[K, V]) ContainsValueFunc(match func(V) bool) bool {
	for i := range m.entries {
		if match(m.entries[i].Value) {
			return true
		}
	}
	return false
}

func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(m.entries))
	copy(out, m.entries)
	return out
}

// All yields every key/value pair in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	clear(m.entries)
	m.entries = m.entries[:0]
}
