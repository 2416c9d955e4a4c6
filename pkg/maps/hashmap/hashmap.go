// Package hashmap implements a chained hash table that grows. It wraps a
// bucketed.Map, keeps an incremental entry count, and doubles the bucket
// count whenever the average bucket holds more than Factor entries.
package hashmap

import (
	"iter"
	"math"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/bucketed"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/linear"
)

// DefaultFactor is the average number of entries per bucket allowed before a
// rehash.
const DefaultFactor = 1.0

type settings struct {
	factor   float64
	onRehash func(from, to int)
}

// Option configures a Map.
type Option func(*settings)

// WithFactor sets the fill factor. It panics if f is not positive and finite.
func WithFactor(f float64) Option {
	if !(f > 0) || math.IsInf(f, 0) {
		panic(apperrors.Newf(apperrors.ErrInvalidFillFactor, "hashmap.WithFactor", "factor must be positive and finite, got %v", f))
	}
	return func(s *settings) {
		s.factor = f
	}
}

// WithRehashHook registers fn to be called after every completed rehash with
// the old and new bucket counts.
func WithRehashHook(fn func(from, to int)) Option {
	return func(s *settings) {
		s.onRehash = fn
	}
}

// Map is a growable hash map. It is not safe for concurrent use.
type Map[K comparable, V any] struct {
	table *bucketed.Map[K, V]
	size  int
	settings
}

// New returns an empty Map with the given initial bucket count.
func New[K comparable, V any](buckets int, opts ...Option) *Map[K, V] {
	return newMap(bucketed.New[K, V](buckets), opts)
}

// NewWithHasher is like New but places keys with hash.
func NewWithHasher[K comparable, V any](buckets int, hash bucketed.Hasher[K], opts ...Option) *Map[K, V] {
	return newMap(bucketed.NewWithHasher[K, V](buckets, hash), opts)
}

func newMap[K comparable, V any](table *bucketed.Map[K, V], opts []Option) *Map[K, V] {
	m := &Map[K, V]{
		table:    table,
		settings: settings{factor: DefaultFactor},
	}
	for _, opt := range opts {
		opt(&m.settings)
	}
	return m
}

// Put stores value under key and returns the previous value, if any. The
// entry count is adjusted by the owning bucket's size delta, which covers both
// the new-key and overwrite cases.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	bucket := m.table.ChooseBucket(key)
	before := bucket.Len()
	old, existed := bucket.Put(key, value)
	m.size += bucket.Len() - before

	if float64(m.size) > float64(m.table.Buckets())*m.factor {
		m.rehash()
	}
	return old, existed
}

// Remove deletes key and returns its value. The bucket count never shrinks.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	bucket := m.table.ChooseBucket(key)
	before := bucket.Len()
	old, existed := bucket.Remove(key)
	m.size += bucket.Len() - before
	return old, existed
}

// rehash doubles the bucket count and reinserts every entry through Put, so
// the entry count is re-derived from scratch.
func (m *Map[K, V]) rehash() {
	entries := m.table.Entries()
	from := m.table.Buckets()

	m.table.MakeBuckets(from * 2)
	m.size = 0
	for _, e := range entries {
		m.Put(e.Key, e.Value)
	}

	if m.size != len(entries) {
		panic(apperrors.Newf(apperrors.ErrRehashIntegrity, "hashmap.rehash",
			"had %d entries, reinserted %d", len(entries), m.size))
	}
	if m.onRehash != nil {
		m.onRehash(from, m.table.Buckets())
	}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.table.Get(key)
}

func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.table.ContainsKey(key)
}

func (m *Map[K, V]) ContainsValue(value V) bool {
	return m.table.ContainsValue(value)
}

// Len returns the tracked entry count in O(1).
func (m *Map[K, V]) Len() int {
	return m.size
}

// Buckets returns the current bucket count.
func (m *Map[K, V]) Buckets() int {
	return m.table.Buckets()
}

// Factor returns the configured fill factor.
func (m *Map[K, V]) Factor() float64 {
	return m.factor
}

// Clear removes every entry but keeps the current bucket count.
func (m *Map[K, V]) Clear() {
	m.table.Clear()
	m.size = 0
}

func (m *Map[K, V]) Entries() []linear.Entry[K, V] {
	return m.table.Entries()
}

func (m *Map[K, V]) Keys() []K {
	return m.table.Keys()
}

func (m *Map[K, V]) Values() []V {
	return m.table.Values()
}

// All yields every key/value pair. Order is unspecified and changes after a
// rehash. The map must not be modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.table.All()
}
