// Package bucketed implements a hash table with a fixed number of buckets.
// Each bucket is a linear.Map; a hash of the key reduced modulo the bucket
// count selects the one bucket a key may live in.
package bucketed

import (
	"iter"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/linear"
)

// Map is a fixed-size array of linear.Map buckets. The bucket count changes
// only through MakeBuckets.
type Map[K comparable, V any] struct {
	buckets []*linear.Map[K, V]
	hash    Hasher[K]
}

// New returns a Map with n empty buckets hashed by hash/maphash. It panics if
// n is less than 1.
func New[K comparable, V any](n int) *Map[K, V] {
	return NewWithHasher[K, V](n, comparableHasher[K]())
}

// NewWithHasher is like New but places keys with the given hash function,
// which must be deterministic.
func NewWithHasher[K comparable, V any](n int, hash Hasher[K]) *Map[K, V] {
	m := &Map[K, V]{hash: hash}
	m.MakeBuckets(n)
	return m
}

// MakeBuckets discards every bucket and allocates n empty ones.
func (m *Map[K, V]) MakeBuckets(n int) {
	if n < 1 {
		panic(apperrors.Newf(apperrors.ErrInvalidBucketCount, "bucketed.MakeBuckets", "need at least 1 bucket, got %d", n))
	}
	m.buckets = make([]*linear.Map[K, V], n)
	for i := range m.buckets {
		m.buckets[i] = linear.New[K, V]()
	}
}

// BucketIndex returns the index of the bucket that owns key.
func (m *Map[K, V]) BucketIndex(key K) int {
	return int(m.hash(key) % uint64(len(m.buckets)))
}

// ChooseBucket returns the bucket that owns key. Callers that mutate the
// bucket directly are responsible for keeping any size bookkeeping in step.
func (m *Map[K, V]) ChooseBucket(key K) *linear.Map[K, V] {
	return m.buckets[m.BucketIndex(key)]
}

// Buckets returns the current bucket count.
func (m *Map[K, V]) Buckets() int {
	return len(m.buckets)
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.ChooseBucket(key).Get(key)
}

func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	return m.ChooseBucket(key).Put(key, value)
}

func (m *Map[K, V]) Remove(key K) (V, bool) {
	return m.ChooseBucket(key).Remove(key)
}

func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.ChooseBucket(key).ContainsKey(key)
}

// ContainsValue scans every bucket, since a value carries no bucket hint.
func (m *Map[K, V]) ContainsValue(value V) bool {
	for _, b := range m.buckets {
		if b.ContainsValue(value) {
			return true
		}
	}
	return false
}

// Len returns the sum of the bucket sizes.
func (m *Map[K, V]) Len() int {
	n := 0
	for _, b := range m.buckets {
		n += b.Len()
	}
	return n
}

// Clear empties every bucket. The bucket count is unchanged.
func (m *Map[K, V]) Clear() {
	for _, b := range m.buckets {
		b.Clear()
	}
}

// Entries returns every entry, bucket by bucket. Order across buckets is
// unspecified; within a bucket it is insertion order.
func (m *Map[K, V]) Entries() []linear.Entry[K, V] {
	out := make([]linear.Entry[K, V], 0, m.Len())
	for _, b := range m.buckets {
		out = append(out, b.Entries()...)
	}
	return out
}

func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, m.Len())
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, v := range m.All() {
		out = append(out, v)
	}
	return out
}

// All yields every key/value pair in the same order as Entries.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, b := range m.buckets {
			for k, v := range b.All() {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}
