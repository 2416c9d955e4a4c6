package bucketed

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to a hash. It must return the same value for equal keys
// for the whole life of a map.
type Hasher[K comparable] func(K) uint64

// StringHasher hashes strings with xxhash. Unlike the default hasher its
// output is stable across processes.
func StringHasher(s string) uint64 {
	return xxhash.Sum64String(s)
}

// comparableHasher returns a hasher for any comparable key, seeded once so the
// bucket choice for a key never changes over the life of a map.
func comparableHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}
