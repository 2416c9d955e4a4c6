package bucketed

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
)

func TestKeysLiveInTheirBucket(t *testing.T) {
	m := NewWithHasher[string, int](7, StringHasher)
	for i := 0; i < 100; i++ {
		m.Put(fmt.Sprintf("key-%d", i), i)
	}
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		want := int(StringHasher(key) % 7)
		if got := m.BucketIndex(key); got != want {
			t.Fatalf("BucketIndex(%q) = %d, want %d", key, got, want)
		}
		if !m.ChooseBucket(key).ContainsKey(key) {
			t.Fatalf("key %q not found in its own bucket", key)
		}
		for b := 0; b < m.Buckets(); b++ {
			if b != want && m.buckets[b].ContainsKey(key) {
				t.Fatalf("key %q also present in bucket %d", key, b)
			}
		}
	}
	if m.Len() != 100 {
		t.Errorf("Len() = %d, want 100", m.Len())
	}
	if m.Buckets() != 7 {
		t.Errorf("Buckets() = %d, want 7 (bucket count is fixed)", m.Buckets())
	}
}

func TestCustomHasherPlacesKeys(t *testing.T) {
	var byLength Hasher[string] = func(s string) uint64 { return uint64(len(s)) }
	m := NewWithHasher[string, int](4, byLength)
	for _, k := range []string{"a", "bb", "ccc", "dddd", "eeeee"} {
		m.Put(k, len(k))
		if got, want := m.BucketIndex(k), len(k)%4; got != want {
			t.Errorf("BucketIndex(%q) = %d, want %d", k, got, want)
		}
	}
	if got := m.ChooseBucket("a").Len(); got != 2 {
		t.Errorf("bucket 1 holds %d entries, want 2 (a and eeeee)", got)
	}
}

func TestDefaultHasherIsStable(t *testing.T) {
	m := New[int, string](16)
	first := m.BucketIndex(12345)
	for i := 0; i < 10; i++ {
		if got := m.BucketIndex(12345); got != first {
			t.Fatalf("BucketIndex changed between calls: %d then %d", first, got)
		}
	}
}

func TestOperations(t *testing.T) {
	m := New[string, int](4)
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	if old, existed := m.Put("b", 20); !existed || old != 2 {
		t.Errorf("Put(b, 20) = %d, %v; want 2, true", old, existed)
	}
	if v, ok := m.Get("b"); !ok || v != 20 {
		t.Errorf("Get(b) = %d, %v", v, ok)
	}
	if !m.ContainsValue(3) || m.ContainsValue(2) {
		t.Error("ContainsValue gave the wrong answer")
	}
	if v, ok := m.Remove("a"); !ok || v != 1 {
		t.Errorf("Remove(a) = %d, %v", v, ok)
	}
	if _, ok := m.Remove("a"); ok {
		t.Error("second Remove(a) reported success")
	}
	if m.ContainsKey("a") {
		t.Error("a still present")
	}

	keys := m.Keys()
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"b", "c"}) {
		t.Errorf("Keys() = %v", keys)
	}
	values := m.Values()
	slices.Sort(values)
	if !slices.Equal(values, []int{3, 20}) {
		t.Errorf("Values() = %v", values)
	}
	if len(m.Entries()) != 2 {
		t.Errorf("Entries() has %d entries, want 2", len(m.Entries()))
	}

	m.Clear()
	if m.Len() != 0 || m.Buckets() != 4 {
		t.Errorf("after Clear: Len=%d Buckets=%d", m.Len(), m.Buckets())
	}
}

func TestMakeBucketsDiscardsEntries(t *testing.T) {
	m := New[string, int](2)
	m.Put("a", 1)
	m.MakeBuckets(8)
	if m.Buckets() != 8 || m.Len() != 0 {
		t.Errorf("after MakeBuckets(8): Buckets=%d Len=%d", m.Buckets(), m.Len())
	}
}

func TestInvalidBucketCountPanics(t *testing.T) {
	for _, n := range []int{0, -3} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, apperrors.ErrInvalidBucketCount) {
					t.Fatalf("recovered %v, want ErrInvalidBucketCount", r)
				}
			}()
			New[string, int](n)
		})
	}
}

func TestAllStopsEarly(t *testing.T) {
	m := New[int, int](3)
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	seen := 0
	for range m.All() {
		seen++
		if seen == 4 {
			break
		}
	}
	if seen != 4 {
		t.Errorf("iterated %d entries, want 4", seen)
	}
}
