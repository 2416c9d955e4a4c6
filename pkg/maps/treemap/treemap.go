// Package treemap implements an ordered map as an unbalanced binary search
// tree. Keys are kept in ascending order under a strict total order, either
// the natural order of a cmp.Ordered type or a caller-supplied comparison.
//
// The tree is never rebalanced, so operations are O(height): O(log n) for
// random insertion orders and O(n) for sorted ones.
package treemap

import (
	"cmp"
	"iter"
	"reflect"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
)

type node[K, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
}

// Map is a binary search tree keyed by K. It is not safe for concurrent use.
type Map[K, V any] struct {
	root    *node[K, V]
	size    int
	cmp     func(a, b K) int
	nilable bool
}

// New returns an empty Map ordered by cmp.Compare.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{cmp: cmp.Compare[K]}
}

// NewFunc returns an empty Map ordered by compare, which must return a
// negative number when a < b, zero when a == b and a positive number when
// a > b, and must define a strict total order.
func NewFunc[K, V any](compare func(a, b K) int) *Map[K, V] {
	return &Map[K, V]{
		cmp:     compare,
		nilable: nilableKind(reflect.TypeFor[K]().Kind()),
	}
}

func nilableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// checkKey panics if key is nil. It runs before any structural change.
func (m *Map[K, V]) checkKey(op string, key K) {
	if !m.nilable {
		return
	}
	v := reflect.ValueOf(any(key))
	if !v.IsValid() || (nilableKind(v.Kind()) && v.IsNil()) {
		panic(apperrors.New(apperrors.ErrNilKey, op, "tree map keys must not be nil"))
	}
}

// find descends from the root and returns the link that holds key, or the
// empty link where key would be inserted.
func (m *Map[K, V]) find(key K) **node[K, V] {
	link := &m.root
	for *link != nil {
		c := m.cmp(key, (*link).key)
		switch {
		case c < 0:
			link = &(*link).left
		case c > 0:
			link = &(*link).right
		default:
			return link
		}
	}
	return link
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.checkKey("treemap.Get", key)
	if n := *m.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

func (m *Map[K, V]) ContainsKey(key K) bool {
	m.checkKey("treemap.ContainsKey", key)
	return *m.find(key) != nil
}

// Put stores value under key. An existing key is updated in place and its
// previous value returned with true; otherwise a new leaf is linked at the
// empty position found during descent.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	m.checkKey("treemap.Put", key)
	link := m.find(key)
	if n := *link; n != nil {
		old := n.value
		n.value = value
		return old, true
	}
	*link = &node[K, V]{key: key, value: value}
	m.size++
	var zero V
	return zero, false
}

// Remove deletes key and returns its value. A node with two children is not
// unlinked itself: it takes the key and value of its in-order successor, and
// the successor is unlinked from its original position instead.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	m.checkKey("treemap.Remove", key)
	link := m.find(key)
	n := *link
	if n == nil {
		var zero V
		return zero, false
	}
	old := n.value

	switch {
	case n.left == nil && n.right == nil:
		*link = nil
	case n.left == nil:
		*link = n.right
	case n.right == nil:
		*link = n.left
	default:
		succ := &n.right
		for (*succ).left != nil {
			succ = &(*succ).left
		}
		s := *succ
		n.key, n.value = s.key, s.value
		// The successor has no left child; its right subtree takes its place.
		*succ = s.right
	}

	m.size--
	return old, true
}

func (m *Map[K, V]) Len() int {
	return m.size
}

func (m *Map[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// All yields every key/value pair in ascending key order. The map must not be
// modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		var stack []*node[K, V]
		n := m.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.key, n.value) {
				return
			}
			n = n.right
		}
	}
}

// Keys returns the keys in ascending order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, m.size)
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

// preorder yields every node, root first.
func (m *Map[K, V]) preorder() iter.Seq[*node[K, V]] {
	return func(yield func(*node[K, V]) bool) {
		if m.root == nil {
			return
		}
		stack := []*node[K, V]{m.root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			if n.right != nil {
				stack = append(stack, n.right)
			}
			if n.left != nil {
				stack = append(stack, n.left)
			}
		}
	}
}

// ContainsValue reports whether any node holds a value deeply equal to value.
func (m *Map[K, V]) ContainsValue(value V) bool {
	return m.ContainsValueFunc(func(v V) bool {
		return reflect.DeepEqual(v, value)
	})
}

// ContainsValueFunc reports whether match returns true for any value.
func (m *Map[K, V]) ContainsValueFunc(match func(V) bool) bool {
	for n := range m.preorder() {
		if match(n.value) {
			return true
		}
	}
	return false
}

// Values returns the distinct values held by the map, compared with
// reflect.DeepEqual. Order is unspecified.
func (m *Map[K, V]) Values() []V {
	var out []V
	for n := range m.preorder() {
		dup := false
		for _, v := range out {
			if reflect.DeepEqual(v, n.value) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n.value)
		}
	}
	return out
}

// ValueSet returns the distinct values of m in O(n).
func ValueSet[K any, V comparable](m *Map[K, V]) map[V]struct{} {
	set := make(map[V]struct{})
	for n := range m.preorder() {
		set[n.value] = struct{}{}
	}
	return set
}

// Height returns the number of edges on the longest root-to-leaf path. Empty
// and single-node trees have height 0.
func (m *Map[K, V]) Height() int {
	return max(height(m.root), 0)
}

func height[K, V any](n *node[K, V]) int {
	if n == nil {
		return -1
	}
	return max(height(n.left), height(n.right)) + 1
}
