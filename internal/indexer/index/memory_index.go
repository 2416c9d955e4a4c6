package index

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/bucketed"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/hashmap"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/treemap"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/metrics"
	"golang.org/x/net/html"
)

const backendMemory = "memory"

type urlSet = treemap.Map[string, struct{}]

// MemoryIndex is an in-process Index. Each term maps to an ordered set of
// locations and each location to its TermCounter.
type MemoryIndex struct {
	mu       sync.RWMutex
	urlSets  *hashmap.Map[string, *urlSet]
	counters *hashmap.Map[string, *TermCounter]
	settings Settings
	obs      observer
	logger   *slog.Logger
}

// NewMemoryIndex creates an empty index. m may be nil.
func NewMemoryIndex(s Settings, m *metrics.Metrics) *MemoryIndex {
	obs := observer{m: m, backend: backendMemory}
	return &MemoryIndex{
		urlSets: hashmap.NewWithHasher[string, *urlSet](s.buckets(), bucketed.StringHasher,
			s.mapOptions(obs.rehashHooks("url_sets")...)...),
		counters: hashmap.NewWithHasher[string, *TermCounter](s.buckets(), bucketed.StringHasher,
			s.mapOptions(obs.rehashHooks("term_counters")...)...),
		settings: s,
		obs:      obs,
		logger:   logger.WithComponent("memory-index"),
	}
}

func (m *MemoryIndex) Store(ctx context.Context, tc *TermCounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := tc.Label()
	if old, ok := m.counters.Get(url); ok {
		for term := range old.All() {
			m.removeLocked(term, url)
		}
	}
	m.counters.Put(url, tc)
	for term := range tc.All() {
		m.addLocked(term, url)
	}
	m.obs.stored(tc.Len())
	logger.FromContext(ctx).Debug("page indexed",
		"backend", backendMemory,
		"url", url,
		"terms", tc.Len(),
		"tokens", tc.Size(),
	)
	return nil
}

func (m *MemoryIndex) IndexPage(ctx context.Context, url string, root *html.Node) error {
	tc := NewTermCounter(url, m.settings)
	tc.ProcessTree(root)
	return m.Store(ctx, tc)
}

// Add records term at tc's location. tc becomes that location's counter if
// none is stored yet.
func (m *MemoryIndex) Add(_ context.Context, term string, tc *TermCounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.counters.ContainsKey(tc.Label()) {
		m.counters.Put(tc.Label(), tc)
	}
	m.addLocked(term, tc.Label())
	return nil
}

func (m *MemoryIndex) addLocked(term, url string) {
	set, ok := m.urlSets.Get(term)
	if !ok {
		set = treemap.New[string, struct{}]()
		m.urlSets.Put(term, set)
	}
	set.Put(url, struct{}{})
}

func (m *MemoryIndex) removeLocked(term, url string) {
	set, ok := m.urlSets.Get(term)
	if !ok {
		return
	}
	set.Remove(url)
	if set.Len() == 0 {
		m.urlSets.Remove(term)
	}
}

func (m *MemoryIndex) URLs(_ context.Context, term string) ([]string, error) {
	defer m.obs.lookup("urls", time.Now())
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.urlSets.Get(term)
	if !ok {
		return nil, nil
	}
	return set.Keys(), nil
}

func (m *MemoryIndex) Counts(_ context.Context, term string) (map[string]int, error) {
	defer m.obs.lookup("counts", time.Now())
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.urlSets.Get(term)
	if !ok {
		return map[string]int{}, nil
	}
	counts := make(map[string]int, set.Len())
	for url := range set.All() {
		tc, ok := m.counters.Get(url)
		if !ok {
			continue
		}
		counts[url] = tc.Count(term)
	}
	return counts, nil
}

func (m *MemoryIndex) Count(_ context.Context, url, term string) (int, error) {
	defer m.obs.lookup("count", time.Now())
	m.mu.RLock()
	defer m.mu.RUnlock()
	tc, ok := m.counters.Get(url)
	if !ok {
		return 0, nil
	}
	return tc.Count(term), nil
}

func (m *MemoryIndex) Terms(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	terms := m.urlSets.Keys()
	slices.Sort(terms)
	return terms, nil
}

func (m *MemoryIndex) IsIndexed(_ context.Context, url string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters.ContainsKey(url), nil
}

// Pages returns the number of locations with a stored counter.
func (m *MemoryIndex) Pages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters.Len()
}

// DeleteURLSets drops every term's location set and returns how many there
// were. Stored counters are kept.
func (m *MemoryIndex) DeleteURLSets(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.urlSets.Len()
	m.urlSets.Clear()
	return int64(n), nil
}

// DeleteTermCounters drops every stored counter and returns how many there
// were. Lookups through a remaining location set skip the missing counters.
func (m *MemoryIndex) DeleteTermCounters(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.counters.Len()
	m.counters.Clear()
	return int64(n), nil
}

func (m *MemoryIndex) DeleteAll(ctx context.Context) (int64, error) {
	sets, _ := m.DeleteURLSets(ctx)
	counters, _ := m.DeleteTermCounters(ctx)
	return sets + counters, nil
}
