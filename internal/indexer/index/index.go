// Package index records which locations each term occurs at and how often.
// A TermCounter holds the per-term counts of one location; an Index maps each
// term to the set of locations it was seen at. MemoryIndex keeps everything in
// the hand-built containers of pkg/maps, RedisIndex keeps it in Redis sets and
// hashes.
package index

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/hashmap"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/metrics"
	"golang.org/x/net/html"
)

// Index is a term → locations index.
type Index interface {
	// Store records every term of tc at tc's location, replacing whatever
	// was previously stored for that location.
	Store(ctx context.Context, tc *TermCounter) error
	// IndexPage counts the terms in every text node under root and stores
	// them for url.
	IndexPage(ctx context.Context, url string, root *html.Node) error
	// Add records that term occurs at tc's location.
	Add(ctx context.Context, term string, tc *TermCounter) error
	// URLs returns the locations term occurs at, sorted.
	URLs(ctx context.Context, term string) ([]string, error)
	// Counts maps each location of term to its occurrence count there.
	Counts(ctx context.Context, term string) (map[string]int, error)
	// Count returns how often term occurs at url, 0 if never.
	Count(ctx context.Context, url, term string) (int, error)
	// Terms returns every indexed term, sorted.
	Terms(ctx context.Context) ([]string, error)
	IsIndexed(ctx context.Context, url string) (bool, error)
}

// Settings sizes the hash maps built by the index and selects tokenisation.
type Settings struct {
	Tokenizer      tokenizer.Options
	InitialBuckets int
	FillFactor     float64
}

// DefaultSettings returns plain tokenisation over 16-bucket maps.
func DefaultSettings() Settings {
	return Settings{InitialBuckets: 16, FillFactor: hashmap.DefaultFactor}
}

// SettingsFromConfig converts the index section of the config.
func SettingsFromConfig(cfg config.IndexConfig) Settings {
	return Settings{
		Tokenizer: tokenizer.Options{
			Stem:      cfg.Stem,
			StopWords: cfg.StopWords,
		},
		InitialBuckets: cfg.InitialBuckets,
		FillFactor:     cfg.FillFactor,
	}
}

func (s Settings) buckets() int {
	return max(s.InitialBuckets, 1)
}

func (s Settings) mapOptions(extra ...hashmap.Option) []hashmap.Option {
	opts := make([]hashmap.Option, 0, len(extra)+1)
	if s.FillFactor > 0 {
		opts = append(opts, hashmap.WithFactor(s.FillFactor))
	}
	return append(opts, extra...)
}

// observer records lookup metrics; a nil *metrics.Metrics disables it.
type observer struct {
	m       *metrics.Metrics
	backend string
}

func (o observer) lookup(op string, start time.Time) {
	if o.m == nil {
		return
	}
	o.m.IndexLookupsTotal.WithLabelValues(o.backend, op).Inc()
	o.m.IndexLookupDuration.WithLabelValues(o.backend).Observe(time.Since(start).Seconds())
}

func (o observer) stored(terms int) {
	if o.m == nil {
		return
	}
	o.m.PagesIndexedTotal.WithLabelValues(o.backend).Inc()
	o.m.TermsRecordedTotal.WithLabelValues(o.backend).Add(float64(terms))
}

func (o observer) rehashHooks(name string) []hashmap.Option {
	if o.m == nil {
		return nil
	}
	return []hashmap.Option{hashmap.WithRehashHook(o.m.RehashHook(name))}
}
