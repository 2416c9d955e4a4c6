package index

import (
	"iter"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/document"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/bucketed"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/hashmap"
	"golang.org/x/net/html"
)

// TermCounter counts how many times each term appears at one location.
// It is not safe for concurrent use.
type TermCounter struct {
	label  string
	counts *hashmap.Map[string, int]
	tok    tokenizer.Options
}

// NewTermCounter returns an empty counter for the location label.
func NewTermCounter(label string, s Settings) *TermCounter {
	return &TermCounter{
		label:  label,
		counts: hashmap.NewWithHasher[string, int](s.buckets(), bucketed.StringHasher, s.mapOptions()...),
		tok:    s.Tokenizer,
	}
}

func (tc *TermCounter) Label() string {
	return tc.label
}

// Put sets the count of term to n.
func (tc *TermCounter) Put(term string, n int) {
	tc.counts.Put(term, n)
}

// Count returns the count of term, 0 if it was never seen.
func (tc *TermCounter) Count(term string) int {
	n, _ := tc.counts.Get(term)
	return n
}

func (tc *TermCounter) Increment(term string) {
	tc.Put(term, tc.Count(term)+1)
}

// Size returns the sum of all counts.
func (tc *TermCounter) Size() int {
	total := 0
	for _, n := range tc.counts.All() {
		total += n
	}
	return total
}

// Len returns the number of distinct terms.
func (tc *TermCounter) Len() int {
	return tc.counts.Len()
}

// Terms returns the distinct terms in sorted order.
func (tc *TermCounter) Terms() []string {
	terms := tc.counts.Keys()
	slices.Sort(terms)
	return terms
}

// All yields every term with its count in no particular order.
func (tc *TermCounter) All() iter.Seq2[string, int] {
	return tc.counts.All()
}

// ProcessText tokenises text and increments each term.
func (tc *TermCounter) ProcessText(text string) {
	for _, term := range tokenizer.Terms(text, tc.tok) {
		tc.Increment(term)
	}
}

// ProcessTree counts the terms of every text node under root.
func (tc *TermCounter) ProcessTree(root *html.Node) {
	for text := range document.Text(root) {
		tc.ProcessText(text)
	}
}

// ProcessParagraphs calls ProcessTree on each paragraph.
func (tc *TermCounter) ProcessParagraphs(paragraphs []*html.Node) {
	for _, p := range paragraphs {
		tc.ProcessTree(p)
	}
}
