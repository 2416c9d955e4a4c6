package index

import (
	"slices"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/document"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/tokenizer"
)

func TestTermCounterCounts(t *testing.T) {
	tc := NewTermCounter("https://example.org/java", DefaultSettings())
	tc.ProcessText("Java is an island. Java is also a language.")

	if got := tc.Label(); got != "https://example.org/java" {
		t.Errorf("Label() = %q", got)
	}
	if got := tc.Count("java"); got != 2 {
		t.Errorf("Count(java) = %d, want 2", got)
	}
	if got := tc.Count("is"); got != 2 {
		t.Errorf("Count(is) = %d, want 2", got)
	}
	if got := tc.Count("python"); got != 0 {
		t.Errorf("Count(python) = %d, want 0", got)
	}
	if got := tc.Size(); got != 9 {
		t.Errorf("Size() = %d, want 9", got)
	}
	want := []string{"a", "also", "an", "is", "island", "java", "language"}
	if got := tc.Terms(); !slices.Equal(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
	if got := tc.Len(); got != len(want) {
		t.Errorf("Len() = %d, want %d", got, len(want))
	}
}

func TestTermCounterPutOverrides(t *testing.T) {
	tc := NewTermCounter("u", DefaultSettings())
	tc.Increment("x")
	tc.Put("x", 10)
	tc.Increment("x")
	if got := tc.Count("x"); got != 11 {
		t.Errorf("Count(x) = %d, want 11", got)
	}
}

func TestTermCounterGrowsPastInitialBuckets(t *testing.T) {
	s := Settings{InitialBuckets: 1, FillFactor: 1}
	tc := NewTermCounter("u", s)
	for i := range 200 {
		tc.Put(strings.Repeat("a", i+1), i)
	}
	if tc.Len() != 200 {
		t.Fatalf("Len() = %d, want 200", tc.Len())
	}
	for i := range 200 {
		if got := tc.Count(strings.Repeat("a", i+1)); got != i {
			t.Fatalf("Count(len %d) = %d, want %d", i+1, got, i)
		}
	}
}

func TestTermCounterStemming(t *testing.T) {
	s := DefaultSettings()
	s.Tokenizer = tokenizer.Options{Stem: true, StopWords: true}
	tc := NewTermCounter("u", s)
	tc.ProcessText("The cats and the cat")
	if got := tc.Count("cat"); got != 2 {
		t.Errorf("Count(cat) = %d, want 2", got)
	}
	if got := tc.Count("the"); got != 0 {
		t.Errorf("Count(the) = %d, want 0", got)
	}
}

func TestTermCounterProcessParagraphs(t *testing.T) {
	root, err := document.Parse(strings.NewReader(
		`<html><body><div id="mw-content-text"><p>One <b>two</b> two.</p><p>Three</p></div><p>ignored</p></body></html>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	tc := NewTermCounter("u", DefaultSettings())
	tc.ProcessParagraphs(document.Paragraphs(root))
	if got := tc.Count("two"); got != 2 {
		t.Errorf("Count(two) = %d, want 2", got)
	}
	if got := tc.Count("ignored"); got != 0 {
		t.Errorf("Count(ignored) = %d, want 0", got)
	}
	if got := tc.Size(); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
}
