package index

import (
	"cmp"
	"slices"
)

// Posting is one location a term was found at and how often.
type Posting struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type PostingList []Posting

// Sort orders postings by count, highest first, breaking ties by URL.
func (pl PostingList) Sort() {
	slices.SortFunc(pl, func(a, b Posting) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})
}

// FromCounts builds a sorted PostingList from a url→count map.
func FromCounts(counts map[string]int) PostingList {
	pl := make(PostingList, 0, len(counts))
	for url, n := range counts {
		pl = append(pl, Posting{URL: url, Count: n})
	}
	pl.Sort()
	return pl
}
