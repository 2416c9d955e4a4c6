package index

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/tokenizer"
)

// Search returns the pages containing every term of query, ranked by the
// total number of occurrences of those terms.
func Search(ctx context.Context, idx Index, query string, opts tokenizer.Options) (PostingList, error) {
	terms := tokenizer.Terms(query, opts)
	if len(terms) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(terms))
	var totals map[string]int
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		counts, err := idx.Counts(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("search term %q: %w", term, err)
		}
		if totals == nil {
			totals = counts
			continue
		}
		for url, total := range totals {
			n, ok := counts[url]
			if !ok {
				delete(totals, url)
				continue
			}
			totals[url] = total + n
		}
		if len(totals) == 0 {
			return nil, nil
		}
	}
	if len(totals) == 0 {
		return nil, nil
	}
	return FromCounts(totals), nil
}
