package index

import (
	"context"
	"fmt"
	"io"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
)

// Reset scopes accepted by Reset.
const (
	ResetURLSets      = "urls"
	ResetTermCounters = "counters"
	ResetAll          = "all"
)

// Resetter is implemented by indexes whose stored state can be dropped.
type Resetter interface {
	DeleteURLSets(ctx context.Context) (int64, error)
	DeleteTermCounters(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Reset deletes the part of idx named by scope and returns the number of
// entries removed.
func Reset(ctx context.Context, idx Index, scope string) (int64, error) {
	r, ok := idx.(Resetter)
	if !ok {
		return 0, apperrors.Newf(apperrors.ErrInvalidInput, "reset", "index %T cannot be reset", idx)
	}
	var (
		n   int64
		err error
	)
	switch scope {
	case ResetURLSets:
		n, err = r.DeleteURLSets(ctx)
	case ResetTermCounters:
		n, err = r.DeleteTermCounters(ctx)
	case ResetAll:
		n, err = r.DeleteAll(ctx)
	default:
		return 0, apperrors.Newf(apperrors.ErrInvalidInput, "reset", "unknown scope %q, want urls, counters or all", scope)
	}
	return n, err
}

// Dump writes every term followed by one indented "url count" line per
// location, terms and locations in ascending order.
func Dump(ctx context.Context, idx Index, w io.Writer) error {
	terms, err := idx.Terms(ctx)
	if err != nil {
		return err
	}
	for _, term := range terms {
		urls, err := idx.URLs(ctx, term)
		if err != nil {
			return err
		}
		counts, err := idx.Counts(ctx, term)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, term); err != nil {
			return err
		}
		for _, url := range urls {
			if _, err := fmt.Fprintf(w, "  %s %d\n", url, counts[url]); err != nil {
				return err
			}
		}
	}
	return nil
}
