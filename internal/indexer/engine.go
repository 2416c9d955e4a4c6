// Package indexer turns HTML pages into term counts and stores them in an
// index.Index.
package indexer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/document"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/tracing"
	"golang.org/x/sync/errgroup"
)

// PageEvent is the Kafka payload carrying one page to index.
type PageEvent struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// Source is a page waiting to be indexed. Open is called at most once.
type Source struct {
	URL  string
	Open func() (io.ReadCloser, error)
}

// FileSource reads the page at path and labels it with the path.
func FileSource(path string) Source {
	return Source{
		URL:  path,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

type Engine struct {
	idx      index.Index
	settings index.Settings
	workers  int
}

// NewEngine returns an Engine storing into idx. workers bounds IndexAll's
// parallelism and is raised to 1 if smaller.
func NewEngine(idx index.Index, s index.Settings, workers int) *Engine {
	return &Engine{
		idx:      idx,
		settings: s,
		workers:  max(workers, 1),
	}
}

func (e *Engine) Index() index.Index {
	return e.idx
}

// Count parses the page in r and counts the terms of its paragraphs.
func (e *Engine) Count(url string, r io.Reader) (*index.TermCounter, error) {
	root, err := document.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	tc := index.NewTermCounter(url, e.settings)
	tc.ProcessParagraphs(document.Paragraphs(root))
	return tc, nil
}

// IndexDocument counts the page in r and stores it under url.
func (e *Engine) IndexDocument(ctx context.Context, url string, r io.Reader) error {
	tc, err := e.Count(url, r)
	if err != nil {
		return err
	}
	if err := e.idx.Store(ctx, tc); err != nil {
		return fmt.Errorf("storing %s: %w", url, err)
	}
	return nil
}

// IndexAll counts the pages concurrently and stores them in input order, so
// a URL listed twice keeps its last page. It stops at the first failure.
func (e *Engine) IndexAll(ctx context.Context, sources []Source) error {
	log := logger.FromContext(ctx).With("component", "indexer")
	ctx, span := tracing.Start(ctx, "index_all", logger.RunID(ctx))
	defer func() {
		span.End()
		span.Log(log)
	}()
	counters := make([]*index.TermCounter, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, child := tracing.StartChild(gctx, "count")
			defer child.End()
			child.SetAttr("url", src.URL)
			rc, err := src.Open()
			if err != nil {
				return fmt.Errorf("opening %s: %w", src.URL, err)
			}
			defer rc.Close()
			tc, err := e.Count(src.URL, rc)
			if err != nil {
				return err
			}
			child.SetAttr("tokens", tc.Size())
			counters[i] = tc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	_, storeSpan := tracing.StartChild(ctx, "store")
	defer storeSpan.End()
	tokens := 0
	for _, tc := range counters {
		if err := e.idx.Store(ctx, tc); err != nil {
			return fmt.Errorf("storing %s: %w", tc.Label(), err)
		}
		tokens += tc.Size()
	}
	log.Info("pages indexed",
		"pages", len(counters),
		"tokens", tokens,
		"workers", e.workers,
		"duration", time.Since(span.Start),
	)
	return nil
}
