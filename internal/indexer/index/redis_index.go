package index

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/redis"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

const (
	backendRedis = "redis"

	urlSetPrefix      = "URLSet:"
	termCounterPrefix = "TermCounter:"
)

// RedisIndex stores the index in Redis: a set of URLs per term under
// URLSet:<term> and a hash of term counts per page under TermCounter:<url>.
type RedisIndex struct {
	client   *pkgredis.Client
	prefix   string
	settings Settings
	obs      observer
	logger   *slog.Logger
	lookups  singleflight.Group
}

// NewRedisIndex returns an index whose keys all start with prefix. m may be nil.
func NewRedisIndex(client *pkgredis.Client, prefix string, s Settings, m *metrics.Metrics) *RedisIndex {
	return &RedisIndex{
		client:   client,
		prefix:   prefix,
		settings: s,
		obs:      observer{m: m, backend: backendRedis},
		logger:   logger.WithComponent("redis-index"),
	}
}

func (r *RedisIndex) urlSetKey(term string) string {
	return r.prefix + urlSetPrefix + term
}

func (r *RedisIndex) termCounterKey(url string) string {
	return r.prefix + termCounterPrefix + url
}

func storeErr(op string, err error) error {
	return fmt.Errorf("redis index %s: %w: %w", op, apperrors.ErrStoreUnavailable, err)
}

// Store replaces the stored counts of tc's page and moves the page between
// URL sets in a single MULTI/EXEC transaction.
func (r *RedisIndex) Store(ctx context.Context, tc *TermCounter) error {
	url := tc.Label()
	counterKey := r.termCounterKey(url)
	oldTerms, err := r.client.HKeys(ctx, counterKey)
	if err != nil && !pkgredis.IsNilError(err) {
		return storeErr("store", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe pkgredis.Pipeliner) error {
		for _, term := range oldTerms {
			pipe.SRem(ctx, r.urlSetKey(term), url)
		}
		pipe.Del(ctx, counterKey)
		for term, n := range tc.All() {
			pipe.SAdd(ctx, r.urlSetKey(term), url)
			pipe.HIncrBy(ctx, counterKey, term, int64(n))
		}
		return nil
	})
	if err != nil {
		return storeErr("store", err)
	}
	r.obs.stored(tc.Len())
	logger.FromContext(ctx).Debug("page indexed",
		"backend", backendRedis,
		"url", url,
		"terms", tc.Len(),
		"replaced_terms", len(oldTerms),
	)
	return nil
}

func (r *RedisIndex) IndexPage(ctx context.Context, url string, root *html.Node) error {
	tc := NewTermCounter(url, r.settings)
	tc.ProcessTree(root)
	return r.Store(ctx, tc)
}

func (r *RedisIndex) Add(ctx context.Context, term string, tc *TermCounter) error {
	if err := r.client.SAdd(ctx, r.urlSetKey(term), tc.Label()); err != nil {
		return storeErr("add", err)
	}
	return nil
}

func (r *RedisIndex) URLs(ctx context.Context, term string) ([]string, error) {
	defer r.obs.lookup("urls", time.Now())
	urls, err := r.client.SMembers(ctx, r.urlSetKey(term))
	if err != nil {
		return nil, storeErr("urls", err)
	}
	slices.Sort(urls)
	return urls, nil
}

// Counts fetches the count of term for every URL in its set with one
// pipelined round of HGETs. Concurrent calls for the same term share one
// round trip; cancelling one caller does not fail the others.
func (r *RedisIndex) Counts(ctx context.Context, term string) (map[string]int, error) {
	counts, err := shared(ctx, &r.lookups, term, func(ctx context.Context) (map[string]int, error) {
		return r.fetchCounts(ctx, term)
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(counts), nil
}

// shared runs fetch at most once per key among concurrent callers. The fetch
// keeps the values of the first caller's ctx but not its cancellation, and
// every caller stops waiting when its own ctx is done.
func shared[T any](ctx context.Context, g *singleflight.Group, key string, fetch func(context.Context) (T, error)) (T, error) {
	ch := g.DoChan(key, func() (any, error) {
		return fetch(context.WithoutCancel(ctx))
	})
	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (r *RedisIndex) fetchCounts(ctx context.Context, term string) (map[string]int, error) {
	urls, err := r.URLs(ctx, term)
	if err != nil {
		return nil, err
	}
	defer r.obs.lookup("counts", time.Now())
	counts := make(map[string]int, len(urls))
	if len(urls) == 0 {
		return counts, nil
	}
	cmds := make([]*pkgredis.StringCmd, len(urls))
	_, err = r.client.Pipelined(ctx, func(pipe pkgredis.Pipeliner) error {
		for i, url := range urls {
			cmds[i] = pipe.HGet(ctx, r.termCounterKey(url), term)
		}
		return nil
	})
	if err != nil && !pkgredis.IsNilError(err) {
		return nil, storeErr("counts", err)
	}
	for i, cmd := range cmds {
		n, err := cmd.Int()
		if pkgredis.IsNilError(err) {
			continue
		}
		if err != nil {
			return nil, storeErr("counts", err)
		}
		counts[urls[i]] = n
	}
	return counts, nil
}

func (r *RedisIndex) Count(ctx context.Context, url, term string) (int, error) {
	defer r.obs.lookup("count", time.Now())
	v, ok, err := r.client.HGet(ctx, r.termCounterKey(url), term)
	if err != nil {
		return 0, storeErr("count", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("redis index count %s/%s: %w", url, term, err)
	}
	return n, nil
}

func (r *RedisIndex) Terms(ctx context.Context) ([]string, error) {
	keys, err := r.client.ScanKeys(ctx, r.urlSetKey("*"))
	if err != nil {
		return nil, storeErr("terms", err)
	}
	cut := len(r.urlSetKey(""))
	terms := make([]string, 0, len(keys))
	for _, key := range keys {
		terms = append(terms, key[cut:])
	}
	slices.Sort(terms)
	return slices.Compact(terms), nil
}

func (r *RedisIndex) IsIndexed(ctx context.Context, url string) (bool, error) {
	ok, err := r.client.Exists(ctx, r.termCounterKey(url))
	if err != nil {
		return false, storeErr("is-indexed", err)
	}
	return ok, nil
}

// DeleteURLSets removes every URLSet key under the prefix.
func (r *RedisIndex) DeleteURLSets(ctx context.Context) (int64, error) {
	return r.flush(ctx, r.urlSetKey("*"))
}

// DeleteTermCounters removes every TermCounter key under the prefix.
func (r *RedisIndex) DeleteTermCounters(ctx context.Context) (int64, error) {
	return r.flush(ctx, r.termCounterKey("*"))
}

// DeleteAll removes every key under the prefix. With an empty prefix that is
// every key in the selected database.
func (r *RedisIndex) DeleteAll(ctx context.Context) (int64, error) {
	return r.flush(ctx, r.prefix+"*")
}

func (r *RedisIndex) flush(ctx context.Context, pattern string) (int64, error) {
	n, err := r.client.FlushByPattern(ctx, pattern)
	if err != nil {
		return n, storeErr("delete", err)
	}
	r.logger.Info("keys deleted", "pattern", pattern, "count", n)
	return n, nil
}
