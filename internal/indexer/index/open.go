package index

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/redis"
)

// Open builds the backend named by cfg.Index.Backend. The returned close
// function releases its connections and is never nil.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (Index, func() error, error) {
	s := SettingsFromConfig(cfg.Index)
	if cfg.Index.Backend != config.BackendRedis {
		return NewMemoryIndex(s, m), func() error { return nil }, nil
	}
	client, err := pkgredis.NewClient(ctx, cfg.Redis, cfg.Retry)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return NewRedisIndex(client, cfg.Redis.KeyPrefix, s, m), client.Close, nil
}
