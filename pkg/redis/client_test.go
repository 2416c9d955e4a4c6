package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func testRedisAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func skipIfNoRedis(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(),
		config.RedisConfig{Addr: testRedisAddr(), PoolSize: 2, DialTimeout: 500 * time.Millisecond},
		config.RetryConfig{MaxAttempts: 1})
	if err != nil {
		t.Skipf("skipping redis test: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestIsNilError(t *testing.T) {
	if !IsNilError(redis.Nil) {
		t.Error("IsNilError(redis.Nil) = false")
	}
	if !IsNilError(fmt.Errorf("wrapped: %w", redis.Nil)) {
		t.Error("IsNilError(wrapped) = false")
	}
	if IsNilError(errors.New("other")) {
		t.Error("IsNilError(other) = true")
	}
}

func TestNewClientUnreachable(t *testing.T) {
	_, err := NewClient(context.Background(),
		config.RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond},
		config.RetryConfig{MaxAttempts: 1})
	if !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Errorf("NewClient() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestSetHashAndScan(t *testing.T) {
	ctx := context.Background()
	c := skipIfNoRedis(t)
	prefix := fmt.Sprintf("dast-maps-client-test:%d:", time.Now().UnixNano())
	t.Cleanup(func() { c.FlushByPattern(context.Background(), prefix+"*") })

	if err := c.SAdd(ctx, prefix+"set", "b", "a"); err != nil {
		t.Fatalf("SAdd() error = %v", err)
	}
	members, _ := c.SMembers(ctx, prefix+"set")
	slices.Sort(members)
	if !slices.Equal(members, []string{"a", "b"}) {
		t.Errorf("SMembers() = %v", members)
	}

	_, err := c.TxPipelined(ctx, func(p Pipeliner) error {
		p.HIncrBy(ctx, prefix+"hash", "x", 3)
		return nil
	})
	if err != nil {
		t.Fatalf("TxPipelined() error = %v", err)
	}
	if v, ok, err := c.HGet(ctx, prefix+"hash", "x"); err != nil || !ok || v != "3" {
		t.Errorf("HGet(x) = %q, %v, %v", v, ok, err)
	}
	if _, ok, err := c.HGet(ctx, prefix+"hash", "missing"); err != nil || ok {
		t.Errorf("HGet(missing) = %v, %v; want absent without error", ok, err)
	}
	if keys, _ := c.HKeys(ctx, prefix+"hash"); !slices.Equal(keys, []string{"x"}) {
		t.Errorf("HKeys() = %v", keys)
	}

	keys, err := c.ScanKeys(ctx, prefix+"*")
	if err != nil || len(keys) != 2 {
		t.Errorf("ScanKeys() = %v, %v", keys, err)
	}
	n, err := c.FlushByPattern(ctx, prefix+"*")
	if err != nil || n != 2 {
		t.Errorf("FlushByPattern() = %d, %v; want 2", n, err)
	}
	if ok, _ := c.Exists(ctx, prefix+"set"); ok {
		t.Error("Exists(set) after flush = true")
	}
}
