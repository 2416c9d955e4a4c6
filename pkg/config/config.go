// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the term
// index, its Redis and Kafka collaborators, logging, metrics and retries.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Index backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the top-level application configuration.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Retry   RetryConfig   `yaml:"retry"`
}

// IndexConfig selects the index backend and sizes the in-memory containers.
type IndexConfig struct {
	Backend        string  `yaml:"backend"`
	InitialBuckets int     `yaml:"initialBuckets"`
	FillFactor     float64 `yaml:"fillFactor"`
	Stem           bool    `yaml:"stem"`
	StopWords      bool    `yaml:"stopWords"`
	Workers        int     `yaml:"workers"`
}

// RedisConfig holds Redis connection parameters and the key namespace used by
// the Redis-backed index.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	PoolSize    int           `yaml:"poolSize"`
	KeyPrefix   string        `yaml:"keyPrefix"`
	DialTimeout time.Duration `yaml:"dialTimeout"`
}

// KafkaConfig holds the broker list and the page ingestion topic.
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	ConsumerGroup string   `yaml:"consumerGroup"`
	PagesTopic    string   `yaml:"pagesTopic"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// RetryConfig controls backoff when connecting to external stores.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay"`
	MaxDelay     time.Duration `yaml:"maxDelay"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Backend:        BackendMemory,
			InitialBuckets: 16,
			FillFactor:     1.0,
			Stem:           false,
			StopWords:      false,
			Workers:        4,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			PoolSize:    10,
			KeyPrefix:   "",
			DialTimeout: 5 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "dast-indexer",
			PagesTopic:    "pages",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidInput.
func (c *Config) Validate() error {
	switch c.Index.Backend {
	case BackendMemory, BackendRedis:
	default:
		return apperrors.Newf(apperrors.ErrInvalidInput, "config", "unknown index backend %q", c.Index.Backend)
	}
	if c.Index.InitialBuckets < 1 {
		return apperrors.Newf(apperrors.ErrInvalidInput, "config", "index.initialBuckets must be at least 1, got %d", c.Index.InitialBuckets)
	}
	if !(c.Index.FillFactor > 0) || math.IsInf(c.Index.FillFactor, 0) {
		return apperrors.Newf(apperrors.ErrInvalidInput, "config", "index.fillFactor must be positive and finite, got %v", c.Index.FillFactor)
	}
	if c.Index.Workers < 1 {
		return apperrors.Newf(apperrors.ErrInvalidInput, "config", "index.workers must be at least 1, got %d", c.Index.Workers)
	}
	if c.Index.Backend == BackendRedis && c.Redis.Addr == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "config", "redis.addr is required for the redis backend")
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return apperrors.Newf(apperrors.ErrInvalidInput, "config", "metrics.port out of range: %d", c.Metrics.Port)
	}
	return nil
}

// applyEnvOverrides reads DM_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DM_INDEX_BACKEND"); v != "" {
		cfg.Index.Backend = v
	}
	if v := os.Getenv("DM_INDEX_INITIAL_BUCKETS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.InitialBuckets = n
		}
	}
	if v := os.Getenv("DM_INDEX_FILL_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Index.FillFactor = f
		}
	}
	if v := os.Getenv("DM_INDEX_STEM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Index.Stem = b
		}
	}
	if v := os.Getenv("DM_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DM_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DM_REDIS_KEY_PREFIX"); v != "" {
		cfg.Redis.KeyPrefix = v
	}
	if v := os.Getenv("DM_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("DM_KAFKA_PAGES_TOPIC"); v != "" {
		cfg.Kafka.PagesTopic = v
	}
	if v := os.Getenv("DM_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DM_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DM_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}
