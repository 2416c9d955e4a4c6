// Package kafka carries pages between processes over Kafka using
// segmentio/kafka-go. Values are JSON; the consumer hands each message to a
// MessageHandler and commits it once the handler is done with it.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/resilience"
	"github.com/segmentio/kafka-go"
)

// MessageHandler is a callback invoked for each Kafka message.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// ErrSkip marks a message the handler can never process. It is committed
// without retrying.
var ErrSkip = errors.New("kafka: skip message")

// Consumer reads the pages topic and dispatches each message to a handler,
// retrying failed messages before giving up on them.
type Consumer struct {
	reader  *kafka.Reader
	logger  *slog.Logger
	handler MessageHandler
	retry   resilience.RetryConfig
}

// NewConsumer creates a group consumer for cfg.PagesTopic. A new group starts
// at the oldest retained message so no page published before the first run
// is missed.
func NewConsumer(cfg config.KafkaConfig, retry config.RetryConfig, handler MessageHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.PagesTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.FirstOffset,
	})
	return &Consumer{
		reader:  r,
		logger:  slog.Default().With("component", "kafka-consumer", "topic", cfg.PagesTopic),
		handler: handler,
		retry:   resilience.FromConfig(retry),
	}
}

// Start enters the consume loop and returns when ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started")
	defer c.logStats()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", "reason", ctx.Err())
				return nil
			}
			c.logger.Error("failed to fetch message", "error", err)
			continue
		}
		log := c.logger.With("partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))
		log.Debug("message received", "value_size", len(msg.Value))

		err = c.handle(ctx, msg)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrSkip):
			log.Warn("message skipped", "error", err)
		case err != nil:
			log.Error("message dropped after retries", "error", err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error("failed to commit message", "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	return resilience.Retry(ctx, "kafka-handle", c.retry, func() error {
		err := c.handler(ctx, msg.Key, msg.Value)
		if errors.Is(err, ErrSkip) {
			return resilience.Permanent(err)
		}
		return err
	})
}

func (c *Consumer) logStats() {
	s := c.reader.Stats()
	c.logger.Info("consumer stats",
		"messages", s.Messages,
		"bytes", s.Bytes,
		"errors", s.Errors,
		"lag", s.Lag,
	)
}

// Ping dials the first reachable broker.
func Ping(ctx context.Context, cfg config.KafkaConfig) error {
	var errs []error
	for _, broker := range cfg.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			return conn.Close()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return errors.New("kafka: no brokers configured")
	}
	return errors.Join(errs...)
}

// Close closes the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// DecodeJSON unmarshals a message value into T. Malformed values are wrapped
// in ErrSkip since retrying cannot fix them.
func DecodeJSON[T any](value []byte) (T, error) {
	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return result, fmt.Errorf("decoding kafka message: %w: %w", ErrSkip, err)
	}
	return result, nil
}
