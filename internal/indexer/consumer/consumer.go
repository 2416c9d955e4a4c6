// Package consumer indexes the pages arriving on the Kafka pages topic.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/kafka"
)

// IndexConsumer wraps a Kafka consumer to drive the indexing pipeline.
type IndexConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

func New(kafkaConsumer *kafka.Consumer) *IndexConsumer {
	return &IndexConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "index-consumer"),
	}
}

// Start consumes pages until ctx is cancelled.
func (ic *IndexConsumer) Start(ctx context.Context) error {
	ic.logger.Info("index consumer starting")
	return ic.consumer.Start(ctx)
}

// Event wraps a page for publishing, keyed by its URL.
func Event(page indexer.PageEvent) kafka.Event {
	return kafka.Event{Key: page.URL, Value: page}
}

// HandleMessage returns a MessageHandler that decodes each PageEvent and
// indexes it with engine. Events without a URL are skipped.
func HandleMessage(engine *indexer.Engine) kafka.MessageHandler {
	logger := slog.Default().With("component", "index-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		page, err := kafka.DecodeJSON[indexer.PageEvent](value)
		if err != nil {
			return err
		}
		if page.URL == "" {
			return fmt.Errorf("page event with key %q has no url: %w", key, kafka.ErrSkip)
		}
		if err := engine.IndexDocument(ctx, page.URL, strings.NewReader(page.HTML)); err != nil {
			return fmt.Errorf("indexing %s: %w", page.URL, err)
		}
		logger.Info("page indexed", "url", page.URL, "bytes", len(page.HTML))
		return nil
	}
}
