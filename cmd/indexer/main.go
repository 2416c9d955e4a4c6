package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	sourceFiles = "files"
	sourceKafka = "kafka"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	source := flag.String("source", sourceFiles, "where pages come from: files or kafka")
	publish := flag.Bool("publish", false, "publish the given files to the pages topic instead of indexing them")
	watch := flag.String("watch", "", "comma-separated directories to re-index pages from as they change (files source)")
	reset := flag.String("reset", "", "delete stored index state before indexing: urls, counters or all")
	dump := flag.Bool("dump", false, "print every term and its locations after indexing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, logger.NewRunID())

	opts := runOptions{
		source:    *source,
		publish:   *publish,
		watchDirs: splitList(*watch),
		reset:     *reset,
		dump:      *dump,
		files:     flag.Args(),
	}
	if err := run(ctx, cfg, opts); err != nil {
		logger.FromContext(ctx).Error("indexer failed", "error", err)
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type runOptions struct {
	source    string
	publish   bool
	watchDirs []string
	reset     string
	dump      bool
	files     []string
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	log := logger.FromContext(ctx)
	source, files, watchDirs := opts.source, opts.files, opts.watchDirs
	if opts.publish {
		return publishFiles(ctx, cfg.Kafka, files)
	}
	if source != sourceFiles && source != sourceKafka {
		return apperrors.Newf(apperrors.ErrInvalidInput, "indexer", "unknown source %q", source)
	}
	resetOnly := opts.reset != "" && len(files) == 0 && len(watchDirs) == 0
	if source == sourceFiles && len(files) == 0 && len(watchDirs) == 0 && !resetOnly && !opts.dump {
		return apperrors.New(apperrors.ErrInvalidInput, "indexer", "no files given")
	}

	var m *metrics.Metrics
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		m = metrics.New(reg)
	}

	idx, closeIndex, err := index.Open(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer closeIndex()

	if opts.reset != "" {
		n, err := index.Reset(ctx, idx, opts.reset)
		if err != nil {
			return err
		}
		log.Info("index reset", "scope", opts.reset, "deleted", n)
		if resetOnly && !opts.dump {
			return nil
		}
	}

	if cfg.Metrics.Enabled {
		checker := health.NewChecker(2 * time.Second)
		checker.Register("index", func(ctx context.Context) error {
			_, err := idx.IsIndexed(ctx, "")
			return err
		})
		if source == sourceKafka {
			checker.Register("kafka", func(ctx context.Context) error {
				return kafka.Ping(ctx, cfg.Kafka)
			})
		}
		shutdown := metrics.StartServer(cfg.Metrics.Port, reg, checker.ReadyHandler())
		defer shutdown(context.Background())
	}
	engine := indexer.NewEngine(idx, index.SettingsFromConfig(cfg.Index), cfg.Index.Workers)
	log.Info("starting indexer",
		"backend", cfg.Index.Backend,
		"source", source,
		"workers", cfg.Index.Workers,
	)

	if source == sourceKafka {
		c := kafka.NewConsumer(cfg.Kafka, cfg.Retry, consumer.HandleMessage(engine))
		defer c.Close()
		return consumer.New(c).Start(ctx)
	}

	sources := make([]indexer.Source, len(files))
	for i, f := range files {
		sources[i] = indexer.FileSource(f)
	}
	if err := engine.IndexAll(ctx, sources); err != nil {
		return err
	}
	if len(watchDirs) > 0 {
		w, err := indexer.NewWatcher(engine, watchDirs, ".html", ".htm")
		if err != nil {
			return apperrors.Newf(apperrors.ErrInvalidInput, "indexer", "%v", err)
		}
		return w.Run(ctx)
	}
	if opts.dump {
		return index.Dump(ctx, idx, os.Stdout)
	}
	terms, err := idx.Terms(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d files, %d distinct terms\n", len(files), len(terms))
	return nil
}

func publishFiles(ctx context.Context, cfg config.KafkaConfig, files []string) error {
	if len(files) == 0 {
		return apperrors.New(apperrors.ErrInvalidInput, "publish", "no files given")
	}
	events := make([]kafka.Event, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return apperrors.Newf(apperrors.ErrInvalidInput, "publish", "reading %s: %v", f, err)
		}
		events = append(events, consumer.Event(indexer.PageEvent{URL: f, HTML: string(data)}))
	}
	p := kafka.NewProducer(cfg)
	defer p.Close()
	if err := p.Publish(ctx, events...); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	slog.Info("pages published", "count", len(events), "topic", cfg.PagesTopic)
	return nil
}
