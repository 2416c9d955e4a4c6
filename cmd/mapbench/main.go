package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/bucketed"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/hashmap"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/linear"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/maps/treemap"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	n := flag.Int("n", 100000, "number of keys")
	linearN := flag.Int("linear-n", 2000, "number of keys for the linear map, which is quadratic")
	seed := flag.Uint64("seed", 1, "key shuffle seed")
	hold := flag.Bool("hold", false, "keep serving metrics until interrupted")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if *n < 1 || *linearN < 1 {
		err := apperrors.New(apperrors.ErrInvalidInput, "mapbench", "-n and -linear-n must be positive")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitCode(err))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, reg, nil)
		defer shutdown(context.Background())
	}

	keys := randomKeys(*n, *seed)
	buckets := cfg.Index.InitialBuckets

	var results []result
	lin := linear.New[int, int]()
	results = append(results, exercise("linear", lin, keys[:min(*linearN, *n)]))

	fixed := bucketed.New[int, int](buckets)
	r := exercise("bucketed", fixed, keys)
	r.details = fmt.Sprintf("buckets=%d", fixed.Buckets())
	results = append(results, r)

	grow := hashmap.New[int, int](buckets,
		hashmap.WithFactor(cfg.Index.FillFactor),
		hashmap.WithRehashHook(m.RehashHook("mapbench")),
	)
	r = exercise("hashmap", grow, keys)
	r.details = fmt.Sprintf("buckets=%d", grow.Buckets())
	results = append(results, r)

	tree := treemap.New[int, int]()
	r = exercise("treemap", tree, keys)
	r.details = fmt.Sprintf("height=%d", tree.Height())
	results = append(results, r)

	printResults(os.Stdout, results)
	slog.Debug("bench complete", "keys", *n, "seed", *seed)

	if *hold && cfg.Metrics.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		slog.Info("serving metrics until interrupted", "port", cfg.Metrics.Port)
		<-ctx.Done()
	}
}
