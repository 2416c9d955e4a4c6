package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	load := flag.String("load", "", "glob of HTML files to index before searching")
	limit := flag.Int("limit", 10, "maximum results to print, 0 for all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logger.WithRunID(context.Background(), logger.NewRunID())

	if err := run(ctx, cfg, *load, *limit, strings.Join(flag.Args(), " ")); err != nil {
		logger.FromContext(ctx).Error("search failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, cfg *config.Config, load string, limit int, query string) error {
	if strings.TrimSpace(query) == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "search", "empty query")
	}
	idx, closeIndex, err := index.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeIndex()

	if load != "" {
		files, err := filepath.Glob(load)
		if err != nil {
			return apperrors.Newf(apperrors.ErrInvalidInput, "search", "bad glob %q: %v", load, err)
		}
		sources := make([]indexer.Source, len(files))
		for i, f := range files {
			sources[i] = indexer.FileSource(f)
		}
		engine := indexer.NewEngine(idx, index.SettingsFromConfig(cfg.Index), cfg.Index.Workers)
		if err := engine.IndexAll(ctx, sources); err != nil {
			return err
		}
	}

	results, err := index.Search(ctx, idx, query, index.SettingsFromConfig(cfg.Index).Tokenizer)
	if err != nil {
		return err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for _, r := range results {
		fmt.Printf("%s %d\n", r.URL, r.Count)
	}
	return nil
}
