package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/dast-maps/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// Watcher re-indexes pages in a set of directories as they are created or
// rewritten.
type Watcher struct {
	engine  *Engine
	fs      *fsnotify.Watcher
	dirs    []string
	exts    []string
	indexed int
}

// NewWatcher watches dirs for files ending in one of exts, or every file when
// exts is empty. Directories are not watched recursively.
func NewWatcher(engine *Engine, dirs []string, exts ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return &Watcher{engine: engine, fs: fs, dirs: dirs, exts: exts}, nil
}

func (w *Watcher) wants(name string) bool {
	if len(w.exts) == 0 {
		return true
	}
	return slices.ContainsFunc(w.exts, func(ext string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	})
}

// Run handles events until ctx is done. A page that fails to index is logged
// and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	log := logger.FromContext(ctx).With("component", "watcher")
	log.Info("watching for pages", "dirs", w.dirs)
	for {
		select {
		case <-ctx.Done():
			log.Info("watcher stopping", "indexed", w.indexed)
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.wants(ev.Name) {
				continue
			}
			if err := w.index(ctx, ev.Name); err != nil {
				log.Warn("failed to index page", "path", ev.Name, "error", err)
				continue
			}
			w.indexed++
			log.Debug("page re-indexed", "path", ev.Name, "op", ev.Op.String())
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) index(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return w.engine.IndexDocument(ctx, path, f)
}
