package repositorygen

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jrazmi/repogen/app/generators/schema"
)

// Loader reads the tables to generate from a descriptor file.
type Loader func(path string) ([]*schema.TableSchema, error)

// settle is how long Watch waits after the last change before regenerating.
const settle = 100 * time.Millisecond

// Watch runs the batch once, then again whenever the descriptor file at path
// changes, until ctx is done. Load and generation failures are logged and do
// not stop the watch.
func (g *Generator) Watch(ctx context.Context, path string, load Loader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched so editors that replace the file are still seen.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}

	regenerate := func() {
		tables, err := load(target)
		if err != nil {
			g.log.ErrorContext(ctx, "load descriptor", "path", target, "err", err)
			return
		}
		g.Run(ctx, tables)
	}

	regenerate()
	g.log.InfoContext(ctx, "watching", "path", target)

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.log.ErrorContext(ctx, "watch", "err", err)

		case <-timer.C:
			g.log.InfoContext(ctx, "descriptor changed", "path", target)
			regenerate()
		}
	}
}
