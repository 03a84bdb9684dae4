package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"inkpaint/internal/composite"
	"inkpaint/internal/logging"
)

// settle is how long a script must stay quiet before it is replayed.
// Editors commonly emit several writes per save.
const settle = 150 * time.Millisecond

// Watch replays a script whenever a *.json file in dir is created or
// written, calling fn with each result. It returns when ctx is done.
func Watch(ctx context.Context, cfg Config, dir string, fn func(Result)) error {
	if cfg.Backend == nil {
		cfg.Backend = composite.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("batch: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("batch: watch %s: %w", dir, err)
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[ev.Name] = time.Now()
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				delete(pending, ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Logger().Warn("watch error", "dir", dir, "err", err)
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				logging.Logger().Info("replaying script", "job", name)
				fn(processJob(cfg, Job{Name: name, Path: path}))
			}
		}
	}
}
