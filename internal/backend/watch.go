package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 50 * time.Millisecond

// Watch follows the store file at path and republishes BACKEND_URL whenever
// another process rewrites it. Subscribers only hear about actual changes.
// The parent directory is watched because the file store replaces the file
// by rename. Watch blocks until ctx is cancelled.
func (p *Provider) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	dir, name := filepath.Dir(path), filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(defaultDebounce, func() {
			if ctx.Err() != nil {
				return
			}
			if err := p.reload(); err != nil {
				p.log.WithError(err).Warn("failed to reload backend URL")
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isStoreFile(filepath.Base(event.Name), name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.WithError(err).Warn("file watcher error")
		}
	}
}

// isStoreFile reports whether base is the store file or one of its sqlite
// sidecars. Temp files written before a rename are ignored.
func isStoreFile(base, name string) bool {
	return base == name || base == name+"-wal" || base == name+"-journal"
}
