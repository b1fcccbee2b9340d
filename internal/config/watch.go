// internal/config/watch.go
package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/darealtrueblue/codeforge/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the write bursts editors produce when saving.
const reloadDebounce = 250 * time.Millisecond

// Watch monitors the given config file and calls onChange with a freshly
// reloaded Config whenever the file is written or replaced. The parent
// directory is watched because many editors save via rename, which drops a
// watch placed on the file itself. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, filePath string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(filePath)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case <-timerC:
			timerC = nil
			timer = nil
			cfg, err := Reload(target)
			if err != nil {
				logger.Warnf("Config reload failed: %v", err)
				continue
			}
			logger.DebugTagf("config", "Config file changed, reloaded: %s", target)
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Config watcher error: %v", err)
		}
	}
}
