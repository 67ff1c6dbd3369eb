package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits after the last change to the file
// before reloading it. Editors often write a file in several steps.
const WatchDebounce = 250 * time.Millisecond

// Watch reloads the config file at path whenever it changes and sends each
// reloaded config that passes Validate. Invalid configs are logged and
// skipped. The channel is closed when ctx is done.
func Watch(ctx context.Context, path string) (<-chan *Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: editors replace the file by renaming over it,
	// which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	out := make(chan *Config)
	go watchLoop(ctx, watcher, path, out)
	return out, nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, out chan<- *Config) {
	defer close(out)
	defer watcher.Close()

	timer := time.NewTimer(WatchDebounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false

			cfg, err := Load(path)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				log.Printf("Config reload failed: %v (keeping current settings)", err)
				continue
			}
			log.Printf("Config reloaded from %s", path)

			select {
			case out <- cfg:
			case <-ctx.Done():
				return
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				pending = true
				timer.Reset(WatchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}
