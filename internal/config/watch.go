package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads configuration whenever the user or project config file
// changes, invoking onChange with the freshly loaded Config. It blocks
// until ctx is cancelled. Reload errors are swallowed so a half-written
// file during an editor save does not kill the watcher; the next clean
// write triggers another reload.
func Watch(ctx context.Context, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories rather than files so renames (how most editors
	// save) keep the watch alive.
	watched := map[string]bool{}
	for _, path := range []string{GetUserConfigPath(), GetProjectConfigPath()} {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			continue
		}
		watched[dir] = true
	}
	if len(watched) == 0 {
		return fmt.Errorf("no config locations available to watch")
	}

	var debounce *time.Timer
	reload := func() {
		cfg, err := Load()
		if err != nil {
			return
		}
		onChange(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors emit bursts of events per save; collapse them.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, reload)
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == "config.yaml" || base == ".taskpilot.yaml"
}
