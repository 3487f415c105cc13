package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watchDevices calls start for every event node that appears under
// /dev/input while running. The kernel creates nodes a moment before the
// device is readable, so starters should expect an EACCES-flavored first
// attempt and lean on the monitor's retry loop.
func watchDevices(ctx context.Context, start func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add("/dev/input"); err != nil {
		return fmt.Errorf("watch /dev/input: %w", err)
	}

	logger := Logger(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), "event") {
				continue
			}

			logger.Info("device appeared", "path", ev.Name)
			start(ev.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch devices", slogErr(err))
		}
	}
}
