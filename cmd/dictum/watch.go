package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/dictum"
)

const watchDebounce = 500 * time.Millisecond

// watch renders once, then again after every debounced change to the
// database files, until ctx is cancelled. Rendering stays on this goroutine
// so the store is never used concurrently.
func (a *app) watch(ctx context.Context, out, errOut io.Writer, render func(io.Writer) error) error {
	if err := render(out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(a.ws.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", a.ws.Dir, err)
	}
	fmt.Fprintf(errOut, "\nWatching for changes... (Press Ctrl+C to exit)\n")

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(errOut, "\nStopped watching.\n")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isStoreWrite(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := render(out); err != nil {
				fmt.Fprintf(errOut, "Error refreshing: %v\n", err)
				continue
			}
			fmt.Fprintf(errOut, "\nWatching for changes... (Press Ctrl+C to exit)\n")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Warnf("watcher error: %v", err)
		}
	}
}

// isStoreWrite matches writes to dictum.db and its WAL side file.
func isStoreWrite(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return strings.HasPrefix(filepath.Base(event.Name), dictum.DBName)
}
