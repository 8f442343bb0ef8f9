package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// Watch calls fn with the new state whenever the FileStore's file is
// written, replaced or removed by any process. It blocks until ctx is
// done.
//
// The parent directory is watched rather than the file so that renames
// from Save and removals from Delete are both seen.
func Watch(ctx context.Context, m *Manager, store *FileStore, fn func(State)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(store.Path())
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	log := logger.L(ctx).With("component", "session-watcher")
	log.Debug("watching session file", "path", store.Path())

	last := m.State()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(store.Path()) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			state := m.State()
			if state == last {
				continue
			}
			log.Debug("session state changed", "op", event.Op.String(), "state", state.String())
			last = state
			fn(state)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("session watcher error", "error", err)
		}
	}
}
