package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/planfsa/internal/config"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long the watcher waits for more changes before relearning.
var WatchDebounce = 200 * time.Millisecond

// Watch learns the plan directory, then relearns every time it changes, until
// ctx ends. Learn failures are reported and the watcher keeps waiting.
func Watch(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	session, err := NewSession(cfg, out, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.Plans.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Plans.Dir, err)
	}
	logger.Info("Starting Watcher", "path", cfg.Plans.Dir)

	for {
		if _, err := session.Run(ctx); err != nil {
			if isInterrupted(err) {
				return err
			}
			logger.Error("Learn failed", "err", err)
			printSystemMessage(out, "Learning failed: %v", err)
		}

		printSystemMessage(out, "Waiting for changes in '%s'...", cfg.Plans.Dir)
		changed, err := waitForChange(ctx, watcher, logger)
		if err != nil {
			return err
		}
		logger.Info("Change detected, relearning", "file", changed)
		printSystemMessage(out, "Change detected in '%s'.", changed)
	}
}

// waitForChange blocks until a burst of plan directory events has settled and
// returns the last file touched.
func waitForChange(ctx context.Context, w *fsnotify.Watcher, logger *slog.Logger) (string, error) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return "", context.Canceled
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
				fire = timer.C
			} else {
				timer.Reset(WatchDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return "", context.Canceled
			}
			logger.Warn("Watcher error", "err", err)

		case <-fire:
			return changed, nil
		}
	}
}
