package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultWatchDebounce = 2 * time.Second

// Watcher re-sorts a folder whenever new files settle in it.
type Watcher struct {
	sorter   Sorter
	logger   *slog.Logger
	debounce time.Duration
}

func NewWatcher(sorter Sorter, logger *slog.Logger, debounce time.Duration) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &Watcher{sorter: sorter, logger: logger, debounce: debounce}
}

// Run sorts once, then again after each burst of arrivals, until ctx ends.
// Only the top level of the folder is watched and sorted.
func (watcher *Watcher) Run(ctx context.Context, req SortRequest, onSummary func(Summary)) error {
	folder := cleanPath(req.Folder)
	req.Folder = folder
	req.Recursive = false
	req.Confirm = nil

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer notifier.Close()

	// Watch first so files landing during the initial sort still trigger one.
	if err := notifier.Add(folder); err != nil {
		return fmt.Errorf("watch %s: %w", folder, err)
	}
	timer := time.NewTimer(watcher.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	if err := watcher.sortOnce(ctx, req, onSummary); err != nil {
		return err
	}
	watcher.logger.Info("watching folder", "folder", folder, "debounce", watcher.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(folder, event, req.SkipHidden, os.Stat) {
				continue
			}
			watcher.logger.Debug("file arrived", "file", event.Name)
			timer.Reset(watcher.debounce)
		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			watcher.logger.Warn("watcher error", "error", err)
		case <-timer.C:
			if err := watcher.sortOnce(ctx, req, onSummary); err != nil {
				return err
			}
		}
	}
}

func (watcher *Watcher) sortOnce(ctx context.Context, req SortRequest, onSummary func(Summary)) error {
	summary, err := watcher.sorter.Sort(ctx, req)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			watcher.logger.Warn("folder busy, retrying on next arrival", "folder", req.Folder)
			return nil
		}
		return err
	}
	if onSummary != nil && summary.Total > 0 {
		onSummary(summary)
	}
	return nil
}

// relevantEvent keeps creations and writes of regular files directly inside
// folder. Directories, including the ones sorting creates, are ignored, and so
// are dotfiles when skipHidden is set.
func relevantEvent(folder string, event fsnotify.Event, skipHidden bool, stat func(string) (os.FileInfo, error)) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if filepath.Dir(event.Name) != folder || !isWithin(folder, event.Name) {
		return false
	}
	if skipHidden && isHidden(filepath.Base(event.Name)) {
		return false
	}
	info, err := stat(event.Name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
