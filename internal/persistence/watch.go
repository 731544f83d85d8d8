package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexisbeaulieu97/brandkit/internal/ports"
)

// DefaultWatchDebounce groups the bursts of events one write produces.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watcher reports writes to the bundle persisted in a data directory by any
// process, for either backend.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	logger   ports.Logger
}

// NewWatcher watches dataDir. Close releases it.
func NewWatcher(dataDir string, logger ports.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dataDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dataDir, err)
	}
	return &Watcher{
		fs:       fsw,
		dir:      dataDir,
		debounce: DefaultWatchDebounce,
		logger:   logger.With("component", "watcher"),
	}, nil
}

// SetDebounce changes the quiet period waited for before onChange runs.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run calls onChange once per burst of writes to the persisted bundle until
// ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Debug(ctx, "watching token store", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(ctx)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "token store watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == Key+".json" || strings.HasPrefix(name, SQLiteFile)
}
