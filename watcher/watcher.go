// Package watcher reports the content of a file each time it is saved.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher follows one file. The parent directory is watched so editors
// that save by rename are still seen.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
}

func New(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, fsw: fsw, logger: logger, debounce: defaultDebounce}, nil
}

// SetDebounce changes how long a burst of events must be quiet before the
// file is read.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run calls onChange with the file content after each settled change. It
// blocks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(content string)) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("File event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			data, err := os.ReadFile(w.path)
			if err != nil {
				// Mid-rename saves can briefly remove the file.
				w.logger.Debug("Read after change failed", zap.Error(err))
				continue
			}
			onChange(string(data))
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
