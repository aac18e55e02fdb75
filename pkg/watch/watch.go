// Package watch re-runs a function whenever one of a set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/log"
)

const DefaultDebounce = 150 * time.Millisecond

var ErrNoWatchableDir = errors.New("no watchable directory")

// Watcher watches a fixed set of files. Files do not need to exist yet: the
// closest existing parent directory is watched until they do.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
}

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithDebounce sets how long to wait for further events before running.
func WithDebounce(d time.Duration) Opt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a new [Watcher] for paths.
func New(paths []string, opts ...Opt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}, len(paths)),
		dirs:     make(map[string]struct{}),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()

			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}

		w.files[abs] = struct{}{}
	}

	err = w.addDirs()
	if err != nil {
		_ = fw.Close()

		return nil, err
	}

	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close fsnotify watcher: %w", err)
	}

	return nil
}

// addDirs watches the closest existing parent directory of every file.
func (w *Watcher) addDirs() error {
	for file := range w.files {
		dir := closestDir(filepath.Dir(file))
		if dir == "" {
			continue
		}

		if _, ok := w.dirs[dir]; ok {
			continue
		}

		err := w.watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("add path to watcher: %w", err)
		}

		w.dirs[dir] = struct{}{}
	}

	if len(w.dirs) == 0 {
		return ErrNoWatchableDir
	}

	return nil
}

func closestDir(dir string) string {
	for {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}

// Relevant reports whether evt may change the content of a watched file.
func (w *Watcher) Relevant(evt fsnotify.Event) bool {
	// Ignore events that are not related to file content changes.
	if evt.Op == fsnotify.Chmod {
		return false
	}

	if _, ok := w.files[evt.Name]; ok {
		return true
	}

	// A created directory may hold a watched file.
	if evt.Has(fsnotify.Create) {
		prefix := evt.Name + string(filepath.Separator)
		for file := range w.files {
			if strings.HasPrefix(file, prefix) {
				return true
			}
		}
	}

	return false
}

// Run calls fn once, then again after every relevant change, until ctx is
// done.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	logger := log.WithContext(ctx)

	fn(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.Relevant(evt) {
				continue
			}

			logger.DebugContext(ctx, "manifest changed", slog.String("event", evt.String()))

			if evt.Has(fsnotify.Create) {
				err := w.addDirs()
				if err != nil {
					logger.ErrorContext(ctx, "update watchers", slog.Any("err", err))
				}
			}

			timer.Reset(w.debounce)

		case <-timer.C:
			fn(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch manifests", slog.Any("err", err))
		}
	}
}

// Run watches paths and calls fn once and after every change, until ctx is
// done.
func Run(ctx context.Context, paths []string, fn func(context.Context)) error {
	w, err := New(paths)
	if err != nil {
		return err
	}

	defer func() {
		err := w.Close()
		if err != nil {
			log.WithContext(ctx).ErrorContext(ctx, "close watcher", slog.Any("err", err))
		}
	}()

	return w.Run(ctx, fn)
}
