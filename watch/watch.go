// Package watch re-runs work when input files change.
//
// The parent directory of every file is watched rather than the file itself, so
// editors that save by writing a temp file and renaming it over the original
// are still seen.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/logger"
)

// DefaultDebounce collapses the bursts of events a single save produces.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc is called with the changed paths, sorted, once events settle.
// A returned error is logged and watching continues.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches a fixed set of files for changes
type Watcher struct {
	files    map[string]bool
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.SugaredLogger
}

// New watches the given files. Files may not exist yet, but their directories must.
func New(paths []string, log *zap.SugaredLogger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		fs:       fsw,
		debounce: DefaultDebounce,
		logger:   log,
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
		dirs[dir] = true
	}

	return w, nil
}

// SetDebounce changes the quiet period before ChangeFunc runs. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Files returns the watched files as absolute paths, sorted
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Run blocks until ctx is done, calling fn after each settled burst of changes.
// fn runs on the watch goroutine; events arriving meanwhile are queued by fsnotify.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]bool{}
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

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debugw("Watcher detected change", logger.FieldFile, event.Name, "op", event.Op.String())
			pending[filepath.Clean(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}

			w.logger.Infow("Inputs changed", logger.FieldFiles, changed)
			if err := fn(ctx, changed); err != nil {
				w.logger.Warnw("Watch callback failed", logger.FieldError, err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether event modifies one of the watched files
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}
