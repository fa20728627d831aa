// Package watch reruns a callback when watched files change.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/logger"
)

// DefaultDebounce collapses bursts of editor writes into one change.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called with the changed paths, sorted.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches a fixed set of files. Directories are watched rather than
// the files themselves so that editors replacing a file by rename are seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	onChange ChangeFunc
	debounce time.Duration
	limiter  *rate.Limiter
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	fire    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLimiter throttles how often onChange may run.
func WithLimiter(l *rate.Limiter) Option {
	return func(w *Watcher) { w.limiter = l }
}

// New creates a watcher for files.
func New(files []string, onChange ChangeFunc, log *zap.SugaredLogger, opts ...Option) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool, len(files)),
		onChange: onChange,
		debounce: DefaultDebounce,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		logger:   log.Named("watch"),
		pending:  map[string]bool{},
		fire:     make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(w)
	}

	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// Run processes events until ctx is done. Errors from onChange are logged
// and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)

		case <-w.fire:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.logger.Infow("Change detected", logger.FieldCount, len(changed), "files", changed)
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Errorw("Regeneration failed", logger.FieldError, err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}
	w.logger.Debugw("File event", logger.FieldFile, path, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	w.pending = map[string]bool{}
	sort.Strings(out)
	return out
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
