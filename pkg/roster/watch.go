package roster

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes from editors and atomic renames.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a roster file whenever it changes on disk and hands the
// new snapshot to registered callbacks.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file by rename keep triggering reloads.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration

	mu        sync.Mutex
	callbacks []func(*File)
	timer     *time.Timer
}

// NewWatcher starts watching path. logger may be nil.
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{path: abs, watcher: fw, logger: logger, debounce: DefaultDebounce}, nil
}

// SetDebounce changes the quiet period before a reload. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// OnReload registers fn to receive every successfully decoded snapshot.
func (w *Watcher) OnReload(fn func(*File)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Run processes file events until ctx is cancelled. Decode failures are
// logged and the previous snapshot stays in effect.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("roster file changed", "file", event.Name, "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("roster watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	f, err := ReadFile(w.path)
	if err != nil {
		w.logger.Error("roster reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("roster reloaded", "path", w.path, "profiles", f.Roster.Len())

	w.mu.Lock()
	callbacks := make([]func(*File), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(f)
	}
}
