// Package watch re-runs work when input files change on disk.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle. Editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls back after any of a fixed set of files changes.
type Watcher struct {
	files    []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New starts watching files. Paths are made absolute.
func New(files []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{debounce: DefaultDebounce, watcher: fw}
	for _, opt := range opts {
		opt(w)
	}

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		if err := fw.Add(abs); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
		}
		w.files = append(w.files, abs)
	}

	return w, nil
}

// Run blocks until ctx is done, calling onChange once per settled burst of
// write, create, remove or rename events. Calls to onChange never overlap.
// The watcher is closed when Run returns, after any running onChange.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) {
	d := &debouncer{delay: w.debounce}
	defer func() {
		d.stop()
		_ = w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			d.trigger(func() {
				if ctx.Err() != nil {
					return
				}
				w.rewatch()
				onChange(ctx)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// debouncer runs the most recently triggered func once no trigger has
// arrived for delay. Nothing runs after stop returns.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex // guards timer and stopped
	timer   *time.Timer
	stopped bool

	run sync.Mutex // held while fn runs
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.run.Lock()
		defer d.run.Unlock()

		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if stopped {
			return
		}
		fn()
	})
}

// stop cancels any pending func and waits for a running one to finish.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.run.Lock()
	d.run.Unlock() //nolint:staticcheck
}

// rewatch re-adds every file. Atomic saves replace the file, which drops the
// watch on the old inode.
func (w *Watcher) rewatch() {
	for _, file := range w.files {
		if err := w.watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	out := make([]string, len(w.files))
	copy(out, w.files)
	return out
}
