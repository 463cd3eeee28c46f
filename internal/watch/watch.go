// Package watch signals when any of a set of files changes. It uses fsnotify
// on the files' parent directories so editors that save by rename are seen,
// and falls back to polling modification times when fsnotify is unavailable.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the duration between stat passes in polling mode.
const DefaultPollInterval = 2 * time.Second

// ///////////////////////////////////////////////
// Watcher
// ///////////////////////////////////////////////

// Watcher monitors files for changes using fsnotify with a polling fallback.
type Watcher struct {
	// files holds the cleaned absolute paths being monitored.
	files map[string]struct{}
	// events delivers a signal each time a watched file changes.
	// The channel is buffered to 1 so back-to-back writes coalesce.
	events chan struct{}
	// done is closed by [Watcher.Close] to signal goroutines to exit.
	done chan struct{}
	// mu guards fsw, which is nil when polling.
	mu  sync.Mutex
	fsw *fsnotify.Watcher
	// once ensures [Watcher.Close] is idempotent.
	once    sync.Once
	polling atomic.Bool
	// pollInterval is the duration between stat passes in polling mode.
	pollInterval time.Duration
}

// New creates a Watcher for paths. Empty paths are ignored. Files need not
// exist yet; creating one counts as a change.
func New(paths ...string) (*Watcher, error) {
	return newWatcher(paths, DefaultPollInterval, false)
}

func newWatcher(paths []string, interval time.Duration, forcePoll bool) (*Watcher, error) {
	w := &Watcher{
		files:        make(map[string]struct{}),
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: interval,
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
	}
	if len(w.files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}

	if forcePoll {
		w.startPolling()
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.startPolling()
		return w, nil
	}

	for dir := range w.dirs() {
		if err := fsw.Add(dir); err != nil {
			slog.Info("cannot watch directory, falling back to polling", "path", dir, "error", err)
			fsw.Close()
			w.startPolling()
			return w, nil
		}
	}

	w.fsw = fsw
	go w.watch(fsw)
	return w, nil
}

// dirs returns the set of parent directories of the watched files.
func (w *Watcher) dirs() map[string]struct{} {
	out := make(map[string]struct{})
	for f := range w.files {
		out[filepath.Dir(f)] = struct{}{}
	}
	return out
}

// startPolling records the current modification times and then polls
// against them, so changes made after it returns are reported.
func (w *Watcher) startPolling() {
	w.polling.Store(true)
	last := w.modTimes()
	go w.poll(last)
}

// Polling reports whether the watcher is using polling instead of fsnotify.
func (w *Watcher) Polling() bool {
	return w.polling.Load()
}

// Events returns a channel that receives a signal when a watched file changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
			w.fsw = nil
		}
	})
	return err
}

// watch forwards write, create, and rename events for watched files. On an
// fsnotify error it switches to polling.
func (w *Watcher) watch(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; watched {
				w.notify()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Info("fsnotify error, switching to polling", "error", err)
			w.mu.Lock()
			if w.fsw != nil {
				w.fsw.Close()
				w.fsw = nil
			}
			w.mu.Unlock()
			w.startPolling()
			return
		}
	}
}

// poll periodically stats the watched files and sends a notification when
// any modification time advances past last or a file appears.
func (w *Watcher) poll(last map[string]time.Time) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := w.modTimes()
			changed := false
			for f, mod := range cur {
				if prev, ok := last[f]; !ok || mod.After(prev) {
					changed = true
				}
			}
			last = cur
			if changed {
				w.notify()
			}
		}
	}
}

// modTimes returns the modification time of each watched file that exists.
func (w *Watcher) modTimes() map[string]time.Time {
	out := make(map[string]time.Time, len(w.files))
	for f := range w.files {
		if info, err := os.Stat(f); err == nil {
			out[f] = info.ModTime()
		}
	}
	return out
}

// notify sends a non-blocking signal on the events channel.
func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
