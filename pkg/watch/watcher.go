package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/styleaudit/pkg/config"
)

// Watcher monitors markup and stylesheet files and triggers re-analysis.
// Changes are batched: one callback receives every path that settled during
// the same debounce window.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	path      string
	exts      []string
	callback  func(changed []string)
	mu        sync.Mutex
	pending   map[string]time.Time
	running   sync.Mutex
}

// NewWatcher creates a new file watcher rooted at path.
func NewWatcher(path string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		path:      path,
		exts:      []string{strings.ToLower(cfg.Project.MarkupExt), strings.ToLower(cfg.Project.StyleExt)},
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function to call when files change.
func (w *Watcher) SetCallback(cb func(changed []string)) {
	w.callback = cb
}

// Start begins watching for file changes and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.path); err != nil {
		return err
	}

	color.Cyan("Watching for changes in %s...", w.path)
	color.Cyan("Press Ctrl+C to stop")
	fmt.Println()

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			color.Red("Watch error: %v", err)
		}
	}
}

// addTree registers root and every non-excluded directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.excluded(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.path, path)
	if err != nil || rel == "." {
		return false
	}
	return w.config.ShouldExclude(rel)
}

func (w *Watcher) tracked(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.exts {
		if ext == e {
			return true
		}
	}
	return false
}

// handleEvent processes a filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	path := event.Name
	if w.excluded(path) {
		return
	}

	// New directories have to be watched explicitly.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			_ = w.addTree(path)
			return
		}
	}

	if !w.tracked(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// processDebounced processes pending changes after debounce period.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending hands files that have been stable for the debounce period to
// the callback in one sorted batch. Callbacks never overlap.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if len(ready) == 0 || w.callback == nil {
		return
	}
	sort.Strings(ready)

	w.running.Lock()
	defer w.running.Unlock()
	w.callback(ready)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedFiles returns the list of watched directories.
func (w *Watcher) WatchedFiles() []string {
	return w.fsWatcher.WatchList()
}

// Fingerprint hashes the paths and contents of files, in sorted path order.
// Unreadable files contribute their path only, so a deleted file still
// changes the result.
func Fingerprint(files []string) uint64 {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	h := xxhash.New()
	for _, path := range sorted {
		_, _ = h.WriteString(path)
		_, _ = h.Write([]byte{0})
		if data, err := os.ReadFile(path); err == nil {
			_, _ = h.Write(data)
		}
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
