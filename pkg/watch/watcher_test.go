package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/styleaudit/pkg/config"
)

func TestNewWatcher(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, 500 * time.Millisecond},
		{"custom debounce", time.Second, time.Second},
		{"negative debounce defaults", -time.Second, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWatcher(tmpDir, cfg, tt.debounce)
			if err != nil {
				t.Fatalf("NewWatcher() error = %v", err)
			}
			defer w.Stop()

			if w.fsWatcher == nil {
				t.Error("fsWatcher should not be nil")
			}
			if w.pending == nil {
				t.Error("pending map should be initialized")
			}
			if w.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", w.debounce, tt.want)
			}
		})
	}
}

func TestWatcher_addTree(t *testing.T) {
	tmpDir := t.TempDir()
	for _, dir := range []string{"UI", "Library"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	w, err := NewWatcher(tmpDir, config.DefaultConfig(), time.Second)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.addTree(tmpDir); err != nil {
		t.Fatalf("addTree() error = %v", err)
	}

	watched := make(map[string]bool)
	for _, f := range w.WatchedFiles() {
		watched[f] = true
	}
	if !watched[tmpDir] || !watched[filepath.Join(tmpDir, "UI")] {
		t.Errorf("root and UI should be watched, got %v", w.WatchedFiles())
	}
	if watched[filepath.Join(tmpDir, "Library")] {
		t.Error("excluded Library directory should not be watched")
	}
}

func TestWatcher_handleEvent(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(tmpDir, config.DefaultConfig(), time.Second)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	tests := []struct {
		name        string
		event       fsnotify.Event
		wantPending bool
	}{
		{"write markup", fsnotify.Event{Name: filepath.Join(tmpDir, "A.uxml"), Op: fsnotify.Write}, true},
		{"create stylesheet", fsnotify.Event{Name: filepath.Join(tmpDir, "a.uss"), Op: fsnotify.Create}, true},
		{"remove stylesheet", fsnotify.Event{Name: filepath.Join(tmpDir, "gone.uss"), Op: fsnotify.Remove}, true},
		{"upper-case extension", fsnotify.Event{Name: filepath.Join(tmpDir, "B.UXML"), Op: fsnotify.Write}, true},
		{"chmod ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "c.uss"), Op: fsnotify.Chmod}, false},
		{"other file ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "readme.txt"), Op: fsnotify.Write}, false},
		{"excluded dir ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "Temp", "x.uss"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.mu.Lock()
			w.pending = make(map[string]time.Time)
			w.mu.Unlock()

			w.handleEvent(tt.event)

			w.mu.Lock()
			_, found := w.pending[tt.event.Name]
			w.mu.Unlock()

			if found != tt.wantPending {
				t.Errorf("pending[%v] = %v, want %v", tt.event.Name, found, tt.wantPending)
			}
		})
	}
}

func TestWatcher_processPending(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(tmpDir, config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var batches [][]string
	w.SetCallback(func(changed []string) {
		mu.Lock()
		batches = append(batches, changed)
		mu.Unlock()
	})

	old := time.Now().Add(-100 * time.Millisecond)
	fresh := filepath.Join(tmpDir, "fresh.uss")
	w.mu.Lock()
	w.pending[filepath.Join(tmpDir, "b.uss")] = old
	w.pending[filepath.Join(tmpDir, "A.uxml")] = old
	w.pending[fresh] = time.Now()
	w.mu.Unlock()

	w.processPending()

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("callback calls = %d, want 1", len(batches))
	}
	want := []string{filepath.Join(tmpDir, "A.uxml"), filepath.Join(tmpDir, "b.uss")}
	if len(batches[0]) != 2 || batches[0][0] != want[0] || batches[0][1] != want[1] {
		t.Errorf("batch = %v, want %v", batches[0], want)
	}

	w.mu.Lock()
	_, stillPending := w.pending[fresh]
	remaining := len(w.pending)
	w.mu.Unlock()
	if !stillPending || remaining != 1 {
		t.Error("only the settled files should leave pending")
	}
}

func TestWatcher_processPending_NoCallback(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	w.mu.Lock()
	w.pending["x.uss"] = time.Now().Add(-time.Second)
	w.mu.Unlock()

	// Should not panic without callback
	w.processPending()
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.uss")
	b := filepath.Join(dir, "B.uxml")
	if err := os.WriteFile(a, []byte(".x {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(`<E class="x"/>`), 0o644); err != nil {
		t.Fatal(err)
	}

	first := Fingerprint([]string{a, b})
	if first != Fingerprint([]string{b, a}) {
		t.Error("fingerprint should not depend on input order")
	}

	if err := os.WriteFile(a, []byte(".y {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if first == Fingerprint([]string{a, b}) {
		t.Error("fingerprint should change with content")
	}
	if Fingerprint([]string{a}) == Fingerprint([]string{a, b}) {
		t.Error("fingerprint should change with the file set")
	}
}
