// Package testutil holds fixture helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to a file, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteTree creates files from a map of slash-separated relative path to
// content under a fresh temp directory and returns its absolute path.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatalf("Abs error: %v", err)
	}
	// macOS temp dirs sit behind a /var symlink
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	for name, content := range files {
		WriteFile(t, Path(root, name), content)
	}
	return root
}

// Path joins a slash-separated relative name onto root.
func Path(root, name string) string {
	return filepath.Join(root, filepath.FromSlash(name))
}

// ReadTree reads every named file under root, keyed by the given names.
func ReadTree(t *testing.T, root string, names ...string) map[string]string {
	t.Helper()
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = ReadFile(t, Path(root, name))
	}
	return out
}
