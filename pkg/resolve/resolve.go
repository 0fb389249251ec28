// Package resolve turns reference strings found in markup and stylesheet
// files into canonical filesystem paths.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultRootMarker is the prefix Unity writes for project-relative asset references.
const DefaultRootMarker = "project://database/"

// defaultExistsCacheSize bounds the number of memoized existence checks.
const defaultExistsCacheSize = 4096

// Resolver resolves raw references against a source file or the project root.
// A Resolver belongs to a single analysis run: existence checks are memoized
// and never invalidated.
type Resolver struct {
	root   string
	marker string
	exists *lru.Cache[string, bool]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRootMarker overrides the project-root prefix. An empty marker disables
// project-root resolution.
func WithRootMarker(marker string) Option {
	return func(r *Resolver) {
		r.marker = marker
	}
}

// New creates a resolver rooted at root. An empty root means the working directory.
func New(root string, opts ...Option) *Resolver {
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	r := &Resolver{
		root:   filepath.Clean(root),
		marker: DefaultRootMarker,
	}
	// lru.New only fails for a non-positive size.
	r.exists, _ = lru.New[string, bool](defaultExistsCacheSize)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the absolute project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps rawRef, found inside sourceFile, to an absolute normalized path.
// The result may not exist; use Exists to check.
func (r *Resolver) Resolve(sourceFile, rawRef string) string {
	ref := StripDecorations(rawRef)

	if r.marker != "" && strings.HasPrefix(ref, r.marker) {
		rest := strings.TrimPrefix(ref, r.marker)
		return filepath.Join(r.root, filepath.FromSlash(rest))
	}

	if strings.HasPrefix(ref, "/") || filepath.IsAbs(ref) {
		return filepath.Clean(filepath.FromSlash(ref))
	}

	dir := filepath.Dir(sourceFile)
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	return filepath.Join(dir, filepath.FromSlash(ref))
}

// Exists reports whether something is present on disk at path.
func (r *Resolver) Exists(path string) bool {
	if ok, hit := r.exists.Get(path); hit {
		return ok
	}
	_, err := os.Stat(path)
	ok := err == nil
	r.exists.Add(path, ok)
	return ok
}

// StripDecorations drops everything from the first '?' or '#' onward
// (Unity appends ?fileID=...&guid=... and #Fragment to asset references).
func StripDecorations(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i]
	}
	return ref
}

// Canonical returns the absolute, cleaned form of path used as a map key.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
