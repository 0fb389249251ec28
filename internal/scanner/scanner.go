// Package scanner discovers markup and stylesheet files under a directory.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/styleaudit/pkg/config"
)

// Kind classifies a discovered file.
type Kind int

const (
	KindOther Kind = iota
	KindMarkup
	KindStyle
)

// Result holds discovered files as sorted absolute paths.
type Result struct {
	Root   string
	Markup []string
	Styles []string
}

// Total returns the number of discovered files.
func (r *Result) Total() int {
	return len(r.Markup) + len(r.Styles)
}

// All returns markup followed by stylesheets.
func (r *Result) All() []string {
	out := make([]string, 0, r.Total())
	out = append(out, r.Markup...)
	return append(out, r.Styles...)
}

// Scanner finds markup and stylesheet files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
	base     string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// Classify reports whether path is a markup file, a stylesheet, or neither.
// Extensions compare case-insensitively.
func (s *Scanner) Classify(path string) Kind {
	ext := filepath.Ext(path)
	switch {
	case strings.EqualFold(ext, s.config.Project.MarkupExt):
		return KindMarkup
	case strings.EqualFold(ext, s.config.Project.StyleExt):
		return KindStyle
	default:
		return KindOther
	}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns combines config patterns with every .gitignore in the
// enclosing repository. Matching happens on paths relative to s.base: the git
// root when there is one, otherwise the scan root.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	s.base = root

	var patterns []gitignore.Pattern
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			s.base = gitRoot
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isExcluded checks a path against the directory list and ignore patterns.
func (s *Scanner) isExcluded(root, path string, isDir bool) bool {
	if rel, err := filepath.Rel(root, path); err == nil && rel != "." && s.config.ShouldExclude(rel) {
		return true
	}
	if len(s.matchers) == 0 {
		return false
	}

	rel, err := filepath.Rel(s.base, path)
	if err != nil || rel == "." {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for markup and stylesheet files.
// Symlinks that resolve outside the root are skipped.
func (s *Scanner) ScanDir(root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Path: root, Err: err}
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, &ScanError{Path: root, Err: err}
	}

	s.loadExcludePatterns(absRoot)

	result := &Result{Root: absRoot}
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, realRoot) {
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || info.IsDir() {
				return nil
			}
		}

		if d.IsDir() {
			if path != absRoot && s.isExcluded(absRoot, path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(absRoot, path, false) {
			return nil
		}

		switch s.Classify(path) {
		case KindMarkup:
			result.Markup = append(result.Markup, path)
		case KindStyle:
			result.Styles = append(result.Styles, path)
		}
		return nil
	})

	if walkErr != nil {
		return nil, &ScanError{Path: root, Err: walkErr}
	}
	sort.Strings(result.Markup)
	sort.Strings(result.Styles)
	return result, nil
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan directory " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
