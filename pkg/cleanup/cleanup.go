// Package cleanup rewrites markup and stylesheet files to remove the classes
// reported by the style analysis.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/panbanda/styleaudit/pkg/extract"
	"github.com/panbanda/styleaudit/pkg/models"
)

// FileError is a failure to clean one file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cleanup %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result records what a cleanup pass did.
type Result struct {
	Changed   []string `json:"changed" toon:"changed"`
	Unchanged []string `json:"unchanged" toon:"unchanged"`
	Failed    []string `json:"failed" toon:"failed"`
	Kept      []Kept   `json:"kept" toon:"kept"`
}

// NewResult returns a Result with empty, non-nil lists.
func NewResult() *Result {
	return &Result{Changed: []string{}, Unchanged: []string{}, Failed: []string{}, Kept: []Kept{}}
}

// Kept lists classes that are still defined after a stylesheet was cleaned.
// Only compound selectors such as ".a .b" or "Label.b" mention them, and
// those are never rewritten.
type Kept struct {
	Path    string   `json:"path" toon:"path"`
	Classes []string `json:"classes" toon:"classes"`
}

// Cleaner applies issues to files.
type Cleaner struct {
	logger *slog.Logger
	dryRun bool
	skip   map[string]error
}

// Option is a functional option for configuring Cleaner.
type Option func(*Cleaner)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDryRun computes the edits without writing any file.
func WithDryRun(dryRun bool) Option {
	return func(c *Cleaner) {
		c.dryRun = dryRun
	}
}

// WithSkip leaves paths untouched. Apply records each of them as failed
// with reason.
func WithSkip(paths []string, reason error) Option {
	return func(c *Cleaner) {
		if c.skip == nil {
			c.skip = make(map[string]error, len(paths))
		}
		for _, p := range paths {
			c.skip[p] = reason
		}
	}
}

// New creates a Cleaner.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Files lists the distinct files a cleanup of issues would touch, sorted.
func Files(issues []models.Issue) []string {
	seen := make(map[string]bool)
	var files []string
	for _, issue := range issues {
		if issue.Kind.Cleanable() && !seen[issue.File] {
			seen[issue.File] = true
			files = append(files, issue.File)
		}
	}
	sort.Strings(files)
	return files
}

// Apply cleans every file named by a missing-class or unused-class issue, one
// file at a time. Broken references are left for the user. A failure on one
// file does not stop the others; all failures are returned joined.
func (c *Cleaner) Apply(ctx context.Context, issues []models.Issue) (*Result, error) {
	result := NewResult()
	var errs []error

	for _, issue := range issues {
		if !issue.Kind.Cleanable() {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if reason, ok := c.skip[issue.File]; ok {
			c.logger.Warn("skipped", "path", issue.File, "reason", reason)
			result.Failed = append(result.Failed, issue.File)
			errs = append(errs, &FileError{Path: issue.File, Err: reason})
			continue
		}

		changed, kept, err := c.applyOne(issue)
		switch {
		case err != nil:
			c.logger.Error("cleanup failed", "path", issue.File, "error", err)
			result.Failed = append(result.Failed, issue.File)
			errs = append(errs, &FileError{Path: issue.File, Err: err})
			continue
		case changed:
			c.logger.Info("cleaned", "path", issue.File, "kind", issue.Kind, "classes", issue.Classes)
			result.Changed = append(result.Changed, issue.File)
		default:
			c.logger.Debug("nothing to remove", "path", issue.File)
			result.Unchanged = append(result.Unchanged, issue.File)
		}
		if len(kept) > 0 {
			c.logger.Warn("classes left in compound selectors", "path", issue.File, "classes", kept)
			result.Kept = append(result.Kept, Kept{Path: issue.File, Classes: kept})
		}
	}

	return result, errors.Join(errs...)
}

// applyOne cleans the file of one issue and returns the classes it had to keep.
func (c *Cleaner) applyOne(issue models.Issue) (bool, []string, error) {
	if issue.Kind == models.IssueMissingClass {
		remove := make(map[string]bool, len(issue.Classes))
		for _, cls := range issue.Classes {
			remove[cls] = true
		}
		changed, err := c.rewrite(issue.File, func(data []byte) ([]byte, bool, error) {
			return RemoveMarkupClasses(data, remove)
		})
		return changed, nil, err
	}

	var kept []string
	changed, err := c.rewrite(issue.File, func(data []byte) ([]byte, bool, error) {
		out, changed := RemoveStyleClasses(string(data), issue.Classes)
		kept = stillDefined(out, issue.Classes)
		return []byte(out), changed, nil
	})
	return changed, kept, err
}

// rewrite applies fn to the file and writes the output back, keeping the
// file mode. In dry-run mode nothing is written.
func (c *Cleaner) rewrite(path string, fn func([]byte) ([]byte, bool, error)) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, changed, err := fn(data)
	if err != nil || !changed || c.dryRun {
		return changed, err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func stillDefined(text string, classes []string) []string {
	facts := extract.Style(text)
	var kept []string
	for _, cls := range classes {
		if facts.HasClass(cls) {
			kept = append(kept, cls)
		}
	}
	return kept
}
