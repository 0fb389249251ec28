// Package styles finds class names used in markup but defined by no reachable
// stylesheet, and stylesheet classes no including markup file uses.
//
// An analysis runs in four steps over a consistent snapshot of the tree:
// extraction (parallel, cached), graph assembly keyed by canonical path,
// reachability over the stylesheet import graph, and detection.
package styles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/panbanda/styleaudit/internal/cache"
	"github.com/panbanda/styleaudit/internal/fileproc"
	"github.com/panbanda/styleaudit/pkg/analyzer"
	"github.com/panbanda/styleaudit/pkg/extract"
	"github.com/panbanda/styleaudit/pkg/models"
	"github.com/panbanda/styleaudit/pkg/resolve"
)

// Analyzer runs the cross-file style analysis.
type Analyzer struct {
	projectRoot string
	rootMarker  string
	markupExt   string
	styleExt    string
	reserved    []string
	workers     int
	maxFileSize int64
	cache       *cache.Cache
	logger      *slog.Logger
	onProgress  fileproc.ProgressFunc
}

// Compile-time check that Analyzer implements analyzer.PartitionedAnalyzer[*Analysis]
var _ analyzer.PartitionedAnalyzer[*Analysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithProjectRoot sets the directory that root-marker references resolve against.
func WithProjectRoot(root string) Option {
	return func(a *Analyzer) {
		a.projectRoot = root
	}
}

// WithRootMarker sets the prefix that makes a reference project-root relative.
func WithRootMarker(marker string) Option {
	return func(a *Analyzer) {
		a.rootMarker = marker
	}
}

// WithExtensions sets the markup and stylesheet file extensions.
func WithExtensions(markup, style string) Option {
	return func(a *Analyzer) {
		if markup != "" {
			a.markupExt = markup
		}
		if style != "" {
			a.styleExt = style
		}
	}
}

// WithReservedPrefixes replaces the framework class prefixes.
func WithReservedPrefixes(prefixes []string) Option {
	return func(a *Analyzer) {
		a.reserved = append([]string(nil), prefixes...)
	}
}

// WithWorkers sets the extraction concurrency (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithMaxFileSize sets the maximum file size to read (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithCache enables reuse of extracted facts across runs.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithProgress sets a callback invoked once per extracted file.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a new style analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		projectRoot: ".",
		rootMarker:  resolve.DefaultRootMarker,
		markupExt:   ".uxml",
		styleExt:    ".uss",
		reserved:    append([]string(nil), DefaultReservedPrefixes...),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolver returns a fresh path resolver configured like the analyzer. Each
// analysis uses its own, so existence checks never leak between runs.
func (a *Analyzer) Resolver() *resolve.Resolver {
	return resolve.New(a.projectRoot, resolve.WithRootMarker(a.rootMarker))
}

// Analyze classifies files by extension and analyzes them.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	var markup, styles []string
	for _, f := range files {
		ext := filepath.Ext(f)
		switch {
		case strings.EqualFold(ext, a.markupExt):
			markup = append(markup, f)
		case strings.EqualFold(ext, a.styleExt):
			styles = append(styles, f)
		}
	}
	return a.AnalyzeFiles(ctx, markup, styles)
}

// AnalyzeFiles runs extraction, reachability and detection. Per-file read
// failures are logged and recorded in Analysis.Errors; the file then
// contributes empty facts. Only cancellation aborts the run.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, markup, styles []string) (*Analysis, error) {
	g, errs := a.BuildGraph(ctx, markup, styles)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	resolver := a.Resolver()
	reach := NewEngine(g, resolver).Run()
	var visited uint64
	for _, r := range reach.PerMarkup {
		visited += r.VisitedCount()
	}
	a.logger.Debug("reachability computed", "markup", len(g.Markup), "visited", visited)

	issues := Detect(g, reach, a.reserved)

	result := &Analysis{
		Graph:    g,
		Reach:    reach,
		Issues:   issues,
		Summary:  models.SummarizeIssues(issues),
		Errors:   errs.Sorted(),
		resolver: resolver,
	}
	result.Summary.MarkupFiles = len(g.Markup)
	result.Summary.StyleFiles = len(g.Styles)
	result.Summary.ExtractionErrors = len(result.Errors)
	return result, nil
}

// BuildGraph extracts facts from every file in parallel and assembles the graph.
func (a *Analyzer) BuildGraph(ctx context.Context, markup, styles []string) (*Graph, *fileproc.ProcessingErrors) {
	markupFacts, markupErrs := fileproc.ForEachFile(ctx, markup, a.workers, a.extractMarkup, a.onProgress)
	styleFacts, styleErrs := fileproc.ForEachFile(ctx, styles, a.workers, a.extractStyle, a.onProgress)

	errs := &fileproc.ProcessingErrors{}
	for _, e := range append(markupErrs.Sorted(), styleErrs.Sorted()...) {
		a.logger.Warn("failed to read file", "path", e.Path, "error", e.Err)
		errs.Add(e.Path, e.Err)
	}

	mm := make(map[string]*extract.MarkupFacts, len(markup))
	for i, path := range markup {
		mm[path] = markupFacts[i]
	}
	sm := make(map[string]*extract.StyleFacts, len(styles))
	for i, path := range styles {
		sm[path] = styleFacts[i]
	}
	return NewGraph(mm, sm), errs
}

func (a *Analyzer) extractMarkup(path string) (*extract.MarkupFacts, error) {
	return extractCached(a, "markup:"+path, path, extract.Markup)
}

func (a *Analyzer) extractStyle(path string) (*extract.StyleFacts, error) {
	return extractCached(a, "style:"+path, path, extract.Style)
}

func extractCached[T any](a *Analyzer, key, path string, fn func(string) *T) (*T, error) {
	data, err := fileproc.ReadFile(path, a.maxFileSize)
	if err != nil {
		return nil, err
	}
	hash := cache.HashBytes(data)
	if facts, ok := cache.Load[T](a.cache, key, hash); ok {
		return facts, nil
	}
	facts := fn(string(data))
	if err := cache.Store(a.cache, key, hash, facts); err != nil {
		a.logger.Debug("failed to cache facts", "path", path, "error", err)
	}
	return facts, nil
}

// Close releases any resources held by the analyzer.
func (a *Analyzer) Close() {}
