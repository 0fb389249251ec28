// Package audit runs the full style audit pipeline: discover files under the
// assets directory, extract facts, and analyze reachability.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/panbanda/styleaudit/internal/cache"
	"github.com/panbanda/styleaudit/internal/progress"
	"github.com/panbanda/styleaudit/internal/scanner"
	"github.com/panbanda/styleaudit/pkg/analyzer/styles"
	"github.com/panbanda/styleaudit/pkg/config"
)

// ErrNoAssets is returned when the assets directory does not exist under the
// project root.
var ErrNoAssets = errors.New("please run from the project root")

// Result is one audit run.
type Result struct {
	ProjectRoot string
	AssetsDir   string
	Files       *scanner.Result
	Analysis    *styles.Analysis
}

// Service orchestrates scanning and analysis.
type Service struct {
	config   *config.Config
	logger   *slog.Logger
	noCache  bool
	progress bool
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithoutCache ignores the configured facts cache for this service.
func WithoutCache() Option {
	return func(s *Service) {
		s.noCache = true
	}
}

// WithProgress shows progress bars on stderr.
func WithProgress(enabled bool) Option {
	return func(s *Service) {
		s.progress = enabled
	}
}

// New creates an audit service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// ProjectRoot returns the absolute project root.
func (s *Service) ProjectRoot() (string, error) {
	return filepath.Abs(s.config.Project.Root)
}

// AssetsDir returns the absolute scan directory, failing with ErrNoAssets
// when it is missing.
func (s *Service) AssetsDir() (string, error) {
	dir, err := filepath.Abs(s.config.AssetsDir())
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("no %s directory found in %s: %w", s.config.Project.Assets, s.config.Project.Root, ErrNoAssets)
	}
	return dir, nil
}

// Scan discovers markup and stylesheet files under the assets directory.
func (s *Service) Scan() (*scanner.Result, error) {
	dir, err := s.AssetsDir()
	if err != nil {
		return nil, err
	}

	var spinner *progress.Tracker
	if s.progress {
		spinner = progress.NewSpinner("Scanning " + s.config.Project.Assets + "...")
	}
	files, err := scanner.NewScanner(s.config).ScanDir(dir)
	if err != nil {
		spinner.FinishError(err)
		return nil, err
	}
	spinner.FinishSuccess()
	return files, nil
}

// Run scans and analyzes the project.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	files, err := s.Scan()
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, files)
}

// Analyze runs the analysis over already discovered files.
func (s *Service) Analyze(ctx context.Context, files *scanner.Result) (*Result, error) {
	root, err := s.ProjectRoot()
	if err != nil {
		return nil, err
	}

	var tracker *progress.Tracker
	if s.progress && files.Total() > 0 {
		tracker = progress.NewTracker("Extracting", files.Total())
	}

	a := styles.New(s.analyzerOptions(root, tracker)...)
	defer a.Close()

	analysis, err := a.AnalyzeFiles(ctx, files.Markup, files.Styles)
	if err != nil {
		tracker.FinishError(err)
		return nil, err
	}
	tracker.FinishSuccess()

	return &Result{
		ProjectRoot: root,
		AssetsDir:   files.Root,
		Files:       files,
		Analysis:    analysis,
	}, nil
}

func (s *Service) analyzerOptions(root string, tracker *progress.Tracker) []styles.Option {
	cfg := s.config
	opts := []styles.Option{
		styles.WithProjectRoot(root),
		styles.WithRootMarker(cfg.Project.RootMarker),
		styles.WithExtensions(cfg.Project.MarkupExt, cfg.Project.StyleExt),
		styles.WithReservedPrefixes(cfg.Project.ReservedPrefixes),
		styles.WithWorkers(cfg.Analysis.Workers),
		styles.WithMaxFileSize(cfg.Analysis.MaxFileSize),
		styles.WithLogger(s.logger),
	}
	if tracker != nil {
		opts = append(opts, styles.WithProgress(tracker.Tick))
	}
	if c := s.openCache(root); c != nil {
		opts = append(opts, styles.WithCache(c))
	}
	return opts
}

// openCache opens the facts cache under the project root. A cache that
// cannot be created only costs speed, so failures are logged and ignored.
func (s *Service) openCache(root string) *cache.Cache {
	if s.noCache || !s.config.Cache.Enabled {
		return nil
	}
	dir := s.config.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	c, err := cache.New(dir, s.config.Cache.TTL, true)
	if err != nil {
		s.logger.Warn("cache disabled", "dir", dir, "error", err)
		return nil
	}
	return c
}

// ClearCache removes every cached facts entry for the project.
func (s *Service) ClearCache() error {
	root, err := s.ProjectRoot()
	if err != nil {
		return err
	}
	dir := s.config.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	c, err := cache.New(dir, s.config.Cache.TTL, true)
	if err != nil {
		return err
	}
	return c.Clear()
}
