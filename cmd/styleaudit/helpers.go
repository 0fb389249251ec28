package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/styleaudit/internal/output"
	"github.com/panbanda/styleaudit/internal/service/audit"
	"github.com/panbanda/styleaudit/pkg/config"
	"github.com/urfave/cli/v2"
)

// session bundles what every command needs: the effective config, a logger,
// the report formatter and a console for status lines.
type session struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	out        *output.Formatter
	console    *output.Formatter
}

func newSession(c *cli.Context) (*session, error) {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	format := outputFormat(c, cfg)
	colored := useColor(cfg)
	out, err := output.NewFormatter(
		output.WithFormat(format),
		output.WithWriter(c.App.Writer),
		output.WithColor(colored),
		output.WithFile(c.String("output")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	// Status lines must not interleave with machine-readable output.
	consoleWriter := c.App.Writer
	if format != output.FormatText && c.String("output") == "" {
		consoleWriter = c.App.ErrWriter
	}
	console, _ := output.NewFormatter(
		output.WithWriter(consoleWriter),
		output.WithColor(colored),
	)

	return &session{
		cfg:        cfg,
		configPath: path,
		logger:     newLogger(c),
		out:        out,
		console:    console,
	}, nil
}

func (s *session) Close() error {
	if s.out == nil {
		return nil
	}
	return s.out.Close()
}

// text reports whether output is human-readable text. Commands that render
// their own files have no formatter and count as text.
func (s *session) text() bool {
	return s.out == nil || s.out.Format() == output.FormatText
}

// service builds the audit service for this invocation. Progress bars are
// only drawn for interactive text output.
func (s *session) service(c *cli.Context) *audit.Service {
	opts := []audit.Option{
		audit.WithConfig(s.cfg),
		audit.WithLogger(s.logger),
		audit.WithProgress(s.text() && useColor(s.cfg)),
	}
	if c.Bool("no-cache") {
		opts = append(opts, audit.WithoutCache())
	}
	return audit.New(opts...)
}

// audit runs the analysis and narrows it to --file when given.
func (s *session) audit(c *cli.Context) (*audit.Result, error) {
	result, err := s.service(c).Run(c.Context)
	if err != nil {
		return nil, err
	}
	return result.Filter(c.String("file"))
}

// loadConfig loads --config, or the first standard config file, and applies
// the --root and --assets overrides.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if path = c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadOrDefault()
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	if root := c.String("root"); root != "" {
		cfg.Project.Root = root
	}
	if assets := c.String("assets"); assets != "" {
		cfg.Project.Assets = assets
	}
	return cfg, path, nil
}

// outputFormat resolves --json, then --format, then the configured format.
func outputFormat(c *cli.Context, cfg *config.Config) output.Format {
	if c.Bool("json") {
		return output.FormatJSON
	}
	if f := c.String("format"); f != "" {
		return output.ParseFormat(f)
	}
	return output.ParseFormat(cfg.Output.Format)
}

func useColor(cfg *config.Config) bool {
	return cfg.Output.Color && !color.NoColor
}

// newLogger writes diagnostics to stderr; --verbose includes debug records.
func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

// confirm asks a yes/no question. Anything but y or yes, including EOF, is no.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "\n%s: ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// displayPath shortens path relative to root for status lines.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
