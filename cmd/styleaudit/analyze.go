package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/panbanda/styleaudit/internal/report"
	"github.com/panbanda/styleaudit/internal/service/audit"
	"github.com/panbanda/styleaudit/internal/vcs"
	"github.com/panbanda/styleaudit/pkg/cleanup"
	"github.com/urfave/cli/v2"
)

func analyzeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output issues as JSON (same as --format json)",
		},
		&cli.BoolFlag{
			Name:  "cleanup",
			Usage: "Remove missing and unused classes without asking",
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "Limit issues and cleanup to one file (path or glob)",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Clean up files even if they have uncommitted changes",
		},
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"check"},
		Usage:   "Report missing, unused and broken style references",
		Description: `Analyzes every UXML and USS file under the assets directory. In text
mode, when cleanable issues are found, asks whether to remove them.

Examples:
  styleaudit                              # Analyze Assets/ and prompt for cleanup
  styleaudit --json                       # Issues as a JSON list, never prompts
  styleaudit --cleanup --file Assets/UI/Menu.uxml
  styleaudit analyze --file 'Assets/UI/**/*.uss'`,
		Flags:  analyzeFlags(),
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unexpected argument %q", c.Args().First())
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.text() {
		s.console.Info("Analyzing UI styles...")
	}

	result, err := s.audit(c)
	if err != nil {
		return err
	}

	issues := result.Analysis.Issues
	if err := s.out.Output(report.NewIssueReport(result.ProjectRoot, issues, result.Analysis.Summary)); err != nil {
		return err
	}

	if len(cleanup.Files(issues)) == 0 {
		return nil
	}
	if !c.Bool("cleanup") {
		// Only text mode is interactive.
		if !s.text() {
			return nil
		}
		if !confirm(c.App.Reader, s.console.Writer(), "Do you want to perform cleanup? (y/n)") {
			s.console.Info("Cleanup cancelled.")
			return nil
		}
	}

	if _, err := s.cleanup(c, result, c.Bool("force"), false); err != nil {
		return err
	}
	if s.text() {
		s.console.Success("Cleanup complete.")
	}
	return nil
}

// cleanup rewrites the files named by the result's cleanable issues. Unless
// forced or disabled in config, files with uncommitted changes are skipped and
// reported as failures; every other file is still cleaned.
func (s *session) cleanup(c *cli.Context, result *audit.Result, force, dryRun bool) (*cleanup.Result, error) {
	files := cleanup.Files(result.Analysis.Issues)
	if len(files) == 0 {
		s.console.Info("Nothing to clean up.")
		return cleanup.NewResult(), nil
	}

	opts := []cleanup.Option{
		cleanup.WithLogger(s.logger),
		cleanup.WithDryRun(dryRun),
	}
	if !dryRun && !force && s.cfg.Cleanup.RequireCleanGit {
		dirty, err := vcs.DirtyFiles(result.ProjectRoot, files)
		if err != nil {
			return nil, fmt.Errorf("checking git status: %w", err)
		}
		if len(dirty) > 0 {
			opts = append(opts, cleanup.WithSkip(dirty, vcs.ErrUncommitted))
		}
	}

	res, err := cleanup.New(opts...).Apply(c.Context, result.Analysis.Issues)

	verb := "Cleaned"
	if dryRun {
		verb = "Would clean"
	}
	if s.text() {
		for _, path := range res.Changed {
			s.console.Info("  %s %s", verb, displayPath(result.ProjectRoot, path))
		}
		for _, kept := range res.Kept {
			s.console.Warning("Kept %s in %s: only compound selectors define them",
				strings.Join(kept.Classes, ", "), displayPath(result.ProjectRoot, kept.Path))
		}
		var fileErr *cleanup.FileError
		for _, e := range unwrapJoined(err) {
			if errors.As(e, &fileErr) {
				s.console.Warning("Skipped %s: %v", displayPath(result.ProjectRoot, fileErr.Path), fileErr.Err)
			}
		}
	}
	s.logger.Debug("cleanup finished",
		"changed", len(res.Changed),
		"unchanged", len(res.Unchanged),
		"failed", len(res.Failed),
		"kept", len(res.Kept))

	if err != nil && len(res.Failed) > 0 {
		return res, fmt.Errorf("cleanup failed for %d file(s): %w", len(res.Failed), err)
	}
	return res, err
}

// unwrapJoined splits an errors.Join result into its parts.
func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	if err != nil {
		return []error{err}
	}
	return nil
}
