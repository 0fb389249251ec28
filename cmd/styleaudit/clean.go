package main

import (
	"github.com/urfave/cli/v2"
)

func cleanCmd() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove missing and unused classes without prompting",
		Description: `Analyzes the project, then removes classes that no reachable stylesheet
defines from markup and classes that no markup uses from stylesheets.
Broken <Style> references are reported but never rewritten.

Files with uncommitted changes are refused unless --force is given or
cleanup.require_clean_git is false.

Examples:
  styleaudit clean --dry-run
  styleaudit clean --file Assets/UI/theme.uss`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List the files that would change without writing them",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Clean up files even if they have uncommitted changes",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Limit cleanup to one file (path or glob)",
			},
		},
		Action: runCleanCmd,
	}
}

func runCleanCmd(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.audit(c)
	if err != nil {
		return err
	}

	dryRun := c.Bool("dry-run")
	res, err := s.cleanup(c, result, c.Bool("force"), dryRun)
	if res == nil {
		return err
	}

	if !s.text() {
		if outErr := s.out.Output(res); outErr != nil {
			return outErr
		}
		return err
	}
	if err != nil {
		return err
	}

	switch {
	case dryRun:
		s.console.Info("%d file(s) would change.", len(res.Changed))
	case len(res.Changed) == 0:
		s.console.Info("No files changed.")
	default:
		s.console.Success("Cleanup complete. %d file(s) changed.", len(res.Changed))
	}
	return nil
}
