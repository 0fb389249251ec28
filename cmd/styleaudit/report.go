package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/panbanda/styleaudit/internal/report"
	"github.com/panbanda/styleaudit/internal/vcs"
	"github.com/urfave/cli/v2"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Write a standalone HTML report",
		Description: `Renders issues, stylesheets, unresolved references and import cycles into
a single HTML file.

Examples:
  styleaudit report                       # writes styleaudit-report.html
  styleaudit -o build/styles.html report`,
		Action: runReportCmd,
	}
}

func runReportCmd(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	s := &session{cfg: cfg, logger: newLogger(c)}

	result, err := s.service(c).Run(c.Context)
	if err != nil {
		return err
	}

	ref, err := vcs.CurrentRef(result.ProjectRoot)
	if err != nil {
		s.logger.Debug("no git ref", "error", err)
	}
	meta := report.Metadata{
		Project:     filepath.Base(result.ProjectRoot),
		Assets:      cfg.Project.Assets,
		Ref:         ref,
		GeneratedAt: time.Now().UTC(),
		Version:     version,
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	outputPath := c.String("output")
	if outputPath == "" {
		outputPath = "styleaudit-report.html"
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	if err := renderer.RenderToFile(outputPath, report.NewHTMLData(meta, result.ProjectRoot, result.Analysis)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Report rendered: %s\n", outputPath)
	return nil
}
