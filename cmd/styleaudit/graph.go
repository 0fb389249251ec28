package main

import (
	"github.com/panbanda/styleaudit/internal/report"
	"github.com/urfave/cli/v2"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Show the stylesheet import graph",
		Description: `Lists every stylesheet with its import count, the number of markup files
that reach it and its unused classes, followed by imports that do not
resolve and import cycles.`,
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.service(c).Run(c.Context)
	if err != nil {
		return err
	}
	return s.out.Output(report.NewGraphReport(result.ProjectRoot, result.Analysis))
}
