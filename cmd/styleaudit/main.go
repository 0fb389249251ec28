package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "styleaudit",
		Usage:    "Find missing, unused and broken UI style references",
		Version:  version,
		Description: `styleaudit scans the UXML markup and USS stylesheets under a project's
Assets directory, follows <Style> references and @import chains, and reports:

  - classes used in markup that no reachable stylesheet defines
  - classes a stylesheet defines that no markup reaching it uses
  - <Style> references that point at files that do not exist

Run without a command to analyze and optionally clean up the project.`,
		Flags:  append(globalFlags(), analyzeFlags()...),
		Action: runAnalyzeCmd,
		Commands: []*cli.Command{
			analyzeCmd(),
			cleanCmd(),
			graphCmd(),
			reportCmd(),
			watchCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (TOML, YAML, or JSON)",
			EnvVars: []string{"STYLEAUDIT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, toon (default from config)",
			EnvVars: []string{"STYLEAUDIT_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Project root (default from config, usually the working directory)",
		},
		&cli.StringFlag{
			Name:  "assets",
			Usage: "Directory under the project root to scan",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Disable caching",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	}
}
