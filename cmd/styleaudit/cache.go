package main

import (
	"github.com/fatih/color"
	"github.com/panbanda/styleaudit/internal/service/audit"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the extraction cache",
		Subcommands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove every cached extraction result",
				Action: runCacheClearCmd,
			},
		},
	}
}

func runCacheClearCmd(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := audit.New(audit.WithConfig(cfg)).ClearCache(); err != nil {
		return err
	}
	color.Green("Cache cleared: %s", cfg.Cache.Dir)
	return nil
}
