package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/styleaudit/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a styleaudit configuration file",
		ArgsUsage: "[file]",
		Description: `Writes the default configuration. The format follows the file extension:
.toml (default), .yaml or .yml.

Examples:
  styleaudit init                          # Creates styleaudit.toml
  styleaudit init .styleaudit/config.yaml
  styleaudit init --force                  # Overwrite an existing file`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	outputPath := "styleaudit.toml"
	if c.Args().Present() {
		outputPath = c.Args().First()
	}

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.Green("Created %s", outputPath)
	fmt.Fprintln(c.App.Writer, "Edit this file to customize analysis settings.")
	return nil
}

func generateDefaultConfig(path string) (string, error) {
	cfg := config.DefaultConfig()

	var (
		body []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		body, err = yaml.Marshal(cfg)
	case ".json":
		return "", fmt.Errorf("init writes TOML or YAML; use a .toml or .yaml path")
	default:
		body, err = toml.Marshal(cfg)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# styleaudit configuration\n")
	buf.WriteString("# Validate with: styleaudit config validate\n\n")
	buf.Write(body)
	return buf.String(), nil
}
