package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for styleaudit.
type Config struct {
	// Project layout and file conventions
	Project ProjectConfig `koanf:"project" toml:"project" yaml:"project" json:"project"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`

	// Extraction settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" yaml:"analysis" json:"analysis"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output" json:"output"`

	// Cleanup settings
	Cleanup CleanupConfig `koanf:"cleanup" toml:"cleanup" yaml:"cleanup" json:"cleanup"`
}

// ProjectConfig describes where markup and stylesheets live and how they
// refer to each other.
type ProjectConfig struct {
	// Root is the project root; root-marker references resolve against it.
	Root string `koanf:"root" toml:"root" yaml:"root" json:"root"`
	// Assets is the directory scanned for markup and stylesheets, relative to Root.
	Assets           string   `koanf:"assets" toml:"assets" yaml:"assets" json:"assets"`
	MarkupExt        string   `koanf:"markup_ext" toml:"markup_ext" yaml:"markup_ext" json:"markup_ext"`
	StyleExt         string   `koanf:"style_ext" toml:"style_ext" yaml:"style_ext" json:"style_ext"`
	RootMarker       string   `koanf:"root_marker" toml:"root_marker" yaml:"root_marker" json:"root_marker"`
	ReservedPrefixes []string `koanf:"reserved_prefixes" toml:"reserved_prefixes" yaml:"reserved_prefixes" json:"reserved_prefixes"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns" json:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs" json:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore" json:"gitignore"`
}

// AnalysisConfig controls extraction.
type AnalysisConfig struct {
	Workers     int   `koanf:"workers" toml:"workers" yaml:"workers" json:"workers"`                 // 0 means 2x NumCPU
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size" yaml:"max_file_size" json:"max_file_size"` // bytes, 0 disables
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir" json:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl" json:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format" json:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" yaml:"color" json:"color"`
}

// CleanupConfig controls file rewriting.
type CleanupConfig struct {
	// RequireCleanGit refuses to rewrite files that have uncommitted changes.
	RequireCleanGit bool `koanf:"require_clean_git" toml:"require_clean_git" yaml:"require_clean_git" json:"require_clean_git"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root:             ".",
			Assets:           "Assets",
			MarkupExt:        ".uxml",
			StyleExt:         ".uss",
			RootMarker:       "project://database/",
			ReservedPrefixes: []string{"unity-"},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{},
			Dirs: []string{
				".git",
				".styleaudit",
				"Library",
				"Temp",
				"Logs",
			},
			Gitignore: true,
		},
		Analysis: AnalysisConfig{
			Workers:     0,
			MaxFileSize: 5 * 1024 * 1024,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".styleaudit/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Cleanup: CleanupConfig{
			RequireCleanGit: true,
		},
	}
}

// parserFor picks a koanf parser from the file extension, defaulting to TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

func loadKoanf(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}
	return k, nil
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k, err := loadKoanf(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SearchPaths lists the standard config locations, in lookup order.
func SearchPaths() []string {
	names := []string{
		"styleaudit.toml",
		"styleaudit.yaml",
		"styleaudit.yml",
		"styleaudit.json",
		".styleaudit.toml",
		".styleaudit.yaml",
		".styleaudit.yml",
		".styleaudit.json",
	}
	var paths []string
	for _, dir := range []string{".", ".styleaudit"} {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// Find returns the first existing standard config path, or "".
func Find() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
// The returned path is empty when no config file was found.
func LoadOrDefault() (*Config, string, error) {
	path := Find()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Check validates config values that the loaders cannot express.
func (c *Config) Check() error {
	if !strings.HasPrefix(c.Project.MarkupExt, ".") {
		return fmt.Errorf("project.markup_ext must start with '.': %q", c.Project.MarkupExt)
	}
	if !strings.HasPrefix(c.Project.StyleExt, ".") {
		return fmt.Errorf("project.style_ext must start with '.': %q", c.Project.StyleExt)
	}
	if strings.EqualFold(c.Project.MarkupExt, c.Project.StyleExt) {
		return fmt.Errorf("project.markup_ext and project.style_ext must differ")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative")
	}
	switch c.Output.Format {
	case "text", "json", "markdown", "toon":
	default:
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}
	return nil
}

// AssetsDir returns the scan directory joined onto the project root.
func (c *Config) AssetsDir() string {
	if filepath.IsAbs(c.Project.Assets) {
		return c.Project.Assets
	}
	return filepath.Join(c.Project.Root, c.Project.Assets)
}

// ShouldExclude checks if a path (relative to the scan root) should be
// excluded by the directory list.
func (c *Config) ShouldExclude(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range c.Exclude.Dirs {
		if path == dir || strings.HasPrefix(path, dir+sep) ||
			strings.Contains(path, sep+dir+sep) || strings.HasSuffix(path, sep+dir) {
			return true
		}
	}
	return false
}
