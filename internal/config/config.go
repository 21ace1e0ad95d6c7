package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendCLI   = "cli"
	BackendGoGit = "gogit"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	configFileName = "config.yaml"
)

// ErrHomeNotSet is returned when $HOME is missing or empty.
var ErrHomeNotSet = errors.New("HOME not set")

type Config struct {
	Roots     []string `yaml:"roots"`
	Depth     int      `yaml:"depth"`
	Backend   string   `yaml:"backend"`
	GitBinary string   `yaml:"git_binary"`
	Dedupe    bool     `yaml:"dedupe"`
	Format    string   `yaml:"format"`
	Theme     string   `yaml:"theme"`
	LogLevel  string   `yaml:"log_level"`
}

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

func DefaultConfig() Config {
	return Config{
		Depth:     1,
		Backend:   BackendCLI,
		GitBinary: "git",
		Format:    FormatText,
		Theme:     "mocha",
		LogLevel:  "info",
	}
}

// Load reads the config file from the default config directory.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(DefaultDir(), configFileName))
}

// LoadFromDir reads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, configFileName))
}

// LoadFrom reads the config at configPath. A missing file yields the defaults.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Depth == 0 {
		c.Depth = def.Depth
	}
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = def.Backend
	}
	if strings.TrimSpace(c.GitBinary) == "" {
		c.GitBinary = def.GitBinary
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = def.Format
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = def.Theme
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate reports settings the scanner cannot run with.
func (c *Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", c.Depth)
	}
	if !slices.Contains([]string{BackendCLI, BackendGoGit}, c.Backend) {
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendCLI, BackendGoGit)
	}
	if !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, c.Format) {
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", c.Format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// GitAvailable reports whether the configured git binary can be found.
func (c *Config) GitAvailable(lookPath LookPathFunc) bool {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	_, err := lookPath(c.GitBinary)
	return err == nil
}

// DefaultDir is $XDG_CONFIG_HOME/gitscan, falling back to ~/.config/gitscan.
func DefaultDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gitscan")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "gitscan")
	}
	return filepath.Join(home, ".config", "gitscan")
}

// Home returns $HOME.
func Home() (string, error) {
	home := os.Getenv("HOME")
	if strings.TrimSpace(home) == "" {
		return "", ErrHomeNotSet
	}
	return home, nil
}

// ExpandPath resolves a root argument. Absolute paths are kept, "~/x" and
// "~" resolve under home, and any other path is joined onto home as-is.
func ExpandPath(path string, home string) string {
	switch {
	case strings.HasPrefix(path, "/"):
		return path
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return filepath.Join(home, path)
	}
}

// ExpandPaths applies ExpandPath to every path.
func ExpandPaths(paths []string, home string) []string {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded = append(expanded, ExpandPath(p, home))
	}
	return expanded
}
