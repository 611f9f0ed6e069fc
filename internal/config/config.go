// Package config loads the shell's YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// HomeEnv overrides the settings directory.
const HomeEnv = "CTSH_HOME"

type Config struct {
	ShowPrefix     bool              `yaml:"show_prefix"`
	HistoryFile    string            `yaml:"history_file"`
	HistorySize    int               `yaml:"history_size"` // lines loaded at startup, 0 = all
	Interrupt      string            `yaml:"interrupt"`    // "exit" or "abort"
	Color          string            `yaml:"color"`        // "auto", "always" or "never"
	BlockKeywords  []string          `yaml:"block_keywords"`
	ScriptKeywords []string          `yaml:"script_keywords"`
	PromptIcon     string            `yaml:"prompt_icon"`
	Requires       string            `yaml:"requires"` // version constraint on the binary
	LogFile        string            `yaml:"log_file"` // "-" = stderr, "" = off
	Debug          bool              `yaml:"debug"`
	Variables      map[string]string `yaml:"variables"`
}

// Dir is the settings directory, ~/.ctsh unless $CTSH_HOME is set.
func Dir() string {
	if d := os.Getenv(HomeEnv); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ctsh")
}

// DefaultPath is the settings file read when no path is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		HistoryFile:    filepath.Join(Dir(), "history"),
		HistorySize:    1000,
		Interrupt:      "exit",
		Color:          "auto",
		BlockKeywords:  []string{"class"},
		ScriptKeywords: []string{"class", "def", "for", "if", "import", "from"},
		PromptIcon:     "🥕",
		LogFile:        filepath.Join(Dir(), "ctsh.log"),
	}
}

// Load reads path, or DefaultPath when path is empty. A missing file yields
// the defaults. Environment references in the file are expanded before
// parsing and keys left out keep their default.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	if cfg.LogFile != "-" {
		cfg.LogFile = expandHome(cfg.LogFile)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	switch c.Interrupt {
	case "exit", "abort":
	default:
		result = multierror.Append(result, fmt.Errorf("interrupt: must be exit or abort, got %q", c.Interrupt))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		result = multierror.Append(result, fmt.Errorf("color: must be auto, always or never, got %q", c.Color))
	}
	if c.HistorySize < 0 {
		result = multierror.Append(result, fmt.Errorf("history_size: must not be negative"))
	}
	if strings.TrimSpace(c.PromptIcon) == "" {
		result = multierror.Append(result, fmt.Errorf("prompt_icon: must not be empty"))
	}
	for _, k := range c.BlockKeywords {
		if strings.ContainsAny(k, " \t") || k == "" {
			result = multierror.Append(result, fmt.Errorf("block_keywords: invalid keyword %q", k))
		}
	}
	for name := range c.Variables {
		if !isIdentifier(name) {
			result = multierror.Append(result, fmt.Errorf("variables: %q is not an identifier", name))
		}
	}
	if c.Requires != "" {
		if _, err := version.NewConstraint(c.Requires); err != nil {
			result = multierror.Append(result, fmt.Errorf("requires: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// CheckVersion reports whether the running version v satisfies Requires.
// Development builds that are not valid versions always pass.
func (c *Config) CheckVersion(v string) error {
	if c.Requires == "" {
		return nil
	}
	cons, err := version.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("requires: %w", err)
	}
	ver, err := version.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return nil
	}
	if !cons.Check(ver) {
		return fmt.Errorf("ctsh %s does not satisfy %q", ver, c.Requires)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
