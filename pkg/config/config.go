// Package config resolves the run configuration: built-in defaults, then a
// .ctxpack.yaml file (source dir, then home), then .env / CTXPACK_*
// environment overrides. CLI flags are layered on top by the command layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/ctxpack/ctxpack/pkg/engine"
)

// FileName is the config file looked up in the source directory and home.
const FileName = ".ctxpack.yaml"

// Config is the full configuration surface for one run.
type Config struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"` // "-" writes to stdout; no extension means the format picks one
	Format string `yaml:"format"` // markdown, plain or json

	MaxTokens         int `yaml:"max_tokens"`
	MaxFileTokens     int `yaml:"max_file_tokens"`
	SplitTokens       int `yaml:"split_tokens"`
	OverflowTolerance int `yaml:"overflow_tolerance"`

	Boost         []string `yaml:"boost"`
	FollowImports bool     `yaml:"follow_imports"`

	Include          []string `yaml:"include"`
	Exclude          []string `yaml:"exclude"`
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes"`
	Since            string   `yaml:"since"` // RFC 3339 or YYYY-MM-DD
	UseGitignore     bool     `yaml:"use_gitignore"`

	RedactSecrets bool `yaml:"redact_secrets"`
	Clipboard     bool `yaml:"clipboard"`
}

// Error reports a malformed configuration value. It is raised before the
// pipeline runs.
type Error struct {
	Key    string
	Value  any
	Reason string
}

func (e *Error) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config: %s=%v: %s", e.Key, e.Value, e.Reason)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:            ".",
		Output:            "context",
		Format:            "markdown",
		OverflowTolerance: engine.DefaultOverflowTolerance,
		MaxFileSizeBytes:  1 << 20, // 1 MiB scanner ceiling
		UseGitignore:      true,
	}
}

// Load resolves the configuration for a source directory: defaults, then the
// first config file found (source dir, then home), then environment
// overrides. A missing config file is not an error.
func Load(sourceDir string) (Config, error) {
	cfg := Default()

	path, err := findFile(sourceDir)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &Error{Key: path, Reason: fmt.Sprintf("invalid yaml: %v", err)}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func findFile(sourceDir string) (string, error) {
	local := filepath.Join(sourceDir, FileName)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	home, err := homedir.Dir()
	if err != nil {
		// No resolvable home directory just means no global config.
		return "", nil
	}
	global := filepath.Join(home, FileName)
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}

// applyEnv layers CTXPACK_* environment variables over the config. A .env
// file in the working directory is honored first; its absence is fine.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	env := NewConfigManager()
	cfg.MaxTokens = env.GetIntWithDefault("CTXPACK_MAX_TOKENS", cfg.MaxTokens)
	cfg.MaxFileTokens = env.GetIntWithDefault("CTXPACK_MAX_FILE_TOKENS", cfg.MaxFileTokens)
	cfg.SplitTokens = env.GetIntWithDefault("CTXPACK_SPLIT_TOKENS", cfg.SplitTokens)
	cfg.OverflowTolerance = env.GetIntWithDefault("CTXPACK_OVERFLOW_TOLERANCE", cfg.OverflowTolerance)
	cfg.Output = env.GetStringWithDefault("CTXPACK_OUTPUT", cfg.Output)
	cfg.Format = env.GetStringWithDefault("CTXPACK_FORMAT", cfg.Format)
	cfg.FollowImports = env.GetBoolWithDefault("CTXPACK_FOLLOW_IMPORTS", cfg.FollowImports)
	cfg.RedactSecrets = env.GetBoolWithDefault("CTXPACK_REDACT_SECRETS", cfg.RedactSecrets)
}

// Validate rejects malformed values before the pipeline runs.
func (c *Config) Validate() error {
	if c.MaxTokens < 0 {
		return &Error{Key: "max_tokens", Value: c.MaxTokens, Reason: "must not be negative"}
	}
	if c.MaxFileTokens < 0 {
		return &Error{Key: "max_file_tokens", Value: c.MaxFileTokens, Reason: "must not be negative"}
	}
	if c.SplitTokens < 0 {
		return &Error{Key: "split_tokens", Value: c.SplitTokens, Reason: "must not be negative"}
	}
	if c.OverflowTolerance < 0 {
		return &Error{Key: "overflow_tolerance", Value: c.OverflowTolerance, Reason: "must not be negative"}
	}
	if c.MaxFileSizeBytes < 0 {
		return &Error{Key: "max_file_size_bytes", Value: c.MaxFileSizeBytes, Reason: "must not be negative"}
	}
	switch c.Format {
	case "markdown", "plain", "json":
	default:
		return &Error{Key: "format", Value: c.Format, Reason: "must be markdown, plain or json"}
	}
	if c.Output == "" {
		return &Error{Key: "output", Reason: "must not be empty"}
	}
	if _, err := c.SinceTime(); err != nil {
		return &Error{Key: "since", Value: c.Since, Reason: "must be RFC 3339 or YYYY-MM-DD"}
	}
	return nil
}

// SinceTime parses the modified-since cutoff. Empty means no cutoff.
func (c *Config) SinceTime() (time.Time, error) {
	if c.Since == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, c.Since); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", c.Since)
}

// Budget maps the configured limits onto the engine's budget value.
func (c *Config) Budget() engine.Budget {
	return engine.Budget{
		MaxTotalTokens:    c.MaxTokens,
		MaxFileTokens:     c.MaxFileTokens,
		SplitTokens:       c.SplitTokens,
		OverflowTolerance: c.OverflowTolerance,
	}
}
