// Package config loads treewalk configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/treewalk/internal/walker"
)

// DefaultConfigPath is where treewalk looks for configuration when no
// --config flag is given.
const DefaultConfigPath = ".treewalk/config.yaml"

// WalkDefaults holds default filter options applied to every listing
// before CLI flags are considered.
type WalkDefaults struct {
	// OnlyFiles emits files only.
	OnlyFiles bool `yaml:"only_files"`

	// OnlyDirectories emits directories only.
	OnlyDirectories bool `yaml:"only_directories"`

	// ExcludeDirectories omits directories from output without stopping
	// descent into them.
	ExcludeDirectories bool `yaml:"exclude_directories"`

	// ExcludeHidden omits entries whose name starts with ".".
	ExcludeHidden bool `yaml:"exclude_hidden"`

	// Extension keeps only entries with this extension (no leading dot).
	Extension string `yaml:"extension"`

	// StripPath returns root-relative paths instead of full paths.
	StripPath bool `yaml:"strip_path"`
}

// Config represents treewalk configuration options.
type Config struct {
	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// NoColor disables colored output even on a TTY.
	NoColor bool `yaml:"no_color"`

	// SnapshotDB is the path of the sqlite database holding saved
	// listings.
	SnapshotDB string `yaml:"snapshot_db"`

	// Defaults contains the default walk options.
	Defaults WalkDefaults `yaml:"defaults"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		NoColor:    false,
		SnapshotDB: ".treewalk/snapshots.db",
		Defaults:   WalkDefaults{},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (valid: trace, debug, info, warn, error)", c.LogLevel)
	}
	if c.SnapshotDB == "" {
		return fmt.Errorf("snapshot_db must not be empty")
	}
	if c.Defaults.OnlyFiles && c.Defaults.OnlyDirectories {
		return fmt.Errorf("only_files and only_directories are mutually exclusive")
	}
	return nil
}

// Bag converts the configured defaults into a walker option bag, ready to
// be merged with CLI flags and normalized by walker.ParseOptions.
func (d WalkDefaults) Bag() map[string]any {
	bag := map[string]any{}
	if d.OnlyFiles {
		bag["onlyFiles"] = true
	}
	if d.OnlyDirectories {
		bag["onlyDirectories"] = true
	}
	if d.ExcludeDirectories {
		bag["excludeDirectories"] = true
	}
	if d.ExcludeHidden {
		bag["excludeHidden"] = true
	}
	if d.Extension != "" {
		bag["extension"] = d.Extension
	}
	if d.StripPath {
		bag["stripPath"] = true
	}
	return bag
}

// Options is a convenience for callers that need the normalized form
// directly.
func (d WalkDefaults) Options() walker.Options {
	return walker.ParseOptions(d.Bag())
}
