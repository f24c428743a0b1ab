package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/treewalk/internal/walker"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
	if cfg.SnapshotDB != ".treewalk/snapshots.db" {
		t.Errorf("unexpected snapshot db path %q", cfg.SnapshotDB)
	}
	if cfg.NoColor {
		t.Error("color should be enabled by default")
	}
	if cfg.Defaults != (WalkDefaults{}) {
		t.Errorf("walk defaults should be zero, got %+v", cfg.Defaults)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: debug
no_color: true
snapshot_db: /var/lib/treewalk/snapshots.db
defaults:
  only_files: true
  exclude_hidden: true
  extension: txt
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
	if !cfg.NoColor {
		t.Error("expected no_color true")
	}
	if cfg.SnapshotDB != "/var/lib/treewalk/snapshots.db" {
		t.Errorf("unexpected snapshot db %q", cfg.SnapshotDB)
	}
	if !cfg.Defaults.OnlyFiles || !cfg.Defaults.ExcludeHidden || cfg.Defaults.Extension != "txt" {
		t.Errorf("defaults not parsed: %+v", cfg.Defaults)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML must be an error")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid log_level error")
	}
}

func TestValidateRejectsConflictingDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.OnlyFiles = true
	cfg.Defaults.OnlyDirectories = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected mutual-exclusion error")
	}
}

func TestWalkDefaultsBagNormalizes(t *testing.T) {
	d := WalkDefaults{OnlyDirectories: true, Extension: ".md", StripPath: true}
	opts := d.Options()

	if !opts.ExcludeFiles {
		t.Error("only_directories must suppress files")
	}
	if opts.OnlyFiles {
		t.Error("only_directories must not enable OnlyFiles")
	}
	if opts.Extension != "md" {
		t.Errorf("expected extension md, got %q", opts.Extension)
	}
	if !opts.StripPath {
		t.Error("strip_path not carried through")
	}
}

func TestWalkDefaultsEmptyBag(t *testing.T) {
	if opts := (WalkDefaults{}).Options(); opts != (walker.Options{}) {
		t.Errorf("zero defaults must yield zero options, got %+v", opts)
	}
}
