// Package config loads the coordinator's own operating parameters —
// debounce window, workspace excludes, suppressFutureWarnings, log
// verbosity — from an optional project file. This is server-operational
// configuration, distinct from the script language's own config-block
// schema (internal/schema), which is a static per-workflow structure the
// analysis core reads, never writes.
//
// Grounded on the teacher's internal/config package: a typed Config
// struct with documented field defaults, a dual-format loader that tries
// a KDL file before a TOML file, and a separate Validator that applies
// smart defaults after parsing.
package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/wflsp/internal/logging"
)

// Config is the coordinator's own operating configuration, loaded once
// at startup from the workspace root.
type Config struct {
	// DebounceMs is the LanguageService's update-coalescing window, in
	// milliseconds. Zero means "use the package default" (1000ms).
	DebounceMs int

	// Excludes are doublestar glob patterns excluded from the initial
	// workspace scan and from the on-disk watcher.
	Excludes []string

	// SuppressFutureWarnings is passed to the Initialize parameter of the
	// same name, which records it on the Service; no diagnostic is
	// filtered or dropped because of it.
	SuppressFutureWarnings bool

	// LogLevel is one of ERROR|WARN|INFO|DEBUG, case-insensitive.
	// Empty defaults to INFO.
	LogLevel string

	// RespectGitignore, when true, folds the workspace root's .gitignore
	// patterns into the effective exclude list at Initialize time.
	RespectGitignore bool

	// DetectBuildArtifacts, when true, folds detected build-output
	// directories of any helper tooling (package.json, Cargo.toml, ...)
	// committed alongside the workflow scripts into the exclude list.
	DetectBuildArtifacts bool
}

const (
	kdlFileName  = ".wflsp.kdl"
	tomlFileName = ".wflsp.toml"

	// DefaultDebounceMs matches langservice's own package default, kept
	// here too so a caller can report the effective value before a
	// Service exists.
	DefaultDebounceMs = 1000
)

// Load reads the coordinator's own config from root, trying .wflsp.kdl
// first, then .wflsp.toml, and falling back to Defaults() if neither
// file exists. A parse error in a present file is always returned; a
// missing file is not an error.
func Load(root string) (*Config, error) {
	kdlPath := filepath.Join(root, kdlFileName)
	if _, err := os.Stat(kdlPath); err == nil {
		cfg, err := loadKDL(kdlPath)
		if err != nil {
			return nil, err
		}
		return finish(cfg), nil
	}

	tomlPath := filepath.Join(root, tomlFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		cfg, err := loadTOML(tomlPath)
		if err != nil {
			return nil, err
		}
		return finish(cfg), nil
	}

	return Defaults(), nil
}

func finish(cfg *Config) *Config {
	(&Validator{}).ValidateAndSetDefaults(cfg)
	return cfg
}

// Defaults returns the zero-config fallback: the package default
// debounce window, a conservative workspace-exclude list covering VCS
// metadata and common build/test output, warnings not suppressed, and
// INFO-level logging.
func Defaults() *Config {
	return &Config{
		DebounceMs:             DefaultDebounceMs,
		Excludes:               defaultExcludes(),
		SuppressFutureWarnings: false,
		LogLevel:               "INFO",
		RespectGitignore:       true,
		DetectBuildArtifacts:   true,
	}
}

// EffectiveExcludes returns cfg.Excludes, folding in the workspace root's
// .gitignore patterns and detected build-artifact directories per
// cfg.RespectGitignore/cfg.DetectBuildArtifacts. Detection failures are
// non-fatal: the configured excludes are returned as-is on error.
func (c *Config) EffectiveExcludes(root string) []string {
	out := append([]string{}, c.Excludes...)
	if c.RespectGitignore {
		if extra, err := GitignoreExcludes(root); err == nil {
			out = append(out, extra...)
		}
	}
	if c.DetectBuildArtifacts {
		detector := NewBuildArtifactDetector(root)
		out = append(out, detector.DetectOutputDirectories()...)
	}
	return dedupe(out)
}

func defaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/work/**",
		"**/.nextflow/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/build/**",
		"**/dist/**",
		"**/out/**",
		"**/target/**",
		"**/results/**",
		"**/*.log",
	}
}

// Level parses cfg's LogLevel into a logging.Level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
