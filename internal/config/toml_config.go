package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig holds the .wflsp.toml keys, the fallback format tried when
// .wflsp.kdl is absent: every Config field except DetectBuildArtifacts,
// which has no TOML key.
type tomlConfig struct {
	DebounceMs             int      `toml:"debounce_ms"`
	Excludes               []string `toml:"exclude"`
	SuppressFutureWarnings bool     `toml:"suppress_future_warnings"`
	LogLevel               string   `toml:"log_level"`
	RespectGitignore       *bool    `toml:"respect_gitignore"`
}

func loadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Defaults()
	if tc.DebounceMs != 0 {
		cfg.DebounceMs = tc.DebounceMs
	}
	if len(tc.Excludes) > 0 {
		cfg.Excludes = tc.Excludes
	}
	cfg.SuppressFutureWarnings = tc.SuppressFutureWarnings
	if tc.LogLevel != "" {
		cfg.LogLevel = tc.LogLevel
	}
	if tc.RespectGitignore != nil {
		cfg.RespectGitignore = *tc.RespectGitignore
	}
	return cfg, nil
}
