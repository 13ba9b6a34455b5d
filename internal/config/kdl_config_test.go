package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKDL(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".wflsp.kdl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadKDLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeKDL(t, dir, `
debounce_ms 500
suppress_future_warnings true
log_level "DEBUG"
respect_gitignore false
exclude {
    "**/work/**"
    "**/scratch/**"
}
`)

	cfg, err := loadKDL(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.DebounceMs)
	assert.True(t, cfg.SuppressFutureWarnings)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.False(t, cfg.RespectGitignore)
	assert.ElementsMatch(t, []string{"**/work/**", "**/scratch/**"}, cfg.Excludes)
}

func TestLoadKDLPartialOverrideKeepsDefaultExcludes(t *testing.T) {
	dir := t.TempDir()
	path := writeKDL(t, dir, `debounce_ms 2000`)

	cfg, err := loadKDL(path)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.DebounceMs)
	assert.Equal(t, defaultExcludes(), cfg.Excludes)
}

func TestLoadKDLInvalidSyntaxReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := writeKDL(t, dir, `debounce_ms "unterminated`)

	_, err := loadKDL(path)
	assert.Error(t, err)
}
