package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "decor.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "maximum", cfg.Optimizer.DefaultStrategy)
	assert.False(t, cfg.Optimizer.TopperRespectsCap)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, "text", cfg.Observability.Logging.Format)
	assert.Empty(t, cfg.Catalog.Path)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DECOR_DB_PATH", "test.db")
	t.Setenv("DECOR_PORT", "9090")
	t.Setenv("DECOR_TOPPER_RESPECTS_CAP", "true")
	t.Setenv("DECOR_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Optimizer.TopperRespectsCap)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "maximum", cfg.Optimizer.DefaultStrategy)
}

func TestLoadFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("DECOR_PORT", "not-a-port")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
optimizer:
  default_strategy: balanced
  topper_respects_cap: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "balanced", cfg.Optimizer.DefaultStrategy)
	assert.True(t, cfg.Optimizer.TopperRespectsCap)
	assert.Equal(t, "decor.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvVarExpansion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  database_path: "${TEST_DECOR_DB}"
catalog:
  path: "${TEST_DECOR_CATALOG}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TEST_DECOR_DB", "expanded.db")
	t.Setenv("TEST_DECOR_CATALOG", "/etc/decor/catalog.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "/etc/decor/catalog.yaml", cfg.Catalog.Path)
}

func TestLoadOrEnvWithPath_FallbackToEnv(t *testing.T) {
	t.Setenv("DECOR_DB_PATH", "fallback.db")

	cfg, err := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestLoadOrEnvWithPath_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))

	_, err := LoadOrEnvWithPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
