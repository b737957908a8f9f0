package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "FORGE_API_KEY",
		"FORGE_PROVIDER", "FORGE_MODEL", "FORGE_BASE_URL",
		"FORGE_DB", "FORGE_OUTPUT_DIR",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Provider.Backend)
	assert.Equal(t, "generated", cfg.Pipeline.OutputDir)
	assert.Equal(t, "data/forge.db", cfg.Storage.DatabasePath)
	assert.False(t, cfg.Pipeline.SkipValidation)
}

func TestLoadParsesYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "forge.yaml")
	content := `provider:
  backend: mock
  model: test-model
pipeline:
  skip_validation: true
  output_dir: out
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Provider.Backend)
	assert.Equal(t, "test-model", cfg.Provider.Model)
	assert.True(t, cfg.Pipeline.SkipValidation)
	assert.Equal(t, "out", cfg.Pipeline.OutputDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unspecified sections keep their defaults.
	assert.Equal(t, "data/forge.db", cfg.Storage.DatabasePath)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("FORGE_MODEL", "gemini-2.0-flash")
	t.Setenv("FORGE_DB", "/tmp/other.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider.Backend)
	assert.Equal(t, "g-key", cfg.Provider.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Provider.Model)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.DatabasePath)
}

func TestExplicitProviderEnvWinsOverKeyInference(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("FORGE_PROVIDER", "mock")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Provider.Backend)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "forge.yaml")

	cfg := DefaultConfig()
	cfg.Provider.Backend = "mock"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", loaded.Provider.Backend)
}

func TestGetProviderTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 120*time.Second, cfg.GetProviderTimeout())

	cfg.Provider.Timeout = "5s"
	assert.Equal(t, 5*time.Second, cfg.GetProviderTimeout())

	cfg.Provider.Timeout = "garbage"
	assert.Equal(t, 120*time.Second, cfg.GetProviderTimeout())
}
