package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"LATE_API_KEY", "LATE_API_URL", "LATE_PAGE_SIZE", "METRICS_ADDR", "LOG_LEVEL", "SNSDEDUPE_JOURNAL"} {
		t.Setenv(k, "")
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100, cfg.API.PageSize)
	assert.Equal(t, "Asia/Tokyo", cfg.Post.Timezone)
}

func TestSaveLoadRoundTripWithOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "snsdedupe.yaml")
	cfg := Default()
	cfg.API.PageSize = 50
	cfg.Storage.JournalPath = "/tmp/j.db"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, got.API.PageSize)
	assert.Equal(t, "/tmp/j.db", got.Storage.JournalPath)

	// Partial files keep defaults for omitted keys.
	partial := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("api:\n  pageSize: 20\n"), 0o644))
	got, err = Load(partial)
	require.NoError(t, err)
	assert.Equal(t, 20, got.API.PageSize)
	assert.Equal(t, "https://getlate.dev/api/v1", got.API.BaseURL)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LATE_API_KEY", "from-env")
	t.Setenv("LATE_API_URL", "http://localhost:9999/api/v1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SNSDEDUPE_JOURNAL", "journal.db")

	cfg := Default()
	cfg.ResolveEnv()
	assert.Equal(t, "from-env", cfg.Credentials.APIKey)
	assert.Equal(t, "http://localhost:9999/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "journal.db", cfg.Storage.JournalPath)

	cfg = Default()
	cfg.Credentials.APIKey = "from-file"
	cfg.ResolveEnv()
	assert.Equal(t, "from-file", cfg.Credentials.APIKey)
}

func TestRequireAPIKey(t *testing.T) {
	err := Default().RequireAPIKey()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.Contains(t, err.Error(), "LATE_API_KEY")

	cfg := Default()
	cfg.Credentials.APIKey = "k"
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LATE_API_KEY=\"quoted-key\"\nLOG_LEVEL=info\n"), 0o600))
	require.NoError(t, os.Unsetenv("LATE_API_KEY"))
	t.Setenv("LOG_LEVEL", "error")

	loaded, err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, []string{envFile}, loaded)
	assert.Equal(t, "quoted-key", os.Getenv("LATE_API_KEY"))
	assert.Equal(t, "error", os.Getenv("LOG_LEVEL"))
	require.NoError(t, os.Unsetenv("LATE_API_KEY"))
}
