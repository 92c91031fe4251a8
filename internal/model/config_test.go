package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
database:
  path: /tmp/study.db
log:
  level: debug
display:
  show_completed: false
seed:
  categories:
    - name: Math
    - name: Physics
      color: "#f59e0b"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/study.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Display.ShowCompleted)
	assert.Equal(t, "default", cfg.Display.Theme)
	assert.Equal(t, []SeedCategory{
		{Name: "Math", Color: DefaultCategoryColor},
		{Name: "Physics", Color: "#f59e0b"},
	}, cfg.Seed.Categories)
}

func TestLoadConfigKeepsDefaultSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSeedCategories(), cfg.Seed.Categories)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))
	t.Setenv("STUDYTRACK_LOG_LEVEL", "trace")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Log.Level)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Log.Level = "error"
	cfg.Display.ShowCompleted = false

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "error", loaded.Log.Level)
	assert.False(t, loaded.Display.ShowCompleted)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}
