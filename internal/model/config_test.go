package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DAYPLAN_DATA_DIR", dir)

	cfg, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "dayplan.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "preferences"), cfg.Preferences.Dir)
	assert.Equal(t, filepath.Join(dir, "cache"), cfg.Backup.CacheDir)
	assert.Equal(t, "auto", cfg.Preferences.Backend)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.True(t, cfg.Notifications.Allowed)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "data_dir: " + dir + "\n" +
		"log:\n  level: debug\n" +
		"preferences:\n  backend: file\n" +
		"notifications:\n  allowed: false\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Preferences.Backend)
	assert.False(t, cfg.Notifications.Allowed)
	assert.Equal(t, filepath.Join(dir, "dayplan.db"), cfg.DBPath)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: "+dir+"\nlog:\n  level: info\n"), 0o600))
	t.Setenv("DAYPLAN_LOG_LEVEL", "error")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.Log.Level)
}

func TestLoadConfigRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	t.Setenv("DAYPLAN_DATA_DIR", dir)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Log.Level = "WARN"
	cfg.Preferences.Backend = "file"
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
