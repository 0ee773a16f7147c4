package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file-gateway/src/internal/types"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `files:
  encoding: latin1
  watcherExclude:
    "**/.git/**": true
    "**/build/**": false
  verboseLogging: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "latin1", cfg.Files.Encoding)
	assert.True(t, cfg.Files.VerboseLogging)
	assert.Equal(t, []string{"**/.git/**"}, cfg.WatcherExcludePatterns())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigDefaultsEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files: {}\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultEncoding, cfg.Files.Encoding)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Files.Encoding = "utf16le"
	require.NoError(t, SaveConfig(cfg, path))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "utf16le", reloaded.Files.Encoding)
	assert.Equal(t, cfg.WatcherExcludePatterns(), reloaded.WatcherExcludePatterns())
}

func TestWatcherExcludePatternsSortedAndEnabledOnly(t *testing.T) {
	cfg := &Config{Files: FilesConfig{
		WatcherExclude: map[string]bool{
			"**/b/**": true,
			"**/a/**": true,
			"**/c/**": false,
		},
	}}

	assert.Equal(t, []string{"**/a/**", "**/b/**"}, cfg.WatcherExcludePatterns())
}

func TestServiceNotifiesSubscribers(t *testing.T) {
	service := NewService(GetDefaultConfig())

	var received []types.FileConfiguration
	sub := service.OnDidChange(func(cfg types.FileConfiguration) {
		received = append(received, cfg)
	})

	updated := GetDefaultConfig()
	updated.Files.Encoding = "latin1"
	service.Update(updated)

	require.Len(t, received, 1)
	assert.Equal(t, "latin1", received[0].Encoding)
	assert.Equal(t, "latin1", service.Configuration().Encoding)

	sub.Dispose()
	service.Update(GetDefaultConfig())
	assert.Len(t, received, 1, "disposed handler must not fire")
}
