package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.BaseURL)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.FallbackDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Sync.SearchDebounce)
	assert.False(t, cfg.IsConfigured())
	assert.False(t, cfg.HasLibrary())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
catalog:
  api_key: from-file
  page_size: 20
library:
  base_url: https://lib.example.com
sync:
  fallback_delay: 250ms
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("ARCADE_LIBRARY_TOKEN", "secret")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Catalog.APIKey)
	assert.Equal(t, 20, cfg.Catalog.PageSize)
	assert.Equal(t, "https://lib.example.com", cfg.Library.BaseURL)
	assert.Equal(t, "secret", cfg.Library.Token)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.FallbackDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
	assert.True(t, cfg.HasLibrary())
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ARCADE_CATALOG_API_KEY=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("ARCADE_CATALOG_API_KEY") })

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Catalog.APIKey)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Catalog.APIKey = "abc123"
	cfg.Library.BaseURL = "https://lib.example.com"
	cfg.Storage.Path = ""
	require.NoError(t, SaveConfigTo(cfg, dir))

	loaded, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "abc123", loaded.Catalog.APIKey)
	assert.Equal(t, "https://lib.example.com", loaded.Library.BaseURL)
	assert.Equal(t, cfg.Sync, loaded.Sync)
	assert.Empty(t, loaded.Storage.Path)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "ERROR", parseLogLevel(" ERROR ").String())
	assert.Equal(t, "INFO", parseLogLevel("chatty").String())
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "arcade.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", "gameID", 42)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.Contains(t, string(data), `"gameID":42`)
	assert.NotContains(t, string(data), "hidden")
}

func TestGamePageURL(t *testing.T) {
	assert.Equal(t, "https://rawg.io/games/portal-2", GamePageURL("portal-2", 4200))
	assert.Equal(t, "https://rawg.io/games/4200", GamePageURL("", 4200))
}
