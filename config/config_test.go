package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
scraper:
  page_delay_seconds: 5
  retries: 2
  timeout_seconds: 10
telegram:
  token: "123:abc"
  chat_id: 42
watches:
  - source: senado
    terms: ["saneamento básico", "esgoto"]
    pages: 3
    interval_minutes: 30
    key_column: link_norma
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PageDelay())
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 2, cfg.Scraper.Retries)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)

	require.Len(t, cfg.Watches, 1)
	w := cfg.Watches[0]
	assert.Equal(t, "senado", w.Source)
	assert.Equal(t, []string{"saneamento básico", "esgoto"}, w.Terms)
	assert.Equal(t, 3, w.Pages)
	assert.Equal(t, 30*time.Minute, w.Interval())
	assert.Equal(t, "link_norma", w.Key())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
watches:
  - source: camara
    terms: ["lei"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.PageDelay())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, time.Hour, cfg.Watches[0].Interval())
	assert.Equal(t, "link", cfg.Watches[0].Key())
}

func TestLoadConfigInvalidWatch(t *testing.T) {
	path := writeConfig(t, `
watches:
  - source: camara
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source and terms are required")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "watches: [")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, 2*time.Second, cfg.PageDelay())
	assert.Equal(t, 3, cfg.Scraper.Retries)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Empty(t, cfg.Watches)
}
