package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SETLIST_FM_KEY", "")
	t.Setenv("EXPORT_DPI", "")
	t.Setenv("EXPORT_WIDTH_MM", "")

	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.setlist.fm/rest/1.0", cfg.Setlist.BaseURL)
	assert.Empty(t, cfg.Setlist.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Setlist.Timeout)
	assert.Equal(t, 15, cfg.Setlist.SearchLimit)
	assert.Equal(t, 200.0, cfg.Export.WidthMM)
	assert.Equal(t, 300, cfg.Export.DPI)
	assert.False(t, cfg.Events.Enabled)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	err := os.WriteFile(path, []byte("SETLIST_FM_KEY=from-file\nEXPORT_DPI=600\n"), 0o600)
	assert.NoError(t, err)

	t.Setenv("ENV_FILE", path)
	// t.Setenv registers cleanup so values loaded from the file do not leak.
	t.Setenv("SETLIST_FM_KEY", "")
	os.Unsetenv("SETLIST_FM_KEY")
	t.Setenv("EXPORT_DPI", "")
	os.Unsetenv("EXPORT_DPI")

	cfg := Load()

	assert.Equal(t, "from-file", cfg.Setlist.APIKey)
	assert.Equal(t, 600, cfg.Export.DPI)
}

func TestLoadSetlistConfig_TrimsBaseURL(t *testing.T) {
	t.Setenv("SETLIST_BASE_URL", "http://localhost:9999/rest/1.0/")
	t.Setenv("SEARCH_LIMIT", "0")

	cfg := LoadSetlistConfig()

	assert.Equal(t, "http://localhost:9999/rest/1.0", cfg.BaseURL)
	assert.Equal(t, 15, cfg.SearchLimit)
}

func TestLoadExportConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("EXPORT_DPI", "-5")
	t.Setenv("EXPORT_WIDTH_MM", "abc")

	cfg := LoadExportConfig()

	assert.Equal(t, 300, cfg.DPI)
	assert.Equal(t, 200.0, cfg.WidthMM)
	assert.Equal(t, 1200, cfg.MaxDPI)
}

func TestLoadExportConfig_MaxDPINeverBelowDefault(t *testing.T) {
	t.Setenv("EXPORT_DPI", "600")
	t.Setenv("EXPORT_MAX_DPI", "400")

	cfg := LoadExportConfig()

	assert.Equal(t, 600, cfg.MaxDPI)
}

func TestLoadRateLimitConfig_Normalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 5*time.Second, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestEnvBool(t *testing.T) {
	t.Setenv("X_FLAG", "on")
	assert.True(t, envBool("X_FLAG", false))
	t.Setenv("X_FLAG", "nope")
	assert.True(t, envBool("X_FLAG", true))
}

func TestNewLogger(t *testing.T) {
	l := Config{LogLevel: "debug", LogFormat: "json"}.NewLogger()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = Config{LogLevel: "loud"}.NewLogger()
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}
