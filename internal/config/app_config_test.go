package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable AppConfig reads so tests start from defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NOTION_API_KEY", "NOTION_BASE_URL", "NOTION_TIMEOUT",
		"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "LEXICON_ENRICH_DELAY",
		"PORT", "LOG_LEVEL", "LEXICON_LOG_DIR", "LEXICON_STATIC_DIR", "LEXICON_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"upper case", "DEBUG", slog.LevelDebug},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_LogFile(t *testing.T) {
	assert.Equal(t, "", (&AppConfig{}).LogFile())
	assert.Equal(t, "/data/logs/system.log", (&AppConfig{LogDir: "/data/logs"}).LogFile())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.NotionAPIKey)
	assert.Equal(t, "https://api.notion.com/v1", cfg.NotionBaseURL)
	assert.Equal(t, time.Duration(0), cfg.NotionTimeout)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.AnthropicModel)
	assert.Equal(t, time.Second, cfg.EnrichDelay)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("NOTION_API_KEY", "  secret_abc  ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NOTION_TIMEOUT", "15s")
	t.Setenv("LEXICON_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "secret_abc", cfg.NotionAPIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.NotionTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.NotionClient().Configured())
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "70000")

	_, err := LoadFrom("")
	assert.Error(t, err)
}

func TestLoad_DotenvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4000")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOTION_API_KEY=from_file\nPORT=5000\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("NOTION_API_KEY") })

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.NotionAPIKey)
	// Variables already in the environment take precedence over the file.
	assert.Equal(t, 4000, cfg.Port)
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.NoError(t, err)
	assert.False(t, cfg.NotionClient().Configured())
}
