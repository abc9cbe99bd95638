package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// NotionAPIKey is the integration token. Empty means setup is required.
	NotionAPIKey string `envconfig:"NOTION_API_KEY"`

	// NotionBaseURL is the Notion API root. Overridden in tests.
	NotionBaseURL string `envconfig:"NOTION_BASE_URL" default:"https://api.notion.com/v1"`

	// NotionTimeout bounds each outbound Notion call. Zero disables the timeout.
	NotionTimeout time.Duration `envconfig:"NOTION_TIMEOUT" default:"0s"`

	// AnthropicAPIKey is required by the enrich command only.
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	// AnthropicModel is the Claude model used for enrichment.
	AnthropicModel string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514"`

	// EnrichDelay is the pause between two enriched words.
	EnrichDelay time.Duration `envconfig:"LEXICON_ENRICH_DELAY" default:"1s"`

	// Port is the HTTP server port. Defaults to 3000.
	Port int `envconfig:"PORT" default:"3000"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogDir, when set, sends JSON logs to <LogDir>/system.log instead of stderr.
	LogDir string `envconfig:"LEXICON_LOG_DIR"`

	// StaticDir serves the flashcard UI from disk instead of the embedded copy.
	StaticDir string `envconfig:"LEXICON_STATIC_DIR"`

	// AllowedOrigins lists extra origins allowed to call /api, comma separated.
	AllowedOrigins []string `envconfig:"LEXICON_ALLOWED_ORIGINS"`
}

// Load reads a .env file from the working directory when one exists, then
// reads AppConfig from environment variables using envconfig. Variables
// already set in the environment win over the file.
func Load() (*AppConfig, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is not an error.
func LoadFrom(dotenvPath string) (*AppConfig, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	c.NotionAPIKey = strings.TrimSpace(c.NotionAPIKey)
	c.AnthropicAPIKey = strings.TrimSpace(c.AnthropicAPIKey)

	if c.Port <= 0 || c.Port > 65535 {
		return nil, fmt.Errorf("loading config: invalid PORT %d", c.Port)
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFile returns the system log path, or "" when logging to stderr.
func (c *AppConfig) LogFile() string {
	if c.LogDir == "" {
		return ""
	}
	return filepath.Join(c.LogDir, "system.log")
}

// NotionOptions returns the client options derived from the config.
func (c *AppConfig) NotionOptions() []notion.Option {
	opts := []notion.Option{notion.WithBaseURL(c.NotionBaseURL)}
	if c.NotionTimeout > 0 {
		opts = append(opts, notion.WithTimeout(c.NotionTimeout))
	}
	return opts
}

// NotionClient builds a Notion client from the config.
func (c *AppConfig) NotionClient() *notion.Client {
	return notion.NewClient(c.NotionAPIKey, c.NotionOptions()...)
}
