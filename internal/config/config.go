package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Sources and collection.
	SourcesPath      string        `envconfig:"NB_SOURCES_PATH" default:"sources.yaml"`
	FetchFullText    bool          `envconfig:"NB_FETCH_FULL_TEXT" default:"false"`
	FetchTimeout     time.Duration `envconfig:"NB_FETCH_TIMEOUT" default:"12s"`
	CollectorTimeout time.Duration `envconfig:"NB_COLLECTOR_TIMEOUT" default:"60s"`

	// Embedding service.
	EmbeddingEndpoint string        `envconfig:"NB_EMBEDDING_ENDPOINT" default:"http://127.0.0.1:8844/embed"`
	EmbeddingTimeout  time.Duration `envconfig:"NB_EMBEDDING_TIMEOUT" default:"45s"`
	EmbeddingBatch    int           `envconfig:"NB_EMBEDDING_BATCH" default:"32"`
	EmbeddingWorkers  int           `envconfig:"NB_EMBEDDING_WORKERS" default:"4"`

	// Clustering.
	SimilarityThreshold float64 `envconfig:"NB_SIMILARITY_THRESHOLD" default:"0.3"`

	// Digest writer.
	GeminiAPIKey       string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel        string `envconfig:"NB_GEMINI_MODEL" default:"gemini-1.5-flash"`
	MaxDigestSentences int    `envconfig:"NB_MAX_DIGEST_SENTENCES" default:"3"`

	// Telegram delivery.
	TelegramToken  string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID" default:""`

	// Optional digest archive. When DATABASE_URL is empty the archive is
	// disabled and every run is stateless.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("NB_SIMILARITY_THRESHOLD must be in (0, 1], got %v", c.SimilarityThreshold)
	}
	if strings.TrimSpace(c.SourcesPath) == "" {
		return fmt.Errorf("NB_SOURCES_PATH is required")
	}
	if c.EmbeddingBatch < 1 {
		return fmt.Errorf("NB_EMBEDDING_BATCH must be >= 1")
	}
	if c.EmbeddingWorkers < 1 {
		return fmt.Errorf("NB_EMBEDDING_WORKERS must be >= 1")
	}
	if c.MaxDigestSentences < 1 {
		return fmt.Errorf("NB_MAX_DIGEST_SENTENCES must be >= 1")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// PublishEnabled reports whether Telegram delivery is configured.
func (c *Config) PublishEnabled() bool {
	return c != nil && c.TelegramToken != "" && c.TelegramChatID != ""
}

// ArchiveEnabled reports whether the postgres digest archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}
