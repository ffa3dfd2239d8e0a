package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SimilarityThreshold != 0.3 {
		t.Fatalf("unexpected default threshold: %v", cfg.SimilarityThreshold)
	}
	if cfg.PublishEnabled() {
		t.Fatalf("publishing must be disabled without telegram credentials")
	}
	if cfg.ArchiveEnabled() {
		t.Fatalf("archive must be disabled without DATABASE_URL")
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	t.Setenv("NB_SIMILARITY_THRESHOLD", "1.5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range threshold")
	}
}

func TestLoadRejectsPartialTelegramConfig(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when chat id is missing")
	}
}

func TestPublishAndArchiveToggles(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("DATABASE_URL", "postgres://localhost/newsbrief")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.PublishEnabled() {
		t.Fatalf("publishing should be enabled")
	}
	if !cfg.ArchiveEnabled() {
		t.Fatalf("archive should be enabled")
	}
}
