package config

import "testing"

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-123")
	t.Setenv("DATABASE_URL", "postgres://localhost/headaches")
	t.Setenv("TIMEZONE", "Europe/Berlin")

	cfg := New()
	if cfg.TelegramBotToken != "token-123" {
		t.Fatalf("token: %q", cfg.TelegramBotToken)
	}
	if cfg.DatabaseURL != "postgres://localhost/headaches" {
		t.Fatalf("database url: %q", cfg.DatabaseURL)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Fatalf("timezone: %q", cfg.Timezone)
	}
	if cfg.ReportFontPath != "" {
		t.Fatalf("font path should default empty: %q", cfg.ReportFontPath)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "t")
	t.Setenv("DATABASE_URL", "d")

	cfg := New()
	if cfg.Timezone != "Europe/Kiev" {
		t.Fatalf("default timezone: %q", cfg.Timezone)
	}
}
