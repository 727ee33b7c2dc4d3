package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"headache-tracker/internal/config"
	"headache-tracker/internal/dialog"
	"headache-tracker/internal/report"
	"headache-tracker/internal/session"
	"headache-tracker/internal/storage"
	"headache-tracker/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("failed to load timezone %q: %v", cfg.Timezone, err)
	}

	ctx := context.Background()

	repo, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init episode repository: %v", err)
	}
	defer repo.Close()

	engine := dialog.NewEngine(
		session.NewStore(),
		repo,
		report.NewGenerator(cfg.ReportFontPath),
		loc,
	)

	bot, err := telegram.New(cfg.TelegramBotToken, engine)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	bot.Start(ctx)
}
