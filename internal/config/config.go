package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	DatabaseURL      string `env:"DATABASE_URL,required"`

	// Times the user enters are interpreted in this zone.
	Timezone string `env:"TIMEZONE" envDefault:"Europe/Kiev"`

	// Optional UTF-8 TTF for the PDF report; the built-in Helvetica core
	// font is used when unset.
	ReportFontPath string `env:"REPORT_FONT_PATH"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
