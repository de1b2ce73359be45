package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Staff channel: the single chat where new orders land and staff
	// actions are accepted from
	BaristaChatID int64 `env:"BARISTA_CHAT_ID,required"`

	// Menu source: Google Sheets when configured, local YAML file otherwise
	MenuSpreadsheetID     string `env:"MENU_SPREADSHEET_ID"`
	GoogleCredentialsPath string `env:"GOOGLE_CREDENTIALS_JSON_PATH"`
	MenuFilePath          string `env:"MENU_FILE_PATH" envDefault:"data/menu.yaml"`
	MenuRefreshCron       string `env:"MENU_REFRESH_CRON" envDefault:"0 6 * * *"`

	// Storage
	OrdersLogPath string `env:"ORDERS_LOG_PATH" envDefault:"logs/orders.jsonl"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
