package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"barista-bot/internal/config"
	"barista-bot/internal/menu"
	"barista-bot/internal/scheduler"
	"barista-bot/internal/storage"
	"barista-bot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	menuSvc := menu.NewService(newMenuSource(cfg))
	if err := menuSvc.Refresh(context.Background()); err != nil {
		log.Fatalf("failed to load menu: %v", err)
	}

	var rec storage.Recorder
	if cfg.OrdersLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.OrdersLogPath)
		if err != nil {
			log.Printf("failed to init order log: %v", err)
		} else {
			rec = fr
		}
	}

	bot, err := telegram.New(cfg.TelegramBotToken, menuSvc, cfg.BaristaChatID, rec)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sched := scheduler.New()
	sched.SetRefreshFunction(menuSvc.Refresh)
	if err := sched.Start(cfg.MenuRefreshCron); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	bot.Start(context.Background())
}

func newMenuSource(cfg *config.Config) menu.Source {
	if cfg.MenuSpreadsheetID != "" && cfg.GoogleCredentialsPath != "" {
		creds, err := os.ReadFile(cfg.GoogleCredentialsPath)
		if err != nil {
			log.Fatalf("failed to read google credentials: %v", err)
		}
		src, err := menu.NewSheetsSource(context.Background(), creds, cfg.MenuSpreadsheetID)
		if err != nil {
			log.Fatalf("failed to init sheets menu source: %v", err)
		}
		log.Printf("menu source: google sheets %s", cfg.MenuSpreadsheetID)
		return src
	}
	log.Printf("menu source: file %s", cfg.MenuFilePath)
	return menu.NewFileSource(cfg.MenuFilePath)
}
