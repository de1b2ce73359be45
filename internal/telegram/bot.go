package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"barista-bot/internal/menu"
	"barista-bot/internal/order"
	"barista-bot/internal/session"
	"barista-bot/internal/storage"
)

type Bot struct {
	api           *tgbotapi.BotAPI
	s             sender
	menuSvc       *menu.Service
	sessions      *session.Manager
	tracker       *order.Tracker
	baristaChatID int64
}

func New(botToken string, menuSvc *menu.Service, baristaChatID int64, recorder storage.Recorder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := &Bot{
		api:           api,
		s:             botAPISender{api: api},
		menuSvc:       menuSvc,
		sessions:      session.NewManager(),
		baristaChatID: baristaChatID,
	}
	b.tracker = order.NewTracker(b, recorder)
	return b, nil
}

// Start consumes updates until the channel closes. Updates are handled in
// arrival order on this goroutine, which keeps each customer's dialogue
// totally ordered.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
	}
}

// SendText implements order.Notifier.
func (b *Bot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.s.Send(msg)
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if err := b.SendText(chatID, text); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
