package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"barista-bot/internal/flow"
	"barista-bot/internal/order"
	"barista-bot/internal/token"
)

// pickPrefix marks callback data carrying a customer's menu choice, as
// opposed to staff action tokens.
const pickPrefix = "pick::"

const menuUnavailableMsg = "Меню временно недоступно, попробуйте позже."

// handleIncomingMessage routes commands. Messages in the barista chat are
// staff commands; everything else belongs to a customer dialogue.
func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.ID == b.baristaChatID {
		b.handleStaffCommand(ctx, msg)
		return
	}
	if msg.From == nil {
		return
	}
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, "Чтобы сделать заказ, отправьте /order.")
		return
	}
	switch msg.Command() {
	case "start":
		log.Printf("user @%s sent /start", displayName(msg.From))
		b.sendMessage(msg.Chat.ID, "Добро пожаловать в нашу кофейню!")
		b.startOrder(msg)
	case "order":
		log.Printf("user @%s sent /order", displayName(msg.From))
		b.startOrder(msg)
	case "reset":
		b.handleRestart(msg)
	default:
		b.sendMessage(msg.Chat.ID, "Неизвестная команда. Доступны /order и /reset.")
	}
}

// startOrder resets the customer's session and renders the first prompt.
func (b *Bot) startOrder(msg *tgbotapi.Message) {
	s := b.sessions.Get(msg.From.ID, displayName(msg.From), msg.Chat.ID)
	s.Reset()
	cat, err := b.menuSvc.Snapshot()
	if err != nil {
		log.Printf("menu unavailable for @%s: %v", displayName(msg.From), err)
		b.sendMessage(msg.Chat.ID, menuUnavailableMsg)
		return
	}
	b.sendPrompt(msg.Chat.ID, flow.PromptFor(s, cat))
}

// handleRestart discards the in-progress order from any step. Buttons of
// prompts rendered before the reset become inert: their values no longer
// match the first step's options and only re-render it.
func (b *Bot) handleRestart(msg *tgbotapi.Message) {
	b.sessions.Reset(msg.From.ID)
	log.Printf("user @%s reset the order", displayName(msg.From))
	b.sendMessage(msg.Chat.ID, "Заказ отменен.")
	b.startOrder(msg)
}

func (b *Bot) handleStaffCommand(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}
	switch msg.Command() {
	case "orders":
		recs := b.tracker.ListOpen()
		if len(recs) == 0 {
			b.sendMessage(b.baristaChatID, "Нет активных заказов.")
			return
		}
		for _, rec := range recs {
			b.sendStaffOrder(rec, fmt.Sprintf("Заказ #%d от @%s:", rec.ID, rec.Customer))
		}
	case "menu_reload":
		if err := b.menuSvc.Refresh(ctx); err != nil {
			log.Printf("manual menu refresh failed: %v", err)
			b.sendMessage(b.baristaChatID, "Не удалось обновить меню, действует прежняя версия.")
			return
		}
		b.sendMessage(b.baristaChatID, "Меню обновлено.")
	}
}

// handleCallback routes button presses: customer menu choices carry the
// pick prefix, everything else is expected to be a staff action token.
func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		return
	}
	if strings.HasPrefix(cb.Data, pickPrefix) {
		b.handleCustomerInput(cb, strings.TrimPrefix(cb.Data, pickPrefix))
		return
	}
	b.handleStaffAction(cb)
}

// handleCustomerInput advances the customer's session by one choice and
// renders whatever comes next.
func (b *Bot) handleCustomerInput(cb *tgbotapi.CallbackQuery, input string) {
	customer := displayName(cb.From)
	s := b.sessions.Get(cb.From.ID, customer, cb.Message.Chat.ID)
	cat, err := b.menuSvc.Snapshot()
	if err != nil {
		log.Printf("menu unavailable for @%s: %v", customer, err)
		b.sendMessage(cb.Message.Chat.ID, menuUnavailableMsg)
		return
	}

	out, err := flow.Advance(s, input, cat)
	if err != nil {
		// Stale or foreign button: ask the current question again.
		log.Printf("invalid selection %q from @%s, re-rendering step", input, customer)
		b.editPrompt(cb, flow.PromptFor(s, cat))
		return
	}

	switch {
	case out.Confirmed:
		rec := b.tracker.Confirm(out.Result)
		log.Printf("order %d confirmed by @%s: %s", rec.ID, rec.Customer, rec.Description)
		b.editText(cb, rec.Description+"\nЗаказ подтвержден и отправлен на приготовление.")
		b.notifyBarista(rec)
	case out.Cancelled:
		log.Printf("order cancelled by @%s", customer)
		b.editText(cb, "Заказ отменен.")
	default:
		log.Printf("user @%s selected %q", customer, input)
		b.editPrompt(cb, out.Prompt)
	}
}

// handleStaffAction decodes an action token and applies the transition.
// Tokens are honored only from the barista chat.
func (b *Bot) handleStaffAction(cb *tgbotapi.CallbackQuery) {
	act, customer, orderID, err := token.Decode(cb.Data)
	if err != nil {
		log.Printf("malformed action token %q: %v", cb.Data, err)
		return
	}
	if cb.Message.Chat.ID != b.baristaChatID {
		log.Printf("staff action %q from chat %d ignored", act, cb.Message.Chat.ID)
		return
	}

	switch act {
	case token.ActionAccept:
		err = b.tracker.Acknowledge(customer, orderID)
	case token.ActionReady:
		err = b.tracker.MarkReady(customer, orderID)
	}
	if errors.Is(err, order.ErrNotFound) {
		b.sendMessage(b.baristaChatID, fmt.Sprintf("Заказ #%d уже обработан или не найден.", orderID))
		return
	}

	switch act {
	case token.ActionAccept:
		b.sendMessage(b.baristaChatID, fmt.Sprintf("Заказ #%d (@%s) принят в работу.", orderID, customer))
	case token.ActionReady:
		b.sendMessage(b.baristaChatID, fmt.Sprintf("Заказ #%d (@%s) готов, клиент уведомлен.", orderID, customer))
	}
}

// notifyBarista announces a fresh order in the staff chat with its action
// buttons. The order stays tracked even if delivery fails; the customer is
// told so staff can be pinged another way.
func (b *Bot) notifyBarista(rec order.Record) {
	if err := b.sendStaffOrder(rec, fmt.Sprintf("Новый заказ от @%s:", rec.Customer)); err != nil {
		log.Printf("failed to notify barista chat about order %d: %v", rec.ID, err)
		b.sendMessage(rec.ChatID, "Не удалось передать заказ бариста, покажите подтверждение на стойке.")
	}
}

func (b *Bot) sendStaffOrder(rec order.Record, header string) error {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Принят", token.Encode(token.ActionAccept, rec.Customer, rec.ID)),
			tgbotapi.NewInlineKeyboardButtonData("Готов", token.Encode(token.ActionReady, rec.Customer, rec.ID)),
		),
	)
	msg := tgbotapi.NewMessage(b.baristaChatID, header+"\n"+rec.Description)
	msg.ReplyMarkup = kb
	if _, err := b.s.Send(msg); err != nil {
		return err
	}
	return nil
}

func (b *Bot) sendPrompt(chatID int64, p flow.Prompt) {
	msg := tgbotapi.NewMessage(chatID, p.Text)
	msg.ReplyMarkup = keyboardFor(p)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send prompt: %v", err)
	}
}

// editPrompt replaces the pressed prompt in place, like the original
// message-editing flow, so the dialogue stays a single message.
func (b *Bot) editPrompt(cb *tgbotapi.CallbackQuery, p flow.Prompt) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, p.Text, keyboardFor(p))
	if _, err := b.s.Send(edit); err != nil {
		log.Printf("failed to edit prompt: %v", err)
	}
}

func (b *Bot) editText(cb *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	if _, err := b.s.Send(edit); err != nil {
		log.Printf("failed to edit message: %v", err)
	}
}

func keyboardFor(p flow.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(p.Options))
	for _, opt := range p.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, pickPrefix+opt.Data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return fmt.Sprintf("user_%d", u.ID)
}
