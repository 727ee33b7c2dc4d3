package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"headache-tracker/internal/dialog"
)

const (
	cmdStart = "start"
	cmdReset = "reset"
)

// sender is the seam between the bot and the Telegram API, kept narrow so
// tests can swap it out.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type botAPISender struct{ api *tgbotapi.BotAPI }

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

func (s botAPISender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return s.api.Request(c)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	s      sender
	engine *dialog.Engine
}

func New(botToken string, engine *dialog.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, s: botAPISender{api: api}, engine: engine}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
			continue
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	r := b.replier(msg.Chat.ID)

	if msg.IsCommand() {
		switch msg.Command() {
		case cmdStart:
			if err := b.engine.Greet(r); err != nil {
				log.Printf("failed to greet user %d: %v", msg.From.ID, err)
			}
		case cmdReset:
			if err := b.engine.Reset(msg.From.ID, r); err != nil {
				log.Printf("failed to reset user %d: %v", msg.From.ID, err)
			}
		}
		return
	}

	if err := b.engine.HandleText(ctx, msg.From.ID, msg.Text, r); err != nil {
		log.Printf("failed to handle text from %d: %v", msg.From.ID, err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// stop the client-side spinner no matter what the token decodes to
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to ack callback from %d: %v", cb.From.ID, err)
	}

	act, ok := dialog.ParseAction(cb.Data)
	if !ok {
		log.Printf("dropping unknown callback token %q from %d", cb.Data, cb.From.ID)
		return
	}

	if err := b.engine.HandleAction(ctx, cb.From.ID, act, b.replier(cb.Message.Chat.ID)); err != nil {
		log.Printf("failed to handle callback %q from %d: %v", cb.Data, cb.From.ID, err)
	}
}

func (b *Bot) replier(chatID int64) chatReplier {
	return chatReplier{s: b.s, chatID: chatID}
}

// chatReplier implements the dialog Replier for one chat.
type chatReplier struct {
	s      sender
	chatID int64
}

func (r chatReplier) SendText(text string) error {
	_, err := r.s.Send(tgbotapi.NewMessage(r.chatID, text))
	return err
}

func (r chatReplier) SendPrompt(text string, rows [][]dialog.Button) error {
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Token))
		}
		kb = append(kb, btns)
	}
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: kb}
	_, err := r.s.Send(msg)
	return err
}

func (r chatReplier) SendDocument(name string, data []byte) error {
	doc := tgbotapi.NewDocument(r.chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := r.s.Send(doc)
	return err
}
