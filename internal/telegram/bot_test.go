package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"headache-tracker/internal/dialog"
	"headache-tracker/internal/episode"
	"headache-tracker/internal/report"
	"headache-tracker/internal/session"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	acks int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.acks++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type stubRepo struct{ saved int }

func (s *stubRepo) Save(context.Context, episode.Episode) (int64, error) {
	s.saved++
	return int64(s.saved), nil
}

func (s *stubRepo) QueryRange(context.Context, int64, time.Time, time.Time) ([]episode.Episode, error) {
	return nil, nil
}

type stubBuilder struct{}

func (stubBuilder) Build([]episode.Episode, report.Period) ([]byte, error) {
	return []byte("%PDF"), nil
}

func newTestBot() (*Bot, *fakeSender, *session.Store) {
	fs := &fakeSender{}
	store := session.NewStore()
	engine := dialog.NewEngine(store, &stubRepo{}, stubBuilder{}, time.UTC)
	return &Bot{s: fs, engine: engine}, fs, store
}

func cmdMessage(userID, chatID int64, cmd string) *tgbotapi.Message {
	text := "/" + cmd
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}

func msgText(t *testing.T, c tgbotapi.Chattable) string {
	t.Helper()
	mc, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected MessageConfig, got %T", c)
	}
	return mc.Text
}

func TestStartCommandGreetsAndShowsMenu(t *testing.T) {
	b, fs, _ := newTestBot()

	b.handleMessage(context.Background(), cmdMessage(1, 100, "start"))

	if len(fs.sent) != 2 {
		t.Fatalf("expected greeting + menu, got %d messages", len(fs.sent))
	}
	if got := msgText(t, fs.sent[0]); got != "Hello! I'm your headache tracking bot." {
		t.Fatalf("greeting: %q", got)
	}
	menu := fs.sent[1].(tgbotapi.MessageConfig)
	kb, ok := menu.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("menu has no inline keyboard: %T", menu.ReplyMarkup)
	}
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("menu rows: %d", len(kb.InlineKeyboard))
	}
	if *kb.InlineKeyboard[0][0].CallbackData != "record" {
		t.Fatalf("first menu token: %q", *kb.InlineKeyboard[0][0].CallbackData)
	}
}

func TestResetCommandClearsSession(t *testing.T) {
	b, fs, store := newTestBot()
	store.Create(1)

	b.handleMessage(context.Background(), cmdMessage(1, 100, "reset"))

	if _, ok := store.Get(1); ok {
		t.Fatal("session should be cleared by /reset")
	}
	if len(fs.sent) != 1 {
		t.Fatalf("expected just the menu, got %d messages", len(fs.sent))
	}
	if got := msgText(t, fs.sent[0]); got != "Choose an option:" {
		t.Fatalf("menu text: %q", got)
	}
}

func TestCallbackIsAckedAndDispatched(t *testing.T) {
	b, fs, store := newTestBot()

	cb := &tgbotapi.CallbackQuery{
		ID:      "cbid",
		From:    &tgbotapi.User{ID: 7},
		Data:    "record",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 200}},
	}
	b.handleCallback(context.Background(), cb)

	if fs.acks != 1 {
		t.Fatalf("callback not acked: %d", fs.acks)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("expected day prompt, got %d messages", len(fs.sent))
	}
	if got := msgText(t, fs.sent[0]); got != "Which day?" {
		t.Fatalf("day prompt: %q", got)
	}
	if d, ok := store.Get(7); !ok || d.Step != session.StepDayChoice {
		t.Fatalf("draft not created: %+v ok=%v", d, ok)
	}
}

func TestUnknownCallbackTokenIsDropped(t *testing.T) {
	b, fs, store := newTestBot()

	cb := &tgbotapi.CallbackQuery{
		ID:      "cbid",
		From:    &tgbotapi.User{ID: 7},
		Data:    "definitely_not_a_token",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 200}},
	}
	b.handleCallback(context.Background(), cb)

	if fs.acks != 1 {
		t.Fatal("even unknown tokens get acked")
	}
	if len(fs.sent) != 0 {
		t.Fatalf("unknown token produced output: %v", fs.sent)
	}
	if _, ok := store.Get(7); ok {
		t.Fatal("unknown token must not touch sessions")
	}
}

func TestFreeTextRoutedToEngine(t *testing.T) {
	b, fs, store := newTestBot()
	store.Create(3)
	store.Mutate(3, func(d *session.Draft) { d.Step = session.StepStartTimeText })

	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 3},
		Chat: &tgbotapi.Chat{ID: 300},
		Text: "09:45",
	}
	b.handleMessage(context.Background(), msg)

	d, ok := store.Get(3)
	if !ok || d.Start == nil || d.Start.String() != "09:45" {
		t.Fatalf("start time not applied: %+v", d)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("expected medication prompt, got %d", len(fs.sent))
	}
	if got := msgText(t, fs.sent[0]); got != "Did you take medication?" {
		t.Fatalf("prompt: %q", got)
	}
}

func TestSendDocumentCarriesNameAndBytes(t *testing.T) {
	fs := &fakeSender{}
	r := chatReplier{s: fs, chatID: 5}

	if err := r.SendDocument("headache_report.pdf", []byte("%PDF")); err != nil {
		t.Fatal(err)
	}
	dc, ok := fs.sent[0].(tgbotapi.DocumentConfig)
	if !ok {
		t.Fatalf("expected DocumentConfig, got %T", fs.sent[0])
	}
	fb, ok := dc.File.(tgbotapi.FileBytes)
	if !ok {
		t.Fatalf("expected FileBytes, got %T", dc.File)
	}
	if fb.Name != "headache_report.pdf" || string(fb.Bytes) != "%PDF" {
		t.Fatalf("unexpected file: %q %q", fb.Name, fb.Bytes)
	}
}
