package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/assistant"
	"github.com/xaenox/blacksea-bot/internal/excursions"
	"github.com/xaenox/blacksea-bot/internal/menu"
	"github.com/xaenox/blacksea-bot/internal/models"
	"github.com/xaenox/blacksea-bot/internal/storage"
	"github.com/xaenox/blacksea-bot/internal/weather"
)

type fakeAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	sendErr   func(tgbotapi.Chattable) error
	updates   chan tgbotapi.Update
	stopped   bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		if err := f.sendErr(c); err != nil {
			return tgbotapi.Message{}, err
		}
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 1000 + len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type stubWeather struct{}

func (stubWeather) Current(context.Context, string) (weather.Current, error) {
	return weather.Current{Description: "ясно", Emoji: "☀️", Temp: 26}, nil
}

func (stubWeather) Forecast(context.Context, string, int) ([]weather.DailyForecast, error) {
	return nil, nil
}

type harness struct {
	bot   *Bot
	api   *fakeAPI
	store *storage.MemoryStorage
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	store := storage.NewMemoryStorage()
	recorder := activity.NewRecorder(store, time.UTC, logger)
	catalog, err := excursions.New(nil)
	require.NoError(t, err)

	renderer := NewRenderer(api, logger)
	router := menu.NewRouter(menu.Config{}, stubWeather{}, catalog, recorder, renderer, nil, logger)
	concierge := assistant.NewConcierge(assistant.Config{}, logger)

	return &harness{
		bot:   New(api, router, recorder, concierge, renderer, logger),
		api:   api,
		store: store,
	}
}

var from = &tgbotapi.User{ID: 42, UserName: "sea_lover", FirstName: "Anna", LanguageCode: "ru"}

func command(name string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 5,
		From:      from,
		Chat:      &tgbotapi.Chat{ID: 100},
		Text:      "/" + name,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name) + 1}},
	}
}

func TestHandleUpdate_StartCommand(t *testing.T) {
	h := newHarness(t)

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: command("start")})

	require.Len(t, h.api.sent, 1)
	msg, ok := h.api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.Contains(t, msg.Text, "Привет! Я ваш помощник")

	profile, err := h.store.GetUser(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "sea_lover", profile.Username)
	require.Equal(t, "Запуск бота", profile.LastCommand)
}

func TestHandleUpdate_CallbackEditsInPlace(t *testing.T) {
	h := newHarness(t)

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    from,
		Data:    "city_Сочи",
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 100}},
	}})

	require.Len(t, h.api.requested, 1)
	require.Equal(t, "cb1", h.api.requested[0].(tgbotapi.CallbackConfig).CallbackQueryID)

	require.Len(t, h.api.sent, 1)
	edit, ok := h.api.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	require.Equal(t, 7, edit.MessageID)
	require.Contains(t, edit.Text, "Погода в городе Сочи")

	recs, _ := h.store.ListActivities(context.Background())
	require.Len(t, recs, 2)
	require.NotEqual(t, recs[0].ID, recs[1].ID)
}

func TestHandleUpdate_UnknownCallbackOnlyAnswers(t *testing.T) {
	h := newHarness(t)

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb2",
		From:    from,
		Data:    "main_menu",
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 100}},
	}})

	require.Len(t, h.api.requested, 1)
	require.Empty(t, h.api.sent)
	recs, _ := h.store.ListActivities(context.Background())
	require.Empty(t, recs)
}

func TestHandleUpdate_OwnContact(t *testing.T) {
	h := newHarness(t)
	msg := &tgbotapi.Message{
		From:    from,
		Chat:    &tgbotapi.Chat{ID: 100},
		Contact: &tgbotapi.Contact{PhoneNumber: "+79990001122", UserID: 42},
	}

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	reply := h.api.sent[0].(tgbotapi.MessageConfig)
	require.Equal(t, "Спасибо! Ваш номер телефона успешно сохранен.", reply.Text)
	require.IsType(t, tgbotapi.ReplyKeyboardRemove{}, reply.ReplyMarkup)

	profile, err := h.store.GetUser(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "+79990001122", profile.PhoneNumber)
}

func TestHandleUpdate_ForeignContactRejected(t *testing.T) {
	h := newHarness(t)
	msg := &tgbotapi.Message{
		From:    from,
		Chat:    &tgbotapi.Chat{ID: 100},
		Contact: &tgbotapi.Contact{PhoneNumber: "+70000000000", UserID: 7},
	}

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	reply := h.api.sent[0].(tgbotapi.MessageConfig)
	require.Equal(t, "К сожалению, мы можем принять только ваш собственный номер телефона.", reply.Text)

	_, err := h.store.GetUser(context.Background(), 42)
	require.ErrorIs(t, err, storage.ErrNotFound)

	recs, _ := h.store.ListActivities(context.Background())
	require.Len(t, recs, 1)
	require.Equal(t, "invalid_phone_owner", recs[0].ActionData)
	require.Equal(t, models.StatusError, recs[0].Status)
}

func TestHandleUpdate_PhoneCommand(t *testing.T) {
	h := newHarness(t)

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: command("phone")})

	msg := h.api.sent[0].(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.True(t, kb.Keyboard[0][0].RequestContact)
	require.True(t, kb.OneTimeKeyboard)
}

func TestHandleUpdate_UnknownCommand(t *testing.T) {
	h := newHarness(t)

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: command("help")})

	require.Contains(t, h.api.sent[0].(tgbotapi.MessageConfig).Text, "/menu")
}

func TestHandleUpdate_FreeTextGoesToConcierge(t *testing.T) {
	h := newHarness(t)
	msg := &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: 100}, Text: "Какая погода завтра?"}

	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	reply := h.api.sent[0].(tgbotapi.MessageConfig)
	require.Contains(t, reply.Text, "«Погода»")
	kb := reply.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Equal(t, "weather", *kb.InlineKeyboard[0][0].CallbackData)

	recs, _ := h.store.ListActivities(context.Background())
	require.Len(t, recs, 1)
	require.Equal(t, models.ActionMessage, recs[0].ActionType)
	require.Equal(t, "Какая погода завтра?", recs[0].ActionData)
}

func TestHandleUpdate_RecoversFromPanic(t *testing.T) {
	h := newHarness(t)
	h.api.sendErr = func(tgbotapi.Chattable) error { panic("boom") }

	require.NotPanics(t, func() {
		h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: command("help")})
	})
}

func TestStart_StopsOnCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.bot.Start(ctx) }()

	h.api.updates <- tgbotapi.Update{Message: command("start")}
	require.Eventually(t, func() bool { return h.api.sentCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("bot did not stop")
	}
	require.True(t, h.api.stopped)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "абв", truncate("абв", 3))
	require.Equal(t, "аб…", truncate("абв", 2))
}
