package bot

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/assistant"
	"github.com/xaenox/blacksea-bot/internal/menu"
	"github.com/xaenox/blacksea-bot/internal/models"
)

// telegramAPI is the subset of *tgbotapi.BotAPI the bot relies on.
type telegramAPI interface {
	sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Router interface {
	Start(ctx context.Context, req menu.Request)
	Menu(ctx context.Context, req menu.Request)
	Dispatch(ctx context.Context, req menu.Request)
}

type Concierge interface {
	Answer(ctx context.Context, question string) assistant.Reply
}

type Recorder interface {
	Track(ctx context.Context, u models.User, a activity.Action) error
	Log(ctx context.Context, u models.User, a activity.Action) error
	SharePhone(ctx context.Context, u models.User, phone string) error
}

const maxQuestionData = 200

type Bot struct {
	api       telegramAPI
	router    Router
	recorder  Recorder
	concierge Concierge
	renderer  menu.Renderer
	logger    *zap.Logger

	wg sync.WaitGroup
}

// Connect authorizes against the Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return api, nil
}

func New(api telegramAPI, router Router, recorder Recorder, concierge Concierge, renderer menu.Renderer, logger *zap.Logger) *Bot {
	return &Bot{
		api:       api,
		router:    router,
		recorder:  recorder,
		concierge: concierge,
		renderer:  renderer,
		logger:    logger,
	}
}

// Start long-polls for updates until ctx is cancelled, handling each update
// in its own goroutine. It returns after in-flight updates finish.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = activity.WithInteractionID(ctx, uuid.NewString())
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic while handling update",
				zap.Any("panic", r),
				zap.String("interaction_id", activity.InteractionID(ctx)),
				zap.Int("update_id", update.UpdateID))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", zap.Error(err), zap.String("callback_id", query.ID))
	}
	if query.Message == nil || query.From == nil {
		return
	}

	b.router.Dispatch(ctx, menu.Request{
		Trigger: query.Data,
		User:    userFrom(query.From),
		Target: menu.Target{
			ChatID:    query.Message.Chat.ID,
			MessageID: query.Message.MessageID,
			HasMedia:  len(query.Message.Photo) > 0,
		},
	})
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Contact != nil {
		b.handleContact(ctx, message)
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := message.Text
	if message.Caption != "" {
		text = message.Caption
	}
	if text == "" {
		return
	}
	b.handleQuestion(ctx, message, text)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	req := menu.Request{
		Trigger: message.Command(),
		User:    userFrom(message.From),
		Target:  menu.Target{ChatID: message.Chat.ID},
	}

	switch message.Command() {
	case "start":
		b.router.Start(ctx, req)
	case "menu":
		b.router.Menu(ctx, req)
	case "phone":
		b.handlePhoneRequest(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Неизвестная команда. Используйте /menu, чтобы открыть главное меню.")
	}
}

func (b *Bot) handlePhoneRequest(ctx context.Context, message *tgbotapi.Message) {
	user := userFrom(message.From)
	if err := b.recorder.Track(ctx, user, activity.Action{Name: "request_phone", Type: models.ActionButtonClick}); err != nil {
		b.logger.Error("Failed to record activity", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	keyboard := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButtonContact("📱 Поделиться номером телефона"),
	))
	keyboard.OneTimeKeyboard = true

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Для получения дополнительных возможностей, пожалуйста, поделитесь своим номером телефона:")
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send phone request",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

// handleContact stores the phone number only when users share their own
// contact card.
func (b *Bot) handleContact(ctx context.Context, message *tgbotapi.Message) {
	user := userFrom(message.From)
	contact := message.Contact

	var text string
	if contact.UserID == user.ID {
		if err := b.recorder.SharePhone(ctx, user, contact.PhoneNumber); err != nil {
			b.logger.Error("Failed to save phone number",
				zap.Error(err),
				zap.String("interaction_id", activity.InteractionID(ctx)),
				zap.Int64("user_id", user.ID))
			b.sendErrorMessage(message.Chat.ID, "Не удалось сохранить номер телефона. Попробуйте позже.")
			return
		}
		text = "Спасибо! Ваш номер телефона успешно сохранен."
	} else {
		b.logger.Warn("Rejected foreign contact",
			zap.String("interaction_id", activity.InteractionID(ctx)),
			zap.Int64("user_id", user.ID),
			zap.Int64("contact_user_id", contact.UserID))
		if err := b.recorder.Log(ctx, user, activity.Action{
			Name:   "phone_shared",
			Type:   models.ActionUserData,
			Data:   "invalid_phone_owner",
			Status: models.StatusError,
		}); err != nil {
			b.logger.Error("Failed to record activity", zap.Error(err), zap.Int64("user_id", user.ID))
		}
		text = "К сожалению, мы можем принять только ваш собственный номер телефона."
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleQuestion(ctx context.Context, message *tgbotapi.Message, text string) {
	user := userFrom(message.From)
	reply := b.concierge.Answer(ctx, text)

	if err := b.recorder.Log(ctx, user, activity.Action{
		Name: "concierge",
		Type: models.ActionMessage,
		Data: truncate(text, maxQuestionData),
	}); err != nil {
		b.logger.Error("Failed to record activity", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	content := menu.Content{
		Text:     reply.Text,
		Keyboard: [][]menu.Button{{{Text: reply.Topic.Label, Data: reply.Topic.Trigger}}},
	}
	if err := b.renderer.Render(ctx, menu.Target{ChatID: message.Chat.ID}, content); err != nil {
		b.logger.Error("Failed to send concierge reply",
			zap.Error(err),
			zap.String("interaction_id", activity.InteractionID(ctx)),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func userFrom(u *tgbotapi.User) models.User {
	return models.User{
		ID:           u.ID,
		Username:     u.UserName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
