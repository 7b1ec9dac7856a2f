package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/menu"
)

// sender is the part of *tgbotapi.BotAPI used to put content on screen.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Renderer shows menu content in Telegram. Telegram cannot turn a photo
// message into a text message, so media targets are replaced by a new
// message and the old one is deleted.
type Renderer struct {
	api    sender
	logger *zap.Logger
}

func NewRenderer(api sender, logger *zap.Logger) *Renderer {
	return &Renderer{api: api, logger: logger}
}

func (r *Renderer) Render(ctx context.Context, target menu.Target, content menu.Content) error {
	if content.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(target.ChatID, tgbotapi.FileURL(content.PhotoURL))
		photo.Caption = content.Text
		if kb := inlineKeyboard(content.Keyboard); kb != nil {
			photo.ReplyMarkup = *kb
		}
		if _, err := r.api.Send(photo); err != nil {
			r.logger.Warn("Failed to send photo, falling back to text",
				zap.Error(err),
				zap.String("interaction_id", activity.InteractionID(ctx)),
				zap.String("photo", content.PhotoURL))
			return r.renderText(ctx, target, content)
		}
		r.deleteMessage(ctx, target)
		return nil
	}
	return r.renderText(ctx, target, content)
}

func (r *Renderer) renderText(ctx context.Context, target menu.Target, content menu.Content) error {
	kb := inlineKeyboard(content.Keyboard)

	if target.MessageID == 0 || target.HasMedia {
		msg := tgbotapi.NewMessage(target.ChatID, content.Text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		if _, err := r.api.Send(msg); err != nil {
			return err
		}
		if target.HasMedia {
			r.deleteMessage(ctx, target)
		}
		return nil
	}

	edit := tgbotapi.NewEditMessageText(target.ChatID, target.MessageID, content.Text)
	edit.ReplyMarkup = kb
	if _, err := r.api.Send(edit); err != nil {
		// Pressing the same button twice edits to identical content.
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	return nil
}

func (r *Renderer) deleteMessage(ctx context.Context, target menu.Target) {
	if target.MessageID == 0 {
		return
	}
	if _, err := r.api.Request(tgbotapi.NewDeleteMessage(target.ChatID, target.MessageID)); err != nil {
		r.logger.Warn("Failed to delete message",
			zap.Error(err),
			zap.String("interaction_id", activity.InteractionID(ctx)),
			zap.Int64("chat_id", target.ChatID),
			zap.Int("message_id", target.MessageID))
	}
}

func inlineKeyboard(rows [][]menu.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		out = append(out, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &markup
}
