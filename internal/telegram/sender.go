package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/config"
	"github.com/set-night/taskfaucet/internal/domain"
)

// BotAPI is the part of *bot.Bot used for outgoing messages.
type BotAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails. The keyboard goes under the last part.
func SendLongMessage(ctx context.Context, b BotAPI, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	parts := SplitMessage(text, config.MaxTelegramMessageLen)

	var last *models.Message
	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if i == len(parts)-1 && markup != nil {
			params.ReplyMarkup = markup
		}

		msg, err := b.SendMessage(ctx, params)
		if err != nil && !errors.Is(err, bot.ErrorForbidden) {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			msg, err = b.SendMessage(ctx, params)
		}
		if err != nil {
			if errors.Is(err, bot.ErrorForbidden) {
				return nil, fmt.Errorf("send message: %w: %w", domain.ErrBotBlocked, err)
			}
			return nil, fmt.Errorf("send message: %w", err)
		}
		last = msg
	}

	return last, nil
}

// EditMessage replaces the text of a message sent earlier, falling back to plain text.
func EditMessage(ctx context.Context, b BotAPI, chatID int64, messageID int, text string, markup models.ReplyMarkup) error {
	runes := []rune(text)
	if len(runes) > config.MaxTelegramMessageLen {
		text = string(runes[:config.MaxTelegramMessageLen-3]) + "..."
	}

	params := &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		params.ParseMode = ""
		if _, err := b.EditMessageText(ctx, params); err != nil {
			return fmt.Errorf("edit message: %w", err)
		}
	}
	return nil
}

// Sender delivers plain broadcast text. A user who blocked the bot yields domain.ErrBotBlocked.
type Sender struct {
	api BotAPI
}

func NewSender(api BotAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := SendLongMessage(ctx, s.api, chatID, text, nil)
	return err
}
