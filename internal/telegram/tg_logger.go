package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/config"
	"github.com/set-night/taskfaucet/internal/domain"
)

// TelegramLogger posts faucet events to the log chat topics and notifies admins about completions.
type TelegramLogger struct {
	api BotAPI
	cfg *config.Config
}

func NewTelegramLogger(api BotAPI, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{api: api, cfg: cfg}
}

type LogType string

const (
	LogTypeError        LogType = "error"
	LogTypeRegistration LogType = "registration"
	LogTypeTask         LogType = "task"
	LogTypeClaim        LogType = "claim"
	LogTypeSpam         LogType = "spam"
)

const sendTimeout = 10 * time.Second

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, err := l.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		EscapeMarkdown(context), err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogRegistration(u *domain.User) {
	msg := fmt.Sprintf("👤 *New Registration*\n\n*ID:* `%d`\n*Name:* %s",
		u.ID, EscapeMarkdown(u.DisplayName()))
	l.Log(LogTypeRegistration, msg)
}

// TaskCompleted tells every admin except the completing user, then logs the event.
// A failed admin delivery is logged and skipped.
func (l *TelegramLogger) TaskCompleted(ctx context.Context, u *domain.User, t *domain.Task) {
	msg := fmt.Sprintf("🔔 *Task Completed Notification*\n\n👤 *User:* %s (ID: %d)\n✅ *Task:* %s\n💰 *Reward:* %s TON",
		EscapeMarkdown(u.DisplayName()), u.ID, EscapeMarkdown(t.Name), FormatAmount(t.Reward))

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()
	for _, adminID := range l.cfg.AdminIDs {
		if adminID == u.ID {
			continue
		}
		if _, err := SendLongMessage(sendCtx, l.api, adminID, msg, nil); err != nil {
			slog.Warn("admin notification failed", "admin_id", adminID, "error", err)
		}
	}

	l.Log(LogTypeTask, msg)
}

func (l *TelegramLogger) ClaimSettled(_ context.Context, u *domain.User, r *domain.Receipt) {
	msg := fmt.Sprintf("💸 *Claim Paid*\n\n*User:* %s (ID: %d)\n*Amount:* %s TON\n*To:* `%s`\n[Transaction](%s)",
		EscapeMarkdown(u.DisplayName()), u.ID, FormatAmount(r.Amount), r.Address, r.ExplorerURL)
	l.Log(LogTypeClaim, msg)
}

func (l *TelegramLogger) SpamDetected(_ context.Context, u *domain.User, elapsed time.Duration) {
	msg := fmt.Sprintf("🚨 *Spam Detected*\n\n*User:* %s (ID: %d)\n*Gap:* %d ms\nBalance reset to 0.",
		EscapeMarkdown(u.DisplayName()), u.ID, elapsed.Milliseconds())
	l.Log(LogTypeSpam, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeRegistration:
		return l.cfg.LogTopicRegistration
	case LogTypeTask:
		return l.cfg.LogTopicTask
	case LogTypeClaim:
		return l.cfg.LogTopicClaim
	case LogTypeSpam:
		return l.cfg.LogTopicSpam
	default:
		return 0
	}
}
