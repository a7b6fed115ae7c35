package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrorReporter receives recovered panics.
type ErrorReporter interface {
	LogError(err error, context string)
}

// Recover turns a panicking handler into a logged error. The update is dropped.
func Recover(reporter ErrorReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				kind, chatID, userID := describe(update)
				slog.Error("handler panicked",
					"panic", r,
					"update_id", update.ID,
					"kind", kind,
					"chat_id", chatID,
					"user_id", userID,
					"stack", string(debug.Stack()),
				)
				if reporter != nil {
					reporter.LogError(fmt.Errorf("panic: %v", r), fmt.Sprintf("%s update from user %d", kind, userID))
				}
			}()
			next(ctx, b, update)
		}
	}
}
