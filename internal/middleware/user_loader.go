package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/set-night/taskfaucet/internal/service"
)

type ctxKey string

const UserKey ctxKey = "user"

// GetUser extracts user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

// RegistrationLogger is told about users seen for the first time.
type RegistrationLogger interface {
	LogRegistration(u *domain.User)
}

// UserLoader returns middleware that registers or refreshes the sender and puts it into context.
func UserLoader(userService *service.UserService, cfg interface{ IsAdmin(int64) bool }, registrations RegistrationLogger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil || from.IsBot {
				next(ctx, b, update)
				return
			}

			user, created, err := userService.FindOrCreate(ctx, from.ID, from.FirstName, from.Username, cfg.IsAdmin(from.ID))
			if err != nil {
				slog.Error("failed to load user", "error", err, "user_id", from.ID)
				next(ctx, b, update)
				return
			}
			if created {
				slog.Info("user registered", "user_id", user.ID, "username", user.Username)
				if registrations != nil {
					registrations.LogRegistration(user)
				}
			}

			next(WithUser(ctx, user), b, update)
		}
	}
}
