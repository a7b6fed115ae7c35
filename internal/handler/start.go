package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/middleware"
	tg "github.com/set-night/taskfaucet/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || middleware.GetUser(ctx) == nil {
		return
	}
	h.showWelcome(ctx, b, update.Message.Chat.ID, "")
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if update.Message == nil || user == nil {
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, helpText(user.IsAdmin), nil)
}

func (h *Handler) showWelcome(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	user := middleware.GetUser(ctx)

	balance, err := h.ledger.Balance(ctx, user.ID)
	if err != nil {
		h.fail(ctx, b, chatID, err, "load balance")
		return
	}
	faucet := h.stats.FaucetBalance(ctx)

	h.reply(ctx, b, chatID, welcomeText(user, balance, faucet, h.catalog.Count()), tg.MainMenu(user.IsAdmin))
}

func (h *Handler) showProfile(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	user := middleware.GetUser(ctx)

	profile, err := h.users.Profile(ctx, user.ID)
	if err != nil {
		h.fail(ctx, b, chatID, err, "load profile")
		return
	}
	h.reply(ctx, b, chatID, profileText(profile), tg.BackToMain())
}

func (h *Handler) showStatistics(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	st, err := h.stats.Collect(ctx)
	if err != nil {
		slog.Error("collect stats failed", "error", err)
		h.reply(ctx, b, chatID, "❌ Error loading statistics", nil)
		return
	}
	h.reply(ctx, b, chatID, statisticsText(st), tg.BackToMain())
}

func (h *Handler) showHowItWorks(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	h.reply(ctx, b, chatID, textHowItWorks, tg.BackToMain())
}
