package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/middleware"
	tg "github.com/set-night/taskfaucet/internal/telegram"
)

func (h *Handler) showClaimPrompt(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	user := middleware.GetUser(ctx)

	balance, err := h.claims.Prepare(ctx, user.ID)
	if err != nil {
		h.report(chatID, err, "prepare claim")
		h.reply(ctx, b, chatID, errorText(err), tg.BackToMain())
		return
	}
	h.reply(ctx, b, chatID, claimPromptText(balance), tg.BackToMain())
}

// handleClaimCommand pays the whole balance to the address given after /claim.
func (h *Handler) handleClaimCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if update.Message == nil || user == nil {
		return
	}
	chatID := update.Message.Chat.ID

	_, address, _ := parseCommand(update.Message.Text)
	if address == "" {
		h.reply(ctx, b, chatID, textClaimUsage, nil)
		return
	}

	amount, err := h.claims.Prepare(ctx, user.ID)
	if err != nil {
		h.fail(ctx, b, chatID, err, "prepare claim")
		return
	}

	h.async(func() {
		progress := h.reply(ctx, b, chatID, sendingText(amount), nil)

		receipt, err := h.claims.Claim(ctx, user, address)
		if err != nil {
			h.report(chatID, err, "claim")
			h.finish(ctx, b, chatID, progress, errorText(err), tg.BackToMain())
			return
		}
		h.stats.ForgetBalance()
		h.finish(ctx, b, chatID, progress, claimSuccessText(receipt), tg.MainMenu(user.IsAdmin))
	})
}
