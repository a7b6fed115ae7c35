package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/middleware"
	tg "github.com/set-night/taskfaucet/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandlerMatchFunc(isCommand("start"), h.handleStart)
	h.bot.RegisterHandlerMatchFunc(isCommand("help"), h.handleHelp)
	h.bot.RegisterHandlerMatchFunc(isCommand("claim"), h.handleClaimCommand)

	// Admin commands
	h.bot.RegisterHandlerMatchFunc(isCommand("admin"), h.adminOnly(h.handleAdminPanel))
	h.bot.RegisterHandlerMatchFunc(isCommand("stats"), h.adminOnly(h.handleAdminStats))
	h.bot.RegisterHandlerMatchFunc(isCommand("manage_tasks"), h.adminOnly(h.handleManageTasks))
	h.bot.RegisterHandlerMatchFunc(isCommand("add_task"), h.adminOnly(h.handleAddTask))
	h.bot.RegisterHandlerMatchFunc(isCommand("broadcast"), h.adminOnly(h.handleBroadcast))
	h.bot.RegisterHandlerMatchFunc(isCommand("admin_reset_all_balances"), h.adminOnly(h.handleResetAllBalances))

	// Menu callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackBackToMain, bot.MatchTypeExact, h.callback(h.showWelcome))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackViewTasks, bot.MatchTypeExact, h.callback(h.showTasks))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackClaim, bot.MatchTypeExact, h.callback(h.showClaimPrompt))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackProfile, bot.MatchTypeExact, h.callback(h.showProfile))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackStatistics, bot.MatchTypeExact, h.callback(h.showStatistics))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackHelp, bot.MatchTypeExact, h.callback(h.showHowItWorks))

	// Task callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.PrefixViewTask, bot.MatchTypePrefix, h.callback(h.showTaskDetail))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.PrefixVerifyTask, bot.MatchTypePrefix, h.callback(h.verifyTask))

	// Admin callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAdminPanel, bot.MatchTypeExact, h.adminCallback(h.showAdminPanel))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAdminStats, bot.MatchTypeExact, h.adminCallback(h.showAdminStats))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAdminManageTasks, bot.MatchTypeExact, h.adminCallback(h.showManageTasks))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAdminAddTask, bot.MatchTypeExact, h.adminCallback(h.showAddTaskUsage))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAdminBroadcast, bot.MatchTypeExact, h.adminCallback(h.showBroadcastUsage))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackAdminResetAll, bot.MatchTypeExact, h.adminCallback(h.showResetUsage))
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.PrefixAdminDeleteTask, bot.MatchTypePrefix, h.adminCallback(h.deleteTask))
}

// screen renders one view into a chat. data is the callback payload, empty for commands.
type screen func(ctx context.Context, b *bot.Bot, chatID int64, data string)

// callback acknowledges the query and renders the screen into the chat the button lives in.
func (h *Handler) callback(s screen) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		q := update.CallbackQuery
		if q == nil {
			return
		}
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID})

		if q.Message.Message == nil || middleware.GetUser(ctx) == nil {
			return
		}
		s(ctx, b, q.Message.Message.Chat.ID, q.Data)
	}
}

func (h *Handler) adminCallback(s screen) bot.HandlerFunc {
	return h.callback(func(ctx context.Context, b *bot.Bot, chatID int64, data string) {
		if !middleware.GetUser(ctx).IsAdmin {
			h.reply(ctx, b, chatID, "❌ Unauthorized", nil)
			return
		}
		s(ctx, b, chatID, data)
	})
}

// adminOnly ignores commands from non-admins.
func (h *Handler) adminOnly(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		user := middleware.GetUser(ctx)
		if user == nil || !user.IsAdmin {
			return
		}
		next(ctx, b, update)
	}
}
