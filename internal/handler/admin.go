package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/middleware"
	"github.com/set-night/taskfaucet/internal/service"
	tg "github.com/set-night/taskfaucet/internal/telegram"
)

func (h *Handler) handleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.showAdminPanel(ctx, b, update.Message.Chat.ID, "")
}

func (h *Handler) handleAdminStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.showAdminStats(ctx, b, update.Message.Chat.ID, "")
}

func (h *Handler) handleManageTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.showManageTasks(ctx, b, update.Message.Chat.ID, "")
}

func (h *Handler) showAdminPanel(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	st, err := h.stats.Collect(ctx)
	if err != nil {
		h.fail(ctx, b, chatID, err, "collect stats")
		return
	}
	h.reply(ctx, b, chatID, adminPanelText(st.Users, st.ActiveTasks, st.FaucetBalance), tg.AdminMenu())
}

func (h *Handler) showAdminStats(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	st, err := h.stats.Collect(ctx)
	if err != nil {
		h.fail(ctx, b, chatID, err, "collect stats")
		return
	}
	h.reply(ctx, b, chatID, adminStatsText(st), tg.BackToAdmin())
}

func (h *Handler) showManageTasks(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	tasks := h.catalog.Active()
	if len(tasks) == 0 {
		h.reply(ctx, b, chatID, "📭 No tasks available to manage.", tg.BackToAdmin())
		return
	}
	h.reply(ctx, b, chatID, "🗑️ *Manage Tasks*\n\nSelect a task to delete:", tg.ManageTasks(tasks))
}

func (h *Handler) deleteTask(ctx context.Context, b *bot.Bot, chatID int64, data string) {
	task, err := h.catalog.Get(strings.TrimPrefix(data, tg.PrefixAdminDeleteTask))
	if err != nil {
		h.reply(ctx, b, chatID, errorText(err), tg.BackToAdmin())
		return
	}

	if err := h.catalog.SoftDelete(ctx, task.ID); err != nil {
		h.fail(ctx, b, chatID, err, "delete task")
		return
	}

	slog.Info("task deleted", "task_id", task.ID, "by", middleware.GetUser(ctx).ID)
	h.reply(ctx, b, chatID, taskDeletedText(task), tg.BackToAdmin())
}

func (h *Handler) showAddTaskUsage(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	h.reply(ctx, b, chatID, textAddTaskUsage, tg.BackToAdmin())
}

func (h *Handler) showBroadcastUsage(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	h.reply(ctx, b, chatID, textBroadcastUsage, tg.BackToAdmin())
}

func (h *Handler) showResetUsage(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	h.reply(ctx, b, chatID, textResetUsage, tg.BackToAdmin())
}

func (h *Handler) handleAddTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	chatID := update.Message.Chat.ID

	_, args, _ := parseCommand(update.Message.Text)
	parsed, err := parseAddTask(args)
	if errors.Is(err, errUsage) {
		h.reply(ctx, b, chatID, textAddTaskUsage, nil)
		return
	}
	if err != nil {
		h.reply(ctx, b, chatID, errorText(err), nil)
		return
	}

	task, err := h.catalog.Add(ctx, service.AddTaskParams{
		Link:        parsed.Link,
		Description: parsed.Description,
		Reward:      parsed.Reward,
		CreatedBy:   user.ID,
	})
	if err != nil {
		h.fail(ctx, b, chatID, err, "add task")
		return
	}

	slog.Info("task added", "task_id", task.ID, "reward", task.Reward.String(), "by", user.ID)
	h.tgLogger.Log(tg.LogTypeTask, fmt.Sprintf("📤 Task added by %d\n%s\nReward: %s TON", user.ID, task.Name, tg.FormatAmount(task.Reward)))
	h.reply(ctx, b, chatID, taskAddedText(task), tg.BackToAdmin())
}

func (h *Handler) handleBroadcast(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	_, text, _ := parseCommand(update.Message.Text)
	if text == "" {
		h.reply(ctx, b, chatID, textBroadcastUsage, nil)
		return
	}

	progress := h.reply(ctx, b, chatID, "📣 Starting broadcast...", nil)

	h.async(func() {
		res, err := h.broadcasts.Broadcast(ctx, "📢 *ADMIN BROADCAST*\n\n"+text)
		if err != nil {
			h.report(chatID, err, "broadcast")
			h.finish(ctx, b, chatID, progress, errorText(err), nil)
			return
		}
		slog.Info("broadcast finished", "total", res.Total, "sent", res.Sent, "failed", res.Failed)
		h.finish(ctx, b, chatID, progress, broadcastResultText(res), tg.BackToAdmin())
	})
}

func (h *Handler) handleResetAllBalances(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	chatID := update.Message.Chat.ID

	_, args, _ := parseCommand(update.Message.Text)
	amount, err := parseResetAmount(args)
	if errors.Is(err, errUsage) {
		h.reply(ctx, b, chatID, textResetUsage, nil)
		return
	}
	if err != nil {
		h.reply(ctx, b, chatID, errorText(err), nil)
		return
	}

	count, err := h.ledger.ForceSetAllBalances(ctx, amount)
	if err != nil {
		h.fail(ctx, b, chatID, err, "reset balances")
		return
	}

	slog.Warn("all balances reset", "amount", amount.String(), "users", count, "by", user.ID)
	h.reply(ctx, b, chatID, resetDoneText(count, amount), tg.BackToAdmin())
}
