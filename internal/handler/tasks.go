package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/set-night/taskfaucet/internal/middleware"
	tg "github.com/set-night/taskfaucet/internal/telegram"
)

func (h *Handler) showTasks(ctx context.Context, b *bot.Bot, chatID int64, _ string) {
	user := middleware.GetUser(ctx)

	tasks := h.catalog.Active()
	if len(tasks) == 0 {
		h.reply(ctx, b, chatID, textNoTasks, tg.BackToMain())
		return
	}

	completed := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		done, err := h.completion.IsCompleted(ctx, user.ID, t.ID)
		if err != nil {
			slog.Warn("completion lookup failed", "user_id", user.ID, "task_id", t.ID, "error", err)
			continue
		}
		completed[t.ID] = done
	}

	balance, err := h.ledger.Balance(ctx, user.ID)
	if err != nil {
		h.fail(ctx, b, chatID, err, "load balance")
		return
	}

	h.reply(ctx, b, chatID, taskListText(len(tasks), balance), tg.TaskList(tasks, completed))
}

func (h *Handler) showTaskDetail(ctx context.Context, b *bot.Bot, chatID int64, data string) {
	user := middleware.GetUser(ctx)

	task, err := h.catalog.Get(strings.TrimPrefix(data, tg.PrefixViewTask))
	if err != nil {
		h.reply(ctx, b, chatID, errorText(err), tg.BackToMain())
		return
	}

	done, err := h.completion.IsCompleted(ctx, user.ID, task.ID)
	if err != nil {
		h.fail(ctx, b, chatID, err, "load completion")
		return
	}

	h.reply(ctx, b, chatID, taskDetailText(task, done), tg.TaskDetail(task, done))
}

// verifyTask runs the verification delay in the background and edits the progress message with the outcome.
func (h *Handler) verifyTask(ctx context.Context, b *bot.Bot, chatID int64, data string) {
	user := middleware.GetUser(ctx)
	taskID := strings.TrimPrefix(data, tg.PrefixVerifyTask)

	h.async(func() {
		var progress *models.Message
		res, err := h.completion.Verify(ctx, user, taskID, func(t *domain.Task) {
			progress = h.reply(ctx, b, chatID, verifyingText(t), nil)
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			h.report(chatID, err, "verify task")
			h.finish(ctx, b, chatID, progress, errorText(err), tg.MainMenu(user.IsAdmin))
			return
		}

		h.finish(ctx, b, chatID, progress, verifiedText(res), tg.InlineKeyboard(
			tg.ButtonRow(tg.InlineButton("📋 More Tasks", tg.CallbackViewTasks)),
			tg.ButtonRow(tg.InlineButton("💰 Claim TON", tg.CallbackClaim)),
		))
	})
}
