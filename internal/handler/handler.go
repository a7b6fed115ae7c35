package handler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/config"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/set-night/taskfaucet/internal/middleware"
	"github.com/set-night/taskfaucet/internal/service"
	"github.com/set-night/taskfaucet/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot        *bot.Bot
	cfg        *config.Config
	users      *service.UserService
	ledger     *service.Ledger
	catalog    *service.CatalogService
	completion *service.CompletionService
	claims     *service.ClaimService
	broadcasts *service.BroadcastService
	stats      *service.StatsService
	tgLogger   *telegram.TelegramLogger
	panics     middleware.ErrorReporter

	// long-running flows (verification delay, payouts, broadcasts)
	inflight sync.WaitGroup
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Cfg        *config.Config
	Users      *service.UserService
	Ledger     *service.Ledger
	Catalog    *service.CatalogService
	Completion *service.CompletionService
	Claims     *service.ClaimService
	Broadcasts *service.BroadcastService
	Stats      *service.StatsService
	TgLogger   *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	h := &Handler{
		bot:        deps.Bot,
		cfg:        deps.Cfg,
		users:      deps.Users,
		ledger:     deps.Ledger,
		catalog:    deps.Catalog,
		completion: deps.Completion,
		claims:     deps.Claims,
		broadcasts: deps.Broadcasts,
		stats:      deps.Stats,
		tgLogger:   deps.TgLogger,
	}
	if deps.TgLogger != nil {
		h.panics = deps.TgLogger
	}
	return h
}

// async runs fn off the update worker so a slow flow does not stall other users.
// A panic in fn is logged like one in a handler and does not take the process down.
func (h *Handler) async(fn func()) {
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer h.recoverFlow()
		fn()
	}()
}

func (h *Handler) recoverFlow() {
	r := recover()
	if r == nil {
		return
	}
	slog.Error("background flow panicked", "panic", r, "stack", string(debug.Stack()))
	if h.panics != nil {
		h.panics.LogError(fmt.Errorf("panic: %v", r), "background flow")
	}
}

// Wait blocks until every flow started by async has returned.
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// reply sends text into chatID and logs delivery failures.
func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) *models.Message {
	msg, err := telegram.SendLongMessage(ctx, b, chatID, text, markup)
	if err != nil {
		slog.Warn("reply failed", "chat_id", chatID, "error", err)
		return nil
	}
	return msg
}

// fail reports err to the user. Unexpected failures also reach the log topic.
func (h *Handler) fail(ctx context.Context, b *bot.Bot, chatID int64, err error, op string) {
	h.report(chatID, err, op)
	h.reply(ctx, b, chatID, errorText(err), nil)
}

func (h *Handler) report(chatID int64, err error, op string) {
	if domain.KindOf(err) != domain.KindExternal {
		return
	}
	slog.Error(op+" failed", "chat_id", chatID, "error", err)
	h.tgLogger.LogError(err, op)
}

// finish replaces the progress message with the outcome, or sends it fresh when there is none.
func (h *Handler) finish(ctx context.Context, b *bot.Bot, chatID int64, progress *models.Message, text string, markup models.ReplyMarkup) {
	if progress != nil {
		err := telegram.EditMessage(ctx, b, chatID, progress.ID, text, markup)
		if err == nil {
			return
		}
		slog.Warn("edit progress message failed", "chat_id", chatID, "error", err)
	}
	h.reply(ctx, b, chatID, text, markup)
}
