package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Limiter counts messages per chat in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[int64]*bucket
	now     func() time.Time
}

type bucket struct {
	start time.Time
	count int
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[int64]*bucket),
		now:     time.Now,
	}
}

// Allow counts one message for chatID and reports whether it is within the limit.
func (l *Limiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bk, ok := l.buckets[chatID]
	if !ok || now.Sub(bk.start) >= l.window {
		l.prune(now)
		l.buckets[chatID] = &bucket{start: now, count: 1}
		return true
	}
	bk.count++
	return bk.count <= l.limit
}

func (l *Limiter) prune(now time.Time) {
	for id, bk := range l.buckets {
		if now.Sub(bk.start) >= l.window {
			delete(l.buckets, id)
		}
	}
}

// RateLimit returns middleware that enforces per-minute rate limits on messages.
func RateLimit(limiter *Limiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks or other updates)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID, "limit", limiter.limit)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Too many requests. Please wait a moment.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
