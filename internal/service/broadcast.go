package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
)

type BroadcastService struct {
	users     UserStore
	messenger Messenger
	interval  time.Duration
}

// NewBroadcastService paces deliveries by interval to stay under the gateway's global rate limit.
func NewBroadcastService(users UserStore, messenger Messenger, interval time.Duration) *BroadcastService {
	return &BroadcastService{users: users, messenger: messenger, interval: interval}
}

// Broadcast sends text to every known user, one at a time. A failed recipient is counted and skipped.
func (s *BroadcastService) Broadcast(ctx context.Context, text string) (domain.BroadcastResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.BroadcastResult{}, domain.ErrEmptyText
	}

	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return domain.BroadcastResult{}, fmt.Errorf("list recipients: %w", err)
	}

	res := domain.BroadcastResult{Total: len(ids)}
	for i, id := range ids {
		if i > 0 && s.interval > 0 {
			select {
			case <-ctx.Done():
				res.Failed += len(ids) - i
				return res, ctx.Err()
			case <-time.After(s.interval):
			}
		}

		if err := s.messenger.SendText(ctx, id, text); err != nil {
			res.Failed++
			if !errors.Is(err, domain.ErrBotBlocked) {
				slog.Warn("broadcast delivery failed", "user_id", id, "error", err)
			}
			continue
		}
		res.Sent++
	}

	slog.Info("broadcast finished", "total", res.Total, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}
