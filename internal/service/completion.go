package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

// CompletionService runs the fake verification of a task and credits its reward.
type CompletionService struct {
	ledger   *Ledger
	catalog  *CatalogService
	guard    *SpamGuard
	notifier Notifier
	delay    time.Duration
	now      func() time.Time
}

func NewCompletionService(ledger *Ledger, catalog *CatalogService, guard *SpamGuard, notifier Notifier, delay time.Duration) *CompletionService {
	return &CompletionService{
		ledger:   ledger,
		catalog:  catalog,
		guard:    guard,
		notifier: notifier,
		delay:    delay,
		now:      time.Now,
	}
}

// Verify completes taskID for user. onVerifying, if set, runs once every check passed and before the delay.
// A spam violation by the same user while the delay runs fails this call with ErrSpamDetected.
func (s *CompletionService) Verify(ctx context.Context, user *domain.User, taskID string, onVerifying func(*domain.Task)) (*domain.CompletionResult, error) {
	task, err := s.catalog.Get(taskID)
	if err != nil {
		return nil, err
	}

	penalties := s.guard.Penalties(user.ID)
	if elapsed, ok := s.guard.Check(user.ID); !ok {
		s.guard.Penalize(user.ID)
		if err := s.ledger.ForceSetBalance(ctx, user.ID, decimal.Zero, domain.EntryKindPenalty); err != nil {
			slog.Error("failed to apply spam penalty", "error", err, "user_id", user.ID)
		}
		s.notifier.SpamDetected(ctx, user, elapsed)
		return nil, domain.ErrSpamDetected
	}

	done, err := s.ledger.HasCompleted(ctx, user.ID, task.ID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, domain.ErrTaskAlreadyDone
	}

	if onVerifying != nil {
		onVerifying(task)
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	// a spam penalty during the delay voids this verification too
	if s.guard.Penalties(user.ID) != penalties {
		return nil, domain.ErrSpamDetected
	}

	balance, err := s.ledger.RecordCompletion(ctx, domain.Completion{
		UserID:      user.ID,
		TaskID:      task.ID,
		CompletedAt: s.now(),
	}, task.Reward)
	if err != nil {
		return nil, err
	}

	slog.Info("task completed", "user_id", user.ID, "task_id", task.ID, "reward", task.Reward, "balance", balance)
	s.notifier.TaskCompleted(ctx, user, task)

	return &domain.CompletionResult{Task: task, NewBalance: balance}, nil
}

// IsCompleted reports whether user already finished taskID.
func (s *CompletionService) IsCompleted(ctx context.Context, userID int64, taskID string) (bool, error) {
	return s.ledger.HasCompleted(ctx, userID, taskID)
}

func (s *CompletionService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("verification interrupted: %w", ctx.Err())
	}
}
