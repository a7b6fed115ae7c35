package service

import (
	"context"
	"fmt"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger owns balances, claim timestamps and completion marks. Reads go through the mirror and
// hydrate from the store on a miss; every write reaches the store and then drops the mirror entry,
// so concurrent writers cannot leave the mirror in an order different from their commits.
type Ledger struct {
	store    LedgerStore
	mirror   *Mirror
	cooldown time.Duration
	now      func() time.Time
}

func NewLedger(store LedgerStore, mirror *Mirror, cooldown time.Duration) *Ledger {
	return &Ledger{
		store:    store,
		mirror:   mirror,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// generation must be read before the store read whose result is later passed to Hydrate.
func (l *Ledger) generation(userID int64) uint64 {
	return l.mirror.Generation(userID)
}

// Hydrate mirrors a user read from the store after gen was captured.
func (l *Ledger) Hydrate(u *domain.User, gen uint64) {
	l.mirror.SetUserAt(u, gen)
}

// Reload re-reads the user from the store and refreshes the mirror.
func (l *Ledger) Reload(ctx context.Context, userID int64) (*domain.User, error) {
	gen := l.mirror.Generation(userID)
	u, err := l.store.EnsureUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	l.mirror.SetUserAt(u, gen)
	return u, nil
}

func (l *Ledger) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if b, ok := l.mirror.Balance(userID); ok {
		return b, nil
	}
	u, err := l.Reload(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return u.Balance, nil
}

func (l *Ledger) LastClaim(ctx context.Context, userID int64) (int64, error) {
	if at, ok := l.mirror.LastClaim(userID); ok {
		return at, nil
	}
	u, err := l.Reload(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.LastClaimAt, nil
}

// Credit adds a positive amount to the balance and total earned.
func (l *Ledger) Credit(ctx context.Context, userID int64, amount decimal.Decimal, reference string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if _, err := l.Balance(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	balance, err := l.store.CreditUser(ctx, userID, amount, reference)
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit user: %w", err)
	}
	l.mirror.Forget(userID)
	return balance, nil
}

// HasCompleted asks the store, not the mirror, so admin-side changes are always visible.
func (l *Ledger) HasCompleted(ctx context.Context, userID int64, taskID string) (bool, error) {
	done, err := l.store.HasCompleted(ctx, userID, taskID)
	if err != nil {
		return false, fmt.Errorf("has completed: %w", err)
	}
	return done, nil
}

// RecordCompletion writes the completion mark and credits the reward in one store transaction.
func (l *Ledger) RecordCompletion(ctx context.Context, c domain.Completion, reward decimal.Decimal) (decimal.Decimal, error) {
	if !reward.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if _, err := l.Balance(ctx, c.UserID); err != nil {
		return decimal.Zero, err
	}

	balance, err := l.store.CompleteTask(ctx, c, reward)
	if err != nil {
		return decimal.Zero, fmt.Errorf("complete task: %w", err)
	}
	l.mirror.Forget(c.UserID)
	return balance, nil
}

// DebitToZero removes a paid claim from the balance and stamps the cooldown in the same write.
// It must only run after the transfer succeeded. Returns the balance that was zeroed.
func (l *Ledger) DebitToZero(ctx context.Context, userID int64, paid decimal.Decimal, at time.Time, txHash string) (decimal.Decimal, error) {
	prior, _, err := l.store.SettleClaim(ctx, userID, paid, at.UnixMilli(), txHash)
	if err != nil {
		return decimal.Zero, fmt.Errorf("settle claim: %w", err)
	}
	l.mirror.Forget(userID)
	return prior, nil
}

// holdLocally blocks an immediate re-claim in this process when the store write after a paid
// transfer failed. The store still holds the old balance.
func (l *Ledger) holdLocally(userID int64, at time.Time) {
	l.mirror.Hold(userID, at.UnixMilli())
}

func (l *Ledger) SetCooldown(ctx context.Context, userID int64, at time.Time) error {
	if err := l.store.SetLastClaim(ctx, userID, at.UnixMilli()); err != nil {
		return fmt.Errorf("set cooldown: %w", err)
	}
	l.mirror.Forget(userID)
	return nil
}

// RemainingCooldown returns whole minutes until the next claim, rounded up, never negative.
func (l *Ledger) RemainingCooldown(ctx context.Context, userID int64) (int64, error) {
	last, err := l.LastClaim(ctx, userID)
	if err != nil {
		return 0, err
	}
	return remainingMinutes(l.cooldown, last, l.now().UnixMilli()), nil
}

// InCooldown reports whether less than the cooldown window passed since the last claim.
func (l *Ledger) InCooldown(ctx context.Context, userID int64) (bool, error) {
	last, err := l.LastClaim(ctx, userID)
	if err != nil {
		return false, err
	}
	return l.now().UnixMilli()-last < l.cooldown.Milliseconds(), nil
}

// ForceSetBalance overwrites a balance. Only non-negativity is enforced.
func (l *Ledger) ForceSetBalance(ctx context.Context, userID int64, amount decimal.Decimal, kind domain.EntryKind) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if _, err := l.Balance(ctx, userID); err != nil {
		return err
	}
	if err := l.store.SetBalance(ctx, userID, amount, kind); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	l.mirror.Forget(userID)
	return nil
}

// ForceSetAllBalances overwrites every known balance and returns how many users were touched.
func (l *Ledger) ForceSetAllBalances(ctx context.Context, amount decimal.Decimal) (int, error) {
	if amount.IsNegative() {
		return 0, domain.ErrInvalidAmount
	}
	ids, err := l.store.SetAllBalances(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("set all balances: %w", err)
	}
	l.mirror.Forget(ids...)
	return len(ids), nil
}

// Profile reads the durable counters and the mirrored cooldown.
func (l *Ledger) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	u, err := l.Reload(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		Balance:         u.Balance,
		TasksCompleted:  u.TasksCompleted,
		TotalEarned:     u.TotalEarned,
		CooldownMinutes: remainingMinutes(l.cooldown, u.LastClaimAt, l.now().UnixMilli()),
	}, nil
}

func remainingMinutes(window time.Duration, lastClaimMs, nowMs int64) int64 {
	left := window.Milliseconds() - (nowMs - lastClaimMs)
	if left <= 0 {
		return 0
	}
	return (left + 59_999) / 60_000
}
