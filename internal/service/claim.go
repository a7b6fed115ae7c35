package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

// ClaimService pays a user's whole balance out through the payment rail.
type ClaimService struct {
	ledger   *Ledger
	rail     PaymentRail
	locker   Locker
	notifier Notifier
	now      func() time.Time
}

func NewClaimService(ledger *Ledger, rail PaymentRail, locker Locker, notifier Notifier) *ClaimService {
	return &ClaimService{
		ledger:   ledger,
		rail:     rail,
		locker:   locker,
		notifier: notifier,
		now:      time.Now,
	}
}

// Prepare runs the cheap checks of a claim and returns the claimable balance.
func (s *ClaimService) Prepare(ctx context.Context, userID int64) (decimal.Decimal, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !balance.IsPositive() {
		return decimal.Zero, domain.ErrNothingToClaim
	}
	if err := s.checkCooldown(ctx, userID); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Claim transfers the user's full balance to address. The balance and cooldown change only after
// the rail confirmed the transfer.
func (s *ClaimService) Claim(ctx context.Context, user *domain.User, address string) (*domain.Receipt, error) {
	if _, err := s.Prepare(ctx, user.ID); err != nil {
		return nil, err
	}

	address = strings.TrimSpace(address)
	if err := s.validateAddress(address); err != nil {
		return nil, err
	}

	unlock, err := s.locker.TryLock(ctx, claimLockKey(user.ID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Another process may have settled a claim since the mirror was filled.
	current, err := s.ledger.Reload(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !current.Balance.IsPositive() {
		return nil, domain.ErrNothingToClaim
	}
	if err := s.checkCooldown(ctx, user.ID); err != nil {
		return nil, err
	}

	amount := current.Balance.Truncate(9)

	available, err := s.rail.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("faucet balance: %w", err)
	}
	if available.LessThan(amount) {
		return nil, &domain.InsufficientFundsError{Available: available, Required: amount}
	}

	txHash, err := s.rail.Transfer(ctx, address, amount)
	if err != nil {
		slog.Error("claim transfer failed", "error", err, "user_id", user.ID, "amount", amount, "address", address)
		return nil, &domain.TransferError{Err: err}
	}

	paidAt := s.now()
	receipt := &domain.Receipt{
		Amount:      amount,
		Address:     address,
		TxHash:      txHash,
		ExplorerURL: s.rail.ExplorerURL(txHash),
	}

	// The transfer is final; the settle write must not be lost to a cancelled request.
	if _, err := s.ledger.DebitToZero(context.WithoutCancel(ctx), user.ID, amount, paidAt, txHash); err != nil {
		slog.Error("CLAIM PAID BUT NOT SETTLED", "error", err, "user_id", user.ID, "amount", amount, "tx_hash", txHash)
		s.ledger.holdLocally(user.ID, paidAt)
	}

	slog.Info("claim settled", "user_id", user.ID, "amount", amount, "address", address, "tx_hash", txHash)
	s.notifier.ClaimSettled(ctx, user, receipt)

	return receipt, nil
}

// RemainingCooldown returns the minutes left before the user may claim again.
func (s *ClaimService) RemainingCooldown(ctx context.Context, userID int64) (int64, error) {
	return s.ledger.RemainingCooldown(ctx, userID)
}

func (s *ClaimService) checkCooldown(ctx context.Context, userID int64) error {
	active, err := s.ledger.InCooldown(ctx, userID)
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	minutes, err := s.ledger.RemainingCooldown(ctx, userID)
	if err != nil {
		return err
	}
	return &domain.CooldownError{RemainingMinutes: minutes}
}

// validateAddress treats any parser failure, panics included, as an invalid address.
func (s *ClaimService) validateAddress(address string) (err error) {
	if address == "" {
		return domain.ErrInvalidAddress
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("address parser panicked", "address", address, "panic", r)
			err = domain.ErrInvalidAddress
		}
	}()
	if err := s.rail.ValidateAddress(address); err != nil {
		return domain.ErrInvalidAddress
	}
	return nil
}

func claimLockKey(userID int64) string {
	return "claim:" + strconv.FormatInt(userID, 10)
}
