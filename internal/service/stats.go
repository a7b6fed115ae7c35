package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

type StatsService struct {
	users   UserStore
	catalog *CatalogService
	rail    PaymentRail
	cache   *BalanceCache
}

// NewStatsService reads the faucet balance at most once per balanceTTL.
func NewStatsService(users UserStore, catalog *CatalogService, rail PaymentRail, balanceTTL time.Duration) *StatsService {
	return &StatsService{users: users, catalog: catalog, rail: rail, cache: NewBalanceCache(balanceTTL)}
}

// Collect gathers faucet-wide numbers. An unreachable rail leaves FaucetBalance at zero.
func (s *StatsService) Collect(ctx context.Context) (domain.Stats, error) {
	st, err := s.users.Stats(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	st.ActiveTasks = s.catalog.Count()
	st.FaucetBalance = s.FaucetBalance(ctx)
	return st, nil
}

// FaucetBalance returns the payout wallet balance, or zero when the rail cannot be reached.
func (s *StatsService) FaucetBalance(ctx context.Context) decimal.Decimal {
	if balance, ok := s.cache.Get(); ok {
		return balance
	}
	balance, err := s.rail.Balance(ctx)
	if err != nil {
		slog.Warn("faucet balance unavailable", "error", err)
		return decimal.Zero
	}
	s.cache.Set(balance)
	return balance
}

// ForgetBalance drops the cached balance so the next screen shows the wallet after a payout.
func (s *StatsService) ForgetBalance() {
	s.cache.Invalidate()
}
