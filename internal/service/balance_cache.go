package service

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceCache keeps the last faucet wallet balance for ttl.
type BalanceCache struct {
	mu       sync.RWMutex
	balance  decimal.Decimal
	cached   bool
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewBalanceCache(ttl time.Duration) *BalanceCache {
	return &BalanceCache{ttl: ttl, now: time.Now}
}

func (c *BalanceCache) Get() (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.cached || c.now().Sub(c.cachedAt) >= c.ttl {
		return decimal.Zero, false
	}
	return c.balance, true
}

func (c *BalanceCache) Set(balance decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = balance
	c.cached = true
	c.cachedAt = c.now()
}

// Invalidate drops the cached value, e.g. after a payout moved funds.
func (c *BalanceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = false
}
