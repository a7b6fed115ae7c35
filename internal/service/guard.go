package service

import (
	"sync"
	"time"
)

// SpamGuard rejects a second verification from the same user inside a short window.
// State is process-local and lost on restart.
type SpamGuard struct {
	mu        sync.Mutex
	window    time.Duration
	last      map[int64]time.Time
	penalties map[int64]uint64
	now       func() time.Time
}

func NewSpamGuard(window time.Duration) *SpamGuard {
	return &SpamGuard{
		window:    window,
		last:      make(map[int64]time.Time),
		penalties: make(map[int64]uint64),
		now:       time.Now,
	}
}

// Check returns ok=false and the elapsed time when the previous accepted action is inside the window.
// A rejected action does not move the stamp.
func (g *SpamGuard) Check(userID int64) (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if prev, seen := g.last[userID]; seen {
		if elapsed := now.Sub(prev); elapsed < g.window {
			return elapsed, false
		}
	}
	g.last[userID] = now
	return 0, true
}

// Penalize records a violation. Verifications that started before it must not complete.
func (g *SpamGuard) Penalize(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.penalties[userID]++
}

// Penalties counts the violations recorded for userID.
func (g *SpamGuard) Penalties(userID int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.penalties[userID]
}
