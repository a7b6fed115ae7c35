package service

import (
	"sync"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

// Mirror is the in-memory, non-authoritative copy of ledger and catalog state.
// Writers update the store first and then Forget the user; a miss means "ask the store".
// Each Forget bumps the user's generation so a read that started before the write cannot
// put its older value back.
type Mirror struct {
	mu          sync.RWMutex
	balances    map[int64]decimal.Decimal
	lastClaims  map[int64]int64
	holds       map[int64]int64
	generations map[int64]uint64
	tasks       map[string]*domain.Task
	taskOrder   []string
}

func NewMirror() *Mirror {
	return &Mirror{
		balances:    make(map[int64]decimal.Decimal),
		lastClaims:  make(map[int64]int64),
		holds:       make(map[int64]int64),
		generations: make(map[int64]uint64),
		tasks:       make(map[string]*domain.Task),
	}
}

func (m *Mirror) Balance(userID int64) (decimal.Decimal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.balances[userID]
	return b, ok
}

// Generation identifies the user's mirrored state. Capture it before reading the store.
func (m *Mirror) Generation(userID int64) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generations[userID]
}

// Forget drops the mirrored ledger fields of the listed users after a store write.
func (m *Mirror) Forget(userIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range userIDs {
		delete(m.balances, id)
		delete(m.lastClaims, id)
		m.generations[id]++
	}
}

func (m *Mirror) LastClaim(userID int64) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	at, ok := m.lastClaims[userID]
	return at, ok
}

// SetUser mirrors the ledger fields of a freshly read user. While a hold newer than the stored
// claim time exists, u is rewritten to the held state before it is mirrored.
func (m *Mirror) SetUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setUserLocked(u)
}

// SetUserAt mirrors u only if no write forgot the user since gen was captured.
// The hold still applies to u either way.
func (m *Mirror) SetUserAt(u *domain.User, gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[u.ID] != gen {
		m.applyHoldLocked(u)
		return false
	}
	m.setUserLocked(u)
	return true
}

func (m *Mirror) setUserLocked(u *domain.User) {
	m.applyHoldLocked(u)
	m.balances[u.ID] = u.Balance
	m.lastClaims[u.ID] = u.LastClaimAt
}

func (m *Mirror) applyHoldLocked(u *domain.User) {
	if at, ok := m.holds[u.ID]; ok {
		if u.LastClaimAt < at {
			u.Balance = decimal.Zero
			u.LastClaimAt = at
		} else {
			delete(m.holds, u.ID)
		}
	}
}

// Hold pins a user to a zero balance claimed at the given time until the store catches up.
func (m *Mirror) Hold(userID int64, at int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holds[userID] = at
	m.balances[userID] = decimal.Zero
	m.lastClaims[userID] = at
}

func (m *Mirror) Task(id string) (*domain.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	return t, ok
}

// Tasks returns the mirrored catalog in load order.
func (m *Mirror) Tasks() []*domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Task, 0, len(m.taskOrder))
	for _, id := range m.taskOrder {
		out = append(out, m.tasks[id])
	}
	return out
}

func (m *Mirror) TaskCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.taskOrder)
}

// ReplaceTasks swaps the whole catalog.
func (m *Mirror) ReplaceTasks(tasks []*domain.Task) {
	byID := make(map[string]*domain.Task, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; dup {
			continue
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = byID
	m.taskOrder = order
}
