package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory LedgerStore, TaskStore and UserStore with the same atomicity as the
// Postgres store: every method runs under one lock.
type memStore struct {
	mu          sync.Mutex
	users       map[int64]*domain.User
	tasks       []*domain.Task
	completions map[string]domain.Completion
	entries     []domain.LedgerEntry

	failSettle error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]*domain.User),
		completions: make(map[string]domain.Completion),
	}
}

func (s *memStore) ensure(id int64) *domain.User {
	u, ok := s.users[id]
	if !ok {
		u = &domain.User{ID: id}
		s.users[id] = u
	}
	return u
}

func (s *memStore) journal(id int64, amount decimal.Decimal, kind domain.EntryKind, ref string) {
	s.entries = append(s.entries, domain.LedgerEntry{
		ID:        int64(len(s.entries) + 1),
		UserID:    id,
		Amount:    amount,
		Kind:      kind,
		Reference: ref,
	})
}

func (s *memStore) EnsureUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.ensure(id)
	return &cp, nil
}

func (s *memStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) CreditUser(_ context.Context, id int64, amount decimal.Decimal, ref string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	u.TotalEarned = u.TotalEarned.Add(amount)
	s.journal(id, amount, domain.EntryKindReward, ref)
	return u.Balance, nil
}

func (s *memStore) SettleClaim(_ context.Context, id int64, paid decimal.Decimal, at int64, txHash string) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSettle != nil {
		return decimal.Zero, decimal.Zero, s.failSettle
	}
	u, ok := s.users[id]
	if !ok {
		return decimal.Zero, decimal.Zero, domain.ErrUserNotFound
	}
	prior := u.Balance
	u.Balance = decimal.Max(prior.Sub(paid), decimal.Zero)
	u.LastClaimAt = at
	s.journal(id, paid.Neg(), domain.EntryKindClaim, txHash)
	return prior, u.Balance, nil
}

func (s *memStore) SetLastClaim(_ context.Context, id int64, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastClaimAt = at
	return nil
}

func (s *memStore) SetBalance(_ context.Context, id int64, amount decimal.Decimal, kind domain.EntryKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if diff := amount.Sub(u.Balance); !diff.IsZero() {
		s.journal(id, diff, kind, "")
	}
	u.Balance = amount
	return nil
}

func (s *memStore) SetAllBalances(_ context.Context, amount decimal.Decimal) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.users))
	for id, u := range s.users {
		if diff := amount.Sub(u.Balance); !diff.IsZero() {
			s.journal(id, diff, domain.EntryKindAdjustment, "")
		}
		u.Balance = amount
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) HasCompleted(_ context.Context, userID int64, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.completions[domain.CompletionKey(userID, taskID)]
	return ok, nil
}

func (s *memStore) CompleteTask(_ context.Context, c domain.Completion, reward decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.completions[c.Key()]; ok {
		return decimal.Zero, domain.ErrTaskAlreadyDone
	}
	u, ok := s.users[c.UserID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	s.completions[c.Key()] = c
	u.Balance = u.Balance.Add(reward)
	u.TotalEarned = u.TotalEarned.Add(reward)
	u.TasksCompleted++
	s.journal(c.UserID, reward, domain.EntryKindReward, c.TaskID)
	return u.Balance, nil
}

func (s *memStore) CreateTask(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks = append(s.tasks, &cp)
	return nil
}

func (s *memStore) ListActiveTasks(_ context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.IsActive() {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) SoftDeleteTask(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id && t.IsActive() {
			t.Status = domain.TaskStatusDeleted
			t.DeletedAt = &at
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (s *memStore) UpsertUser(_ context.Context, id int64, username, firstName string) (*domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.users[id]
	u := s.ensure(id)
	u.Username = username
	u.FirstName = firstName
	cp := *u
	return &cp, !existed, nil
}

func (s *memStore) ListUserIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) Stats(_ context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domain.Stats{TotalDistributed: decimal.Zero}
	for _, u := range s.users {
		st.Users++
		if u.Balance.IsPositive() || u.TasksCompleted > 0 {
			st.ActiveUsers++
		}
		st.TotalDistributed = st.TotalDistributed.Add(u.TotalEarned)
		st.TasksCompleted += int64(u.TasksCompleted)
	}
	return st, nil
}

// seed stores a user with the given balance and last claim time.
func (s *memStore) seed(id int64, balance string, lastClaimAt int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensure(id)
	u.Balance = decimal.RequireFromString(balance)
	u.LastClaimAt = lastClaimAt
}

func (s *memStore) user(id int64) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

// journalSum is the signed sum of every ledger entry of a user.
func (s *memStore) journalSum(id int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, e := range s.entries {
		if e.UserID == id {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

type MockPaymentRail struct {
	mock.Mock
}

func (m *MockPaymentRail) ValidateAddress(address string) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockPaymentRail) Balance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRail) Transfer(ctx context.Context, address string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, address, amount)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentRail) ExplorerURL(txHash string) string {
	return "https://tonviewer.com/transaction/" + txHash
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

// recordingNotifier counts notifications.
type recordingNotifier struct {
	mu        sync.Mutex
	completed []string
	claims    []*domain.Receipt
	spam      []int64
}

func (n *recordingNotifier) TaskCompleted(_ context.Context, _ *domain.User, task *domain.Task) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, task.ID)
}

func (n *recordingNotifier) ClaimSettled(_ context.Context, _ *domain.User, r *domain.Receipt) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.claims = append(n.claims, r)
}

func (n *recordingNotifier) SpamDetected(_ context.Context, u *domain.User, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spam = append(n.spam, u.ID)
}

// keyLocker is an in-process Locker for tests.
type keyLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newKeyLocker() *keyLocker {
	return &keyLocker{held: make(map[string]bool)}
}

func (l *keyLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, domain.ErrClaimInProgress
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
