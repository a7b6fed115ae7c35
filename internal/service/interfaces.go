package service

import (
	"context"
	"time"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore is the persistent side of the ledger. *repository.Store implements it.
type LedgerStore interface {
	EnsureUser(ctx context.Context, id int64) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreditUser(ctx context.Context, id int64, amount decimal.Decimal, reference string) (decimal.Decimal, error)
	SettleClaim(ctx context.Context, id int64, paid decimal.Decimal, claimedAt int64, txHash string) (decimal.Decimal, decimal.Decimal, error)
	SetLastClaim(ctx context.Context, id int64, claimedAt int64) error
	SetBalance(ctx context.Context, id int64, amount decimal.Decimal, kind domain.EntryKind) error
	SetAllBalances(ctx context.Context, amount decimal.Decimal) ([]int64, error)
	HasCompleted(ctx context.Context, userID int64, taskID string) (bool, error)
	CompleteTask(ctx context.Context, c domain.Completion, reward decimal.Decimal) (decimal.Decimal, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *domain.Task) error
	ListActiveTasks(ctx context.Context) ([]*domain.Task, error)
	SoftDeleteTask(ctx context.Context, id string, at time.Time) error
}

type UserStore interface {
	UpsertUser(ctx context.Context, id int64, username, firstName string) (*domain.User, bool, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// PaymentRail moves the native asset out of the faucet wallet.
type PaymentRail interface {
	ValidateAddress(address string) error
	Balance(ctx context.Context) (decimal.Decimal, error)
	Transfer(ctx context.Context, address string, amount decimal.Decimal) (string, error)
	ExplorerURL(txHash string) string
}

// Locker grants exclusive leases. TryLock fails with domain.ErrClaimInProgress when the key is held.
type Locker interface {
	TryLock(ctx context.Context, key string) (func(), error)
}

// Notifier reports core events to admins and the log chat. Delivery is best-effort.
type Notifier interface {
	TaskCompleted(ctx context.Context, user *domain.User, task *domain.Task)
	ClaimSettled(ctx context.Context, user *domain.User, receipt *domain.Receipt)
	SpamDetected(ctx context.Context, user *domain.User, elapsed time.Duration)
}

// Messenger delivers one plain message to a chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// LinkProber fetches a human-readable title for a link.
type LinkProber interface {
	Title(ctx context.Context, link string) (string, error)
}
