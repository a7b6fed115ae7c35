package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindReward     EntryKind = "reward"
	EntryKindClaim      EntryKind = "claim"
	EntryKindPenalty    EntryKind = "penalty"
	EntryKindAdjustment EntryKind = "adjustment"
)

// LedgerEntry is one journal row describing a balance change.
type LedgerEntry struct {
	ID        int64
	UserID    int64
	Amount    decimal.Decimal
	Kind      EntryKind
	Reference string
	CreatedAt time.Time
}
