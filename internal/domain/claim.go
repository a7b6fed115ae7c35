package domain

import "github.com/shopspring/decimal"

// Receipt describes a settled claim.
type Receipt struct {
	Amount      decimal.Decimal
	Address     string
	TxHash      string
	ExplorerURL string
}

// Stats aggregates faucet-wide numbers.
type Stats struct {
	Users            int64
	ActiveUsers      int64
	TotalDistributed decimal.Decimal
	TasksCompleted   int64
	ActiveTasks      int
	FaucetBalance    decimal.Decimal
}

// AvgDistributed is the distributed amount per user.
func (s Stats) AvgDistributed() decimal.Decimal {
	if s.Users == 0 {
		return decimal.Zero
	}
	return s.TotalDistributed.Div(decimal.NewFromInt(s.Users))
}

// AvgTasks is the number of completed tasks per user.
func (s Stats) AvgTasks() float64 {
	if s.Users == 0 {
		return 0
	}
	return float64(s.TasksCompleted) / float64(s.Users)
}

// BroadcastResult counts the outcome of a fan-out.
type BroadcastResult struct {
	Total  int
	Sent   int
	Failed int
}
