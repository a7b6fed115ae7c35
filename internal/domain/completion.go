package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Completion marks that a user finished a task. Its existence is the only completed signal.
type Completion struct {
	UserID      int64
	TaskID      string
	CompletedAt time.Time
}

// CompletionKey is the composite identifier of a completion record.
func CompletionKey(userID int64, taskID string) string {
	return fmt.Sprintf("%d_%s", userID, taskID)
}

func (c Completion) Key() string {
	return CompletionKey(c.UserID, c.TaskID)
}

// CompletionResult is what a successful verification produced.
type CompletionResult struct {
	Task       *Task
	NewBalance decimal.Decimal
}
