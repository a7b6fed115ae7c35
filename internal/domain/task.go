package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaskStatus string

const (
	TaskStatusActive  TaskStatus = "active"
	TaskStatusDeleted TaskStatus = "deleted"
)

type Task struct {
	ID          string
	Name        string
	Link        string
	LinkTitle   string
	Description string
	Reward      decimal.Decimal
	Status      TaskStatus
	CreatedBy   int64
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

func (t *Task) IsActive() bool {
	return t.Status != TaskStatusDeleted
}

// TaskName derives a display name from a description, truncating to maxLen runes with an ellipsis.
func TaskName(description string, maxLen int) string {
	runes := []rune(description)
	if len(runes) <= maxLen {
		return description
	}
	return string(runes[:maxLen]) + "..."
}
