package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             int64
	Username       string
	FirstName      string
	Balance        decimal.Decimal
	LastClaimAt    int64 // epoch millis, 0 = never claimed
	TasksCompleted int
	TotalEarned    decimal.Decimal
	IsAdmin        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName returns @username when set, otherwise the first name, otherwise a placeholder.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "User"
}

// Profile is the user-facing summary shown on the profile screen.
type Profile struct {
	Balance         decimal.Decimal
	TasksCompleted  int
	TotalEarned     decimal.Decimal
	CooldownMinutes int64
}
