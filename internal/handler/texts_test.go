package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cooldown", &domain.CooldownError{RemainingMinutes: 12}, "*12 minutes*"},
		{"funds", &domain.InsufficientFundsError{Available: decimal.RequireFromString("0.5"), Required: decimal.RequireFromString("2")}, "Current balance: 0.5 TON"},
		{"transfer", &domain.TransferError{Err: errors.New("seqno_mismatch")}, "Error: seqno\\_mismatch"},
		{"wrapped sentinel", fmt.Errorf("claim: %w", domain.ErrNothingToClaim), "No TON to Claim"},
		{"address", domain.ErrInvalidAddress, "Invalid TON address"},
		{"in progress", domain.ErrClaimInProgress, "still being processed"},
		{"spam", domain.ErrSpamDetected, "Spam detected"},
		{"done", domain.ErrTaskAlreadyDone, "already completed"},
		{"unknown", errors.New("db down"), textGenericError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, errorText(tt.err), tt.want)
		})
	}
}

func TestTaskDetailText(t *testing.T) {
	task := &domain.Task{
		ID:          "task_1",
		Name:        "Join my_channel",
		Link:        "https://t.me/my_channel",
		LinkTitle:   "My Channel",
		Description: "Join my_channel and stay",
		Reward:      decimal.RequireFromString("0.05"),
	}

	open := taskDetailText(task, false)
	assert.Contains(t, open, "✨ *Join my\\_channel*")
	assert.Contains(t, open, "🔄 Available")
	assert.Contains(t, open, "_My Channel_")
	assert.Contains(t, open, "verify and earn 0.05 TON")

	done := taskDetailText(task, true)
	assert.Contains(t, done, "✅ Completed")
	assert.Contains(t, done, "already completed")
}

func TestProfileText(t *testing.T) {
	ready := profileText(domain.Profile{Balance: decimal.RequireFromString("1.23456"), TasksCompleted: 3, TotalEarned: decimal.RequireFromString("2")})
	assert.Contains(t, ready, "*1.2345 TON*")
	assert.Contains(t, ready, "Next Claim: *Ready!*")

	waiting := profileText(domain.Profile{CooldownMinutes: 42})
	assert.Contains(t, waiting, "*42 minutes*")
}

func TestWelcomeTextEscapesName(t *testing.T) {
	u := &domain.User{ID: 7, Username: "some_user", IsAdmin: true}
	text := welcomeText(u, decimal.Zero, decimal.RequireFromString("10"), 4)

	assert.Contains(t, text, "@some\\_user")
	assert.Contains(t, text, "*Available Tasks:* 4")
	assert.Contains(t, text, "Administrator Access Granted")
}

func TestHelpTextAdminSection(t *testing.T) {
	assert.NotContains(t, helpText(false), "Admin Commands")
	assert.Contains(t, helpText(true), "/add\\_task")
}

func TestClaimSuccessText(t *testing.T) {
	text := claimSuccessText(&domain.Receipt{
		Amount:      decimal.RequireFromString("0.75"),
		Address:     "EQabc",
		TxHash:      "ff",
		ExplorerURL: "https://tonviewer.com/transaction/ff",
	})
	assert.Contains(t, text, "0.75 TON Sent")
	assert.Contains(t, text, "`EQabc`")
	assert.Contains(t, text, "(https://tonviewer.com/transaction/ff)")
}
