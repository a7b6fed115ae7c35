package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"bad address", ErrInvalidAddress, KindValidation},
		{"wrapped bad amount", fmt.Errorf("credit: %w", ErrInvalidAmount), KindValidation},
		{"bad link", ErrInvalidLink, KindValidation},
		{"already done", ErrTaskAlreadyDone, KindConflict},
		{"nothing to claim", ErrNothingToClaim, KindConflict},
		{"cooldown", &CooldownError{RemainingMinutes: 5}, KindConflict},
		{"faucet short", &InsufficientFundsError{Available: decimal.Zero, Required: decimal.NewFromInt(1)}, KindConflict},
		{"spam", ErrSpamDetected, KindConflict},
		{"store failure", errors.New("connection refused"), KindExternal},
		{"transfer failure", &TransferError{Err: errors.New("not enough gas")}, KindExternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestTransferErrorUnwraps(t *testing.T) {
	cause := errors.New("rpc timeout")
	err := fmt.Errorf("claim: %w", &TransferError{Err: cause})

	var te *TransferError
	assert.True(t, errors.As(err, &te))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transfer failed: rpc timeout", te.Error())
}

func TestCooldownErrorMessage(t *testing.T) {
	err := &CooldownError{RemainingMinutes: 42}
	assert.Equal(t, "cooldown active: 42 minutes remaining", err.Error())
}
