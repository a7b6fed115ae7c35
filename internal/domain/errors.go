package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidAddress  = errors.New("invalid wallet address")
	ErrInvalidLink     = errors.New("link must start with http:// or https://")
	ErrEmptyText       = errors.New("text must not be empty")
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskAlreadyDone = errors.New("task already completed")
	ErrNothingToClaim  = errors.New("nothing to claim")
	ErrClaimInProgress = errors.New("claim already in progress")
	ErrSpamDetected    = errors.New("repeated action inside spam window")
	ErrBotBlocked      = errors.New("bot blocked by user")
)

// CooldownError is returned when a claim is attempted before the cooldown window has elapsed.
type CooldownError struct {
	RemainingMinutes int64
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: %d minutes remaining", e.RemainingMinutes)
}

// InsufficientFundsError is returned when the faucet wallet cannot cover a claim.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("faucet balance %s is below required %s", e.Available, e.Required)
}

// TransferError wraps a failure reported by the payment rail. Message is shown to the user as is.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return "transfer failed: " + e.Err.Error()
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Kind groups errors by how they are reported.
type Kind int

const (
	KindExternal Kind = iota
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "external"
	}
}

// KindOf classifies err. Anything unknown is an external failure.
func KindOf(err error) Kind {
	var cooldown *CooldownError
	var funds *InsufficientFundsError
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidAddress),
		errors.Is(err, ErrInvalidLink),
		errors.Is(err, ErrEmptyText):
		return KindValidation
	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrTaskAlreadyDone),
		errors.Is(err, ErrNothingToClaim),
		errors.Is(err, ErrClaimInProgress),
		errors.Is(err, ErrSpamDetected),
		errors.As(err, &cooldown),
		errors.As(err, &funds):
		return KindConflict
	default:
		return KindExternal
	}
}
