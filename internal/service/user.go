package service

import (
	"context"
	"fmt"

	"github.com/set-night/taskfaucet/internal/domain"
)

type UserService struct {
	store  UserStore
	ledger *Ledger
}

func NewUserService(store UserStore, ledger *Ledger) *UserService {
	return &UserService{store: store, ledger: ledger}
}

// FindOrCreate registers the user on first contact and refreshes username and first name otherwise.
// The returned flag is true for a new user.
func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	gen := s.ledger.generation(telegramID)
	user, created, err := s.store.UpsertUser(ctx, telegramID, username, firstName)
	if err != nil {
		return nil, false, fmt.Errorf("find or create user: %w", err)
	}
	user.IsAdmin = isAdmin
	s.ledger.Hydrate(user, gen)
	return user, created, nil
}

// Profile returns the user-facing summary.
func (s *UserService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	return s.ledger.Profile(ctx, userID)
}
