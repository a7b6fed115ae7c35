package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

const userColumns = `id, username, first_name, balance, last_claim_at, tasks_completed, total_earned, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.Balance,
		&u.LastClaimAt,
		&u.TasksCompleted,
		&u.TotalEarned,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertUser creates the user on first interaction and refreshes the display fields otherwise.
func (s *Store) UpsertUser(ctx context.Context, id int64, username, firstName string) (*domain.User, bool, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username, first_name = EXCLUDED.first_name, updated_at = now()
		RETURNING `+userColumns+`, (xmax = 0) AS created`,
		id, username, firstName,
	)

	u := &domain.User{}
	var created bool
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.Balance,
		&u.LastClaimAt,
		&u.TasksCompleted,
		&u.TotalEarned,
		&u.CreatedAt,
		&u.UpdatedAt,
		&created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	return u, created, nil
}

// EnsureUser returns the user, creating a zero-balance record when none exists.
func (s *Store) EnsureUser(ctx context.Context, id int64) (*domain.User, error) {
	if _, err := s.pool.Exec(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return s.GetUser(ctx, id)
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect users: %w", err)
	}
	return ids, nil
}

// CreditUser increments balance and total earned in one statement and journals the reward.
func (s *Store) CreditUser(ctx context.Context, id int64, amount decimal.Decimal, reference string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE users
			SET balance = balance + $2, total_earned = total_earned + $2, updated_at = now()
			WHERE id = $1
			RETURNING balance`,
			id, amount,
		).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("credit balance: %w", err)
		}
		return insertEntry(ctx, tx, id, amount, domain.EntryKindReward, reference)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// SettleClaim subtracts the paid amount (floored at zero) and stamps the claim time atomically.
// Credits that arrived while the transfer was in flight survive. Returns the balance before and after.
func (s *Store) SettleClaim(ctx context.Context, id int64, paid decimal.Decimal, claimedAt int64, txHash string) (decimal.Decimal, decimal.Decimal, error) {
	var prior, next decimal.Decimal
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&prior); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		next = decimal.Max(prior.Sub(paid), decimal.Zero)

		if _, err := tx.Exec(ctx, `
			UPDATE users SET balance = $2, last_claim_at = $3, updated_at = now() WHERE id = $1`,
			id, next, claimedAt,
		); err != nil {
			return fmt.Errorf("settle balance: %w", err)
		}
		return insertEntry(ctx, tx, id, paid.Neg(), domain.EntryKindClaim, txHash)
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return prior, next, nil
}

func (s *Store) SetLastClaim(ctx context.Context, id int64, claimedAt int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_claim_at = $2, updated_at = now() WHERE id = $1`, id, claimedAt)
	if err != nil {
		return fmt.Errorf("set last claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetBalance overwrites one balance and journals the difference under kind.
func (s *Store) SetBalance(ctx context.Context, id int64, amount decimal.Decimal, kind domain.EntryKind) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var prior decimal.Decimal
		if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&prior); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE users SET balance = $2, updated_at = now() WHERE id = $1`, id, amount); err != nil {
			return fmt.Errorf("set balance: %w", err)
		}

		diff := amount.Sub(prior)
		if diff.IsZero() {
			return nil
		}
		return insertEntry(ctx, tx, id, diff, kind, "")
	})
}

// SetAllBalances overwrites every balance in one transaction and returns the affected user ids.
func (s *Store) SetAllBalances(ctx context.Context, amount decimal.Decimal) ([]int64, error) {
	var ids []int64
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO ledger_entries (user_id, amount, kind)
			SELECT id, $1 - balance, $2 FROM users WHERE balance <> $1`,
			amount, string(domain.EntryKindAdjustment),
		); err != nil {
			return fmt.Errorf("journal adjustments: %w", err)
		}

		rows, err := tx.Query(ctx, `UPDATE users SET balance = $1, updated_at = now() RETURNING id`, amount)
		if err != nil {
			return fmt.Errorf("set balances: %w", err)
		}
		ids, err = pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("collect ids: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Stats aggregates user counters. ActiveTasks and FaucetBalance are filled by the caller.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE balance > 0 OR tasks_completed > 0),
			COALESCE(sum(total_earned), 0),
			COALESCE(sum(tasks_completed), 0)
		FROM users`,
	).Scan(&st.Users, &st.ActiveUsers, &st.TotalDistributed, &st.TasksCompleted)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("user stats: %w", err)
	}
	return st, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal, kind domain.EntryKind, reference string) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (user_id, amount, kind, reference) VALUES ($1, $2, $3, $4)`,
		userID, amount, string(kind), reference,
	); err != nil {
		return fmt.Errorf("journal %s: %w", kind, err)
	}
	return nil
}
