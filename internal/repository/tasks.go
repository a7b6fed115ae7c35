package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, name, link, link_title, description, reward, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Link, t.LinkTitle, t.Description, t.Reward, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListActiveTasks returns every task without a tombstone, oldest first.
func (s *Store) ListActiveTasks(ctx context.Context) ([]*domain.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, link, link_title, description, reward, created_by, created_at
		FROM tasks
		WHERE NOT deleted
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t := &domain.Task{Status: domain.TaskStatusActive}
		if err := rows.Scan(&t.ID, &t.Name, &t.Link, &t.LinkTitle, &t.Description, &t.Reward, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// SoftDeleteTask sets the tombstone. Completion rows referencing the task are left alone.
func (s *Store) SoftDeleteTask(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET deleted = true, deleted_at = $2 WHERE id = $1 AND NOT deleted`, id, at)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *Store) HasCompleted(ctx context.Context, userID int64, taskID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_tasks WHERE id = $1)`,
		domain.CompletionKey(userID, taskID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return exists, nil
}

// CompleteTask records the completion, credits the reward and bumps the counter in one transaction.
// A second completion for the same key fails with domain.ErrTaskAlreadyDone and changes nothing.
func (s *Store) CompleteTask(ctx context.Context, c domain.Completion, reward decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_tasks (id, user_id, task_id, completed_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			c.Key(), c.UserID, c.TaskID, c.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("insert completion: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTaskAlreadyDone
		}

		err = tx.QueryRow(ctx, `
			UPDATE users
			SET balance = balance + $2,
				total_earned = total_earned + $2,
				tasks_completed = tasks_completed + 1,
				updated_at = now()
			WHERE id = $1
			RETURNING balance`,
			c.UserID, reward,
		).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("credit reward: %w", err)
		}

		return insertEntry(ctx, tx, c.UserID, reward, domain.EntryKindReward, c.TaskID)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
