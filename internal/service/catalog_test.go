package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	title string
	err   error
}

func (p stubProber) Title(context.Context, string) (string, error) {
	return p.title, p.err
}

func TestCatalogAdd(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := NewCatalogService(store, NewMirror(), stubProber{title: "Our channel"})

	task, err := c.Add(ctx, AddTaskParams{
		Link:        "https://t.me/example",
		Description: "Join our Telegram channel and stay for the announcements",
		Reward:      dec("0.05"),
		CreatedBy:   7,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(task.ID, "task_"))
	assert.Equal(t, "Join our Telegram channel and ...", task.Name)
	assert.Equal(t, "Our channel", task.LinkTitle)
	assert.Equal(t, int64(7), task.CreatedBy)

	got, err := c.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, 1, c.Count())
}

func TestCatalogAddShortDescriptionKeepsName(t *testing.T) {
	c := NewCatalogService(newMemStore(), NewMirror(), nil)

	task, err := c.Add(context.Background(), AddTaskParams{Link: "http://x.io", Description: "Follow us", Reward: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, "Follow us", task.Name)
	assert.Empty(t, task.LinkTitle)
}

func TestCatalogAddProbeFailureIsIgnored(t *testing.T) {
	c := NewCatalogService(newMemStore(), NewMirror(), stubProber{err: errors.New("timeout")})

	task, err := c.Add(context.Background(), AddTaskParams{Link: "https://x.io", Description: "Visit", Reward: dec("1")})
	require.NoError(t, err)
	assert.Empty(t, task.LinkTitle)
}

func TestCatalogAddValidation(t *testing.T) {
	c := NewCatalogService(newMemStore(), NewMirror(), nil)

	tests := []struct {
		name string
		p    AddTaskParams
		want error
	}{
		{"zero reward", AddTaskParams{Link: "https://x.io", Description: "d", Reward: dec("0")}, domain.ErrInvalidAmount},
		{"negative reward", AddTaskParams{Link: "https://x.io", Description: "d", Reward: dec("-1")}, domain.ErrInvalidAmount},
		{"ftp link", AddTaskParams{Link: "ftp://x.io", Description: "d", Reward: dec("1")}, domain.ErrInvalidLink},
		{"bare scheme", AddTaskParams{Link: "https://", Description: "d", Reward: dec("1")}, domain.ErrInvalidLink},
		{"no scheme", AddTaskParams{Link: "x.io", Description: "d", Reward: dec("1")}, domain.ErrInvalidLink},
		{"blank description", AddTaskParams{Link: "https://x.io", Description: "   ", Reward: dec("1")}, domain.ErrEmptyText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Add(context.Background(), tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, c.Count())
}

func TestCatalogSoftDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := NewCatalogService(store, NewMirror(), nil)

	a, err := c.Add(ctx, AddTaskParams{Link: "https://a.io", Description: "a", Reward: dec("1")})
	require.NoError(t, err)
	b, err := c.Add(ctx, AddTaskParams{Link: "https://b.io", Description: "b", Reward: dec("1")})
	require.NoError(t, err)

	require.NoError(t, c.SoftDelete(ctx, a.ID))

	_, err = c.Get(a.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	assert.ErrorIs(t, c.SoftDelete(ctx, a.ID), domain.ErrTaskNotFound)
}

func TestCatalogLoadActiveKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	for _, id := range []string{"task_1", "task_2", "task_3"} {
		require.NoError(t, store.CreateTask(ctx, &domain.Task{ID: id, Reward: dec("1"), Status: domain.TaskStatusActive}))
	}

	c := NewCatalogService(store, NewMirror(), nil)
	require.NoError(t, c.LoadActive(ctx))

	var ids []string
	for _, task := range c.Active() {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"task_1", "task_2", "task_3"}, ids)
}
