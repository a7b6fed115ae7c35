package middleware

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedErrors struct {
	errs  []error
	where []string
}

func (c *capturedErrors) LogError(err error, where string) {
	c.errs = append(c.errs, err)
	c.where = append(c.where, where)
}

func TestRecoverReportsPanic(t *testing.T) {
	reporter := &capturedErrors{}
	handler := Recover(reporter)(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})

	update := &models.Update{ID: 1, Message: &models.Message{Chat: models.Chat{ID: 10}, From: &models.User{ID: 42}}}
	require.NotPanics(t, func() { handler(context.Background(), nil, update) })

	require.Len(t, reporter.errs, 1)
	assert.EqualError(t, reporter.errs[0], "panic: boom")
	assert.Equal(t, "message update from user 42", reporter.where[0])
}

func TestRecoverPassesThrough(t *testing.T) {
	reporter := &capturedErrors{}
	called := false
	handler := Recover(reporter)(func(context.Context, *bot.Bot, *models.Update) {
		called = true
	})

	handler(context.Background(), nil, &models.Update{ID: 2})
	assert.True(t, called)
	assert.Empty(t, reporter.errs)
}
