package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/config"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu     sync.Mutex
	sent   []*bot.SendMessageParams
	failOn func(p *bot.SendMessageParams) error
}

func (f *fakeAPI) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.sent = append(f.sent, &cp)
	if f.failOn != nil {
		if err := f.failOn(p); err != nil {
			return nil, err
		}
	}
	return &models.Message{ID: len(f.sent)}, nil
}

func (f *fakeAPI) EditMessageText(context.Context, *bot.EditMessageTextParams) (*models.Message, error) {
	return &models.Message{}, nil
}

func TestSenderMapsForbidden(t *testing.T) {
	api := &fakeAPI{failOn: func(*bot.SendMessageParams) error {
		return fmt.Errorf("%w, Forbidden: bot was blocked by the user", bot.ErrorForbidden)
	}}

	err := NewSender(api).SendText(context.Background(), 5, "hi")
	assert.ErrorIs(t, err, domain.ErrBotBlocked)
	assert.Len(t, api.sent, 1, "no plain-text retry for a blocked chat")
}

func TestSendLongMessageFallsBackToPlain(t *testing.T) {
	api := &fakeAPI{failOn: func(p *bot.SendMessageParams) error {
		if p.ParseMode != "" {
			return errors.New("Bad Request: can't parse entities")
		}
		return nil
	}}

	msg, err := SendLongMessage(context.Background(), api, 5, "*broken", MainMenu(false))
	require.NoError(t, err)
	assert.NotNil(t, msg)
	require.Len(t, api.sent, 2)
	assert.Equal(t, models.ParseMode(""), api.sent[1].ParseMode)
	assert.NotNil(t, api.sent[1].ReplyMarkup)
}

func TestTaskCompletedSkipsCompletingAdmin(t *testing.T) {
	api := &fakeAPI{failOn: func(p *bot.SendMessageParams) error {
		if p.ChatID == int64(3) {
			return errors.New("chat not found")
		}
		return nil
	}}
	cfg := &config.Config{AdminIDs: []int64{1, 2, 3}}
	l := NewTelegramLogger(api, cfg)

	l.TaskCompleted(context.Background(),
		&domain.User{ID: 2, Username: "alice"},
		&domain.Task{ID: "task_x", Name: "Join", Reward: decimal.RequireFromString("0.1")},
	)

	var targets []any
	for _, p := range api.sent {
		targets = append(targets, p.ChatID)
	}
	// admin 3 fails twice (markdown, then plain), admin 2 is the user
	assert.Equal(t, []any{int64(1), int64(3), int64(3)}, targets)
	assert.Contains(t, api.sent[0].Text, "@alice (ID: 2)")
}

func TestLogRoutesToTopic(t *testing.T) {
	api := &fakeAPI{}
	cfg := &config.Config{LogTelegramChatID: -100, LogTopicSpam: 7}
	l := NewTelegramLogger(api, cfg)

	l.SpamDetected(context.Background(), &domain.User{ID: 9}, 0)
	l.LogRegistration(&domain.User{ID: 9})

	require.Len(t, api.sent, 1, "registration topic is not configured")
	assert.Equal(t, 7, api.sent[0].MessageThreadID)
	assert.Equal(t, int64(-100), api.sent[0].ChatID)
}
