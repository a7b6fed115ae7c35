package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/faucet")
	t.Setenv("TON_WALLET_SEED", "word word word")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_IDS", "7369158353,6920738239")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Cooldown)
	assert.Equal(t, 7*time.Second, cfg.VerifyDelay)
	assert.Equal(t, time.Second, cfg.SpamWindow)
	assert.Equal(t, "v4r2", cfg.WalletVersion)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.False(t, cfg.UseWebhook())
	assert.Equal(t, []int64{7369158353, 6920738239}, cfg.AdminIDs)
	assert.Equal(t, "7369158353,6920738239", cfg.AdminIDsString())
	assert.True(t, cfg.IsAdmin(6920738239))
	assert.False(t, cfg.IsAdmin(1))
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/faucet")
	t.Setenv("TON_WALLET_SEED", "word")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsPlainHTTPWebhook(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_URL", "http://example.com/bot/webhook")

	_, err := Load()
	assert.ErrorContains(t, err, "WEBHOOK_URL")
}

func TestLoadRejectsZeroCooldown(t *testing.T) {
	setRequired(t)
	t.Setenv("COOLDOWN", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "COOLDOWN")
}
