package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Faucet wallet (TON)
	WalletSeed    string `env:"TON_WALLET_SEED,required"`
	WalletVersion string `env:"TON_WALLET_VERSION" envDefault:"v4r2"`
	TonConfigURL  string `env:"TON_CONFIG_URL" envDefault:"https://ton.org/global.config.json"`
	TonTestnet    bool   `env:"TON_TESTNET" envDefault:"false"`

	// Faucet rules
	Cooldown    time.Duration `env:"COOLDOWN" envDefault:"1h"`
	VerifyDelay time.Duration `env:"VERIFY_DELAY" envDefault:"7s"`
	SpamWindow  time.Duration `env:"SPAM_WINDOW" envDefault:"1s"`

	// Claim lock. Empty address keeps the lock in-process.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Server
	Port          int    `env:"PORT" envDefault:"3000"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram logging
	LogTelegramChatID    int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError        int   `env:"LOG_TOPIC_ERROR"`
	LogTopicRegistration int   `env:"LOG_TOPIC_REGISTRATION"`
	LogTopicTask         int   `env:"LOG_TOPIC_TASK"`
	LogTopicClaim        int   `env:"LOG_TOPIC_CLAIM"`
	LogTopicSpam         int   `env:"LOG_TOPIC_SPAM"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Cooldown <= 0 {
		return errors.New("COOLDOWN must be positive")
	}
	if c.VerifyDelay < 0 {
		return errors.New("VERIFY_DELAY must not be negative")
	}
	if c.SpamWindow < 0 {
		return errors.New("SPAM_WINDOW must not be negative")
	}
	if c.WebhookURL != "" && !strings.HasPrefix(c.WebhookURL, "https://") {
		return errors.New("WEBHOOK_URL must use https")
	}
	return nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) AdminIDsString() string {
	parts := make([]string, len(c.AdminIDs))
	for i, id := range c.AdminIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// UseWebhook reports whether updates arrive through the webhook endpoint instead of long polling.
func (c *Config) UseWebhook() bool {
	return c.WebhookURL != ""
}
