package config

import "time"

const (
	// Task catalog
	TaskNameMaxLen   = 30
	TaskIDPrefix     = "task_"
	LinkProbeTimeout = 5 * time.Second

	// Claim lock lease; renewed while held, so it only runs out after the holder died
	ClaimLockTTL = 3 * time.Minute

	// Transfer comment attached to every payout
	TransferComment = "faucet payout"

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Rate limits (messages per chat per minute)
	RateLimitPerMinute = 20

	// HTTP server
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 10 * time.Second

	// Faucet wallet balance shown on menus is refreshed at most this often
	FaucetBalanceTTL = 30 * time.Second

	// Broadcast pacing, keeps fan-out under the Bot API global limit
	BroadcastInterval = 40 * time.Millisecond
)

// AllowedLinkSchemes are the prefixes a task link may start with.
var AllowedLinkSchemes = []string{"https://", "http://"}
