package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/set-night/taskfaucet/internal/domain"
)

const keyPrefix = "taskfaucet:lock:"

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// extendScript pushes the expiry out only while the key still carries our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// Redis grants leases shared by every process using the same Redis. A held lease is renewed every
// ttl/3 until it is released, so it only expires after its holder died.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) TryLock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	fullKey := keyPrefix + key

	ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrClaimInProgress
	}

	renewCtx, stopRenew := context.WithCancel(context.WithoutCancel(ctx))
	renewed := make(chan struct{})
	go func() {
		defer close(renewed)
		keepAlive(renewCtx, fullKey, r.ttl/3, func(ctx context.Context) (bool, error) {
			n, err := extendScript.Run(ctx, r.client, []string{fullKey}, token, r.ttl.Milliseconds()).Int()
			return n == 1, err
		})
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopRenew()
			<-renewed
			if err := releaseScript.Run(context.WithoutCancel(ctx), r.client, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				slog.Error("failed to release lock", "key", fullKey, "error", err)
			}
		})
	}, nil
}

// keepAlive calls extend every interval until ctx is done or the lease turns out to be lost.
// A failed call is retried on the next tick.
func keepAlive(ctx context.Context, key string, interval time.Duration, extend func(context.Context) (bool, error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := extend(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("failed to renew lock", "key", key, "error", err)
				continue
			}
			if !held {
				slog.Error("lock lost before release", "key", key)
				return
			}
		}
	}
}
