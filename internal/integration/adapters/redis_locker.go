package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
)

const (
	defaultLockTTL           = 30 * time.Second
	defaultLockRetryInterval = 50 * time.Millisecond
	lockKeyPrefix            = "recurring-payments:definition-lock:"
)

// releaseScript deletes the lock key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker implements adapter.DefinitionLocker across processes sharing a redis instance.
// A lock expires after its TTL even if never released.
type redisLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
}

// NewRedisDefinitionLocker creates a redis-backed definition locker.
// Non-positive durations fall back to the defaults.
func NewRedisDefinitionLocker(client redis.UniversalClient, ttl, retryInterval time.Duration) adapter.DefinitionLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if retryInterval <= 0 {
		retryInterval = defaultLockRetryInterval
	}
	return &redisLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: retryInterval,
	}
}

// Lock polls SET NX until the key is acquired or ctx is done.
func (l *redisLocker) Lock(ctx context.Context, definitionID uuid.UUID) (func(), error) {
	key := lockKeyPrefix + definitionID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("acquire definition lock: %w", err)
		}
		if acquired {
			return l.unlocker(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *redisLocker) unlocker(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				slog.Warn("failed to release definition lock", "key", key, "error", err)
			}
		})
	}
}
