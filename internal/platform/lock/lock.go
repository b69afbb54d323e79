// Package lock provides per-key mutual exclusion for coordinator entry points.
// The local implementation serializes goroutines in one process; the Redis
// implementation extends that across controller replicas.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
	psync "github.com/admin-bn/company-controller/pkg/platform/sync"
)

// Locker acquires an exclusive lock on key. The returned release func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Local serializes callers inside a single process.
type Local struct {
	mu *psync.ShardedMutex
}

func NewLocal() *Local {
	return &Local{mu: psync.NewShardedMutex(0)}
}

// Lock polls for the key's shard so that a cancelled ctx is honored while waiting.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	if l.mu.TryLock(key) {
		return func() { l.mu.Unlock(key) }, nil
	}
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %q: %w", key, ctx.Err())
		case <-ticker.C:
			if l.mu.TryLock(key) {
				return func() { l.mu.Unlock(key) }, nil
			}
		}
	}
}

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a lease-based lock shared by every replica that talks to the same
// Redis. The lease expires after ttl so a crashed holder cannot block a key
// forever.
type Redis struct {
	client    redis.UniversalClient
	ttl       time.Duration
	retry     time.Duration
	keyPrefix string
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{client: client, ttl: ttl, retry: 25 * time.Millisecond, keyPrefix: "controller:lock:"}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	redisKey := r.keyPrefix + key

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %q: %w", key, errors.Join(sentinel.ErrUnavailable, err))
		}
		if ok {
			return func() {
				// Release with a fresh context: the caller's may already be done.
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %q: %w", key, errors.Join(sentinel.ErrLockHeld, ctx.Err()))
		case <-time.After(r.retry):
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
