// Package lock provides the distributed mutex used to serialize document
// number allocation across API replicas.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when the lock is held elsewhere past the wait budget
var ErrNotObtained = errors.New("lock not obtained")

// RedisLocker obtains short-lived locks from Redis
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker creates a locker on top of an existing redis client
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		wait:   ttl,
	}
}

// Acquire blocks until key is locked or the wait budget runs out. The
// returned func releases the lock and is safe to call once.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(l.wait/(50*time.Millisecond))),
	}
	lk, err := l.client.Obtain(ctx, key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func() {
		// a fresh context so a cancelled request still releases
		_ = lk.Release(context.Background())
	}, nil
}

// NoopLocker is used when no Redis is configured; uniqueness then rests on the
// database constraints alone.
type NoopLocker struct{}

// Acquire always succeeds immediately
func (NoopLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}
