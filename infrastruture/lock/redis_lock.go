// Package lock keeps one bot process per game account using a Redis mutex.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-bot/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyFmt     = "%s:account:%s:lock"
	acquireRetries = 1
)

var (
	ErrAccountBusy = errors.New("another bot is playing this account")
	ErrLockLost    = errors.New("account lock lost")
)

var _ i.AccountLock = &RedisAccountLock{}

// RedisAccountLock is an expiring lock on a game account. It must be extended before its
// TTL runs out.
type RedisAccountLock struct {
	mutex *redsync.Mutex
	ttl   time.Duration
}

// NewRedisAccountLock creates the lock for user. Keys start with prefix.
func NewRedisAccountLock(client *redis.Client, prefix, user string, ttl time.Duration) *RedisAccountLock {
	pool := goredis.NewPool(client)
	rs := redsync.New(pool)
	return &RedisAccountLock{
		mutex: rs.NewMutex(
			fmt.Sprintf(lockKeyFmt, prefix, user),
			redsync.WithExpiry(ttl),
			redsync.WithTries(acquireRetries),
		),
		ttl: ttl,
	}
}

// Acquire takes the lock once; it fails with ErrAccountBusy when someone else holds it.
func (l *RedisAccountLock) Acquire(ctx context.Context) error {
	if err := l.mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return ErrAccountBusy
		}
		return err
	}
	return nil
}

// Extend resets the lock's TTL.
func (l *RedisAccountLock) Extend(ctx context.Context) error {
	ok, err := l.mutex.ExtendContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLockLost, err)
	}
	if !ok {
		return ErrLockLost
	}
	return nil
}

// Release frees the lock.
func (l *RedisAccountLock) Release(ctx context.Context) error {
	if _, err := l.mutex.UnlockContext(ctx); err != nil {
		return fmt.Errorf("releasing account lock: %w", err)
	}
	return nil
}

// KeepAlive extends lock every half TTL until ctx is done. It calls onLost and returns
// when an extension fails.
func KeepAlive(ctx context.Context, lock i.AccountLock, ttl time.Duration, onLost func(error)) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lock.Extend(ctx); err != nil {
				if ctx.Err() == nil {
					onLost(err)
				}
				return
			}
		}
	}
}
