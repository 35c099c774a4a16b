package lock

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLock struct {
	extends atomic.Int32
	failAt  int32
}

func (c *countingLock) Acquire(context.Context) error { return nil }
func (c *countingLock) Release(context.Context) error { return nil }
func (c *countingLock) Extend(context.Context) error {
	if c.extends.Add(1) == c.failAt {
		return ErrLockLost
	}
	return nil
}

func TestKeepAlive(t *testing.T) {
	t.Run("reports a lost lock", func(t *testing.T) {
		l := &countingLock{failAt: 3}
		lost := make(chan error, 1)
		KeepAlive(context.Background(), l, 10*time.Millisecond, func(err error) { lost <- err })

		assert.ErrorIs(t, <-lost, ErrLockLost)
		assert.Equal(t, int32(3), l.extends.Load())
	})

	t.Run("stops with the context", func(t *testing.T) {
		l := &countingLock{}
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		KeepAlive(ctx, l, 10*time.Millisecond, func(err error) { t.Errorf("unexpected loss: %v", err) })
		assert.Positive(t, l.extends.Load())
	})
}

func TestRedisAccountLock(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	prefix := "vinom-bot-test-" + uuid.NewString()[:8]
	first := NewRedisAccountLock(client, prefix, "bot", 2*time.Second)
	second := NewRedisAccountLock(client, prefix, "bot", 2*time.Second)

	require.NoError(t, first.Acquire(ctx))
	err := second.Acquire(ctx)
	assert.True(t, errors.Is(err, ErrAccountBusy), "got %v", err)

	require.NoError(t, first.Extend(ctx))
	require.NoError(t, first.Release(ctx))
	require.NoError(t, second.Acquire(ctx))
	require.NoError(t, second.Release(ctx))
}
