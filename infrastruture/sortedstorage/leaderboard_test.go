package sortedstorage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to the Redis named by REDIS_ADDR, skipping the test otherwise.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLeaderboard(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	prefix := "vinom-bot-test-" + uuid.NewString()[:8]
	board := NewRedisLeaderboard(client, prefix)
	t.Cleanup(func() { _ = client.Del(ctx, board.winsKey, board.playedKey).Err() })

	require.NoError(t, board.Record(ctx, "alpha", true))
	require.NoError(t, board.Record(ctx, "alpha", true))
	require.NoError(t, board.Record(ctx, "alpha", false))
	require.NoError(t, board.Record(ctx, "beta", true))
	require.NoError(t, board.Record(ctx, "gamma", false))

	top, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "alpha", top[0].User)
	assert.Equal(t, int64(2), top[0].Wins)
	assert.Equal(t, int64(3), top[0].Played)
	assert.Equal(t, "beta", top[1].User)
	assert.Equal(t, "gamma", top[2].User)
	assert.Equal(t, int64(0), top[2].Wins)
	assert.Equal(t, int64(1), top[2].Played)

	t.Run("limit", func(t *testing.T) {
		top, err := board.Top(ctx, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "alpha", top[0].User)

		none, err := board.Top(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
