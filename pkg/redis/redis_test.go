package redis

import (
	"context"
	"testing"
	"time"

	"nexusiq/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to start a in memory server and a client pointing to it.
func setupRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := NewClient(config.RedisConfiguration{Host: server.Host(), Port: server.Port()})
	t.Cleanup(func() { client.Close() })

	return client, server
}

func TestTryLock(t *testing.T) {
	client, _ := setupRedis(t)
	ctx := context.Background()

	token, acquired, err := client.TryLock(ctx, "refresh_summoner:a", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.NotEmpty(t, token)

	other, acquired, err := client.TryLock(ctx, "refresh_summoner:a", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.Empty(t, other)

	require.NoError(t, client.Unlock(ctx, "refresh_summoner:a", token))

	_, acquired, err = client.TryLock(ctx, "refresh_summoner:a", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestUnlockKeepsLockOfNextHolder(t *testing.T) {
	client, server := setupRedis(t)
	ctx := context.Background()

	first, acquired, err := client.TryLock(ctx, "refresh_summoner:b", 30*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	// The first holder took too long, the lock expired and was taken again.
	server.FastForward(31 * time.Second)
	second, acquired, err := client.TryLock(ctx, "refresh_summoner:b", 30*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, client.Unlock(ctx, "refresh_summoner:b", first))
	value, err := server.Get("refresh_summoner:b")
	require.NoError(t, err)
	assert.Equal(t, second, value)

	require.NoError(t, client.Unlock(ctx, "refresh_summoner:b", second))
	assert.False(t, server.Exists("refresh_summoner:b"))
}
