// internal/common/cache/redis_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-analytics/internal/common/config"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisClient_Ping(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestRedisClient_ClaimOnce(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	ok, err := client.Claim(ctx, "digest:run-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Claim(ctx, "digest:run-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("digest:run-1"))
	assert.Equal(t, time.Hour, mr.TTL("digest:run-1"))
}

func TestRedisClient_ClaimExpires(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.Claim(ctx, "digest:run-2", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	ok, err := client.Claim(ctx, "digest:run-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisClient_Release(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.Claim(ctx, "digest:run-3", time.Hour)
	require.NoError(t, err)
	require.NoError(t, client.Release(ctx, "digest:run-3"))

	ok, err := client.Claim(ctx, "digest:run-3", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisClient_Unreachable(t *testing.T) {
	client, mr := newTestClient(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Claim(ctx, "digest:run-4", time.Hour)
	assert.Error(t, err)
	assert.Error(t, client.Ping(ctx))
}
