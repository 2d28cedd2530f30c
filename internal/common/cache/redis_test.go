package cache

import (
	"context"
	"testing"
	"time"

	"hostel-portal/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr(), TTLSeconds: 60})
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisClient_JSONRoundTrip(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SetJSON(ctx, "rooms:directory", map[string]string{"u1": "A-101"}))
	assert.Equal(t, 60*time.Second, mr.TTL("rooms:directory"))

	var got map[string]string
	found, err := c.GetJSON(ctx, "rooms:directory", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "A-101", got["u1"])
}

func TestRedisClient_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	var got map[string]string
	found, err := c.GetJSON(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisClient_Expiry(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", 1))
	mr.FastForward(61 * time.Second)

	var v int
	found, err := c.GetJSON(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisClient_Del(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", 1))
	require.NoError(t, c.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisClient_ServerDown(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	var v int
	_, err := c.GetJSON(context.Background(), "k", &v)
	assert.Error(t, err)
}
