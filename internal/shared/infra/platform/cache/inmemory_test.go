package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedConfig struct {
	ID       int64  `json:"id"`
	Provider string `json:"provider"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "addons", []cachedConfig{{ID: 1, Provider: "webhook"}}, 0))

	var got []cachedConfig
	hit, err := c.Get(ctx, "addons", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []cachedConfig{{ID: 1, Provider: "webhook"}}, got)

	require.NoError(t, c.Delete(ctx, "addons"))
	hit, err = c.Get(ctx, "addons", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_ExpiredIsMiss(t *testing.T) {
	c := NewInMemoryCache(time.Millisecond, time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	time.Sleep(5 * time.Millisecond)

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
