package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/claimsflow/internal/domain/providers"
)

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryAdapter()
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "policy:POL-1", []byte("v"), 60))

	got, err := cache.Get(ctx, "policy:POL-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(61 * time.Second)
	_, err = cache.Get(ctx, "policy:POL-1")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryAdapter()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}
