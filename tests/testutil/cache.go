package testutil

import (
	"context"
	"testing"

	"github.com/hutsix/hutsixassets-go/internal/cache"
	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/stretchr/testify/require"
)

// NewBadgerCache creates an in-memory BadgerDB cache for testing
func NewBadgerCache(t *testing.T) *cache.BadgerCache {
	t.Helper()

	c, err := cache.NewBadgerCache(cache.Options{InMemory: true})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

// VerifyCachedAsset checks the body stored for rawURL
func VerifyCachedAsset(t *testing.T, c domain.Cache, rawURL, expected string) {
	t.Helper()

	result, err := c.Get(context.Background(), cache.AssetKey(rawURL))
	require.NoError(t, err)
	require.Equal(t, expected, string(result))
}
