package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bookblitz/storefront/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSessionTokenRoundTrip(t *testing.T) {
	c := openTestCache(t)

	token, err := c.SessionToken()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, c.SaveSessionToken("refresh-1"))
	token, err = c.SessionToken()
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", token)

	require.NoError(t, c.SaveSessionToken("refresh-2"))
	token, err = c.SessionToken()
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", token)

	require.NoError(t, c.ClearSessionToken())
	token, err = c.SessionToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.SaveSessionToken("persisted"))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	token, err := c.SessionToken()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestWishlist(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.AddWishlist(ctx, types.WishlistItem{ISBN: "111", Title: "First"}))
	require.NoError(t, c.AddWishlist(ctx, types.WishlistItem{ISBN: "222", Title: "Second"}))

	items, err := c.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)

	// Re-adding the same ISBN updates in place instead of duplicating.
	require.NoError(t, c.AddWishlist(ctx, types.WishlistItem{ISBN: "111", Title: "First, Revised"}))
	items, err = c.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First, Revised", items[0].Title)

	require.NoError(t, c.RemoveWishlist(ctx, "111"))
	require.NoError(t, c.RemoveWishlist(ctx, "missing"))
	items, err = c.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "222", items[0].ISBN)
}
