package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKey(t *testing.T) {
	assert.Equal(t, "books:page:2:size:20", PageKey("books", 2, 20))
}

func TestNilCacheIsPassThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out []string
	err := c.GetJSON(ctx, "books:page:1:size:20", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Writes and invalidation must be safe no-ops
	c.SetJSON(ctx, "books:page:1:size:20", []string{"a"})
	c.InvalidatePrefix(ctx, "books")
	c.Close()
}
