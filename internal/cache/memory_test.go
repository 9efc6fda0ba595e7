package cache

import (
	"context"
	"testing"
	"time"

	"shopsaver-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []models.CatalogEntry {
	return []models.CatalogEntry{
		{ItemCode: "7290000000015", ItemName: "Milk 3% 1L", Price: decimal.RequireFromString("5.90"), UnitOfMeasure: "liter"},
		{ItemCode: "7290000000022", ItemName: "Bread", Price: decimal.RequireFromString("8.50")},
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, CatalogKey(1), sampleCatalog(), time.Minute))

	got, err := c.Get(ctx, CatalogKey(1))
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog(), got)

	_, err = c.Get(ctx, CatalogKey(2))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", sampleCatalog(), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	c.removeExpired(time.Now())
	assert.Equal(t, 0, c.Size())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	entries := sampleCatalog()
	require.NoError(t, c.Set(ctx, "k", entries, time.Minute))
	entries[0].ItemName = "changed after set"

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got[1].ItemName = "changed after get"

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "Milk 3% 1L", again[0].ItemName)
	assert.Equal(t, "Bread", again[1].ItemName)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", sampleCatalog(), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	c.Close()
}
