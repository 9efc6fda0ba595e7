package cache

import (
	"context"
	"errors"
	"time"

	"shopsaver-api/internal/models"

	"github.com/rs/zerolog/log"
)

// CatalogSource loads a store's catalog from the catalog store.
type CatalogSource interface {
	CatalogFor(ctx context.Context, storeID int64) ([]models.CatalogEntry, error)
}

// CachedCatalog is a read-through CatalogSource. Cache failures are logged and the
// source is used instead; they never fail a lookup.
type CachedCatalog struct {
	source CatalogSource
	cache  Cache
	ttl    time.Duration
}

// NewCachedCatalog wraps source with cache.
func NewCachedCatalog(source CatalogSource, cache Cache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{source: source, cache: cache, ttl: ttl}
}

func (c *CachedCatalog) CatalogFor(ctx context.Context, storeID int64) ([]models.CatalogEntry, error) {
	key := CatalogKey(storeID)

	entries, err := c.cache.Get(ctx, key)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("catalog cache read failed")
	}

	entries, err = c.source.CatalogFor(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, entries, c.ttl); err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("catalog cache write failed")
	}
	return entries, nil
}

// Invalidate drops the cached catalog of a store, e.g. after a price file import.
func (c *CachedCatalog) Invalidate(ctx context.Context, storeID int64) error {
	return c.cache.Delete(ctx, CatalogKey(storeID))
}
