// Package cache keeps catalog snapshots between requests. Entries are keyed by
// store only and expire on the catalog's own refresh cadence (the TTL); a cached
// catalog never depends on which comparison requested it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopsaver-api/internal/models"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores catalog snapshots.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.CatalogEntry, error)
	Set(ctx context.Context, key string, entries []models.CatalogEntry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogKey is the cache key of a store's catalog.
func CatalogKey(storeID int64) string {
	return fmt.Sprintf("catalog:%d", storeID)
}
