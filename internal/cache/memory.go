package cache

import (
	"context"
	"sync"
	"time"

	"shopsaver-api/internal/models"
)

type memoryItem struct {
	entries    []models.CatalogEntry
	expiration time.Time
}

// MemoryCache is a process-local cache with TTL support.
type MemoryCache struct {
	data  map[string]memoryItem
	mutex sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a cache that sweeps expired entries every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]memoryItem),
		stop: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.cleanupExpired(cleanupInterval)
	}

	return c
}

// Get returns a copy of the cached entries.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]models.CatalogEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, ok := c.data[key]
	if !ok || time.Now().After(item.expiration) {
		return nil, ErrCacheMiss
	}

	out := make([]models.CatalogEntry, len(item.entries))
	copy(out, item.entries)
	return out, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, entries []models.CatalogEntry, ttl time.Duration) error {
	stored := make([]models.CatalogEntry, len(entries))
	copy(stored, entries)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = memoryItem{entries: stored, expiration: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the number of stored keys, expired ones included.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, item := range c.data {
		if now.After(item.expiration) {
			delete(c.data, key)
		}
	}
}
