package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache wraps go-cache for in-process caching
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(key string) ([]byte, bool) {
	v, found := m.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

// Set stores a value in the cache
func (m *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(key string) error {
	m.store.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (m *MemoryCache) Clear() error {
	m.store.Flush()
	return nil
}
