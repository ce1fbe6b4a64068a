package cache

import "time"

// LayeredCache checks memory first, then disk, promoting disk hits back
// into memory.
type LayeredCache struct {
	memory    *MemoryCache
	disk      *DiskCache
	memoryTTL time.Duration
	diskTTL   time.Duration
}

// NewLayeredCache creates a two-tier cache
func NewLayeredCache(dir string, memoryTTL, diskTTL time.Duration) (*LayeredCache, error) {
	disk, err := NewDiskCache(dir)
	if err != nil {
		return nil, err
	}
	return &LayeredCache{
		memory:    NewMemoryCache(memoryTTL),
		disk:      disk,
		memoryTTL: memoryTTL,
		diskTTL:   diskTTL,
	}, nil
}

// Get checks memory, then disk
func (l *LayeredCache) Get(key string) ([]byte, bool) {
	if v, ok := l.memory.Get(key); ok {
		return v, true
	}
	if v, ok := l.disk.Get(key); ok {
		_ = l.memory.Set(key, v, l.memoryTTL)
		return v, true
	}
	return nil, false
}

// Set writes to both tiers. The ttl parameter caps the configured TTLs
// when non-zero.
func (l *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	memTTL, diskTTL := l.memoryTTL, l.diskTTL
	if ttl > 0 {
		if ttl < memTTL {
			memTTL = ttl
		}
		if ttl < diskTTL {
			diskTTL = ttl
		}
	}
	if err := l.memory.Set(key, value, memTTL); err != nil {
		return err
	}
	return l.disk.Set(key, value, diskTTL)
}

// Delete removes the key from both tiers
func (l *LayeredCache) Delete(key string) error {
	if err := l.memory.Delete(key); err != nil {
		return err
	}
	return l.disk.Delete(key)
}

// Clear empties both tiers
func (l *LayeredCache) Clear() error {
	if err := l.memory.Clear(); err != nil {
		return err
	}
	return l.disk.Clear()
}
