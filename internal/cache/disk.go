package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists entries as JSON files under a directory
type DiskCache struct {
	dir string
}

type diskEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (d *DiskCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.dir, hex.EncodeToString(sum[:])+".json")
}

// Get retrieves a value, treating expired or unreadable entries as misses
func (d *DiskCache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(d.path(key))
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(d.path(key))
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value with the given TTL
func (d *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	entry := diskEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(d.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes a value
func (d *DiskCache) Delete(key string) error {
	err := os.Remove(d.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes all entries
func (d *DiskCache) Clear() error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
