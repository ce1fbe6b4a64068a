// Package cache stores OCR page text between runs, so re-running a bundle
// after an aborted review does not re-OCR every page.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// Cache defines the caching interface
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey builds a cache key for one page of a bundle. The key is derived
// from the file content hash, not the path, so moved or renamed bundles
// still hit the cache.
func PageKey(contentHash string, pageNumber int) string {
	return fmt.Sprintf("legajo:v1:%s:p%d", contentHash, pageNumber)
}

// HashFile computes the content hash used for cache keys
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
