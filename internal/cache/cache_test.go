package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPageKey(t *testing.T) {
	key := PageKey("abc123", 7)
	want := "legajo:v1:abc123:p7"
	if key != want {
		t.Errorf("PageKey = %q, want %q", key, want)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.pdf")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}

	if err := os.WriteFile(path, []byte("different"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h3 {
		t.Error("different content produced the same hash")
	}
}

func TestHashFile_Missing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, found)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after clear")
	}
}

func TestDiskCache_ExpiredEntryIsMiss(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	c, err := NewLayeredCache(t.TempDir(), time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	// Drop the memory tier and confirm disk still serves the entry
	if err := c.memory.Clear(); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Fatalf("Get after memory clear = %q, %v", got, found)
	}

	// The hit should now be back in memory
	if _, found := c.memory.Get("k"); !found {
		t.Error("expected disk hit to be promoted to memory")
	}
}
