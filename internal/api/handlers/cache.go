package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"evcharge/internal/driver"
)

type cacheEntry struct {
	result    *driver.Result
	expiresAt time.Time
}

// ResultCache caches completed runs keyed by a hash of the config and input
// paths plus their modification times, so an unchanged (config, input) pair
// skips re-running the simulation.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

// NewResultCache builds a cache whose entries expire after ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{store: make(map[string]*cacheEntry), ttl: ttl}
}

// Get returns the cached result for key, if present and not expired.
func (c *ResultCache) Get(key string) (*driver.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.store[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.result, true
}

// Set stores result under key, resetting its expiry.
func (c *ResultCache) Set(key string, result *driver.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &cacheEntry{result: result, expiresAt: time.Now().Add(c.ttl)}
}

// CacheKey hashes the config/input paths together with their modification
// times, so editing either file invalidates the entry.
func CacheKey(configPath, inputPath string) string {
	keyStr := fmt.Sprintf("%s@%s:%s@%s", configPath, mtimeOf(configPath), inputPath, mtimeOf(inputPath))
	sum := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(sum[:])
}

func mtimeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "absent"
	}
	return info.ModTime().UTC().Format(time.RFC3339Nano)
}
