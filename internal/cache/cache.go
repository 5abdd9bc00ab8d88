// Package cache provides an in-memory TTL cache with ETag support for the
// generated documents the API serves.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TTLDocument bounds how long a document read from disk is served before it
// is re-read; regenerate replaces the files in place.
const TTLDocument = 1 * time.Minute

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
	hits    int
	misses  int
	// gen advances on Purge; loads started under an older gen are not stored.
	gen uint64
}

// New creates a new cache. Pass enabled=false to create a no-op cache. The
// eviction loop stops when ctx is cancelled.
func New(ctx context.Context, enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
	}
	if enabled {
		go c.evictLoop(ctx, 5*time.Minute)
	}
	return c
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		c.misses++
		return nil, "", false
	}
	c.hits++
	return e.data, e.etag, true
}

// Set stores a value with a TTL and returns its ETag.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, data, etag, ttl)
	return etag
}

func (c *Cache) store(key string, data []byte, etag string, ttl time.Duration) {
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: time.Now().Add(ttl),
	}
}

// GetOrLoad returns the cached value, calling load on a miss and caching
// its result. hit reports whether the value came from the cache. A result
// whose load overlapped a Purge is returned but not cached.
func (c *Cache) GetOrLoad(key string, ttl time.Duration, load func() ([]byte, error)) (data []byte, etag string, hit bool, err error) {
	if data, etag, ok := c.Get(key); ok {
		return data, etag, true, nil
	}
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	data, err = load()
	if err != nil {
		return nil, "", false, err
	}
	etag = ComputeETag(data)
	if !c.enabled {
		return data, etag, false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.store(key, data, etag, ttl)
	}
	return data, etag, false, nil
}

// Purge drops every entry; the next request re-reads from disk.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.gen++
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := time.Now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
		"hits":         c.hits,
		"misses":       c.misses,
	}
}

func (c *Cache) evictLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evict()
		}
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch reports whether an If-None-Match header value matches etag.
// The header may list several tags separated by commas; comparison is weak,
// so W/"x" and "x" match.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(ifNoneMatch, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}
