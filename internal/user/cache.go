package user

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// CacheConfig holds configuration for the user cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string
	User     domain.UserProgress
	CachedAt time.Time
}

// userCache provides an in-memory LRU cache for user lookups keyed by identity,
// with time-based expiration and version-based invalidation.
type userCache struct {
	lru    *expirable.LRU[string, *cachedUserEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

func newUserCache(config CacheConfig) *userCache {
	if config.Size <= 0 {
		config.Size = DefaultCacheSize
	}
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	return &userCache{
		lru: expirable.NewLRU[string, *cachedUserEntry](config.Size, nil, config.TTL),
	}
}

// Get returns a copy of the cached user.
// Entries with a mismatched schema version are dropped.
func (c *userCache) Get(identity string) (domain.UserProgress, bool) {
	entry, found := c.lru.Get(identity)
	if !found {
		c.misses.Add(1)
		return domain.UserProgress{}, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(identity)
		c.misses.Add(1)
		return domain.UserProgress{}, false
	}
	c.hits.Add(1)
	return entry.User, true
}

func (c *userCache) Set(user domain.UserProgress) {
	c.lru.Add(user.Identity, &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     user,
		CachedAt: time.Now(),
	})
}

func (c *userCache) Invalidate(identity string) {
	c.lru.Remove(identity)
}

func (c *userCache) Clear() {
	c.lru.Purge()
}

func (c *userCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
