package user

import "time"

// ============================================================================
// Cache Configuration
// ============================================================================

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cache entries
const DefaultCacheSize = 1000

// DefaultCacheTTL is the default time-to-live for cache entries
const DefaultCacheTTL = 5 * time.Minute

// ============================================================================
// Validation
// ============================================================================

// MaxIdentityLength bounds identity strings accepted by the service
const MaxIdentityLength = 64

// MaxNameLength bounds display names; longer names are truncated
const MaxNameLength = 64

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgUserRegistered   = "User registered"
	LogMsgProgressUpdated  = "Progress updated"
	LogMsgProgressRejected = "Progress update rejected"
)
