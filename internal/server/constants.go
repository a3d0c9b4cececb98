package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgSyncRateLimited  = "Progress sync rate limited"
	LogMsgBadTrustedProxy  = "Ignoring unparseable trusted proxy"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRetryAfter     = "Retry-After"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// PublicPaths bypass authentication. Entries ending in "/" cover the whole subtree.
var PublicPaths = []string{
	"/swagger/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}

// RedactedValue replaces secret header values in logs
const RedactedValue = "[REDACTED]"

// Abuse detection thresholds
const (
	DetectorWindow           = 5 * time.Minute
	DetectorMaxRequests      = 1000
	DetectorFailedAuthAlert  = 5
	DetectorHighRateLogEvery = 100
	detectorCacheSize        = 50000
)

// Server limits
const (
	MaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout   = 5 * time.Second
	APIPrefix           = "/api/v1"
)

// Per-identity sync limiter defaults
const (
	DefaultSyncRatePerSec = 2.0
	DefaultSyncRateBurst  = 5
	syncLimiterCacheSize  = 10000
	syncLimiterIdleTTL    = 10 * time.Minute
)

// rateLimitLabelGlobal labels rejections by the per-IP ceiling, which spans all paths
const rateLimitLabelGlobal = "*"
