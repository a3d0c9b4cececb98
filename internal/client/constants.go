package client

import "time"

// Defaults
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 500 * time.Millisecond
)

// API paths
const (
	PathUser         = "/user"
	PathUserRegister = "/user/register"
	PathUserUpdate   = "/user/update"
	PathUserProfile  = "/user/profile"
	PathShopItems    = "/shop/items"
	PathShopPurchase = "/shop/purchase"
	PathTasks        = "/tasks"
	PathTasksClaim   = "/tasks/claim"
	PathLeaderboard  = "/leaderboard"
)

// Headers
const (
	HeaderAPIKey      = "X-API-Key"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Log messages
const (
	LogMsgRetrying       = "Retrying API request"
	LogMsgRequestFailed  = "API request failed"
	LogMsgServerErrRetry = "Server error, will retry"
)
