package config

import "time"

// Configuration file paths
const (
	ConfigPathShopCatalog  = "configs/shop.yaml"
	ConfigPathShopSchema   = "configs/shop.schema.json"
	ConfigPathQuestCatalog = "configs/quests.json"
	ConfigPathQuestSchema  = "configs/quests.schema.json"
)

// Server defaults
const (
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultEnvironment         = "dev"
	DefaultVersion             = "dev"
	DefaultDBMaxConns          = 10
	DefaultSyncRatePerSec      = 4.0
	DefaultSyncRateBurst       = 8
	DefaultUserCacheSize       = 1024
	DefaultUserCacheTTL        = 5 * time.Minute
	DefaultLeaderboardCacheTTL = 10 * time.Second
)

// Session defaults
const (
	DefaultAPIBaseURL       = "http://localhost:8080/api/v1"
	DefaultSessionStorePath = "tapquest_session.db"
	DefaultTickInterval     = time.Second
	DefaultFlushDebounce    = 500 * time.Millisecond
	DefaultFlushTimeout     = 5 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
)
