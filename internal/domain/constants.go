package domain

// Energy formula constants
const (
	BaseEnergyCapacity = 500
	EnergyPerLevel     = 500
	BaseRegenPerSecond = 1
)

// Tap yield constants
const (
	DefaultEarnPerTap   = 1
	TapPointsMultiplier = 10
	// MaxTouchesPerTap is the most simultaneous touch points one tap event may carry
	MaxTouchesPerTap = 10
)

// Upgrade constants
const (
	MaxItemLevel      = 10
	UpgradeBaseCost   = 2000
	UpgradeCostGrowth = 1.2
)

// Player level constants
const (
	PointsPerLevel = 5000
	MaxPlayerLevel = 100
)

// Leaderboard constants
const (
	LeaderboardDefaultLimit = 100
	LeaderboardMaxLimit     = 100
)

// Social task defaults
const (
	DefaultTaskPoints = 1000
)

// Task platform types
const (
	TaskTypeTelegram = "telegram"
	TaskTypeTwitter  = "twitter"
	TaskTypeYoutube  = "youtube"
)
