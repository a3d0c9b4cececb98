package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the persistence API server configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	Version     string

	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int
	RunMigrations bool

	TrustedProxies []string
	SyncRatePerSec float64
	SyncRateBurst  int

	ShopCatalogPath  string
	ShopSchemaPath   string
	QuestCatalogPath string
	QuestSchemaPath  string

	UserCacheSize       int
	UserCacheTTL        time.Duration
	LeaderboardCacheTTL time.Duration
}

// Load loads the server configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", ""),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),

		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "tapquest"),
		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		RunMigrations: getEnvAsBool("RUN_MIGRATIONS", true),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		SyncRatePerSec: getEnvAsFloat("SYNC_RATE_PER_SEC", DefaultSyncRatePerSec),
		SyncRateBurst:  getEnvAsInt("SYNC_RATE_BURST", DefaultSyncRateBurst),

		ShopCatalogPath:  getEnv("SHOP_CATALOG_PATH", ConfigPathShopCatalog),
		ShopSchemaPath:   getEnv("SHOP_SCHEMA_PATH", ConfigPathShopSchema),
		QuestCatalogPath: getEnv("QUEST_CATALOG_PATH", ConfigPathQuestCatalog),
		QuestSchemaPath:  getEnv("QUEST_SCHEMA_PATH", ConfigPathQuestSchema),

		UserCacheSize:       getEnvAsInt("USER_CACHE_SIZE", DefaultUserCacheSize),
		UserCacheTTL:        getEnvAsDuration("USER_CACHE_TTL", DefaultUserCacheTTL),
		LeaderboardCacheTTL: getEnvAsDuration("LEADERBOARD_CACHE_TTL", DefaultLeaderboardCacheTTL),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if cfg.SyncRatePerSec <= 0 || cfg.SyncRateBurst < 1 {
		return nil, fmt.Errorf("SYNC_RATE_PER_SEC must be positive and SYNC_RATE_BURST at least 1")
	}

	return cfg, nil
}

// SessionConfig holds the client session runtime configuration
type SessionConfig struct {
	APIBaseURL     string
	APIKey         string
	Identity       string
	Name           string
	IsPremium      bool
	StorePath      string
	LogLevel       string
	LogFormat      string
	TickInterval   time.Duration
	FlushDebounce  time.Duration
	FlushTimeout   time.Duration
	RequestTimeout time.Duration
	DebitPerTouch  bool
}

// LoadSession loads the session configuration from environment variables
func LoadSession() (*SessionConfig, error) {
	_ = godotenv.Load()

	cfg := &SessionConfig{
		APIBaseURL:     getEnv("API_BASE_URL", DefaultAPIBaseURL),
		APIKey:         getEnv("API_KEY", ""),
		Identity:       getEnv("SESSION_IDENTITY", ""),
		Name:           getEnv("SESSION_NAME", ""),
		IsPremium:      getEnvAsBool("SESSION_IS_PREMIUM", false),
		StorePath:      getEnv("SESSION_STORE_PATH", DefaultSessionStorePath),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", DefaultLogFormat),
		TickInterval:   getEnvAsDuration("SESSION_TICK_INTERVAL", DefaultTickInterval),
		FlushDebounce:  getEnvAsDuration("SESSION_FLUSH_DEBOUNCE", DefaultFlushDebounce),
		FlushTimeout:   getEnvAsDuration("SESSION_FLUSH_TIMEOUT", DefaultFlushTimeout),
		RequestTimeout: getEnvAsDuration("SESSION_REQUEST_TIMEOUT", DefaultRequestTimeout),
		DebitPerTouch:  getEnvAsBool("SESSION_DEBIT_PER_TOUCH", false),
	}

	if cfg.Identity == "" {
		return nil, fmt.Errorf("SESSION_IDENTITY environment variable must be set")
	}
	if cfg.TickInterval <= 0 || cfg.FlushDebounce <= 0 || cfg.FlushTimeout <= 0 {
		return nil, fmt.Errorf("session intervals must be positive")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, falling back on missing or invalid values
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses Go duration strings such as "500ms" or "5m"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&pool_max_conns=%d",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBMaxConns,
	)
}
