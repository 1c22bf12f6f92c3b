// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the API process reads from its environment.
type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	SessionTTL         time.Duration
	ServerTokenKeyPath string
	ServerTokenTTL     time.Duration
	LowCostHashing     bool

	StatsShards int

	LeaderboardIndexThreshold  int
	LeaderboardRefreshWrites   int
	LeaderboardRefreshInterval time.Duration

	MatchmakingWidenAfter     time.Duration
	MatchmakingTickSpec       string
	MatchmakingPendingTimeout time.Duration

	RedisAddr      string
	RedisDB        int
	MatchQueueName string
	PendingChannel string

	Maps MapStorage
}

// MapStorage selects the custom map blob store. An empty Bucket keeps map data in memory.
type MapStorage struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
}

// Load reads the environment. Malformed values are errors rather than silent defaults.
func Load() (Config, error) {
	var (
		cfg Config
		err error
	)

	cfg.Addr = getEnv("HALO_ADDR", "")
	if cfg.Addr == "" {
		cfg.Addr = ":" + getEnv("PORT", "8080")
	}
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	cfg.ServerTokenKeyPath = getEnv("SERVER_TOKEN_KEY_PATH", "")
	if cfg.ServerTokenTTL, err = getDuration("SERVER_TOKEN_TTL", 0); err != nil {
		return cfg, err
	}
	if cfg.LowCostHashing, err = getBool("LOW_COST_HASHING", false); err != nil {
		return cfg, err
	}

	if cfg.StatsShards, err = getInt("STATS_SHARDS", 16); err != nil {
		return cfg, err
	}

	if cfg.LeaderboardIndexThreshold, err = getInt("LEADERBOARD_INDEX_THRESHOLD", 1000); err != nil {
		return cfg, err
	}
	if cfg.LeaderboardRefreshWrites, err = getInt("LEADERBOARD_REFRESH_WRITES", 50); err != nil {
		return cfg, err
	}
	if cfg.LeaderboardRefreshInterval, err = getDuration("LEADERBOARD_REFRESH_INTERVAL", 10*time.Second); err != nil {
		return cfg, err
	}

	if cfg.MatchmakingWidenAfter, err = getDuration("MATCHMAKING_WIDEN_AFTER", 30*time.Second); err != nil {
		return cfg, err
	}
	cfg.MatchmakingTickSpec = getEnv("MATCHMAKING_TICK", "@every 2s")
	if cfg.MatchmakingPendingTimeout, err = getDuration("MATCHMAKING_PENDING_TIMEOUT", 30*time.Minute); err != nil {
		return cfg, err
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return cfg, err
	}
	cfg.MatchQueueName = getEnv("MATCH_QUEUE_NAME", "halo_matches")
	cfg.PendingChannel = getEnv("PENDING_MATCH_CHANNEL", "halo_pending_matches")

	cfg.Maps = MapStorage{
		Bucket:          getEnv("MAP_BUCKET", ""),
		Region:          getEnv("MAP_S3_REGION", "auto"),
		Endpoint:        getEnv("MAP_S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("MAP_S3_ACCESS_KEY_ID", ""),
		AccessKeySecret: getEnv("MAP_S3_ACCESS_KEY_SECRET", ""),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.StatsShards <= 0 {
		return fmt.Errorf("STATS_SHARDS must be positive, got %d", c.StatsShards)
	}
	if c.LeaderboardIndexThreshold < 0 {
		return fmt.Errorf("LEADERBOARD_INDEX_THRESHOLD must not be negative, got %d", c.LeaderboardIndexThreshold)
	}
	if c.LeaderboardRefreshWrites <= 0 {
		return fmt.Errorf("LEADERBOARD_REFRESH_WRITES must be positive, got %d", c.LeaderboardRefreshWrites)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Postgres builds a pgx connection string from DATABASE_URL or the POSTGRES_* variables.
func Postgres() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		getEnv("PG_HOST", "localhost"),
		getEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) (int, error) {
	s := getEnv(key, "")
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	s := getEnv(key, "")
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	s := getEnv(key, "")
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

// GetEnv and GetEnvInt expose the lenient helpers to the side processes.
func GetEnv(key, def string) string { return getEnv(key, def) }

func GetEnvInt(key string, def int) int {
	v, err := getInt(key, def)
	if err != nil {
		return def
	}
	return v
}
