package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HALO_ADDR", "PORT", "SESSION_TTL", "LEADERBOARD_INDEX_THRESHOLD", "MATCHMAKING_WIDEN_AFTER", "MAP_BUCKET", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 1000, cfg.LeaderboardIndexThreshold)
	assert.Equal(t, 30*time.Second, cfg.MatchmakingWidenAfter)
	assert.Equal(t, "@every 2s", cfg.MatchmakingTickSpec)
	assert.Empty(t, cfg.Maps.Bucket)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("LEADERBOARD_INDEX_THRESHOLD", "5")
	t.Setenv("MATCHMAKING_WIDEN_AFTER", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.LeaderboardIndexThreshold)
	assert.Equal(t, 5*time.Second, cfg.MatchmakingWidenAfter)

	t.Setenv("HALO_ADDR", "127.0.0.1:7000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "a while")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SESSION_TTL", "")
	t.Setenv("STATS_SHARDS", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestPostgresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_USER", "halo")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_DATABASE", "halo")
	assert.Equal(t, "postgres://halo:secret@db:5432/halo", Postgres())

	t.Setenv("DATABASE_URL", "postgres://x")
	assert.Equal(t, "postgres://x", Postgres())
}
