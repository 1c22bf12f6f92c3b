// cmd/server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/halo/internal/auth"
	"github.com/jason-s-yu/halo/internal/cache"
	"github.com/jason-s-yu/halo/internal/config"
	"github.com/jason-s-yu/halo/internal/handlers"
	"github.com/jason-s-yu/halo/internal/leaderboard"
	"github.com/jason-s-yu/halo/internal/maps"
	"github.com/jason-s-yu/halo/internal/matchmaking"
	"github.com/jason-s-yu/halo/internal/scheduler"
	"github.com/jason-s-yu/halo/internal/stats"
	"github.com/jason-s-yu/halo/internal/weapons"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := auth.DefaultParams
	if cfg.LowCostHashing {
		params = auth.LowCostParams
	}
	authSvc, err := auth.NewService(auth.DefaultAccounts(), auth.Config{
		SessionTTL: cfg.SessionTTL,
		Params:     params,
	}, logger.WithField("component", "auth"))
	if err != nil {
		logger.Fatalf("failed to load accounts: %v", err)
	}

	serverTokens, err := loadServerTokens(cfg)
	if err != nil {
		logger.Fatalf("failed to load server token key: %v", err)
	}

	store := stats.NewStore(cfg.StatsShards, stats.WithLogger(logger.WithField("component", "stats")))
	for _, acct := range authSvc.Accounts() {
		store.Register(acct.PlayerID, acct.Username)
	}

	board := leaderboard.NewEngine(store, leaderboard.Config{
		IndexThreshold: cfg.LeaderboardIndexThreshold,
		RefreshWrites:  cfg.LeaderboardRefreshWrites,
		MaxStaleness:   cfg.LeaderboardRefreshInterval,
	}, logger.WithField("component", "leaderboard"))
	store.Subscribe(board)

	registry, err := newMapRegistry(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to set up map storage: %v", err)
	}

	queue := matchmaking.NewQueue(matchmaking.Config{
		WidenAfter:     cfg.MatchmakingWidenAfter,
		PendingTimeout: cfg.MatchmakingPendingTimeout,
	}, store, logger.WithField("component", "matchmaking"))
	hub := handlers.NewMatchHub(logger.WithField("component", "ws"))
	queue.AddEmitter(hub)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		store.Subscribe(cache.NewMatchPublisher(rdb, cfg.MatchQueueName, logger.WithField("component", "publisher")))
		queue.AddEmitter(cache.NewPendingMatchNotifier(rdb, cfg.PendingChannel, logger.WithField("component", "notifier")))
		logger.WithField("addr", cfg.RedisAddr).Info("connected to Redis")
	} else {
		logger.Warn("REDIS_ADDR not set; recorded matches will not be archived")
	}

	sched := scheduler.NewScheduler(scheduler.Config{
		MatchmakingSpec:  cfg.MatchmakingTickSpec,
		LeaderboardEvery: cfg.LeaderboardRefreshInterval,
	}, queue, board, authSvc, logger.WithField("component", "scheduler"))
	if err := sched.Start(); err != nil {
		logger.Fatalf("failed to start scheduler: %v", err)
	}

	srv := handlers.NewServer(cfg.Addr, &handlers.API{
		Weapons:      weapons.Default(),
		Stats:        store,
		Leaderboard:  board,
		Maps:         registry,
		Queue:        queue,
		Auth:         authSvc,
		ServerTokens: serverTokens,
		Hub:          hub,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Errorf("%v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown")
	}
	sched.Stop(shutdownCtx)
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.WithError(err).Warn("closing Redis client")
		}
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// loadServerTokens reads the signing key, or generates a throwaway one when
// no path is configured. Throwaway keys do not survive a restart.
func loadServerTokens(cfg config.Config) (*auth.ServerTokens, error) {
	if cfg.ServerTokenKeyPath == "" {
		logrus.Warn("SERVER_TOKEN_KEY_PATH not set; generated an ephemeral server token key")
		return auth.NewServerTokens(cfg.ServerTokenTTL)
	}
	return auth.LoadServerTokens(cfg.ServerTokenKeyPath, cfg.ServerTokenTTL)
}

func newMapRegistry(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*maps.Registry, error) {
	var data maps.DataStore = maps.NewMemoryStore()
	if cfg.Maps.Bucket != "" {
		s3Store, err := maps.NewS3Store(ctx, maps.S3Config{
			Bucket:          cfg.Maps.Bucket,
			Region:          cfg.Maps.Region,
			Endpoint:        cfg.Maps.Endpoint,
			AccessKeyID:     cfg.Maps.AccessKeyID,
			AccessKeySecret: cfg.Maps.AccessKeySecret,
		})
		if err != nil {
			return nil, err
		}
		data = s3Store
		logger.WithField("bucket", cfg.Maps.Bucket).Info("custom map data stored in S3")
	}

	registry := maps.NewRegistry(data, logger.WithField("component", "maps"))
	seedMaps, seedData := maps.DefaultMaps()
	if err := registry.Seed(ctx, seedMaps, seedData); err != nil {
		return nil, err
	}
	return registry, nil
}
