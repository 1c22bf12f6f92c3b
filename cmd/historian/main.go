// cmd/historian/main.go is an asynchronous historian service that pops recorded
// matches from a Redis queue and persists them to a PostgreSQL database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/halo/internal/cache"
	"github.com/jason-s-yu/halo/internal/config"
	"github.com/jason-s-yu/halo/internal/database"
	"github.com/jason-s-yu/halo/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	if config.GetEnv("LOG_FORMAT", "text") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx, config.Postgres())
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer pool.Close()

	archive := database.NewMatchArchive(pool)
	if err := archive.Migrate(ctx); err != nil {
		logger.Fatalf("failed to migrate archive schema: %v", err)
	}

	rdb, err := cache.ConnectRedis(ctx, config.GetEnv("REDIS_ADDR", "localhost:6379"), config.GetEnvInt("REDIS_DB", 0))
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer rdb.Close()

	svc := historian.NewService(rdb, archive, historian.Config{
		Queue:      config.GetEnv("MATCH_QUEUE_NAME", cache.DefaultQueueName),
		BatchSize:  config.GetEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay: time.Duration(config.GetEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
	}, logger)

	// Run returns after ctx is cancelled and the last batch is flushed
	svc.Run(ctx)
	logger.Info("historian shutdown complete")
}
