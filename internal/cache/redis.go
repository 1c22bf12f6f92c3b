// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list recorded matches are pushed onto for the historian.
const DefaultQueueName = "halo_matches"

// DefaultPendingChannel is the pub/sub channel game servers watch for newly formed matches.
const DefaultPendingChannel = "halo_pending_matches"

const publishTimeout = 2 * time.Second

// MatchEvent is the payload on the recorded-match queue.
type MatchEvent struct {
	Match      models.Match `json:"match"`
	RecordedAt int64        `json:"recorded_at"`
}

// ConnectRedis opens a client and pings it.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// listPusher is the subset of redis.Cmdable the publisher needs.
type listPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// MatchPublisher pushes every recorded match onto a Redis list. It is
// registered as a stats observer.
type MatchPublisher struct {
	rdb    listPusher
	queue  string
	now    func() time.Time
	logger logrus.FieldLogger
}

func NewMatchPublisher(rdb listPusher, queue string, logger logrus.FieldLogger) *MatchPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MatchPublisher{rdb: rdb, queue: queue, now: time.Now, logger: logger}
}

// Publish serializes the match and pushes it to the queue.
func (p *MatchPublisher) Publish(ctx context.Context, m models.Match) error {
	data, err := json.Marshal(MatchEvent{Match: m, RecordedAt: p.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to marshal match event: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// MatchRecorded publishes in the background of the request: the caller's
// cancellation is dropped and a short timeout applies instead. Failures are
// logged; the in-memory stats are already updated.
func (p *MatchPublisher) MatchRecorded(ctx context.Context, m models.Match) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, m); err != nil {
		p.logger.WithError(err).WithField("match_id", m.ID).Warn("recorded match not queued for archive")
	}
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// PendingMatchNotifier announces formed matches on a pub/sub channel. It
// implements matchmaking.Emitter.
type PendingMatchNotifier struct {
	rdb     publisher
	channel string
	logger  logrus.FieldLogger
}

func NewPendingMatchNotifier(rdb publisher, channel string, logger logrus.FieldLogger) *PendingMatchNotifier {
	if channel == "" {
		channel = DefaultPendingChannel
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PendingMatchNotifier{rdb: rdb, channel: channel, logger: logger}
}

func (n *PendingMatchNotifier) MatchFound(ctx context.Context, pm models.PendingMatch) {
	data, err := json.Marshal(pm)
	if err != nil {
		n.logger.WithError(err).Error("failed to marshal pending match")
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.rdb.Publish(ctx, n.channel, data).Err(); err != nil {
		n.logger.WithError(err).WithField("match_id", pm.MatchID).Warn("pending match not announced")
	}
}
