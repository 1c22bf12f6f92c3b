// internal/historian/historian.go pops recorded matches from a Redis list and
// archives them to Postgres in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jason-s-yu/halo/internal/cache"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Archive stores batches of matches.
type Archive interface {
	ArchiveMatches(ctx context.Context, matches []models.Match) error
}

type blockingPopper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

type Config struct {
	Queue       string
	BatchSize   int
	FlushDelay  time.Duration
	PollTimeout time.Duration
}

// Service accumulates matches from the queue and flushes them when the batch
// is full or FlushDelay has passed.
type Service struct {
	rdb     blockingPopper
	archive Archive
	cfg     Config
	logger  logrus.FieldLogger

	batchMu sync.Mutex
	batch   []models.Match
	// a failed batch is retried on the next flush; Run stops popping until it succeeds
	retry []models.Match
}

func NewService(rdb blockingPopper, archive Archive, cfg Config, logger logrus.FieldLogger) *Service {
	if cfg.Queue == "" {
		cfg.Queue = cache.DefaultQueueName
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = 500 * time.Millisecond
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		rdb:     rdb,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
		batch:   make([]models.Match, 0, cfg.BatchSize),
	}
}

// Run reads until ctx is cancelled, then flushes whatever is buffered.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FlushDelay)
	defer ticker.Stop()

	s.logger.WithField("queue", s.cfg.Queue).Info("historian started")
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			s.Flush(flushCtx)
			cancel()
			s.logger.Info("historian stopped")
			return

		case <-ticker.C:
			s.Flush(ctx)

		default:
			// while a failed batch is waiting, new matches stay in Redis
			if s.retrying() {
				select {
				case <-ctx.Done():
				case <-ticker.C:
					s.Flush(ctx)
				}
				continue
			}
			// BLPop with a timeout so cancellation is noticed
			res, err := s.rdb.BLPop(ctx, s.cfg.PollTimeout, s.cfg.Queue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					s.logger.WithError(err).Error("BLPop failed")
					time.Sleep(s.cfg.PollTimeout)
				}
				continue
			}
			// res[0] is the queue name and res[1] the payload
			if len(res) < 2 {
				continue
			}
			if s.Handle(res[1]) {
				s.Flush(ctx)
			}
		}
	}
}

// Handle decodes one payload into the batch and reports whether the batch is full.
func (s *Service) Handle(payload string) bool {
	var ev cache.MatchEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		s.logger.WithError(err).Warn("invalid match event")
		return false
	}
	if ev.Match.ID == "" {
		s.logger.Warn("match event without id")
		return false
	}

	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, ev.Match)
	return len(s.batch) >= s.cfg.BatchSize
}

// Flush writes the buffered batch in a single archive call.
func (s *Service) Flush(ctx context.Context) error {
	s.batchMu.Lock()
	pending := append(s.retry, s.batch...)
	s.retry = nil
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	if err := s.archive.ArchiveMatches(ctx, pending); err != nil {
		s.batchMu.Lock()
		s.retry = pending
		s.batchMu.Unlock()
		s.logger.WithError(err).WithField("matches", len(pending)).Error("archive flush failed")
		return fmt.Errorf("flush %d matches: %w", len(pending), err)
	}
	s.logger.WithField("matches", len(pending)).Info("flushed matches to archive")
	return nil
}

func (s *Service) retrying() bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.retry) > 0
}

// Buffered reports how many matches are waiting to be archived.
func (s *Service) Buffered() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch) + len(s.retry)
}
