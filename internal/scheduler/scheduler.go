package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Matchmaker forms matches from queued tickets.
type Matchmaker interface {
	Tick(ctx context.Context) []models.PendingMatch
}

// Refresher rebuilds a cached view.
type Refresher interface {
	Refresh()
}

// Sweeper drops expired entries and reports how many went.
type Sweeper interface {
	Sweep() int
}

type Config struct {
	MatchmakingSpec  string
	LeaderboardEvery time.Duration
	SessionSweepSpec string
}

// Scheduler owns the periodic background jobs of the API process.
type Scheduler struct {
	cron   *cron.Cron
	cfg    Config
	logger logrus.FieldLogger

	matchmaker Matchmaker
	board      Refresher
	sessions   Sweeper

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(cfg Config, matchmaker Matchmaker, board Refresher, sessions Sweeper, logger logrus.FieldLogger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.MatchmakingSpec == "" {
		cfg.MatchmakingSpec = "@every 2s"
	}
	if cfg.LeaderboardEvery <= 0 {
		cfg.LeaderboardEvery = 10 * time.Second
	}
	if cfg.SessionSweepSpec == "" {
		cfg.SessionSweepSpec = "0 * * * * *"
	}

	cronLogger := cron.PrintfLogger(logger)
	// seconds precision; a slow tick is skipped rather than stacked
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       c,
		cfg:        cfg,
		logger:     logger,
		matchmaker: matchmaker,
		board:      board,
		sessions:   sessions,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers every job and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"matchmaking", s.cfg.MatchmakingSpec, s.runMatchmaking},
		{"leaderboard", fmt.Sprintf("@every %s", s.cfg.LeaderboardEvery), s.runLeaderboard},
		{"sessions", s.cfg.SessionSweepSpec, s.runSessionSweep},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return fmt.Errorf("error scheduling %s job %q: %w", job.name, job.spec, err)
		}
	}

	s.cron.Start()
	s.logger.WithField("jobs", len(jobs)).Info("cron scheduler started")
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("cron scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("cron scheduler stop timed out")
	}
}

// RunNow runs every job once on the calling goroutine.
func (s *Scheduler) RunNow() {
	s.runMatchmaking()
	s.runLeaderboard()
	s.runSessionSweep()
}

func (s *Scheduler) runMatchmaking() {
	if s.matchmaker == nil {
		return
	}
	formed := s.matchmaker.Tick(s.ctx)
	if len(formed) > 0 {
		s.logger.WithField("matches", len(formed)).Debug("matchmaking tick formed matches")
	}
}

func (s *Scheduler) runLeaderboard() {
	if s.board == nil {
		return
	}
	s.board.Refresh()
}

func (s *Scheduler) runSessionSweep() {
	if s.sessions == nil {
		return
	}
	if n := s.sessions.Sweep(); n > 0 {
		s.logger.WithField("expired", n).Info("swept expired sessions")
	}
}
