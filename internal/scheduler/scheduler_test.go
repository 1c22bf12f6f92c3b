package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	ticks, refreshes, sweeps atomic.Int32
}

func (c *counters) Tick(context.Context) []models.PendingMatch {
	c.ticks.Add(1)
	return nil
}

func (c *counters) Refresh() { c.refreshes.Add(1) }

func (c *counters) Sweep() int {
	c.sweeps.Add(1)
	return 0
}

func TestRunNowRunsEveryJob(t *testing.T) {
	c := &counters{}
	s := NewScheduler(Config{}, c, c, c, nil)
	s.RunNow()

	assert.Equal(t, int32(1), c.ticks.Load())
	assert.Equal(t, int32(1), c.refreshes.Load())
	assert.Equal(t, int32(1), c.sweeps.Load())
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(Config{MatchmakingSpec: "every now and then"}, &counters{}, nil, nil, nil)
	assert.Error(t, s.Start())
}

func TestScheduledTicks(t *testing.T) {
	c := &counters{}
	s := NewScheduler(Config{MatchmakingSpec: "@every 1s", LeaderboardEvery: time.Hour}, c, c, c, nil)
	require.NoError(t, s.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool { return c.ticks.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestNilJobsAreSkipped(t *testing.T) {
	s := NewScheduler(Config{}, nil, nil, nil, nil)
	assert.NotPanics(t, s.RunNow)
}
