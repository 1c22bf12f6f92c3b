package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/jason-s-yu/halo/internal/stats"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu        sync.Mutex
	lists     map[string][][]byte
	published map[string][][]byte
	err       error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{lists: map[string][][]byte{}, published: map[string][][]byte{}}
}

func (f *fakeRedis) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	for _, v := range values {
		f.lists[key] = append(f.lists[key], v.([]byte))
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.published[channel] = append(f.published[channel], message.([]byte))
	return redis.NewIntResult(1, nil)
}

func TestMatchPublisherQueuesRecordedMatches(t *testing.T) {
	rdb := newFakeRedis()
	pub := NewMatchPublisher(rdb, "", nil)
	pub.now = func() time.Time { return time.UnixMilli(1700000000000) }

	store := stats.NewStore(2)
	store.Subscribe(pub)

	m := models.Match{
		ID: "m-1",
		Participants: []models.PlayerResult{
			{PlayerID: 1, Kills: 3, Won: true},
			{PlayerID: 2, Deaths: 3},
		},
	}
	applied, err := store.RecordMatch(context.Background(), m)
	require.NoError(t, err)
	require.True(t, applied)

	// replay is not re-queued
	_, err = store.RecordMatch(context.Background(), m)
	require.NoError(t, err)

	queued := rdb.lists[DefaultQueueName]
	require.Len(t, queued, 1)

	var ev MatchEvent
	require.NoError(t, json.Unmarshal(queued[0], &ev))
	assert.Equal(t, "m-1", ev.Match.ID)
	assert.Len(t, ev.Match.Participants, 2)
	assert.Equal(t, int64(1700000000000), ev.RecordedAt)
}

func TestMatchPublisherSurfacesErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	pub := NewMatchPublisher(rdb, "q", nil)

	err := pub.Publish(context.Background(), models.Match{ID: "m"})
	assert.ErrorContains(t, err, "connection refused")

	// the observer path only logs
	assert.NotPanics(t, func() { pub.MatchRecorded(context.Background(), models.Match{ID: "m"}) })
}

func TestPendingMatchNotifier(t *testing.T) {
	rdb := newFakeRedis()
	n := NewPendingMatchNotifier(rdb, "pending", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.MatchFound(ctx, models.PendingMatch{MatchID: "abc", Playlist: "swat", PlayerIDs: []int64{1, 2}})

	require.Len(t, rdb.published["pending"], 1)
	var pm models.PendingMatch
	require.NoError(t, json.Unmarshal(rdb.published["pending"][0], &pm))
	assert.Equal(t, "abc", pm.MatchID)
	assert.Equal(t, []int64{1, 2}, pm.PlayerIDs)
}
