// internal/stats/store.go
package stats

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stathat/consistent"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	DefaultShards       = 16
)

// Observer is told about every match after it has been applied.
type Observer interface {
	MatchRecorded(ctx context.Context, m models.Match)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, m models.Match)

func (f ObserverFunc) MatchRecorded(ctx context.Context, m models.Match) { f(ctx, m) }

type playerRecord struct {
	stats   models.PlayerStats
	history []models.Match // oldest first
}

type shard struct {
	mu      sync.RWMutex
	players map[int64]*playerRecord
}

// Store holds cumulative player stats and match history in memory. Players are
// spread over shards picked by a consistent-hash ring, each shard guarded by
// its own lock.
type Store struct {
	ring     *consistent.Consistent
	shards   []*shard
	shardIdx map[string]int

	dedupMu sync.Mutex
	claimed map[string]struct{}

	obsMu     sync.RWMutex
	observers []Observer

	players atomic.Int64
	now     func() time.Time
	logger  logrus.FieldLogger
}

type Option func(*Store)

// WithClock overrides the time source stamped on matches without a completion time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns an empty store with n shards (DefaultShards when n <= 0).
func NewStore(n int, opts ...Option) *Store {
	if n <= 0 {
		n = DefaultShards
	}
	s := &Store{
		ring:     consistent.New(),
		shards:   make([]*shard, n),
		shardIdx: make(map[string]int, n),
		claimed:  make(map[string]struct{}),
		now:      time.Now,
		logger:   logrus.StandardLogger(),
	}
	for i := range s.shards {
		name := "shard-" + strconv.Itoa(i)
		s.shards[i] = &shard{players: make(map[int64]*playerRecord)}
		s.shardIdx[name] = i
		s.ring.Add(name)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer for recorded matches.
func (s *Store) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Store) shardFor(playerID int64) int {
	name, err := s.ring.Get(strconv.FormatInt(playerID, 10))
	if err != nil {
		// only possible with an empty ring
		return 0
	}
	return s.shardIdx[name]
}

// Count is the number of known players.
func (s *Store) Count() int {
	return int(s.players.Load())
}

// Stats returns a snapshot of the player's cumulative stats.
func (s *Store) Stats(playerID int64) (models.PlayerStats, error) {
	sh := s.shards[s.shardFor(playerID)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.players[playerID]
	if !ok {
		return models.PlayerStats{}, fmt.Errorf("player %d: %w", playerID, models.ErrNotFound)
	}
	return rec.stats.Clone(), nil
}

// MatchHistory returns the player's matches newest first. limit falls back to
// DefaultHistoryLimit and is capped at MaxHistoryLimit.
func (s *Store) MatchHistory(playerID int64, limit, offset int) ([]models.Match, error) {
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d: %w", offset, models.ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	sh := s.shards[s.shardFor(playerID)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, ok := sh.players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, models.ErrNotFound)
	}

	out := make([]models.Match, 0, limit)
	for i := len(rec.history) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, rec.history[i].Clone())
	}
	return out, nil
}

// Register creates an empty record for a player, or fills in a missing
// gamertag. It never touches existing counters.
func (s *Store) Register(playerID int64, gamertag string) {
	sh := s.shards[s.shardFor(playerID)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if rec, ok := sh.players[playerID]; ok {
		if rec.stats.Gamertag == "" {
			rec.stats.Gamertag = gamertag
		}
		return
	}
	sh.players[playerID] = newRecord(playerID, gamertag)
	s.players.Add(1)
}

// Reset zeroes a player's counters. Match history is kept.
func (s *Store) Reset(playerID int64) error {
	sh := s.shards[s.shardFor(playerID)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.players[playerID]
	if !ok {
		return fmt.Errorf("player %d: %w", playerID, models.ErrNotFound)
	}
	rec.stats = newRecord(playerID, rec.stats.Gamertag).stats
	s.logger.WithField("player_id", playerID).Warn("player stats reset")
	return nil
}

// RecordMatch applies every participant's result as a single unit. Replaying a
// match id is a no-op reported as applied=false. Participants without a record
// are created with zero stats.
func (s *Store) RecordMatch(ctx context.Context, m models.Match) (bool, error) {
	if err := validateMatch(m); err != nil {
		return false, err
	}
	m = s.prepare(m)

	s.dedupMu.Lock()
	if _, dup := s.claimed[m.ID]; dup {
		s.dedupMu.Unlock()
		return false, nil
	}
	s.claimed[m.ID] = struct{}{}
	s.dedupMu.Unlock()

	idx := s.shardsOf(m)
	for _, i := range idx {
		s.shards[i].mu.Lock()
	}
	for _, r := range m.Participants {
		s.applyLocked(m, r)
	}
	for j := len(idx) - 1; j >= 0; j-- {
		s.shards[idx[j]].mu.Unlock()
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": m.ID,
		"players":  len(m.Participants),
	}).Debug("match recorded")

	s.obsMu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.obsMu.RUnlock()
	for _, o := range observers {
		o.MatchRecorded(ctx, m.Clone())
	}
	return true, nil
}

// Snapshot copies every player's stats. All shards are read-locked together so
// a concurrent RecordMatch is seen either entirely or not at all.
func (s *Store) Snapshot() []models.PlayerStats {
	for _, sh := range s.shards {
		sh.mu.RLock()
	}
	out := make([]models.PlayerStats, 0, s.Count())
	for _, sh := range s.shards {
		for _, rec := range sh.players {
			out = append(out, rec.stats.Clone())
		}
	}
	for i := len(s.shards) - 1; i >= 0; i-- {
		s.shards[i].mu.RUnlock()
	}
	return out
}

// prepare stamps the completion time and fills in medals and XP for each line.
func (s *Store) prepare(m models.Match) models.Match {
	m = m.Clone()
	if m.CompletedAt.IsZero() {
		m.CompletedAt = s.now()
	}
	for i := range m.Participants {
		r := &m.Participants[i]
		r.Won = m.IsWin(*r)
		r.Medals = mergeMedals(r.Medals, AwardMedals(*r))
		r.XPEarned = MatchXP(*r, r.Won)
	}
	return m
}

// shardsOf returns the distinct shard indexes of the participants, ascending.
func (s *Store) shardsOf(m models.Match) []int {
	seen := make(map[int]bool, len(m.Participants))
	idx := make([]int, 0, len(m.Participants))
	for _, r := range m.Participants {
		i := s.shardFor(r.PlayerID)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return idx
}

// applyLocked requires the participant's shard to be write-locked.
func (s *Store) applyLocked(m models.Match, r models.PlayerResult) {
	sh := s.shards[s.shardFor(r.PlayerID)]
	rec, ok := sh.players[r.PlayerID]
	if !ok {
		rec = newRecord(r.PlayerID, r.Gamertag)
		sh.players[r.PlayerID] = rec
		s.players.Add(1)
	}
	if rec.stats.Gamertag == "" {
		rec.stats.Gamertag = r.Gamertag
	}

	st := &rec.stats
	st.Kills += r.Kills
	st.Deaths += r.Deaths
	st.Assists += r.Assists
	st.MatchesPlayed++
	if r.Won {
		st.Wins++
	} else {
		st.Losses++
	}
	for _, medal := range r.Medals {
		st.Medals[medal]++
	}
	st.XP += r.XPEarned
	st.RankLevel, st.RankTitle = RankFor(st.XP)

	rec.history = append(rec.history, m)
}

func newRecord(playerID int64, gamertag string) *playerRecord {
	level, title := RankFor(0)
	return &playerRecord{
		stats: models.PlayerStats{
			PlayerID:  playerID,
			Gamertag:  gamertag,
			RankLevel: level,
			RankTitle: title,
			Medals:    map[string]int{},
		},
	}
}

func validateMatch(m models.Match) error {
	if m.ID == "" {
		return fmt.Errorf("match id is required: %w", models.ErrValidation)
	}
	if len(m.Participants) == 0 {
		return fmt.Errorf("match %s has no participants: %w", m.ID, models.ErrValidation)
	}
	seen := make(map[int64]bool, len(m.Participants))
	for _, r := range m.Participants {
		if seen[r.PlayerID] {
			return fmt.Errorf("match %s lists player %d twice: %w", m.ID, r.PlayerID, models.ErrValidation)
		}
		seen[r.PlayerID] = true
		if r.Kills < 0 || r.Deaths < 0 || r.Assists < 0 {
			return fmt.Errorf("match %s has negative counters for player %d: %w", m.ID, r.PlayerID, models.ErrValidation)
		}
		for weapon, k := range r.WeaponKills {
			if k < 0 {
				return fmt.Errorf("match %s has negative %s kills for player %d: %w", m.ID, weapon, r.PlayerID, models.ErrValidation)
			}
		}
	}
	return nil
}
