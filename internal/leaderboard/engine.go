// internal/leaderboard/engine.go
package leaderboard

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Strategy names how Top is currently answered.
type Strategy string

const (
	// ReadThrough sorts a fresh snapshot on every call. Always consistent.
	ReadThrough Strategy = "read-through"
	// MaintainedIndex serves presorted boards rebuilt every RefreshWrites
	// recorded matches or once MaxStaleness has passed.
	MaintainedIndex Strategy = "maintained-index"
)

// Source is the stats view the engine ranks.
type Source interface {
	Snapshot() []models.PlayerStats
	Count() int
}

type Entry struct {
	Rank          int     `json:"rank"`
	PlayerID      int64   `json:"playerId"`
	Gamertag      string  `json:"gamertag"`
	Value         float64 `json:"value"`
	MatchesPlayed int     `json:"matchesPlayed"`
}

type Config struct {
	// IndexThreshold is the player count above which the maintained index is used.
	IndexThreshold int
	RefreshWrites  int
	MaxStaleness   time.Duration
}

type index struct {
	builtAt time.Time
	boards  map[Metric][]Entry
}

type Engine struct {
	src    Source
	cfg    Config
	now    func() time.Time
	logger logrus.FieldLogger

	current atomic.Pointer[index]
	writes  atomic.Int64
	buildMu sync.Mutex
}

func NewEngine(src Source, cfg Config, logger logrus.FieldLogger) *Engine {
	if cfg.RefreshWrites <= 0 {
		cfg.RefreshWrites = 1
	}
	if cfg.MaxStaleness <= 0 {
		cfg.MaxStaleness = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{src: src, cfg: cfg, now: time.Now, logger: logger}
}

func (e *Engine) Strategy() Strategy {
	if e.src.Count() > e.cfg.IndexThreshold {
		return MaintainedIndex
	}
	return ReadThrough
}

// Top returns at most n entries for metric, which may be any name ParseMetric
// accepts. n <= 0 means DefaultLimit and n is capped at MaxLimit.
func (e *Engine) Top(metric Metric, n int) ([]Entry, error) {
	metric, err := ParseMetric(string(metric))
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultLimit
	}
	n = min(n, MaxLimit)

	if e.Strategy() == ReadThrough {
		return rank(e.src.Snapshot(), metric, n), nil
	}

	idx := e.current.Load()
	if idx == nil || e.now().Sub(idx.builtAt) >= e.cfg.MaxStaleness {
		idx = e.rebuild()
	}
	board := idx.boards[metric]
	out := make([]Entry, min(n, len(board)))
	copy(out, board)
	return out, nil
}

// Refresh rebuilds the index when the maintained strategy is active and the
// index is older than MaxStaleness. It is meant for a periodic job.
func (e *Engine) Refresh() {
	if e.Strategy() != MaintainedIndex {
		return
	}
	idx := e.current.Load()
	if idx != nil && e.now().Sub(idx.builtAt) < e.cfg.MaxStaleness {
		return
	}
	e.rebuild()
}

// MatchRecorded counts writes and rebuilds once RefreshWrites have piled up.
func (e *Engine) MatchRecorded(_ context.Context, _ models.Match) {
	if e.writes.Add(1) < int64(e.cfg.RefreshWrites) {
		return
	}
	if e.Strategy() != MaintainedIndex {
		e.writes.Store(0)
		return
	}
	if !e.buildMu.TryLock() {
		// a rebuild is already running; the counter stays high so the next write retries
		return
	}
	defer e.buildMu.Unlock()
	e.rebuildLocked()
}

func (e *Engine) rebuild() *index {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.rebuildLocked()
}

func (e *Engine) rebuildLocked() *index {
	e.writes.Store(0)
	snap := e.src.Snapshot()
	idx := &index{
		builtAt: e.now(),
		boards:  make(map[Metric][]Entry, len(Metrics)),
	}
	for _, m := range Metrics {
		idx.boards[m] = rank(snap, m, MaxLimit)
	}
	e.current.Store(idx)
	e.logger.WithField("players", len(snap)).Debug("leaderboard index rebuilt")
	return idx
}

// rank sorts by value descending, then fewer matches played, then player id.
func rank(snap []models.PlayerStats, metric Metric, n int) []Entry {
	entries := make([]Entry, len(snap))
	for i, s := range snap {
		entries[i] = Entry{
			PlayerID:      s.PlayerID,
			Gamertag:      s.Gamertag,
			Value:         metric.value(s),
			MatchesPlayed: s.MatchesPlayed,
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed < b.MatchesPlayed
		}
		return a.PlayerID < b.PlayerID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
