// internal/matchmaking/queue.go
package matchmaking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultPlaylists maps playlist name to players per match.
var DefaultPlaylists = map[string]int{
	"ranked_slayer":    8,
	"social_slayer":    8,
	"team_doubles":     4,
	"capture_the_flag": 8,
	"swat":             8,
	"snipers":          8,
	"infection":        10,
}

const anyRegion = "any"

// Emitter is told about every pending match the queue forms.
type Emitter interface {
	MatchFound(ctx context.Context, pm models.PendingMatch)
}

// Recorder receives completed matches.
type Recorder interface {
	RecordMatch(ctx context.Context, m models.Match) (bool, error)
}

type Config struct {
	// WidenAfter is how long a ticket waits before it may match outside its region.
	WidenAfter time.Duration
	// PendingTimeout releases players of a pending match that never completed.
	PendingTimeout time.Duration
	Playlists      map[string]int
}

type bucket struct {
	mu      sync.Mutex
	key     string
	tickets []*models.QueueTicket // join order
}

// Queue groups players by playlist and region. A player is IDLE when absent
// from the state table.
//
// Lock order: bucket locks (ascending key), then stateMu. Join and Leave never
// hold both at once.
type Queue struct {
	cfg      Config
	recorder Recorder
	logger   logrus.FieldLogger
	now      func() time.Time

	emitMu   sync.RWMutex
	emitters []Emitter

	stateMu sync.Mutex
	state   map[int64]*models.QueueTicket
	pending map[string]models.PendingMatch

	bucketsMu sync.Mutex
	buckets   map[string]*bucket
}

func NewQueue(cfg Config, recorder Recorder, logger logrus.FieldLogger) *Queue {
	if cfg.Playlists == nil {
		cfg.Playlists = DefaultPlaylists
	}
	if cfg.WidenAfter <= 0 {
		cfg.WidenAfter = 30 * time.Second
	}
	if cfg.PendingTimeout <= 0 {
		cfg.PendingTimeout = 30 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Queue{
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		state:    make(map[int64]*models.QueueTicket),
		pending:  make(map[string]models.PendingMatch),
		buckets:  make(map[string]*bucket),
	}
}

// AddEmitter registers a sink for pending matches.
func (q *Queue) AddEmitter(e Emitter) {
	q.emitMu.Lock()
	defer q.emitMu.Unlock()
	q.emitters = append(q.emitters, e)
}

func bucketKey(playlist, region string) string {
	return playlist + "/" + region
}

func (q *Queue) bucketFor(key string) *bucket {
	q.bucketsMu.Lock()
	defer q.bucketsMu.Unlock()
	b, ok := q.buckets[key]
	if !ok {
		b = &bucket{key: key}
		q.buckets[key] = b
	}
	return b
}

// Join puts an idle player in the queue.
func (q *Queue) Join(playerID int64, prefs models.QueuePreferences) (models.QueueTicket, error) {
	prefs.Playlist = strings.ToLower(strings.TrimSpace(prefs.Playlist))
	prefs.Region = strings.ToLower(strings.TrimSpace(prefs.Region))
	if prefs.Region == "" {
		prefs.Region = anyRegion
	}
	if _, ok := q.cfg.Playlists[prefs.Playlist]; !ok {
		return models.QueueTicket{}, fmt.Errorf("unknown playlist %q: %w", prefs.Playlist, models.ErrValidation)
	}

	t := &models.QueueTicket{
		TicketID:    uuid.New(),
		PlayerID:    playerID,
		Preferences: prefs,
		State:       models.StateQueued,
		JoinedAt:    q.now(),
	}

	q.stateMu.Lock()
	if cur, ok := q.state[playerID]; ok {
		q.stateMu.Unlock()
		return models.QueueTicket{}, fmt.Errorf("player %d is %s: %w", playerID, cur.State, models.ErrAlreadyQueued)
	}
	q.state[playerID] = t
	out := *t
	q.stateMu.Unlock()

	b := q.bucketFor(bucketKey(prefs.Playlist, prefs.Region))
	b.mu.Lock()
	b.tickets = append(b.tickets, t)
	b.mu.Unlock()

	q.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"playlist":  prefs.Playlist,
		"region":    prefs.Region,
	}).Debug("player queued")
	return out, nil
}

// Leave removes a queued player. Idle and matched players get ErrNotQueued.
func (q *Queue) Leave(playerID int64) error {
	q.stateMu.Lock()
	t, ok := q.state[playerID]
	if !ok || t.State != models.StateQueued {
		q.stateMu.Unlock()
		return fmt.Errorf("player %d: %w", playerID, models.ErrNotQueued)
	}
	delete(q.state, playerID)
	key := bucketKey(t.Preferences.Playlist, t.Preferences.Region)
	ticketID := t.TicketID
	q.stateMu.Unlock()

	b := q.bucketFor(key)
	b.mu.Lock()
	for i, bt := range b.tickets {
		if bt.TicketID == ticketID {
			b.tickets = append(b.tickets[:i], b.tickets[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
	return nil
}

// Status returns the player's ticket, or ErrNotQueued when idle.
func (q *Queue) Status(playerID int64) (models.QueueTicket, error) {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()
	t, ok := q.state[playerID]
	if !ok {
		return models.QueueTicket{}, fmt.Errorf("player %d: %w", playerID, models.ErrNotQueued)
	}
	return *t, nil
}

// Pending lists matches waiting for a result, oldest first.
func (q *Queue) Pending() []models.PendingMatch {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()
	out := make([]models.PendingMatch, 0, len(q.pending))
	for _, pm := range q.pending {
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Tick runs one matchmaking pass and returns the matches it formed. Exact
// buckets are drained first, then tickets past WidenAfter are grouped across
// regions of the same playlist, earliest joined first.
func (q *Queue) Tick(ctx context.Context) []models.PendingMatch {
	now := q.now()
	q.expirePending(now)

	byPlaylist := q.bucketsByPlaylist()
	playlists := make([]string, 0, len(byPlaylist))
	for p := range byPlaylist {
		playlists = append(playlists, p)
	}
	sort.Strings(playlists)

	var formed []models.PendingMatch
	for _, p := range playlists {
		formed = append(formed, q.tickPlaylist(p, byPlaylist[p], now)...)
	}

	if len(formed) > 0 {
		q.emitMu.RLock()
		emitters := append([]Emitter(nil), q.emitters...)
		q.emitMu.RUnlock()
		for _, pm := range formed {
			q.logger.WithFields(logrus.Fields{
				"match_id": pm.MatchID,
				"playlist": pm.Playlist,
				"players":  len(pm.PlayerIDs),
				"widened":  pm.Widened,
			}).Info("match found")
			for _, e := range emitters {
				e.MatchFound(ctx, pm)
			}
		}
	}
	return formed
}

// Complete is the external signal that a pending match finished. The result is
// recorded first; only then are its players released.
func (q *Queue) Complete(ctx context.Context, m models.Match) (bool, error) {
	if q.recorder == nil {
		return false, fmt.Errorf("no match recorder configured")
	}
	applied, err := q.recorder.RecordMatch(ctx, m)
	if err != nil {
		return false, err
	}

	q.stateMu.Lock()
	if pm, ok := q.pending[m.ID]; ok {
		delete(q.pending, m.ID)
		q.releaseLocked(pm)
	}
	q.stateMu.Unlock()
	return applied, nil
}

func (q *Queue) bucketsByPlaylist() map[string][]*bucket {
	q.bucketsMu.Lock()
	defer q.bucketsMu.Unlock()
	out := make(map[string][]*bucket)
	for key, b := range q.buckets {
		playlist := key[:strings.IndexByte(key, '/')]
		out[playlist] = append(out[playlist], b)
	}
	for _, bs := range out {
		sort.Slice(bs, func(i, j int) bool { return bs[i].key < bs[j].key })
	}
	return out
}

func (q *Queue) tickPlaylist(playlist string, buckets []*bucket, now time.Time) []models.PendingMatch {
	size := q.cfg.Playlists[playlist]
	for _, b := range buckets {
		b.mu.Lock()
		defer b.mu.Unlock()
	}
	q.stateMu.Lock()
	defer q.stateMu.Unlock()

	var formed []models.PendingMatch
	for _, b := range buckets {
		b.tickets = q.liveLocked(b.tickets)
		for len(b.tickets) >= size {
			group := b.tickets[:size]
			b.tickets = append([]*models.QueueTicket(nil), b.tickets[size:]...)
			formed = append(formed, q.matchLocked(playlist, group[0].Preferences.Region, group, false, now))
		}
	}

	// widening pass: tickets past WidenAfter may pull players from any region
	var pool []*models.QueueTicket
	for _, b := range buckets {
		pool = append(pool, b.tickets...)
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].JoinedAt.Before(pool[j].JoinedAt) })

	taken := make(map[uuid.UUID]bool)
	for _, head := range pool {
		if taken[head.TicketID] || now.Sub(head.JoinedAt) < q.cfg.WidenAfter {
			continue
		}
		group := []*models.QueueTicket{head}
		for _, t := range pool {
			if len(group) == size {
				break
			}
			if t == head || taken[t.TicketID] {
				continue
			}
			if now.Sub(t.JoinedAt) >= q.cfg.WidenAfter || t.Preferences.Region == head.Preferences.Region {
				group = append(group, t)
			}
		}
		if len(group) < size {
			continue
		}
		for _, t := range group {
			taken[t.TicketID] = true
		}
		formed = append(formed, q.matchLocked(playlist, "", group, true, now))
	}
	if len(taken) > 0 {
		for _, b := range buckets {
			kept := b.tickets[:0]
			for _, t := range b.tickets {
				if !taken[t.TicketID] {
					kept = append(kept, t)
				}
			}
			b.tickets = kept
		}
	}
	return formed
}

// liveLocked drops tickets whose player left or re-joined with a new ticket.
func (q *Queue) liveLocked(tickets []*models.QueueTicket) []*models.QueueTicket {
	live := tickets[:0]
	for _, t := range tickets {
		if cur, ok := q.state[t.PlayerID]; ok && cur == t && cur.State == models.StateQueued {
			live = append(live, t)
		}
	}
	return live
}

func (q *Queue) matchLocked(playlist, region string, group []*models.QueueTicket, widened bool, now time.Time) models.PendingMatch {
	pm := models.PendingMatch{
		MatchID:   uuid.NewString(),
		Playlist:  playlist,
		Region:    region,
		PlayerIDs: make([]int64, 0, len(group)),
		Widened:   widened,
		CreatedAt: now,
	}
	for _, t := range group {
		t.State = models.StateMatched
		t.MatchID = pm.MatchID
		pm.PlayerIDs = append(pm.PlayerIDs, t.PlayerID)
	}
	q.pending[pm.MatchID] = pm
	return pm
}

func (q *Queue) expirePending(now time.Time) {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()
	for id, pm := range q.pending {
		if now.Sub(pm.CreatedAt) < q.cfg.PendingTimeout {
			continue
		}
		delete(q.pending, id)
		q.releaseLocked(pm)
		q.logger.WithField("match_id", id).Warn("pending match abandoned")
	}
}

func (q *Queue) releaseLocked(pm models.PendingMatch) {
	for _, id := range pm.PlayerIDs {
		if t, ok := q.state[id]; ok && t.MatchID == pm.MatchID {
			delete(q.state, id)
		}
	}
}
