package stats

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examplePlayer int64 = 985752863

func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func soloMatch(id string, playerID int64, kills, deaths int, win bool) models.Match {
	return models.Match{
		ID: id,
		Participants: []models.PlayerResult{
			{PlayerID: playerID, Kills: kills, Deaths: deaths, Won: win},
		},
	}
}

func TestExamplePlayerScenario(t *testing.T) {
	s := NewStore(4, WithClock(fixedClock()))
	s.Register(examplePlayer, "player")

	before, err := s.Stats(examplePlayer)
	require.NoError(t, err)
	assert.Zero(t, before.Kills)
	assert.Zero(t, before.Deaths)
	assert.Zero(t, before.Wins)

	applied, err := s.RecordMatch(context.Background(), soloMatch("m1", examplePlayer, 10, 2, true))
	require.NoError(t, err)
	assert.True(t, applied)

	st, err := s.Stats(examplePlayer)
	require.NoError(t, err)
	assert.Equal(t, 10, st.Kills)
	assert.Equal(t, 2, st.Deaths)
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 5.0, st.KDRatio())
}

func TestRecordMatchIsIdempotent(t *testing.T) {
	s := NewStore(4)
	m := models.Match{
		ID:          "dup",
		WinningTeam: "red",
		Participants: []models.PlayerResult{
			{PlayerID: 1, Team: "red", Kills: 7, Deaths: 3, Assists: 2},
			{PlayerID: 2, Team: "blue", Kills: 3, Deaths: 7},
		},
	}

	applied, err := s.RecordMatch(context.Background(), m)
	require.NoError(t, err)
	require.True(t, applied)
	once := s.Snapshot()

	applied, err = s.RecordMatch(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.ElementsMatch(t, once, s.Snapshot())

	h, err := s.MatchHistory(1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, h, 1)
}

func TestWinningTeamDecidesWins(t *testing.T) {
	s := NewStore(2)
	_, err := s.RecordMatch(context.Background(), models.Match{
		ID:          "teams",
		WinningTeam: "red",
		Participants: []models.PlayerResult{
			{PlayerID: 1, Team: "red"},
			{PlayerID: 2, Team: "blue"},
		},
	})
	require.NoError(t, err)

	red, _ := s.Stats(1)
	blue, _ := s.Stats(2)
	assert.Equal(t, 1, red.Wins)
	assert.Equal(t, 0, red.Losses)
	assert.Equal(t, 0, blue.Wins)
	assert.Equal(t, 1, blue.Losses)
}

func TestKDRatioStaysCurrent(t *testing.T) {
	s := NewStore(2)
	ctx := context.Background()
	for i, kd := range [][2]int{{4, 0}, {6, 3}, {1, 5}} {
		_, err := s.RecordMatch(ctx, soloMatch(fmt.Sprintf("kd-%d", i), 42, kd[0], kd[1], false))
		require.NoError(t, err)

		st, err := s.Stats(42)
		require.NoError(t, err)
		assert.Equal(t, float64(st.Kills)/float64(max(st.Deaths, 1)), st.KDRatio())
	}
}

func TestStatsUnknownPlayer(t *testing.T) {
	s := NewStore(2)
	_, err := s.Stats(7)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.MatchHistory(7, 10, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMatchHistoryNewestFirstAndPaged(t *testing.T) {
	s := NewStore(2, WithClock(fixedClock()))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.RecordMatch(ctx, soloMatch(fmt.Sprintf("h%d", i), 9, 1, 1, false))
		require.NoError(t, err)
	}

	page, err := s.MatchHistory(9, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "h4", page[0].ID)
	assert.Equal(t, "h3", page[1].ID)
	assert.True(t, page[0].CompletedAt.After(page[1].CompletedAt))

	page, err = s.MatchHistory(9, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "h0", page[0].ID)

	page, err = s.MatchHistory(9, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = s.MatchHistory(9, 2, -1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRecordMatchValidation(t *testing.T) {
	s := NewStore(2)
	ctx := context.Background()

	cases := map[string]models.Match{
		"no id":           {Participants: []models.PlayerResult{{PlayerID: 1}}},
		"no participants": {ID: "x"},
		"duplicate":       {ID: "x", Participants: []models.PlayerResult{{PlayerID: 1}, {PlayerID: 1}}},
		"negative":        {ID: "x", Participants: []models.PlayerResult{{PlayerID: 1, Kills: -1}}},
		"negative weapon": {ID: "x", Participants: []models.PlayerResult{{PlayerID: 1, WeaponKills: map[string]int{"Sniper": -2}}}},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			applied, err := s.RecordMatch(ctx, m)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.False(t, applied)
		})
	}
	assert.Zero(t, s.Count())

	// a rejected match must not burn its id
	applied, err := s.RecordMatch(ctx, soloMatch("x", 1, 1, 0, true))
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestMedalsAndXPApplied(t *testing.T) {
	s := NewStore(2)
	_, err := s.RecordMatch(context.Background(), models.Match{
		ID: "medals",
		Participants: []models.PlayerResult{{
			PlayerID:    5,
			Kills:       12,
			Deaths:      0,
			Assists:     2,
			Won:         true,
			WeaponKills: map[string]int{"Sniper": 6},
		}},
	})
	require.NoError(t, err)

	st, err := s.Stats(5)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Medals[MedalKillingSpree])
	assert.Equal(t, 1, st.Medals[MedalRunningRiot])
	assert.Equal(t, 1, st.Medals[MedalOverkill])
	assert.Equal(t, 1, st.Medals[MedalSharpshooter])
	assert.Zero(t, st.Medals[MedalPerfection])
	// 50 + 120 + 10 + 100 + 4*25
	assert.Equal(t, 380, st.XP)

	h, err := s.MatchHistory(5, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 380, h[0].Participants[0].XPEarned)
}

func TestResetKeepsHistory(t *testing.T) {
	s := NewStore(2)
	_, err := s.RecordMatch(context.Background(), soloMatch("r1", 3, 5, 5, true))
	require.NoError(t, err)

	require.NoError(t, s.Reset(3))
	st, err := s.Stats(3)
	require.NoError(t, err)
	assert.Zero(t, st.Kills)
	assert.Zero(t, st.MatchesPlayed)

	h, err := s.MatchHistory(3, 10, 0)
	require.NoError(t, err)
	assert.Len(t, h, 1)

	assert.ErrorIs(t, s.Reset(404), models.ErrNotFound)
}

func TestObserversSeeRecordedMatches(t *testing.T) {
	s := NewStore(2)
	var got []string
	s.Subscribe(ObserverFunc(func(_ context.Context, m models.Match) {
		got = append(got, m.ID)
	}))

	ctx := context.Background()
	_, _ = s.RecordMatch(ctx, soloMatch("o1", 1, 0, 0, false))
	_, _ = s.RecordMatch(ctx, soloMatch("o1", 1, 0, 0, false))
	_, _ = s.RecordMatch(ctx, soloMatch("o2", 1, 0, 0, false))
	assert.Equal(t, []string{"o1", "o2"}, got)
}

func TestConcurrentRecordAndSnapshot(t *testing.T) {
	s := NewStore(8)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m := models.Match{
					ID: fmt.Sprintf("c-%d-%d", w, i),
					Participants: []models.PlayerResult{
						{PlayerID: int64(i % 10), Kills: 1},
						{PlayerID: int64(10 + i%10), Deaths: 1},
					},
				}
				_, err := s.RecordMatch(ctx, m)
				assert.NoError(t, err)
				// replay from another goroutine's point of view
				_, err = s.RecordMatch(ctx, m)
				assert.NoError(t, err)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				kills, deaths := 0, 0
				for _, st := range s.Snapshot() {
					kills += st.Kills
					deaths += st.Deaths
				}
				// every match adds one kill and one death together
				assert.Equal(t, kills, deaths)
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, st := range s.Snapshot() {
		total += st.MatchesPlayed
	}
	assert.Equal(t, 8*50*2, total)
	assert.Equal(t, 20, s.Count())
}
