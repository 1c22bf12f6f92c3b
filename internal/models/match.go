package models

import "time"

// PlayerResult is one participant's delta for a single match.
type PlayerResult struct {
	PlayerID    int64          `json:"playerId"`
	Gamertag    string         `json:"gamertag,omitempty"`
	Team        string         `json:"team,omitempty"`
	Kills       int            `json:"kills"`
	Deaths      int            `json:"deaths"`
	Assists     int            `json:"assists"`
	Score       int            `json:"score"`
	Won         bool           `json:"win"`
	Medals      []string       `json:"medalsEarned,omitempty"`
	WeaponKills map[string]int `json:"weaponKills,omitempty"`
	XPEarned    int            `json:"xpEarned"`
}

// Match is immutable once recorded.
type Match struct {
	ID              string         `json:"matchId"`
	Playlist        string         `json:"playlist,omitempty"`
	GameMode        string         `json:"gameMode,omitempty"`
	MapID           string         `json:"mapId,omitempty"`
	WinningTeam     string         `json:"winningTeam,omitempty"`
	DurationSeconds int            `json:"durationSeconds"`
	Participants    []PlayerResult `json:"playerStats"`
	CompletedAt     time.Time      `json:"completedAt"`
}

// IsWin reports whether the result counts as a win: either flagged directly or
// on the winning team.
func (m Match) IsWin(r PlayerResult) bool {
	return r.Won || (m.WinningTeam != "" && r.Team == m.WinningTeam)
}

// PlayerIDs lists participants in match order.
func (m Match) PlayerIDs() []int64 {
	ids := make([]int64, 0, len(m.Participants))
	for _, p := range m.Participants {
		ids = append(ids, p.PlayerID)
	}
	return ids
}

// Clone deep-copies the participant slice and its maps.
func (m Match) Clone() Match {
	out := m
	out.Participants = make([]PlayerResult, len(m.Participants))
	for i, p := range m.Participants {
		cp := p
		if p.Medals != nil {
			cp.Medals = append([]string(nil), p.Medals...)
		}
		if p.WeaponKills != nil {
			cp.WeaponKills = make(map[string]int, len(p.WeaponKills))
			for k, v := range p.WeaponKills {
				cp.WeaponKills[k] = v
			}
		}
		out.Participants[i] = cp
	}
	return out
}
