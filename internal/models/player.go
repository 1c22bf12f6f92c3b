package models

import "encoding/json"

// PlayerStats is the cumulative record for one player. Ratios are derived on
// read and never stored.
type PlayerStats struct {
	PlayerID      int64          `json:"playerId"`
	Gamertag      string         `json:"gamertag"`
	Kills         int            `json:"totalKills"`
	Deaths        int            `json:"totalDeaths"`
	Assists       int            `json:"totalAssists"`
	Wins          int            `json:"matchesWon"`
	Losses        int            `json:"matchesLost"`
	MatchesPlayed int            `json:"matchesPlayed"`
	XP            int            `json:"rankXP"`
	RankLevel     int            `json:"rankLevel"`
	RankTitle     string         `json:"rankTitle"`
	Medals        map[string]int `json:"medals"`
}

// KDRatio is kills over deaths, with deaths floored at one.
func (s PlayerStats) KDRatio() float64 {
	return float64(s.Kills) / float64(max(s.Deaths, 1))
}

func (s PlayerStats) WinRatio() float64 {
	return float64(s.Wins) / float64(max(s.MatchesPlayed, 1))
}

// Clone returns a deep copy safe to hand to callers.
func (s PlayerStats) Clone() PlayerStats {
	out := s
	if s.Medals != nil {
		out.Medals = make(map[string]int, len(s.Medals))
		for k, v := range s.Medals {
			out.Medals[k] = v
		}
	}
	return out
}

// MarshalJSON adds the derived ratios to the serialized stats.
func (s PlayerStats) MarshalJSON() ([]byte, error) {
	type plain PlayerStats
	return json.Marshal(struct {
		plain
		KDRatio  float64 `json:"kdRatio"`
		WinRatio float64 `json:"winRatio"`
	}{plain(s), s.KDRatio(), s.WinRatio()})
}
