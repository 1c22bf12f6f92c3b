package leaderboard

import (
	"fmt"
	"strings"

	"github.com/jason-s-yu/halo/internal/models"
)

type Metric string

const (
	MetricKills   Metric = "kills"
	MetricKDRatio Metric = "kdRatio"
	MetricWins    Metric = "wins"
	MetricRank    Metric = "rank"
)

// Metrics lists every board the engine maintains.
var Metrics = []Metric{MetricKills, MetricKDRatio, MetricWins, MetricRank}

// ParseMetric is case-insensitive and accepts "kd" for kdRatio.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kills":
		return MetricKills, nil
	case "kdratio", "kd":
		return MetricKDRatio, nil
	case "wins":
		return MetricWins, nil
	case "rank", "xp":
		return MetricRank, nil
	}
	return "", fmt.Errorf("unknown leaderboard metric %q: %w", s, models.ErrValidation)
}

func (m Metric) value(s models.PlayerStats) float64 {
	switch m {
	case MetricKills:
		return float64(s.Kills)
	case MetricKDRatio:
		return s.KDRatio()
	case MetricWins:
		return float64(s.Wins)
	case MetricRank:
		return float64(s.XP)
	}
	return 0
}
