package stats

import (
	"testing"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAwardMedals(t *testing.T) {
	tests := []struct {
		name   string
		result models.PlayerResult
		want   []string
	}{
		{"nothing", models.PlayerResult{Kills: 1, Deaths: 4}, nil},
		{"double", models.PlayerResult{Kills: 2, Deaths: 4}, []string{MedalDoubleKill}},
		{"triple", models.PlayerResult{Kills: 3, Deaths: 4}, []string{MedalTripleKill}},
		{"spree", models.PlayerResult{Kills: 5, Deaths: 1}, []string{MedalKillingSpree, MedalOverkill}},
		{"perfection", models.PlayerResult{Kills: 16}, []string{MedalKillingSpree, MedalRunningRiot, MedalOverkill, MedalPerfection}},
		{"sword", models.PlayerResult{Kills: 1, Deaths: 3, WeaponKills: map[string]int{"EnergySword": 5}}, []string{MedalSliceNDice}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AwardMedals(tt.result))
		})
	}
}

func TestRankFor(t *testing.T) {
	level, title := RankFor(0)
	assert.Equal(t, 1, level)
	assert.Equal(t, "Recruit", title)

	level, title = RankFor(4000)
	assert.Equal(t, 5, level)
	assert.Equal(t, "Apprentice", title)

	level, title = RankFor(25999)
	assert.Equal(t, 26, level)
	assert.Equal(t, "Gunnery Sergeant", title)

	level, title = RankFor(1_000_000)
	assert.Equal(t, 50, level)
	assert.Equal(t, "Brigadier", title)
}

func TestMergeMedals(t *testing.T) {
	got := mergeMedals([]string{"Headshot", MedalOverkill}, []string{MedalOverkill, MedalKillingSpree})
	assert.Equal(t, []string{"Headshot", MedalOverkill, MedalKillingSpree}, got)
}
