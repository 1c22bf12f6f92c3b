package stats

import "github.com/jason-s-yu/halo/internal/models"

const (
	MedalKillingSpree = "Killing Spree"
	MedalRunningRiot  = "Running Riot"
	MedalDoubleKill   = "Double Kill"
	MedalTripleKill   = "Triple Kill"
	MedalOverkill     = "Overkill"
	MedalPerfection   = "Perfection"
	MedalSharpshooter = "Sharpshooter"
	MedalSliceNDice   = "Slice 'N Dice"
)

const (
	xpPerMatch  = 50
	xpPerKill   = 10
	xpPerAssist = 5
	xpPerWin    = 100
	xpPerMedal  = 25

	xpPerLevel = 1000
	maxLevel   = 50
)

var rankTitles = []struct {
	level int
	title string
}{
	{1, "Recruit"},
	{5, "Apprentice"},
	{10, "Private"},
	{15, "Corporal"},
	{20, "Sergeant"},
	{25, "Gunnery Sergeant"},
	{30, "Lieutenant"},
	{35, "Captain"},
	{40, "Major"},
	{45, "Commander"},
	{50, "Brigadier"},
}

// AwardMedals returns the medals a single match line earns. Only the highest
// multi-kill medal is given.
func AwardMedals(r models.PlayerResult) []string {
	var medals []string
	if r.Kills >= 5 && r.Deaths <= 1 {
		medals = append(medals, MedalKillingSpree)
	}
	if r.Kills >= 10 && r.Deaths == 0 {
		medals = append(medals, MedalRunningRiot)
	}
	switch {
	case r.Kills >= 4:
		medals = append(medals, MedalOverkill)
	case r.Kills >= 3:
		medals = append(medals, MedalTripleKill)
	case r.Kills >= 2:
		medals = append(medals, MedalDoubleKill)
	}
	if r.Kills > 15 && r.Deaths == 0 {
		medals = append(medals, MedalPerfection)
	}
	if r.WeaponKills["Sniper"] >= 5 {
		medals = append(medals, MedalSharpshooter)
	}
	if r.WeaponKills["EnergySword"] >= 5 {
		medals = append(medals, MedalSliceNDice)
	}
	return medals
}

// MatchXP is the experience a match line is worth.
func MatchXP(r models.PlayerResult, won bool) int {
	xp := xpPerMatch + r.Kills*xpPerKill + r.Assists*xpPerAssist + len(r.Medals)*xpPerMedal
	if won {
		xp += xpPerWin
	}
	return xp
}

// RankFor maps total XP to a level and its title.
func RankFor(xp int) (int, string) {
	level := min(1+xp/xpPerLevel, maxLevel)
	title := rankTitles[0].title
	for _, r := range rankTitles {
		if level >= r.level {
			title = r.title
		}
	}
	return level, title
}

// mergeMedals unions server-reported medals with the computed ones, keeping
// the reported order first.
func mergeMedals(reported, computed []string) []string {
	seen := make(map[string]bool, len(reported)+len(computed))
	out := make([]string, 0, len(reported)+len(computed))
	for _, list := range [][]string{reported, computed} {
		for _, m := range list {
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
