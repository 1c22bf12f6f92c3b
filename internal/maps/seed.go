package maps

import (
	"time"

	"github.com/jason-s-yu/halo/internal/models"
)

// DefaultMaps is the featured catalog loaded at startup.
func DefaultMaps() ([]models.CustomMap, map[string]models.MapData) {
	created := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	maps := []models.CustomMap{
		{ID: "valhalla-classic", Name: "Valhalla Classic", AuthorID: 92668751, AuthorGamertag: "admin", BaseMap: "VALHALLA",
			GameModes: []string{"slayer", "capture_the_flag"}, Tags: []string{"big-team", "vehicles", "competitive"},
			Description: "Two bases, one river, all the mongooses.", Rating: 4.8, DownloadCount: 1250, CreatedAt: created},
		{ID: "foundry-swat-box", Name: "Foundry SWAT Box", AuthorID: 985752863, AuthorGamertag: "player", BaseMap: "FOUNDRY",
			GameModes: []string{"swat", "slayer"}, Tags: []string{"small", "competitive", "no-radar"},
			Description: "Tight corridors for headshot-only play.", Rating: 4.5, DownloadCount: 980, CreatedAt: created.Add(3 * day)},
		{ID: "sandbox-grifball-court", Name: "Sandbox Grifball Court", AuthorID: 3599307, AuthorGamertag: "user", BaseMap: "SANDBOX",
			GameModes: []string{"grifball"}, Tags: []string{"minigame", "small"},
			Description: "Regulation court, hammers only.", Rating: 4.9, DownloadCount: 2310, CreatedAt: created.Add(7 * day)},
		{ID: "the-pit-infection", Name: "The Pit Infection", AuthorID: 985752863, AuthorGamertag: "player", BaseMap: "THE_PIT",
			GameModes: []string{"infection"}, Tags: []string{"casual", "zombies"},
			Description: "Last stand in the sword room.", Rating: 4.1, DownloadCount: 640, CreatedAt: created.Add(10 * day)},
		{ID: "guardian-snipers", Name: "Guardian Snipers", AuthorID: 92668751, AuthorGamertag: "admin", BaseMap: "GUARDIAN",
			GameModes: []string{"snipers", "slayer"}, Tags: []string{"competitive", "long-range"},
			Description: "Sniper-only Guardian with extra sightlines.", Rating: 4.3, DownloadCount: 410, CreatedAt: created.Add(14 * day)},
	}

	twoSpawns := func(teamA, teamB string) models.MapData {
		return models.MapData{
			Spawns: []models.SpawnPoint{
				{X: -40, Y: 0, Z: 2, Team: teamA},
				{X: 40, Y: 0, Z: 2, Team: teamB},
			},
			Settings: map[string]string{"respawn": "5"},
		}
	}
	data := map[string]models.MapData{}
	for _, m := range maps {
		data[m.ID] = twoSpawns("red", "blue")
	}
	return maps, data
}
