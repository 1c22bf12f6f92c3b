package maps

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(nil, nil)
	maps, data := DefaultMaps()
	require.NoError(t, r.Seed(context.Background(), maps, data))
	return r
}

func ids(ms []models.CustomMap) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestBrowseByTags(t *testing.T) {
	r := seeded(t)

	all, err := r.Browse(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 5, all.Total)

	comp, err := r.Browse(Filter{Tags: []string{"Competitive"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"valhalla-classic", "foundry-swat-box", "guardian-snipers"}, ids(comp.Maps))

	both, err := r.Browse(Filter{Tags: []string{"competitive", "small"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"foundry-swat-box"}, ids(both.Maps))

	none, err := r.Browse(Filter{Tags: []string{"underwater"}})
	require.NoError(t, err)
	assert.Empty(t, none.Maps)
	assert.NotNil(t, none.Maps)
}

func TestBrowseGameModeAndSort(t *testing.T) {
	r := seeded(t)

	slayer, err := r.Browse(Filter{GameMode: "SLAYER", SortBy: SortDownloads})
	require.NoError(t, err)
	assert.Equal(t, []string{"valhalla-classic", "foundry-swat-box", "guardian-snipers"}, ids(slayer.Maps))

	newest, err := r.Browse(Filter{SortBy: SortNewest, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"guardian-snipers", "the-pit-infection"}, ids(newest.Maps))

	rated, err := r.Browse(Filter{})
	require.NoError(t, err)
	assert.Equal(t, "sandbox-grifball-court", rated.Maps[0].ID)

	_, err = r.Browse(Filter{SortBy: "alphabetical"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestBrowsePaging(t *testing.T) {
	r := seeded(t)

	p1, err := r.Browse(Filter{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, p1.Maps, 1)
	assert.Equal(t, 5, p1.Total)

	p2, err := r.Browse(Filter{PageSize: 2, Page: 9})
	require.NoError(t, err)
	assert.Empty(t, p2.Maps)

	big, err := r.Browse(Filter{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, big.PageSize)

	_, err = r.Browse(Filter{Page: -1})
	assert.ErrorIs(t, err, models.ErrValidation)

	far, err := r.Browse(Filter{Page: math.MaxInt/MaxPageSize + 1, PageSize: MaxPageSize})
	require.NoError(t, err)
	assert.Empty(t, far.Maps)
	assert.Equal(t, 5, far.Total)
}

func TestUploadValidation(t *testing.T) {
	r := NewRegistry(nil, nil)
	ctx := context.Background()
	spawns := models.MapData{Spawns: []models.SpawnPoint{{X: 1}, {X: 2}}}

	_, err := r.Upload(ctx, UploadRequest{Name: "  ", Data: spawns})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = r.Upload(ctx, UploadRequest{Name: strings.Repeat("x", MaxNameLength+1), Data: spawns})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = r.Upload(ctx, UploadRequest{Name: "Lonely", Data: models.MapData{Spawns: []models.SpawnPoint{{}}}})
	assert.ErrorIs(t, err, models.ErrValidation)

	page, _ := r.Browse(Filter{})
	assert.Zero(t, page.Total)
}

func TestUploadThenDownload(t *testing.T) {
	r := NewRegistry(nil, nil)
	ctx := context.Background()

	m, err := r.Upload(ctx, UploadRequest{
		Name:      "Epic BTB Map",
		BaseMap:   "sandtrap",
		Tags:      []string{"Big-Team", "big-team", ""},
		GameModes: []string{"Slayer"},
		Data:      models.MapData{Spawns: []models.SpawnPoint{{X: 1}, {X: 2}}},
		AuthorID:  985752863,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(m.ID, "epic-btb-map-"))
	assert.Equal(t, "SANDTRAP", m.BaseMap)
	assert.Equal(t, []string{"big-team"}, m.Tags)
	assert.True(t, m.Custom)

	got, err := r.Browse(Filter{Tags: []string{"big-team"}, GameMode: "slayer"})
	require.NoError(t, err)
	assert.Equal(t, []string{m.ID}, ids(got.Maps))

	d, err := r.Download(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Map.DownloadCount)
	assert.Len(t, d.Data.Spawns, 2)

	again, err := r.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.DownloadCount)

	_, err = r.Download(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConcurrentDownloadsAndUploads(t *testing.T) {
	r := seeded(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := r.Download(ctx, "valhalla-classic")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := r.Upload(ctx, UploadRequest{Name: "Race", Data: models.MapData{Spawns: make([]models.SpawnPoint, 2)}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	m, err := r.Get("valhalla-classic")
	require.NoError(t, err)
	assert.Equal(t, int64(1250+20), m.DownloadCount)

	page, _ := r.Browse(Filter{PageSize: MaxPageSize})
	assert.Equal(t, 25, page.Total)
}
