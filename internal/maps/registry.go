// internal/maps/registry.go
package maps

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jason-s-yu/halo/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	MaxNameLength   = 50
	MinSpawns       = 2
)

const (
	SortRating    = "rating"
	SortDownloads = "downloads"
	SortNewest    = "newest"
)

// Filter narrows Browse. A map must carry every tag in Tags; GameMode matches
// any of the map's modes. Both comparisons ignore case.
type Filter struct {
	Tags     []string
	GameMode string
	SortBy   string
	Page     int
	PageSize int
}

type Page struct {
	Maps     []models.CustomMap `json:"maps"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Total    int                `json:"total"`
}

// UploadRequest is a new custom map submitted by a player.
type UploadRequest struct {
	Name           string         `json:"mapName"`
	BaseMap        string         `json:"baseMap"`
	GameModes      []string       `json:"gameModes"`
	Tags           []string       `json:"tags"`
	Description    string         `json:"description"`
	Data           models.MapData `json:"mapData"`
	AuthorID       int64          `json:"-"`
	AuthorGamertag string         `json:"-"`
}

// Download is a map with its forge payload.
type Download struct {
	Map  models.CustomMap `json:"map"`
	Data models.MapData   `json:"mapData"`
}

type entry struct {
	meta      models.CustomMap
	downloads *atomic.Int64
}

type catalog struct {
	entries []entry
	byID    map[string]int
}

// Registry is the custom map catalog. Readers work on an immutable snapshot;
// uploads publish a new snapshot under writeMu.
type Registry struct {
	snap    atomic.Pointer[catalog]
	writeMu sync.Mutex

	data   DataStore
	now    func() time.Time
	logger logrus.FieldLogger
}

func NewRegistry(data DataStore, logger logrus.FieldLogger) *Registry {
	if data == nil {
		data = NewMemoryStore()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Registry{data: data, now: time.Now, logger: logger}
	r.snap.Store(&catalog{byID: map[string]int{}})
	return r
}

// Seed adds prebuilt maps and their data. Intended for startup.
func (r *Registry) Seed(ctx context.Context, maps []models.CustomMap, data map[string]models.MapData) error {
	for _, m := range maps {
		if d, ok := data[m.ID]; ok {
			if err := r.data.Put(ctx, m.ID, d); err != nil {
				return err
			}
		}
	}
	r.publish(func(c *catalog) {
		for _, m := range maps {
			if _, dup := c.byID[m.ID]; dup {
				continue
			}
			n := new(atomic.Int64)
			n.Store(m.DownloadCount)
			c.byID[m.ID] = len(c.entries)
			c.entries = append(c.entries, entry{meta: m, downloads: n})
		}
	})
	return nil
}

// Browse filters, sorts and pages the catalog.
func (r *Registry) Browse(f Filter) (Page, error) {
	sortBy := strings.ToLower(f.SortBy)
	switch sortBy {
	case "":
		sortBy = SortRating
	case SortRating, SortDownloads, SortNewest:
	default:
		return Page{}, fmt.Errorf("unknown sort %q: %w", f.SortBy, models.ErrValidation)
	}
	if f.Page < 0 {
		return Page{}, fmt.Errorf("negative page %d: %w", f.Page, models.ErrValidation)
	}
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	c := r.snap.Load()
	matched := make([]models.CustomMap, 0, len(c.entries))
	for _, e := range c.entries {
		if !hasAll(e.meta.Tags, f.Tags) {
			continue
		}
		if f.GameMode != "" && !hasAll(e.meta.GameModes, []string{f.GameMode}) {
			continue
		}
		m := cloneMap(e.meta)
		m.DownloadCount = e.downloads.Load()
		matched = append(matched, m)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch sortBy {
		case SortDownloads:
			if a.DownloadCount != b.DownloadCount {
				return a.DownloadCount > b.DownloadCount
			}
		case SortNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		}
		return a.ID < b.ID
	})

	page := Page{Page: f.Page, PageSize: size, Total: len(matched), Maps: []models.CustomMap{}}
	// compare page counts so huge page numbers cannot overflow the offset
	if f.Page < (len(matched)+size-1)/size {
		start := f.Page * size
		page.Maps = matched[start:min(start+size, len(matched))]
	}
	return page, nil
}

func (r *Registry) Get(id string) (models.CustomMap, error) {
	c := r.snap.Load()
	i, ok := c.byID[id]
	if !ok {
		return models.CustomMap{}, fmt.Errorf("map %q: %w", id, models.ErrNotFound)
	}
	m := cloneMap(c.entries[i].meta)
	m.DownloadCount = c.entries[i].downloads.Load()
	return m, nil
}

// Upload validates and stores a new custom map.
func (r *Registry) Upload(ctx context.Context, req UploadRequest) (models.CustomMap, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.CustomMap{}, fmt.Errorf("map name is required: %w", models.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return models.CustomMap{}, fmt.Errorf("map name longer than %d characters: %w", MaxNameLength, models.ErrValidation)
	}
	if len(req.Data.Spawns) < MinSpawns {
		return models.CustomMap{}, fmt.Errorf("map needs at least %d spawn points: %w", MinSpawns, models.ErrValidation)
	}

	m := models.CustomMap{
		ID:             newMapID(name),
		Name:           name,
		AuthorID:       req.AuthorID,
		AuthorGamertag: req.AuthorGamertag,
		BaseMap:        strings.ToUpper(req.BaseMap),
		GameModes:      normalizeTags(req.GameModes),
		Tags:           normalizeTags(req.Tags),
		Description:    req.Description,
		Custom:         true,
		CreatedAt:      r.now(),
	}
	if err := r.data.Put(ctx, m.ID, req.Data); err != nil {
		return models.CustomMap{}, err
	}

	r.publish(func(c *catalog) {
		c.byID[m.ID] = len(c.entries)
		c.entries = append(c.entries, entry{meta: m, downloads: new(atomic.Int64)})
	})
	r.logger.WithFields(logrus.Fields{
		"map_id": m.ID,
		"author": m.AuthorID,
	}).Info("custom map uploaded")
	return cloneMap(m), nil
}

// Download returns the map with its data and bumps the download counter.
func (r *Registry) Download(ctx context.Context, id string) (Download, error) {
	c := r.snap.Load()
	i, ok := c.byID[id]
	if !ok {
		return Download{}, fmt.Errorf("map %q: %w", id, models.ErrNotFound)
	}
	data, err := r.data.Get(ctx, id)
	if err != nil {
		return Download{}, err
	}
	e := c.entries[i]
	m := cloneMap(e.meta)
	m.DownloadCount = e.downloads.Add(1)
	return Download{Map: m, Data: data}, nil
}

// publish copies the current catalog, lets mutate change the copy and swaps it in.
func (r *Registry) publish(mutate func(*catalog)) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	old := r.snap.Load()
	next := &catalog{
		entries: append(make([]entry, 0, len(old.entries)+1), old.entries...),
		byID:    make(map[string]int, len(old.byID)+1),
	}
	for k, v := range old.byID {
		next.byID[k] = v
	}
	mutate(next)
	r.snap.Store(next)
}

func newMapID(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "map"
	}
	return base + "-" + uuid.NewString()[:8]
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func hasAll(have, want []string) bool {
	for _, w := range want {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func cloneMap(m models.CustomMap) models.CustomMap {
	m.GameModes = append([]string(nil), m.GameModes...)
	m.Tags = append([]string(nil), m.Tags...)
	return m
}
