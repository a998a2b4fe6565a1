package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leoga-storefront/engine"
	"leoga-storefront/models"
)

func sampleCatalog() *models.Catalog {
	return &models.Catalog{
		Mapping: map[string]string{"Suits": "suits", "Shirts": "shirts", "Fabrics": "fabrics"},
		Categories: []models.CategoryGroup{
			{Name: "Suits", Key: "suits", Items: []models.CatalogItem{{ID: "suit-001"}, {ID: "suit-002"}}},
			{Name: "Shirts", Key: "shirts", Items: []models.CatalogItem{{ID: "shirt-001"}}},
			{Name: "Fabrics", Key: "fabrics", Items: []models.CatalogItem{
				{ID: "fab-001", Facets: map[string]string{"color": "blue"}},
			}},
		},
	}
}

type staticCatalog struct {
	catalog *models.Catalog
	err     error
}

func (s staticCatalog) FetchCatalog(ctx context.Context) (*models.Catalog, error) {
	return s.catalog, s.err
}

func fabricSchema() models.FacetSchema {
	return models.FacetSchema{Facets: []models.Facet{{Name: "color", Values: []string{"blue", "brown"}}}}
}

func setupViewService(t *testing.T, fetcher CatalogFetcher) *ViewService {
	t.Helper()
	svc := NewViewService(fetcher, fabricSchema(), DefaultViewSettings(),
		WithScheduler(func() engine.Scheduler { return engine.NewManualScheduler() }),
		WithLoadTimeout(time.Second),
	)
	t.Cleanup(func() { _ = svc.CloseAll(context.Background()) })
	return svc
}

func TestBuildDatasetFabric(t *testing.T) {
	ds := BuildDataset(sampleCatalog(), models.OpenViewRequest{Kind: models.ViewKindFabric}, fabricSchema())

	require.Len(t, ds.Items, 1)
	assert.Equal(t, "fab-001", ds.Items[0].ID)
	assert.Equal(t, []string{"color"}, ds.Schema.Names())
	assert.Nil(t, ds.Initial)
}

func TestBuildDatasetProducts(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     *engine.Selection
	}{
		{"no category", "", nil},
		{"all", "all", nil},
		{"by name", "Shirts", &engine.Selection{Facet: models.CategoryFacet, Value: "shirts"}},
		{"by key", "suits", &engine.Selection{Facet: models.CategoryFacet, Value: "suits"}},
		{"unknown", "hats", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := BuildDataset(sampleCatalog(), models.OpenViewRequest{Kind: models.ViewKindProducts, Category: tt.category, Item: "suit-002"}, fabricSchema())

			assert.Len(t, ds.Items, 3)
			assert.Equal(t, []string{"suits", "shirts"}, ds.Schema.Values(models.CategoryFacet))
			assert.Equal(t, tt.want, ds.Initial)
			assert.Equal(t, "suit-002", ds.Highlight)
		})
	}
}

func TestBuildDatasetMenuDefaultsToFirstCategory(t *testing.T) {
	ds := BuildDataset(sampleCatalog(), models.OpenViewRequest{Kind: models.ViewKindMenu}, fabricSchema())
	require.NotNil(t, ds.Initial)
	assert.Equal(t, "suits", ds.Initial.Value)
}

func TestViewServiceLifecycle(t *testing.T) {
	svc := setupViewService(t, staticCatalog{catalog: sampleCatalog()})

	id, view, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindProducts, Category: "shirts", Wait: true})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	state := view.Snapshot()
	assert.Equal(t, "shirts", state.Selection.Value)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "shirt-001", state.Items[0].Item.ID)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Same(t, view, got)
	assert.Equal(t, []string{id}, svc.IDs())

	require.NoError(t, svc.Close(id))
	assert.True(t, view.Closed())
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.ErrorIs(t, svc.Close(id), ErrViewNotFound)
}

func TestViewServiceUnknownKind(t *testing.T) {
	svc := setupViewService(t, staticCatalog{catalog: sampleCatalog()})

	_, _, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: "boutique"})
	assert.ErrorIs(t, err, ErrUnknownViewKind)
	assert.Empty(t, svc.IDs())
}

func TestViewServiceLoadFailureShowsNotice(t *testing.T) {
	svc := setupViewService(t, staticCatalog{err: errors.New("db down")})

	_, view, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindFabric, Wait: true})
	require.NoError(t, err)

	state := view.Snapshot()
	assert.Equal(t, engine.NoticeCatalogUnavailable, state.Notice)
	assert.True(t, state.Empty)
}

func TestViewServiceCloseAll(t *testing.T) {
	svc := setupViewService(t, staticCatalog{catalog: sampleCatalog()})
	_, first, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindMenu})
	require.NoError(t, err)
	_, second, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindFabric})
	require.NoError(t, err)

	require.NoError(t, svc.CloseAll(context.Background()))
	assert.True(t, first.Closed())
	assert.True(t, second.Closed())
	assert.Empty(t, svc.IDs())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestViewServiceEvictsIdleViews(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	settings := DefaultViewSettings()
	settings.IdleTTL = 5 * time.Minute
	svc := NewViewService(staticCatalog{catalog: sampleCatalog()}, fabricSchema(), settings,
		WithScheduler(func() engine.Scheduler { return engine.NewManualScheduler() }),
		WithClock(clock.Now),
	)
	t.Cleanup(func() { _ = svc.CloseAll(context.Background()) })

	idleID, idle, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindMenu})
	require.NoError(t, err)
	readID, read, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindFabric})
	require.NoError(t, err)
	streamID, streamed, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindProducts})
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	assert.Equal(t, 0, svc.EvictIdle())

	_, err = svc.Get(readID)
	require.NoError(t, err)
	svc.Touch(streamID)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, svc.EvictIdle())

	assert.True(t, idle.Closed())
	_, err = svc.Get(idleID)
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.False(t, read.Closed())
	assert.False(t, streamed.Closed())
	assert.ElementsMatch(t, []string{readID, streamID}, svc.IDs())

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 2, svc.EvictIdle())
	assert.Empty(t, svc.IDs())
}

func TestViewServiceZeroTTLKeepsViews(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	settings := DefaultViewSettings()
	settings.IdleTTL = 0
	svc := NewViewService(staticCatalog{catalog: sampleCatalog()}, fabricSchema(), settings,
		WithScheduler(func() engine.Scheduler { return engine.NewManualScheduler() }),
		WithClock(clock.Now),
	)
	t.Cleanup(func() { _ = svc.CloseAll(context.Background()) })

	_, view, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindMenu})
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 0, svc.EvictIdle())
	assert.False(t, view.Closed())
}

func TestViewServiceSweeperClosesIdleViews(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	settings := DefaultViewSettings()
	settings.IdleTTL = time.Minute
	svc := NewViewService(staticCatalog{catalog: sampleCatalog()}, fabricSchema(), settings,
		WithScheduler(func() engine.Scheduler { return engine.NewManualScheduler() }),
		WithClock(clock.Now),
	)
	t.Cleanup(func() { _ = svc.CloseAll(context.Background()) })

	_, view, err := svc.Open(context.Background(), models.OpenViewRequest{Kind: models.ViewKindMenu})
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	svc.StartSweeper(5 * time.Millisecond)

	assert.Eventually(t, view.Closed, time.Second, 5*time.Millisecond)
	assert.Empty(t, svc.IDs())

	require.NoError(t, svc.CloseAll(context.Background()))
	// CloseAll stopped the sweeper, so it can start again
	svc.StartSweeper(5 * time.Millisecond)
	svc.StopSweeper()
}
