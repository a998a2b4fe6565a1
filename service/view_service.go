package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"leoga-storefront/engine"
	"leoga-storefront/models"
)

// FabricCategory is the catalog category listed by the fabric library
const FabricCategory = "fabrics"

// ViewSettings holds the per-kind engine parameters
type ViewSettings struct {
	FabricPageSize   int
	ProductPageSize  int
	MenuPageSize     int
	RotationInterval time.Duration
	HoverGrace       time.Duration
	HighlightFor     time.Duration
	MenuAutoAdvance  time.Duration
	TopLevel         engine.TopLevelMode
	IdleTTL          time.Duration // zero keeps views until closed
}

// DefaultViewSettings returns the storefront defaults
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		FabricPageSize:   16,
		ProductPageSize:  12,
		MenuPageSize:     4,
		RotationInterval: engine.DefaultRotationInterval,
		HoverGrace:       engine.DefaultHoverGrace,
		HighlightFor:     engine.DefaultHighlightFor,
		MenuAutoAdvance:  3 * time.Second,
		TopLevel:         engine.TopLevelShowsAll,
		IdleTTL:          10 * time.Minute,
	}
}

// CatalogFetcher is what ViewService needs from the catalog layer
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (*models.Catalog, error)
}

// ViewService owns the open browsing views, keyed by id
type ViewService struct {
	catalog      CatalogFetcher
	fabricSchema models.FacetSchema
	settings     ViewSettings
	newScheduler func() engine.Scheduler
	loadTimeout  time.Duration
	now          func() time.Time

	mu       sync.RWMutex
	views    map[string]*engine.View
	lastSeen map[string]time.Time

	sweepMu   sync.Mutex
	stopSweep chan struct{}
}

// ViewServiceOption customizes a ViewService
type ViewServiceOption func(*ViewService)

// WithScheduler replaces the wall-clock scheduler given to each view
func WithScheduler(factory func() engine.Scheduler) ViewServiceOption {
	return func(s *ViewService) {
		s.newScheduler = factory
	}
}

// WithLoadTimeout bounds each catalog fetch
func WithLoadTimeout(d time.Duration) ViewServiceOption {
	return func(s *ViewService) {
		s.loadTimeout = d
	}
}

// WithClock replaces the clock used to track view activity
func WithClock(now func() time.Time) ViewServiceOption {
	return func(s *ViewService) {
		s.now = now
	}
}

// NewViewService creates a new ViewService
func NewViewService(catalog CatalogFetcher, fabricSchema models.FacetSchema, settings ViewSettings, opts ...ViewServiceOption) *ViewService {
	s := &ViewService{
		catalog:      catalog,
		fabricSchema: fabricSchema,
		settings:     settings,
		newScheduler: func() engine.Scheduler { return engine.NewTickerScheduler() },
		loadTimeout:  15 * time.Second,
		now:          time.Now,
		views:        make(map[string]*engine.View),
		lastSeen:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates and activates a view. With req.Wait it returns once the catalog has loaded.
func (s *ViewService) Open(ctx context.Context, req models.OpenViewRequest) (string, *engine.View, error) {
	if !req.Kind.Valid() {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownViewKind, req.Kind)
	}

	id := uuid.NewString()
	kind := string(req.Kind)
	cfg := engine.Config{
		Kind:             kind,
		TopLevel:         s.settings.TopLevel,
		RotationInterval: s.settings.RotationInterval,
		HoverGrace:       s.settings.HoverGrace,
		HighlightFor:     s.settings.HighlightFor,
		Navigate: func(categoryKey string) {
			viewMoreNavigations.WithLabelValues(categoryKey).Inc()
			log.Printf("📋 View %s navigates to category %s", id, categoryKey)
		},
	}
	switch req.Kind {
	case models.ViewKindFabric:
		cfg.PageSize = s.settings.FabricPageSize
		cfg.Schema = s.fabricSchema
	case models.ViewKindProducts:
		cfg.PageSize = s.settings.ProductPageSize
	case models.ViewKindMenu:
		cfg.PageSize = s.settings.MenuPageSize
		cfg.AutoAdvance = s.settings.MenuAutoAdvance
	}

	view := engine.NewView(cfg, s.newScheduler())

	s.mu.Lock()
	s.views[id] = view
	s.lastSeen[id] = s.now()
	s.mu.Unlock()
	viewsOpened.WithLabelValues(kind).Inc()
	viewsActive.Inc()
	log.Printf("✅ Opened %s view %s", kind, id)

	// the load outlives the request that opened the view
	view.Activate(context.Background(), s.loader(req))

	if req.Wait {
		if err := view.WaitLoaded(ctx); err != nil {
			return id, view, fmt.Errorf("failed waiting for view %s: %w", id, err)
		}
	}
	return id, view, nil
}

func (s *ViewService) loader(req models.OpenViewRequest) engine.Loader {
	return func(ctx context.Context) (engine.Dataset, error) {
		ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()

		catalog, err := s.catalog.FetchCatalog(ctx)
		if err != nil {
			return engine.Dataset{}, err
		}
		return BuildDataset(catalog, req, s.fabricSchema), nil
	}
}

// BuildDataset shapes a catalog into what a view of req.Kind browses
func BuildDataset(catalog *models.Catalog, req models.OpenViewRequest, fabricSchema models.FacetSchema) engine.Dataset {
	all := catalog.Flatten()

	if req.Kind == models.ViewKindFabric {
		fabrics := make([]models.CatalogItem, 0, len(all))
		for _, item := range all {
			if item.CategoryKey == FabricCategory {
				fabrics = append(fabrics, item)
			}
		}
		return engine.Dataset{Items: fabrics, Schema: &fabricSchema, Highlight: req.Item}
	}

	products := make([]models.CatalogItem, 0, len(all))
	for _, item := range all {
		if item.CategoryKey != FabricCategory {
			products = append(products, item)
		}
	}
	keys := make([]string, 0)
	for _, key := range catalog.CategoryKeys() {
		if key != FabricCategory {
			keys = append(keys, key)
		}
	}
	schema := models.FacetSchema{Facets: []models.Facet{{Name: models.CategoryFacet, Values: keys}}}
	ds := engine.Dataset{Items: products, Schema: &schema, Highlight: req.Item}

	key, ok := catalog.KeyFor(req.Category)
	if req.Category == "all" {
		ok = false
	}
	switch {
	case ok:
		ds.Initial = &engine.Selection{Facet: models.CategoryFacet, Value: key}
	case req.Kind == models.ViewKindMenu && len(keys) > 0:
		// the menu always shows one category, the first by default
		ds.Initial = &engine.Selection{Facet: models.CategoryFacet, Value: keys[0]}
	}
	return ds
}

// Get returns an open view and marks it active
func (s *ViewService) Get(id string) (*engine.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	s.lastSeen[id] = s.now()
	return view, nil
}

// Touch marks a view active without looking it up, e.g. while a stream is attached
func (s *ViewService) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; ok {
		s.lastSeen[id] = s.now()
	}
}

// EvictIdle closes every view untouched for longer than the idle TTL
func (s *ViewService) EvictIdle() int {
	if s.settings.IdleTTL <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.settings.IdleTTL)
	s.mu.Lock()
	idle := make(map[string]*engine.View)
	for id, seen := range s.lastSeen {
		if seen.Before(cutoff) {
			idle[id] = s.views[id]
			delete(s.views, id)
			delete(s.lastSeen, id)
		}
	}
	s.mu.Unlock()

	for id, view := range idle {
		view.Close()
		viewsActive.Dec()
		viewsEvicted.Inc()
		log.Printf("🧹 Evicted idle view %s", id)
	}
	return len(idle)
}

// StartSweeper evicts idle views every interval until StopSweeper or CloseAll
func (s *ViewService) StartSweeper(interval time.Duration) {
	if s.settings.IdleTTL <= 0 || interval <= 0 {
		return
	}

	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if s.stopSweep != nil {
		return
	}
	stop := make(chan struct{})
	s.stopSweep = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.EvictIdle()
			}
		}
	}()
	log.Printf("🧹 Idle view sweeper started (ttl %s, every %s)", s.settings.IdleTTL, interval)
}

// StopSweeper stops the idle sweeper, if running
func (s *ViewService) StopSweeper() {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if s.stopSweep != nil {
		close(s.stopSweep)
		s.stopSweep = nil
	}
}

// Close tears a view down and forgets it
func (s *ViewService) Close(id string) error {
	s.mu.Lock()
	view, ok := s.views[id]
	delete(s.views, id)
	delete(s.lastSeen, id)
	s.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}

	view.Close()
	viewsActive.Dec()
	log.Printf("✓ Closed view %s", id)
	return nil
}

// CloseAll tears down every open view
func (s *ViewService) CloseAll(ctx context.Context) error {
	s.StopSweeper()

	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*engine.View)
	s.lastSeen = make(map[string]time.Time)
	s.mu.Unlock()

	for _, view := range views {
		if err := ctx.Err(); err != nil {
			return err
		}
		view.Close()
		viewsActive.Dec()
	}
	log.Printf("✓ Closed %d views", len(views))
	return nil
}

// IDs returns the ids of every open view, sorted
func (s *ViewService) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.views))
	for id := range s.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
