package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"leoga-storefront/models"
)

// NoticeCatalogUnavailable is the locale key shown when the catalog fetch fails
const NoticeCatalogUnavailable = "catalog.unavailable"

const (
	DefaultHoverGrace   = 300 * time.Millisecond
	DefaultHighlightFor = 3 * time.Second
)

const (
	keyHoverHide   = "hover-hide"
	keyHighlight   = "highlight"
	keyAutoAdvance = "auto-advance"
)

// Config parameterizes one View. The same engine backs the fabric library,
// the product grid and the navigation menu.
type Config struct {
	Kind             string
	PageSize         int
	Schema           models.FacetSchema
	TopLevel         TopLevelMode
	RotationInterval time.Duration
	HoverGrace       time.Duration
	HighlightFor     time.Duration
	AutoAdvance      time.Duration // 0 disables the carousel timer
	Navigate         func(categoryKey string)
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RotationInterval <= 0 {
		c.RotationInterval = DefaultRotationInterval
	}
	if c.HoverGrace <= 0 {
		c.HoverGrace = DefaultHoverGrace
	}
	if c.HighlightFor <= 0 {
		c.HighlightFor = DefaultHighlightFor
	}
	return c
}

// Dataset is what a Loader resolves to.
// Schema overrides Config.Schema when set; Initial is committed once the items arrive.
type Dataset struct {
	Items     []models.CatalogItem
	Schema    *models.FacetSchema
	Initial   *Selection
	Highlight string
}

// Loader fetches the data a view browses
type Loader func(ctx context.Context) (Dataset, error)

// PreviewState describes the open facet menu
type PreviewState struct {
	Facet  string   `json:"facet"`
	Anchor string   `json:"anchor,omitempty"`
	Values []string `json:"values"`
}

// ViewState is a point-in-time rendering of a View
type ViewState struct {
	Kind       string         `json:"kind"`
	Loading    bool           `json:"loading"`
	Notice     string         `json:"notice,omitempty"`
	Facets     []models.Facet `json:"facets"`
	Selection  Selection      `json:"selection"`
	State      FilterState    `json:"state"`
	Preview    *PreviewState  `json:"preview,omitempty"`
	Page       PageWindow     `json:"page"`
	MatchCount int            `json:"matchCount"`
	Items      []RenderEntry  `json:"items"`
	Empty      bool           `json:"empty"`
	Highlight  string         `json:"highlight,omitempty"`
}

// View is one browsing session over a catalog.
//
// Every event, including timer ticks and the load completion, runs under mu,
// so state transitions never interleave.
type View struct {
	mu  sync.Mutex
	cfg Config

	sched   Scheduler
	filter  *FacetFilter
	pager   *Paginator
	rotator *Rotator

	items    []models.CatalogItem
	filtered []models.CatalogItem

	loading   bool
	activated bool
	closed    bool
	notice    string

	anchor    string
	hideToken uint64

	highlight      string
	highlightToken uint64

	// timerRev counts state changes made by timer callbacks
	timerRev uint64

	loaded     chan struct{}
	loadedOnce sync.Once
	cancelLoad context.CancelFunc

	subs    map[int]chan struct{}
	nextSub int
}

// NewView creates an idle View. Timers run through sched.
func NewView(cfg Config, sched Scheduler) *View {
	cfg = cfg.withDefaults()
	v := &View{
		cfg:    cfg,
		filter: NewFacetFilter(cfg.Schema, cfg.TopLevel),
		pager:  NewPaginator(cfg.PageSize),
		loaded: make(chan struct{}),
		subs:   make(map[int]chan struct{}),
	}
	v.sched = &guardedScheduler{view: v, inner: sched}
	v.rotator = NewRotator(v.sched, cfg.RotationInterval)
	return v
}

// guardedScheduler runs callbacks under the view lock and drops them once the view is closed.
// Subscribers are notified only when the callback changed something.
type guardedScheduler struct {
	view  *View
	inner Scheduler
}

func (g *guardedScheduler) Start(key string, fn func(), interval time.Duration) {
	v := g.view
	g.inner.Start(key, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return
		}
		before := v.timerRevisionLocked()
		fn()
		if v.timerRevisionLocked() != before {
			v.notifyLocked()
		}
	}, interval)
}

func (g *guardedScheduler) Cancel(key string) {
	g.inner.Cancel(key)
}

func (v *View) timerRevisionLocked() uint64 {
	return v.timerRev + v.rotator.Ticks()
}

// Activate fetches the view's data in the background.
// Results arriving after Close are discarded.
func (v *View) Activate(ctx context.Context, load Loader) {
	v.mu.Lock()
	if v.activated || v.closed {
		v.mu.Unlock()
		return
	}
	v.activated = true
	v.loading = true
	ctx, cancel := context.WithCancel(ctx)
	v.cancelLoad = cancel
	v.mu.Unlock()

	go func() {
		defer cancel()
		ds, err := load(ctx)

		v.mu.Lock()
		defer v.mu.Unlock()
		defer v.markLoaded()
		if v.closed {
			return
		}
		v.loading = false
		if err != nil {
			log.Printf("❌ Error loading %s view: %v", v.cfg.Kind, err)
			v.items = nil
			v.notice = NoticeCatalogUnavailable
			v.refilterLocked()
			v.notifyLocked()
			return
		}
		v.applyLocked(ds)
		v.notifyLocked()
	}()
}

func (v *View) applyLocked(ds Dataset) {
	v.items = ds.Items
	v.notice = ""
	if ds.Schema != nil {
		v.filter = NewFacetFilter(*ds.Schema, v.cfg.TopLevel)
	}
	if ds.Initial != nil && ds.Initial.Committed() {
		if ds.Initial.Value == "" {
			v.filter.SelectFacet(ds.Initial.Facet)
		} else {
			v.filter.Commit(ds.Initial.Facet, ds.Initial.Value)
		}
	}
	v.refilterLocked()
	if ds.Highlight != "" {
		v.highlightLocked(ds.Highlight)
	}
	if v.cfg.AutoAdvance > 0 {
		v.sched.Start(keyAutoAdvance, func() {
			before := v.pager.Index()
			if v.pager.Next() == before {
				return
			}
			v.rotator.StopAll()
			v.timerRev++
		}, v.cfg.AutoAdvance)
	}
}

func (v *View) markLoaded() {
	v.loadedOnce.Do(func() { close(v.loaded) })
}

// WaitLoaded blocks until the load settles, the view closes or ctx is done
func (v *View) WaitLoaded(ctx context.Context) error {
	select {
	case <-v.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HoverFacet opens the value menu of facet next to the control identified by anchor
func (v *View) HoverFacet(facet, anchor string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !v.filter.HoverFacet(facet) {
		return false
	}
	v.cancelHideLocked()
	v.anchor = anchor
	v.notifyLocked()
	return true
}

// LeaveFacet closes the value menu after the hover grace period,
// unless the pointer reaches the menu or another facet first.
func (v *View) LeaveFacet() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.filter.Preview() == "" {
		return
	}
	v.hideToken++
	token := v.hideToken
	v.sched.Start(keyHoverHide, func() {
		if v.hideToken != token {
			return
		}
		v.sched.Cancel(keyHoverHide)
		v.filter.LeaveHover()
		v.anchor = ""
		v.timerRev++
	}, v.cfg.HoverGrace)
}

// EnterPreview keeps the value menu open while the pointer is over it
func (v *View) EnterPreview() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.cancelHideLocked()
}

// LeavePreview closes the value menu immediately
func (v *View) LeavePreview() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.hideLocked()
	v.notifyLocked()
}

func (v *View) cancelHideLocked() {
	v.hideToken++
	v.sched.Cancel(keyHoverHide)
}

func (v *View) hideLocked() {
	v.cancelHideLocked()
	v.filter.LeaveHover()
	v.anchor = ""
}

// Commit filters by (facet, value). Illegal values leave the view untouched.
func (v *View) Commit(facet, value string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !v.filter.Commit(facet, value) {
		return false
	}
	v.cancelHideLocked()
	v.anchor = ""
	v.refilterLocked()
	v.notifyLocked()
	return true
}

// SelectFacet commits a facet without a value
func (v *View) SelectFacet(facet string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !v.filter.SelectFacet(facet) {
		return false
	}
	v.cancelHideLocked()
	v.anchor = ""
	v.refilterLocked()
	v.notifyLocked()
	return true
}

// Reset clears the filter and shows every item from the first page
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.filter.Reset()
	v.cancelHideLocked()
	v.anchor = ""
	v.refilterLocked()
	v.notifyLocked()
}

func (v *View) refilterLocked() {
	v.filtered = v.filter.Filtered(v.items)
	v.pager.SetSource(v.filtered)
	v.rotator.StopAll()
}

// NextPage moves one page forward with wraparound and returns the new index
func (v *View) NextPage() int {
	return v.page(func() int { return v.pager.Next() })
}

// PrevPage moves one page back with wraparound and returns the new index
func (v *View) PrevPage() int {
	return v.page(func() int { return v.pager.Prev() })
}

// GoToPage moves to index modulo the page count and returns the new index
func (v *View) GoToPage(index int) int {
	return v.page(func() int { return v.pager.GoTo(index) })
}

func (v *View) page(move func() int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return v.pager.Index()
	}
	before := v.pager.Index()
	idx := move()
	if idx != before {
		v.rotator.StopAll()
	}
	v.notifyLocked()
	return idx
}

// PointerEnter starts image rotation for a visible item with more than one image
func (v *View) PointerEnter(itemID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	item, ok := v.visibleLocked(itemID)
	if !ok {
		return false
	}
	n := len(item.Gallery())
	if n <= 1 {
		return false
	}
	v.rotator.StartFor(itemID, n)
	v.notifyLocked()
	return true
}

// PointerLeave stops image rotation for itemID
func (v *View) PointerLeave(itemID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !v.rotator.Active(itemID) {
		return
	}
	v.rotator.StopFor(itemID)
	v.notifyLocked()
}

func (v *View) visibleLocked(itemID string) (models.CatalogItem, bool) {
	for _, item := range v.pager.WindowItems(v.filtered) {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// Highlight marks itemID for the configured duration and pages to it
func (v *View) Highlight(itemID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	if !v.highlightLocked(itemID) {
		return false
	}
	v.notifyLocked()
	return true
}

func (v *View) highlightLocked(itemID string) bool {
	pos := -1
	for i, item := range v.filtered {
		if item.ID == itemID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	if page := pos / v.pager.Size(); page != v.pager.Index() {
		v.pager.GoTo(page)
		v.rotator.StopAll()
	}

	v.highlight = itemID
	v.highlightToken++
	token := v.highlightToken
	v.sched.Start(keyHighlight, func() {
		if v.highlightToken != token {
			return
		}
		v.sched.Cancel(keyHighlight)
		v.highlight = ""
		v.timerRev++
	}, v.cfg.HighlightFor)
	return true
}

// ViewMore emits the committed value as the navigation target.
// It returns false when nothing with a value is committed.
func (v *View) ViewMore() (string, bool) {
	v.mu.Lock()
	sel := v.filter.Selection()
	closed := v.closed
	v.mu.Unlock()

	if closed || sel.Value == "" {
		return "", false
	}
	if v.cfg.Navigate != nil {
		v.cfg.Navigate(sel.Value)
	}
	return sel.Value, true
}

// Subscribe returns a channel signalled after every state change.
// Signals coalesce; the channel is closed when the view closes.
func (v *View) Subscribe() (<-chan struct{}, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan struct{}, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch

	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if sub, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(sub)
		}
	}
}

func (v *View) notifyLocked() {
	for _, ch := range v.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close stops every timer and discards any pending load
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.rotator.StopAll()
	v.sched.Cancel(keyHoverHide)
	v.sched.Cancel(keyHighlight)
	v.sched.Cancel(keyAutoAdvance)
	if v.cancelLoad != nil {
		v.cancelLoad()
	}
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
	v.markLoaded()
}

// Closed reports whether Close has been called
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Kind returns the configured view kind
func (v *View) Kind() string {
	return v.cfg.Kind
}

// Snapshot projects the current state
func (v *View) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	sel := v.filter.Selection()
	win := v.pager.Window()
	schema := v.filter.Schema()
	items := Project(v.items, sel, win, v.rotator, v.highlight)

	state := ViewState{
		Kind:       v.cfg.Kind,
		Loading:    v.loading,
		Notice:     v.notice,
		Facets:     schema.Facets,
		Selection:  sel,
		State:      v.filter.State(),
		Page:       win,
		MatchCount: len(v.filtered),
		Items:      items,
		Empty:      !v.loading && len(v.filtered) == 0,
		Highlight:  v.highlight,
	}
	if facet := v.filter.Preview(); facet != "" {
		state.Preview = &PreviewState{
			Facet:  facet,
			Anchor: v.anchor,
			Values: schema.Values(facet),
		}
	}
	return state
}

// Matches returns a copy of every item passing the committed filter, across all pages
func (v *View) Matches() []models.CatalogItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.CatalogItem, len(v.filtered))
	copy(out, v.filtered)
	return out
}
