package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leoga-storefront/models"
)

func staticLoader(ds Dataset) Loader {
	return func(ctx context.Context) (Dataset, error) { return ds, nil }
}

func setupView(t *testing.T, cfg Config, items []models.CatalogItem) (*View, *ManualScheduler) {
	t.Helper()
	s := NewManualScheduler()
	if cfg.Schema.Facets == nil {
		cfg.Schema = colorSchema()
	}
	v := NewView(cfg, s)
	v.Activate(context.Background(), staticLoader(Dataset{Items: items}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, v.WaitLoaded(ctx))
	t.Cleanup(v.Close)
	return v, s
}

func TestViewCommitScenario(t *testing.T) {
	v, _ := setupView(t, Config{Kind: "fabric", PageSize: 4}, colorItems())

	require.True(t, v.Commit("color", "red"))
	state := v.Snapshot()

	assert.Equal(t, StateCommitted, state.State)
	assert.Equal(t, 1, state.Page.Total)
	require.Len(t, state.Items, 2)
	assert.Equal(t, "1", state.Items[0].Item.ID)
	assert.Equal(t, "3", state.Items[1].Item.ID)
}

func TestViewRefilterResetsPaging(t *testing.T) {
	v, _ := setupView(t, Config{PageSize: 2}, numberedItems(12))

	assert.Equal(t, 2, v.GoToPage(2))
	require.True(t, v.Commit("color", "red"))
	assert.Equal(t, 0, v.Snapshot().Page.Index)

	v.GoToPage(1)
	v.Reset()
	state := v.Snapshot()
	assert.Equal(t, 0, state.Page.Index)
	assert.Equal(t, 6, state.Page.Total)
}

func TestViewIllegalCommitKeepsState(t *testing.T) {
	v, _ := setupView(t, Config{PageSize: 2}, numberedItems(8))
	v.Commit("color", "blue")
	v.NextPage()

	assert.False(t, v.Commit("color", "mauve"))
	state := v.Snapshot()
	assert.Equal(t, "blue", state.Selection.Value)
	assert.Equal(t, 1, state.Page.Index)
}

func TestViewZeroMatches(t *testing.T) {
	v, _ := setupView(t, Config{}, colorItems())
	v.Commit("color", "green")

	state := v.Snapshot()
	assert.True(t, state.Empty)
	assert.Empty(t, state.Items)
	assert.Equal(t, 1, state.Page.Total)
}

func TestViewRotationOnPointer(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 4}, numberedItems(6))

	assert.False(t, v.PointerEnter("item-1"), "single image items never rotate")
	require.True(t, v.PointerEnter("item-0"))

	s.Advance(DefaultRotationInterval)
	state := v.Snapshot()
	assert.Equal(t, "item-0_2.jpg", state.Items[0].DisplayImage)
	assert.True(t, state.Items[0].Rotating)

	v.PointerLeave("item-0")
	s.Advance(3 * DefaultRotationInterval)
	state = v.Snapshot()
	assert.Equal(t, "item-0.jpg", state.Items[0].DisplayImage)
	assert.False(t, state.Items[0].Rotating)
}

func TestViewPointerEnterOffPage(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 2}, numberedItems(6))

	assert.False(t, v.PointerEnter("item-3"), "item-3 is on page 1")
	assert.Equal(t, 0, s.Len())
}

func TestViewPageChangeStopsRotations(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 4}, numberedItems(8))
	require.True(t, v.PointerEnter("item-0"))
	require.True(t, v.PointerEnter("item-3"))

	v.NextPage()
	assert.Equal(t, 0, s.Len())

	v.PrevPage()
	for _, entry := range v.Snapshot().Items {
		assert.False(t, entry.Rotating)
	}
}

func TestViewCommitStopsRotations(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 4}, numberedItems(8))
	require.True(t, v.PointerEnter("item-0"))

	v.Commit("color", "blue")
	assert.Equal(t, 0, s.Len())
}

func TestViewHoverMenuGrace(t *testing.T) {
	v, s := setupView(t, Config{HoverGrace: 300 * time.Millisecond}, colorItems())

	require.True(t, v.HoverFacet("color", "facet-color"))
	state := v.Snapshot()
	require.NotNil(t, state.Preview)
	assert.Equal(t, "facet-color", state.Preview.Anchor)
	assert.Equal(t, []string{"red", "blue", "green"}, state.Preview.Values)
	assert.Len(t, state.Items, 3, "hover never filters")

	v.LeaveFacet()
	s.Advance(100 * time.Millisecond)
	v.EnterPreview()
	s.Advance(time.Second)
	assert.NotNil(t, v.Snapshot().Preview, "reaching the menu keeps it open")

	v.LeavePreview()
	assert.Nil(t, v.Snapshot().Preview)

	v.HoverFacet("composition", "facet-composition")
	v.LeaveFacet()
	s.Advance(299 * time.Millisecond)
	assert.NotNil(t, v.Snapshot().Preview)
	s.Advance(time.Millisecond)
	assert.Nil(t, v.Snapshot().Preview)
	assert.Equal(t, 0, s.Len())
}

func TestViewHoverOtherFacetCancelsHide(t *testing.T) {
	v, s := setupView(t, Config{}, colorItems())

	v.HoverFacet("color", "a")
	v.LeaveFacet()
	v.HoverFacet("composition", "b")
	s.Advance(time.Second)

	state := v.Snapshot()
	require.NotNil(t, state.Preview)
	assert.Equal(t, "composition", state.Preview.Facet)
	assert.Equal(t, StatePreviewOnly, state.State)
}

func TestViewHighlightExpires(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 2}, numberedItems(6))

	require.True(t, v.Highlight("item-4"))
	state := v.Snapshot()
	assert.Equal(t, 2, state.Page.Index)
	assert.Equal(t, "item-4", state.Highlight)
	assert.True(t, state.Items[0].Highlighted)

	s.Advance(DefaultHighlightFor)
	assert.Empty(t, v.Snapshot().Highlight)
	assert.False(t, v.Highlight("missing"))
}

func TestViewInitialSelection(t *testing.T) {
	s := NewManualScheduler()
	v := NewView(Config{PageSize: 4}, s)
	defer v.Close()

	schema := colorSchema()
	v.Activate(context.Background(), staticLoader(Dataset{
		Items:     colorItems(),
		Schema:    &schema,
		Initial:   &Selection{Facet: "color", Value: "blue"},
		Highlight: "2",
	}))
	require.NoError(t, v.WaitLoaded(context.Background()))

	state := v.Snapshot()
	assert.Equal(t, "blue", state.Selection.Value)
	assert.Equal(t, 1, state.MatchCount)
	assert.Equal(t, "2", state.Highlight)
}

func TestViewLoadFailure(t *testing.T) {
	v := NewView(Config{Schema: colorSchema()}, NewManualScheduler())
	defer v.Close()

	v.Activate(context.Background(), func(ctx context.Context) (Dataset, error) {
		return Dataset{}, errors.New("connection refused")
	})
	require.NoError(t, v.WaitLoaded(context.Background()))

	state := v.Snapshot()
	assert.Equal(t, NoticeCatalogUnavailable, state.Notice)
	assert.True(t, state.Empty)
	assert.False(t, state.Loading)
}

func TestViewLoadAfterCloseIsDiscarded(t *testing.T) {
	v := NewView(Config{Schema: colorSchema()}, NewManualScheduler())
	release := make(chan struct{})
	done := make(chan struct{})

	v.Activate(context.Background(), func(ctx context.Context) (Dataset, error) {
		defer close(done)
		<-release
		return Dataset{Items: colorItems()}, nil
	})
	assert.True(t, v.Snapshot().Loading)

	v.Close()
	close(release)
	<-done
	time.Sleep(10 * time.Millisecond)

	state := v.Snapshot()
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.MatchCount)
}

func TestViewViewMore(t *testing.T) {
	var navigated []string
	v, _ := setupView(t, Config{Navigate: func(key string) { navigated = append(navigated, key) }}, colorItems())

	_, ok := v.ViewMore()
	assert.False(t, ok)

	v.Commit("color", "red")
	key, ok := v.ViewMore()
	assert.True(t, ok)
	assert.Equal(t, "red", key)
	assert.Equal(t, []string{"red"}, navigated)
}

func TestViewAutoAdvance(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 2, AutoAdvance: time.Second}, numberedItems(6))

	require.True(t, v.PointerEnter("item-0"))
	s.Advance(time.Second)
	state := v.Snapshot()
	assert.Equal(t, 1, state.Page.Index)
	assert.False(t, v.rotator.Active("item-0"), "page change stops rotations")

	s.Advance(2 * time.Second)
	assert.Equal(t, 0, v.Snapshot().Page.Index)
}

func TestViewAutoAdvanceSinglePageKeepsRotation(t *testing.T) {
	v, s := setupView(t, Config{Kind: "menu", PageSize: 4, AutoAdvance: 3 * time.Second}, numberedItems(2))

	require.True(t, v.PointerEnter("item-0"))
	s.Advance(3 * time.Second)
	s.Advance(3 * time.Second)

	state := v.Snapshot()
	assert.Equal(t, 0, state.Page.Index)
	assert.Equal(t, 1, state.Page.Total)
	require.NotEmpty(t, state.Items)
	assert.True(t, state.Items[0].Rotating, "the hovered item is still on the only page")
}

func TestViewIdleTimerDoesNotNotify(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 4, AutoAdvance: time.Second}, numberedItems(3))
	ch, unsubscribe := v.Subscribe()
	defer unsubscribe()

	s.Advance(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("an auto-advance tick on a single page changes nothing")
	default:
	}

	v.Highlight("item-2")
	<-ch
	s.Advance(DefaultHighlightFor)
	select {
	case <-ch:
	default:
		t.Fatal("expected a signal when the highlight expires")
	}
	assert.Empty(t, v.Snapshot().Highlight)
}

func TestViewSubscribeAndClose(t *testing.T) {
	v, s := setupView(t, Config{PageSize: 4}, numberedItems(4))
	ch, unsubscribe := v.Subscribe()
	defer unsubscribe()

	v.PointerEnter("item-0")
	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal")
	}

	s.Advance(DefaultRotationInterval)
	select {
	case <-ch:
	default:
		t.Fatal("expected a signal after a rotation tick")
	}

	v.Close()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, s.Len())
	assert.True(t, v.Closed())
	assert.False(t, v.Commit("color", "red"))
}

func TestViewWithTickerScheduler(t *testing.T) {
	items := []models.CatalogItem{{ID: "a", Image: "a.jpg", Images: []string{"a1", "a2"}}}
	v := NewView(Config{RotationInterval: 5 * time.Millisecond}, NewTickerScheduler())
	v.Activate(context.Background(), staticLoader(Dataset{Items: items}))
	require.NoError(t, v.WaitLoaded(context.Background()))

	require.True(t, v.PointerEnter("a"))
	assert.Eventually(t, func() bool {
		return v.Snapshot().Items[0].DisplayImage == "a2"
	}, time.Second, time.Millisecond)

	v.Close()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "a.jpg", v.Snapshot().Items[0].DisplayImage)
}
