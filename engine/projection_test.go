package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leoga-storefront/models"
)

type fakeRotation map[string]int

func (f fakeRotation) CurrentIndex(id string) int { return f[id] }
func (f fakeRotation) Active(id string) bool {
	_, ok := f[id]
	return ok
}

func TestProjectFiltersPagesAndRotates(t *testing.T) {
	items := []models.CatalogItem{
		{ID: "a", Image: "a.jpg", Images: []string{"a1.jpg", "a2.jpg", "a3.jpg"}, Facets: map[string]string{"color": "red"}},
		{ID: "b", Image: "b.jpg", Facets: map[string]string{"color": "blue"}},
		{ID: "c", Image: "c.jpg", Facets: map[string]string{"color": "red"}},
		{ID: "d", Image: "d.jpg", Images: []string{"d1.jpg", "d2.jpg"}, Facets: map[string]string{"color": "red"}},
	}
	sel := Selection{Facet: "color", Value: "red"}
	win := PageWindow{Index: 0, Size: 2, Total: 2}

	entries := Project(items, sel, win, fakeRotation{"a": 2}, "c")
	require.Len(t, entries, 2)

	assert.Equal(t, "a", entries[0].Item.ID)
	assert.Equal(t, "a3.jpg", entries[0].DisplayImage)
	assert.True(t, entries[0].Rotating)

	assert.Equal(t, "c", entries[1].Item.ID)
	assert.Equal(t, "c.jpg", entries[1].DisplayImage)
	assert.False(t, entries[1].Rotating)
	assert.True(t, entries[1].Highlighted)

	win.Index = 1
	entries = Project(items, sel, win, fakeRotation{}, "")
	require.Len(t, entries, 1)
	assert.Equal(t, "d.jpg", entries[0].DisplayImage)
}

func TestProjectIgnoresOutOfRangeIndex(t *testing.T) {
	items := []models.CatalogItem{{ID: "a", Image: "a.jpg", Images: []string{"a1.jpg"}}}
	entries := Project(items, Selection{}, PageWindow{Size: 4, Total: 1}, fakeRotation{"a": 5}, "")

	require.Len(t, entries, 1)
	assert.Equal(t, "a.jpg", entries[0].DisplayImage)
	assert.False(t, entries[0].Rotating)
}

func TestProjectNilRotation(t *testing.T) {
	entries := Project(colorItems(), Selection{}, PageWindow{Size: 4, Total: 1}, nil, "")
	assert.Len(t, entries, 3)
}
