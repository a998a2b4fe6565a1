package engine

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPaginationProperties checks wraparound for arbitrary list and page sizes
func TestPaginationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("goTo(total) equals goTo(0)", prop.ForAll(
		func(n, size int) bool {
			p := NewPaginator(size)
			p.SetSource(numberedItems(n))
			return p.GoTo(p.Total()) == p.GoTo(0)
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 12),
	))

	properties.Property("goTo(-1) equals the last page", prop.ForAll(
		func(n, size int) bool {
			p := NewPaginator(size)
			p.SetSource(numberedItems(n))
			return p.GoTo(-1) == p.Total()-1
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 12),
	))

	properties.Property("index stays in range", prop.ForAll(
		func(n, size, target int) bool {
			p := NewPaginator(size)
			p.SetSource(numberedItems(n))
			idx := p.GoTo(target)
			return idx >= 0 && idx < p.Total() && len(p.WindowItems(numberedItems(n))) <= size
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 12),
		gen.IntRange(-200, 200),
	))

	properties.Property("pages cover every item once", prop.ForAll(
		func(n, size int) bool {
			items := numberedItems(n)
			p := NewPaginator(size)
			p.SetSource(items)
			seen := 0
			for i := 0; i < p.Total(); i++ {
				p.GoTo(i)
				seen += len(p.WindowItems(items))
			}
			return seen == n
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

// TestFilterProperties checks that a commit keeps exactly the matching items
func TestFilterProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filter is exact", prop.ForAll(
		func(n, pick int) bool {
			value := []string{"red", "blue", "green"}[pick]
			items := numberedItems(n)
			f := NewFacetFilter(colorSchema(), TopLevelShowsAll)
			if !f.Commit("color", value) {
				return false
			}
			kept := make(map[string]bool)
			for _, item := range f.Filtered(items) {
				if item.Facets["color"] != value {
					return false
				}
				kept[item.ID] = true
			}
			for _, item := range items {
				if !kept[item.ID] && item.Facets["color"] == value {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
		gen.IntRange(0, 2),
	))

	properties.Property("reset is identity", prop.ForAll(
		func(n int) bool {
			items := numberedItems(n)
			f := NewFacetFilter(colorSchema(), TopLevelShowsAll)
			f.Commit("color", "red")
			f.Reset()
			got := f.Filtered(items)
			if len(got) != len(items) {
				return false
			}
			for i := range got {
				if got[i].ID != items[i].ID {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}
