package engine

import "leoga-storefront/models"

// DefaultPageSize is used when a paginator is created with a non-positive size
const DefaultPageSize = 4

// PageWindow is the visible slice of a list
type PageWindow struct {
	Index int `json:"index"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// Bounds returns the [start, end) range of the window clipped to n items
func (w PageWindow) Bounds(n int) (int, int) {
	start := w.Index * w.Size
	if start > n {
		start = n
	}
	end := start + w.Size
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the items visible through the window
func (w PageWindow) Slice(items []models.CatalogItem) []models.CatalogItem {
	start, end := w.Bounds(len(items))
	return items[start:end]
}

// Paginator slices a list into fixed-size pages with wraparound navigation.
// It is not safe for concurrent use; View serializes access.
type Paginator struct {
	size  int
	index int
	total int
}

// NewPaginator creates a Paginator over an empty source
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{size: pageSize, total: 1}
}

// SetSource resets to the first page and recomputes the page count for items
func (p *Paginator) SetSource(items []models.CatalogItem) {
	p.SetCount(len(items))
}

// SetCount resets to the first page and recomputes the page count for n items
func (p *Paginator) SetCount(n int) {
	p.index = 0
	p.total = (n + p.size - 1) / p.size
	if p.total < 1 {
		p.total = 1
	}
}

// Next advances one page, wrapping from the last page to the first
func (p *Paginator) Next() int {
	return p.GoTo(p.index + 1)
}

// Prev retreats one page, wrapping from the first page to the last
func (p *Paginator) Prev() int {
	return p.GoTo(p.index - 1)
}

// GoTo moves to index normalized into [0, total); negative indices wrap backward
func (p *Paginator) GoTo(index int) int {
	p.index = ((index % p.total) + p.total) % p.total
	return p.index
}

// Index returns the current page index
func (p *Paginator) Index() int {
	return p.index
}

// Total returns the page count, at least 1
func (p *Paginator) Total() int {
	return p.total
}

// Size returns the page size
func (p *Paginator) Size() int {
	return p.size
}

// Window returns the current page window
func (p *Paginator) Window() PageWindow {
	return PageWindow{Index: p.index, Size: p.size, Total: p.total}
}

// WindowItems returns the items on the current page
func (p *Paginator) WindowItems(items []models.CatalogItem) []models.CatalogItem {
	return p.Window().Slice(items)
}
