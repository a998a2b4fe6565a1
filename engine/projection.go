package engine

import "leoga-storefront/models"

// RenderEntry is one item as it should be displayed on the current page
type RenderEntry struct {
	Item         models.CatalogItem `json:"item"`
	DisplayImage string             `json:"displayImage"`
	Rotating     bool               `json:"rotating"`
	Highlighted  bool               `json:"highlighted,omitempty"`
}

// Project combines the filtered, paged items with live rotation state.
// It holds no state of its own and must be called again after every change.
func Project(all []models.CatalogItem, sel Selection, win PageWindow, rot RotationReader, highlight string) []RenderEntry {
	page := win.Slice(sel.Filter(all))
	entries := make([]RenderEntry, 0, len(page))
	for _, item := range page {
		entry := RenderEntry{
			Item:         item,
			DisplayImage: item.Image,
			Highlighted:  highlight != "" && item.ID == highlight,
		}
		if rot != nil && rot.Active(item.ID) {
			gallery := item.Gallery()
			idx := rot.CurrentIndex(item.ID)
			if idx >= 0 && idx < len(gallery) {
				entry.DisplayImage = gallery[idx]
				entry.Rotating = true
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
