package engine

import "leoga-storefront/models"

// FilterState is the state of a FacetFilter
type FilterState string

const (
	StateIdle                 FilterState = "idle"
	StatePreviewOnly          FilterState = "preview"
	StateCommitted            FilterState = "committed"
	StateCommittedWithPreview FilterState = "committed_preview"
)

// TopLevelMode decides what a facet-level selection (facet without value) shows
type TopLevelMode int

const (
	// TopLevelShowsAll keeps every item visible when only a facet is selected
	TopLevelShowsAll TopLevelMode = iota
	// TopLevelShowsFacet keeps items carrying any value for the selected facet
	TopLevelShowsFacet
)

// ParseTopLevelMode maps "all" / "facet" to a TopLevelMode, defaulting to TopLevelShowsAll
func ParseTopLevelMode(s string) TopLevelMode {
	if s == "facet" {
		return TopLevelShowsFacet
	}
	return TopLevelShowsAll
}

// Selection is the committed filter. The zero value means "show all".
type Selection struct {
	Facet string       `json:"facet,omitempty"`
	Value string       `json:"value,omitempty"`
	Mode  TopLevelMode `json:"-"`
}

// Committed reports whether any facet is selected
func (s Selection) Committed() bool {
	return s.Facet != ""
}

// Filter applies the selection to items.
// When nothing filters, items itself is returned so callers can compare by identity.
func (s Selection) Filter(items []models.CatalogItem) []models.CatalogItem {
	if !s.Committed() {
		return items
	}
	if s.Value == "" {
		if s.Mode == TopLevelShowsAll {
			return items
		}
		matched := make([]models.CatalogItem, 0, len(items))
		for _, item := range items {
			if item.FacetValue(s.Facet) != "" {
				matched = append(matched, item)
			}
		}
		return matched
	}
	matched := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if v, ok := item.Facets[s.Facet]; ok && v == s.Value {
			matched = append(matched, item)
		}
	}
	return matched
}

// FacetFilter owns the committed selection and the hover preview facet.
// It is not safe for concurrent use; View serializes access.
type FacetFilter struct {
	schema    models.FacetSchema
	mode      TopLevelMode
	selection Selection
	preview   string
}

// NewFacetFilter creates a FacetFilter over a read-only schema
func NewFacetFilter(schema models.FacetSchema, mode TopLevelMode) *FacetFilter {
	return &FacetFilter{schema: schema, mode: mode}
}

// Schema returns the facet schema
func (f *FacetFilter) Schema() models.FacetSchema {
	return f.schema
}

// HoverFacet sets the preview facet. Unknown facets are ignored.
func (f *FacetFilter) HoverFacet(facet string) bool {
	if !f.schema.Has(facet) {
		return false
	}
	f.preview = facet
	return true
}

// LeaveHover clears the preview facet only
func (f *FacetFilter) LeaveHover() {
	f.preview = ""
}

// Commit locks in (facet, value) and clears the preview.
// An illegal value leaves the filter untouched and returns false.
func (f *FacetFilter) Commit(facet, value string) bool {
	if !f.schema.Allows(facet, value) {
		return false
	}
	f.selection = Selection{Facet: facet, Value: value, Mode: f.mode}
	f.preview = ""
	return true
}

// SelectFacet commits a facet-level selection; what it shows depends on the TopLevelMode
func (f *FacetFilter) SelectFacet(facet string) bool {
	if !f.schema.Has(facet) {
		return false
	}
	f.selection = Selection{Facet: facet, Mode: f.mode}
	f.preview = ""
	return true
}

// Reset clears both the commitment and the preview
func (f *FacetFilter) Reset() {
	f.selection = Selection{}
	f.preview = ""
}

// Selection returns the committed selection
func (f *FacetFilter) Selection() Selection {
	return f.selection
}

// Preview returns the preview facet, "" when none
func (f *FacetFilter) Preview() string {
	return f.preview
}

// State returns the current controller state
func (f *FacetFilter) State() FilterState {
	switch {
	case f.selection.Committed() && f.preview != "":
		return StateCommittedWithPreview
	case f.selection.Committed():
		return StateCommitted
	case f.preview != "":
		return StatePreviewOnly
	default:
		return StateIdle
	}
}

// Filtered returns the items matching the committed selection
func (f *FacetFilter) Filtered(all []models.CatalogItem) []models.CatalogItem {
	return f.selection.Filter(all)
}
