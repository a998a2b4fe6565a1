package models

// ViewKind identifies which storefront surface a browsing session backs
type ViewKind string

const (
	ViewKindFabric   ViewKind = "fabric"   // Fabric library grid with facet menu
	ViewKindProducts ViewKind = "products" // Product grid filtered by category
	ViewKindMenu     ViewKind = "menu"     // Navigation mega-menu carousel for one category
)

// Valid reports whether k is a known view kind
func (k ViewKind) Valid() bool {
	switch k {
	case ViewKindFabric, ViewKindProducts, ViewKindMenu:
		return true
	}
	return false
}

// OpenViewRequest represents the query parameters of POST /views
type OpenViewRequest struct {
	Kind     ViewKind `json:"kind" schema:"kind,default:products"`
	Category string   `json:"category" schema:"category"` // Category name or key, "all" for none
	Item     string   `json:"item" schema:"item"`         // Item to highlight after load
	Wait     bool     `json:"wait" schema:"wait"`         // Block until the catalog is loaded
	Lang     string   `json:"lang" schema:"lang"`
}

// ViewActionRequest represents the query parameters of a view interaction
type ViewActionRequest struct {
	Facet  string `json:"facet" schema:"facet"`
	Value  string `json:"value" schema:"value"`
	Anchor string `json:"anchor" schema:"anchor"` // Id of the control that opened the preview
	Index  int    `json:"index" schema:"index"`
	Item   string `json:"item" schema:"item"`
	Lang   string `json:"lang" schema:"lang"`
}

// ValueLabel pairs an opaque facet value with its localized label
type ValueLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FacetLabel pairs an opaque facet name with its localized label and values
type FacetLabel struct {
	Name   string       `json:"name"`
	Label  string       `json:"label"`
	Values []ValueLabel `json:"values"`
}

// NavigationResponse is returned by the view-more action
type NavigationResponse struct {
	CategoryKey string `json:"categoryKey"`
	Location    string `json:"location"`
}
