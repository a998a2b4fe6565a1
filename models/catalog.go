package models

// CategoryFacet is the facet name under which every item exposes its category key
const CategoryFacet = "category"

// CatalogItem represents a single browsable item (fabric swatch or product)
type CatalogItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Images      []string          `json:"images,omitempty"` // Alternate images cycled while hovered
	Description string            `json:"description"`
	CategoryKey string            `json:"categoryKey,omitempty"`
	Featured    bool              `json:"featured,omitempty"`
	Facets      map[string]string `json:"facets,omitempty"` // Facet name -> facet value
}

// Gallery returns the images an item rotates through.
// Items without alternates rotate over their primary image only.
func (i CatalogItem) Gallery() []string {
	if len(i.Images) > 0 {
		return i.Images
	}
	if i.Image == "" {
		return nil
	}
	return []string{i.Image}
}

// FacetValue returns the item's value for a facet, or "" when the item lacks it
func (i CatalogItem) FacetValue(facet string) string {
	if i.Facets == nil {
		return ""
	}
	return i.Facets[facet]
}

// CategoryGroup holds the items listed under one display category
type CategoryGroup struct {
	Name  string        `json:"name"`
	Key   string        `json:"key"`
	Items []CatalogItem `json:"items"`
}

// Catalog is the full data set returned by a catalog provider
type Catalog struct {
	Categories []CategoryGroup   `json:"categories"`
	Mapping    map[string]string `json:"categoryMapping"` // Display name -> category key
}

// KeyFor resolves a category display name or key to a category key
func (c *Catalog) KeyFor(nameOrKey string) (string, bool) {
	if nameOrKey == "" {
		return "", false
	}
	if key, ok := c.Mapping[nameOrKey]; ok {
		return key, true
	}
	for _, group := range c.Categories {
		if group.Key == nameOrKey || group.Name == nameOrKey {
			if group.Key != "" {
				return group.Key, true
			}
			return c.Mapping[group.Name], c.Mapping[group.Name] != ""
		}
	}
	return "", false
}

// CategoryKeys returns the category keys in display order
func (c *Catalog) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	seen := make(map[string]bool)
	for _, group := range c.Categories {
		key := group.Key
		if key == "" {
			key = c.Mapping[group.Name]
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// Flatten merges every category into one list, in category order.
// Items missing a category key inherit it from the mapping, and the key is
// mirrored into the category facet so it can be filtered like any other facet.
func (c *Catalog) Flatten() []CatalogItem {
	var items []CatalogItem
	for _, group := range c.Categories {
		key := group.Key
		if key == "" {
			key = c.Mapping[group.Name]
		}
		for _, item := range group.Items {
			if item.CategoryKey == "" {
				item.CategoryKey = key
			}
			facets := make(map[string]string, len(item.Facets)+1)
			for name, value := range item.Facets {
				facets[name] = value
			}
			if item.CategoryKey != "" {
				facets[CategoryFacet] = item.CategoryKey
			}
			item.Facets = facets
			items = append(items, item)
		}
	}
	return items
}

// Facet is a named filterable attribute with its ordered legal values
type Facet struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// FacetSchema is the ordered list of facets a view can filter on
type FacetSchema struct {
	Facets []Facet `json:"facets" yaml:"facets"`
}

// Has reports whether the schema declares the facet
func (s FacetSchema) Has(facet string) bool {
	for _, f := range s.Facets {
		if f.Name == facet {
			return true
		}
	}
	return false
}

// Values returns the legal values of a facet, nil when unknown
func (s FacetSchema) Values(facet string) []string {
	for _, f := range s.Facets {
		if f.Name == facet {
			return f.Values
		}
	}
	return nil
}

// Allows reports whether value is a legal member of facet's value list
func (s FacetSchema) Allows(facet, value string) bool {
	for _, v := range s.Values(facet) {
		if v == value {
			return true
		}
	}
	return false
}

// Names returns the facet names in schema order
func (s FacetSchema) Names() []string {
	names := make([]string, len(s.Facets))
	for i, f := range s.Facets {
		names[i] = f.Name
	}
	return names
}
