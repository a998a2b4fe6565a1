package engine

import (
	"fmt"

	"leoga-storefront/models"
)

func colorSchema() models.FacetSchema {
	return models.FacetSchema{Facets: []models.Facet{
		{Name: "color", Values: []string{"red", "blue", "green"}},
		{Name: "composition", Values: []string{"wool", "linen"}},
	}}
}

func colorItems() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "1", Name: "Scarlet", Image: "1.jpg", Facets: map[string]string{"color": "red"}},
		{ID: "2", Name: "Navy", Image: "2.jpg", Facets: map[string]string{"color": "blue"}},
		{ID: "3", Name: "Crimson", Image: "3.jpg", Facets: map[string]string{"color": "red"}},
	}
}

// numberedItems returns n items alternating red/blue, every third one carrying a gallery
func numberedItems(n int) []models.CatalogItem {
	items := make([]models.CatalogItem, n)
	for i := range items {
		color := "red"
		if i%2 == 1 {
			color = "blue"
		}
		id := fmt.Sprintf("item-%d", i)
		items[i] = models.CatalogItem{
			ID:     id,
			Name:   id,
			Image:  id + ".jpg",
			Facets: map[string]string{"color": color},
		}
		if i%3 == 0 {
			items[i].Images = []string{id + "_1.jpg", id + "_2.jpg", id + "_3.jpg"}
		}
	}
	return items
}

func ids(items []models.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
