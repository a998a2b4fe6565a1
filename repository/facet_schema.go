package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"leoga-storefront/models"
)

// LoadFacetSchema reads a facet schema from a YAML file
func LoadFacetSchema(path string) (models.FacetSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.FacetSchema{}, fmt.Errorf("failed to read facet schema: %w", err)
	}
	return ParseFacetSchema(data)
}

// ParseFacetSchema decodes and validates a YAML facet schema
func ParseFacetSchema(data []byte) (models.FacetSchema, error) {
	var schema models.FacetSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return models.FacetSchema{}, fmt.Errorf("failed to parse facet schema: %w", err)
	}

	seen := make(map[string]bool)
	for _, facet := range schema.Facets {
		if facet.Name == "" {
			return models.FacetSchema{}, fmt.Errorf("facet schema: facet without name")
		}
		if seen[facet.Name] {
			return models.FacetSchema{}, fmt.Errorf("facet schema: duplicate facet %q", facet.Name)
		}
		seen[facet.Name] = true
		if len(facet.Values) == 0 {
			return models.FacetSchema{}, fmt.Errorf("facet schema: facet %q has no values", facet.Name)
		}
	}
	return schema, nil
}
