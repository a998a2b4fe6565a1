package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"leoga-storefront/models"
)

// FileCatalogRepository reads the catalog from a JSON document on disk.
// The file is read on every fetch; each view keeps its own copy.
type FileCatalogRepository struct {
	path string
}

// NewFileCatalogRepository creates a new FileCatalogRepository
func NewFileCatalogRepository(path string) *FileCatalogRepository {
	return &FileCatalogRepository{path: path}
}

// Ensure FileCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*FileCatalogRepository)(nil)

// FetchCatalog decodes the catalog file
func (r *FileCatalogRepository) FetchCatalog(ctx context.Context) (*models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		log.Printf("❌ Error reading catalog file %s: %v", r.path, err)
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Printf("❌ Error parsing catalog file %s: %v", r.path, err)
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if catalog.Mapping == nil {
		catalog.Mapping = make(map[string]string)
	}
	for _, group := range catalog.Categories {
		if group.Key != "" && group.Name != "" {
			if _, ok := catalog.Mapping[group.Name]; !ok {
				catalog.Mapping[group.Name] = group.Key
			}
		}
	}

	log.Printf("✓ Loaded catalog file %s (%d categories)", r.path, len(catalog.Categories))
	return &catalog, nil
}
