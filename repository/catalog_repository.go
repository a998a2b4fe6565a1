package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"leoga-storefront/models"
)

// CatalogRepository reads the catalog from Postgres
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// FetchCatalog retrieves every active category with its items, in display order
func (r *CatalogRepository) FetchCatalog(ctx context.Context) (*models.Catalog, error) {
	log.Printf("🔍 FetchCatalog: Loading categories")

	catalog, index, err := r.fetchCategories(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			i.id,
			i.name,
			COALESCE(i.image, '') as image,
			COALESCE(i.images, '[]'::jsonb) as images,
			COALESCE(i.description, '') as description,
			i.category_key,
			COALESCE(i.facets, '{}'::jsonb) as facets
		FROM catalog_items i
		INNER JOIN categories c ON i.category_key = c.key
		WHERE i.is_active = true
		ORDER BY c.position ASC, i.position ASC, i.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error querying catalog items: %v", err)
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var row catalogRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Image, &row.Images, &row.Description, &row.CategoryKey, &row.Facets); err != nil {
			log.Printf("❌ Error scanning catalog item: %v", err)
			continue
		}

		item, err := row.toItem()
		if err != nil {
			log.Printf("⚠️  Skipping item %s: %v", row.ID, err)
			continue
		}

		pos, ok := index[item.CategoryKey]
		if !ok {
			continue
		}
		catalog.Categories[pos].Items = append(catalog.Categories[pos].Items, item)
		count++
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating catalog items: %v", err)
		return nil, fmt.Errorf("failed to iterate catalog items: %w", err)
	}

	log.Printf("✓ Successfully fetched %d items in %d categories", count, len(catalog.Categories))
	return catalog, nil
}

func (r *CatalogRepository) fetchCategories(ctx context.Context) (*models.Catalog, map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, name
		FROM categories
		WHERE is_active = true
		ORDER BY position ASC, key ASC
	`)
	if err != nil {
		log.Printf("❌ Error querying categories: %v", err)
		return nil, nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	catalog := &models.Catalog{Mapping: make(map[string]string)}
	index := make(map[string]int)
	for rows.Next() {
		var group models.CategoryGroup
		if err := rows.Scan(&group.Key, &group.Name); err != nil {
			return nil, nil, fmt.Errorf("failed to scan category: %w", err)
		}
		index[group.Key] = len(catalog.Categories)
		catalog.Mapping[group.Name] = group.Key
		catalog.Categories = append(catalog.Categories, group)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return catalog, index, nil
}

// catalogRow is a catalog_items row before its jsonb columns are decoded
type catalogRow struct {
	ID          string
	Name        string
	Image       string
	Images      []byte
	Description string
	CategoryKey string
	Facets      []byte
}

func (row catalogRow) toItem() (models.CatalogItem, error) {
	item := models.CatalogItem{
		ID:          row.ID,
		Name:        row.Name,
		Image:       row.Image,
		Description: row.Description,
		CategoryKey: row.CategoryKey,
	}
	if len(row.Images) > 0 {
		if err := json.Unmarshal(row.Images, &item.Images); err != nil {
			return item, fmt.Errorf("invalid images column: %w", err)
		}
	}
	if len(row.Facets) > 0 {
		if err := json.Unmarshal(row.Facets, &item.Facets); err != nil {
			return item, fmt.Errorf("invalid facets column: %w", err)
		}
	}
	return item, nil
}
