package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"leoga-storefront/models"
	"leoga-storefront/repository"
)

// CatalogService loads the catalog and attaches Drive galleries to its items
type CatalogService struct {
	repository    repository.CatalogRepositoryInterface
	driveService  DriveServiceInterface
	driveFolderID string
}

// NewCatalogService creates a new CatalogService.
// driveService may be nil, in which case items keep the galleries stored with them.
func NewCatalogService(repo repository.CatalogRepositoryInterface, driveService DriveServiceInterface, driveFolderID string) *CatalogService {
	return &CatalogService{
		repository:    repo,
		driveService:  driveService,
		driveFolderID: driveFolderID,
	}
}

// FetchCatalog returns a fresh copy of the catalog
func (s *CatalogService) FetchCatalog(ctx context.Context) (*models.Catalog, error) {
	catalog, err := s.repository.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if s.driveService != nil && s.driveFolderID != "" {
		images, err := s.driveService.ListGalleryImages(ctx, s.driveFolderID)
		if err != nil {
			// galleries are decoration; keep serving the catalog without them
			log.Printf("⚠️  Warning: Failed to list drive gallery: %v", err)
		} else {
			attached := attachGalleries(catalog, images)
			log.Printf("✓ Attached drive galleries to %d items", attached)
		}
	}
	return catalog, nil
}

// attachGalleries sets the Drive images of every item that has some, ordered by position.
// The primary image stays first so a rotation starts where the card already is.
func attachGalleries(catalog *models.Catalog, images []models.GalleryImage) int {
	byItem := make(map[string][]models.GalleryImage)
	for _, img := range images {
		byItem[img.ItemID] = append(byItem[img.ItemID], img)
	}

	attached := 0
	for c := range catalog.Categories {
		items := catalog.Categories[c].Items
		for i := range items {
			gallery, ok := byItem[strings.ToLower(items[i].ID)]
			if !ok {
				continue
			}
			sort.Slice(gallery, func(a, b int) bool { return gallery[a].Position < gallery[b].Position })

			urls := make([]string, 0, len(gallery)+1)
			if items[i].Image != "" {
				urls = append(urls, items[i].Image)
			}
			for _, img := range gallery {
				urls = append(urls, img.ImageURL)
			}
			items[i].Images = urls
			attached++
		}
	}
	return attached
}

// GalleryFilter narrows the product gallery listing
type GalleryFilter struct {
	Category string `schema:"category"`
	Featured *bool  `schema:"featured"`
}

// ListGallery returns the flattened items matching the filter.
// Category matches a key or display name case-insensitively.
func (s *CatalogService) ListGallery(ctx context.Context, filter GalleryFilter) ([]models.CatalogItem, error) {
	catalog, err := s.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	categoryKey := ""
	if filter.Category != "" {
		categoryKey = strings.ToLower(filter.Category)
		for name, key := range catalog.Mapping {
			if strings.EqualFold(name, filter.Category) {
				categoryKey = strings.ToLower(key)
			}
		}
	}

	items := catalog.Flatten()
	matched := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if categoryKey != "" && strings.ToLower(item.CategoryKey) != categoryKey {
			continue
		}
		if filter.Featured != nil && item.Featured != *filter.Featured {
			continue
		}
		matched = append(matched, item)
	}
	return matched, nil
}
