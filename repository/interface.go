package repository

import (
	"context"

	"leoga-storefront/models"
)

// CatalogRepositoryInterface defines the contract for catalog providers
type CatalogRepositoryInterface interface {
	FetchCatalog(ctx context.Context) (*models.Catalog, error)
}
