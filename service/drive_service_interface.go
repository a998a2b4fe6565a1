package service

import (
	"context"

	"leoga-storefront/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListGalleryImages(ctx context.Context, folderID string) ([]models.GalleryImage, error)
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}
