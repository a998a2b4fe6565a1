package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"leoga-storefront/models"
)

// warmSizes are the renditions the storefront requests for gallery images
var warmSizes = []string{"thumb", "medium"}

// GallerySyncInterface defines the contract for gallery cache synchronization
type GallerySyncInterface interface {
	// SyncGallery fills the image cache for every gallery image in Drive
	SyncGallery(ctx context.Context) (*models.GallerySyncResult, error)
}

// GallerySyncService mirrors the Drive gallery into the local image cache,
// so the first visitor to hover an item does not wait on Drive.
type GallerySyncService struct {
	driveService DriveServiceInterface
	images       *ImageService
	folderID     string
}

// NewGallerySyncService creates a new GallerySyncService
func NewGallerySyncService(driveService DriveServiceInterface, images *ImageService, folderID string) *GallerySyncService {
	return &GallerySyncService{
		driveService: driveService,
		images:       images,
		folderID:     folderID,
	}
}

// Ensure GallerySyncService implements GallerySyncInterface
var _ GallerySyncInterface = (*GallerySyncService)(nil)

// SyncGallery downloads and optimizes each gallery image not yet cached.
// Per-image failures are collected in the result; only listing failures abort.
func (s *GallerySyncService) SyncGallery(ctx context.Context) (*models.GallerySyncResult, error) {
	if s.driveService == nil {
		return nil, ErrDriveDisabled
	}
	if s.folderID == "" {
		return nil, fmt.Errorf("%w: DRIVE_FOLDER_ID is not set", ErrDriveDisabled)
	}

	log.Printf("🔄 Starting gallery sync for folder: %s", s.folderID)

	gallery, err := s.driveService.ListGalleryImages(ctx, s.folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images from Drive: %w", err)
	}

	result := &models.GallerySyncResult{Total: len(gallery)}
	log.Printf("📦 Processing %d gallery images from Google Drive", len(gallery))

	for _, img := range gallery {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		for _, size := range warmSizes {
			if _, err := os.Stat(s.images.CachePath(img.DriveFileID, size)); err == nil {
				result.Skipped++
				continue
			}
			if _, err := s.images.GetImage(ctx, img.DriveFileID, size); err != nil {
				msg := fmt.Sprintf("%s (%s, %s): %v", img.FileName, img.DriveFileID, size, err)
				log.Printf("❌ Gallery sync failed for %s", msg)
				result.Errors = append(result.Errors, msg)
				continue
			}
			result.Cached++
		}
	}

	log.Printf("🎉 Gallery sync completed: %d cached, %d skipped, %d failed out of %d images",
		result.Cached, result.Skipped, len(result.Errors), result.Total)
	return result, nil
}
