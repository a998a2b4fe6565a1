package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"leoga-storefront/models"
	"leoga-storefront/utils"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// ListGalleryImages lists the gallery image files of a Google Drive folder
func (ds *DriveService) ListGalleryImages(ctx context.Context, folderID string) ([]models.GalleryImage, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	return galleryFromFiles(allFiles), nil
}

func galleryFromFiles(files []*drive.File) []models.GalleryImage {
	var images []models.GalleryImage
	for _, file := range files {
		if !imageMimeTypes[strings.ToLower(file.MimeType)] {
			continue
		}

		itemID, position, err := utils.ParseGalleryFileName(file.Name)
		if err != nil {
			log.Printf("⚠️  Skipping drive file %s: %v", file.Name, err)
			continue
		}

		images = append(images, models.GalleryImage{
			ItemID:      itemID,
			Position:    position,
			DriveFileID: file.Id,
			FileName:    file.Name,
			ImageURL:    fmt.Sprintf("/catalog/images/%s?size=medium", file.Id),
		})
	}
	return images
}

// DownloadImage downloads the raw bytes of a Drive file
func (ds *DriveService) DownloadImage(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}
