package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

var driveFileIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ImageSizeSpec returns the max dimension and JPEG quality for a size name.
// Unknown sizes fall back to medium.
func ImageSizeSpec(size string) (int, int, string) {
	switch size {
	case "thumb":
		return maxSizeThumb, qualityThumb, "thumb"
	case "medium":
		return maxSizeMedium, qualityMedium, "medium"
	default:
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
		return maxSizeMedium, qualityMedium, "medium"
	}
}

// OptimizeImage converts an image to JPEG, shrinking it to fit the requested size
// imageData: raw image bytes (PNG, JPEG)
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality, size := ImageSizeSpec(size)

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		// imaging.Fit keeps the aspect ratio
		log.Printf("🔄 Resizing %s image %dx%d to fit %d", format, bounds.Dx(), bounds.Dy(), maxDim)
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	log.Printf("✓ Image optimized: size=%s, quality=%d, output_size=%d bytes", size, quality, buf.Len())
	return buf.Bytes(), nil
}

// ImageService serves optimized Drive images through a disk cache
type ImageService struct {
	drive    DriveServiceInterface
	cacheDir string
}

// NewImageService creates a new ImageService
func NewImageService(drive DriveServiceInterface, cacheDir string) *ImageService {
	if cacheDir == "" {
		cacheDir = filepath.Join("cache", "images")
	}
	return &ImageService{drive: drive, cacheDir: cacheDir}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (s *ImageService) EnsureCacheDir() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for a Drive file and size
func (s *ImageService) CachePath(fileID, size string) string {
	return filepath.Join(s.cacheDir, fmt.Sprintf("gallery_%s_%s.jpg", fileID, size))
}

// GetImage returns the optimized image, downloading and caching it on a miss
func (s *ImageService) GetImage(ctx context.Context, fileID, size string) ([]byte, error) {
	if !driveFileIDRegex.MatchString(fileID) {
		return nil, ErrInvalidImageID
	}
	if s.drive == nil {
		return nil, ErrDriveDisabled
	}
	_, _, size = ImageSizeSpec(size)

	cachePath := s.CachePath(fileID, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	log.Printf("📥 Downloading drive image %s", fileID)
	raw, err := s.drive.DownloadImage(ctx, fileID)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}

	if err := s.EnsureCacheDir(); err != nil {
		log.Printf("⚠️  Warning: %v", err)
		return optimized, nil
	}
	if err := os.WriteFile(cachePath, optimized, 0644); err != nil {
		log.Printf("⚠️  Warning: failed to write to cache: %v", err)
	} else {
		log.Printf("✓ Image cached: %s", cachePath)
	}
	return optimized, nil
}
