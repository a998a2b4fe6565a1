package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"leoga-storefront/service"
)

// ImageController serves optimized gallery images
type ImageController struct {
	images *service.ImageService
}

// NewImageController creates a new ImageController
func NewImageController(images *service.ImageService) *ImageController {
	return &ImageController{images: images}
}

// GetImage handles GET /catalog/images/{fileId}?size=thumb|medium
func (c *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fileID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/catalog/images/"), "/")
	size := r.URL.Query().Get("size")

	data, err := c.images.GetImage(r.Context(), fileID, size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidImageID):
			http.Error(w, "Invalid image id", http.StatusBadRequest)
		case errors.Is(err, service.ErrDriveDisabled):
			http.Error(w, "Image storage not configured", http.StatusServiceUnavailable)
		default:
			log.Printf("❌ GetImage: Error serving %s: %v", fileID, err)
			http.Error(w, fmt.Sprintf("Failed to load image: %v", err), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetImage: Error writing response: %v", err)
	}
}
