package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"leoga-storefront/service"
)

// GallerySyncController handles HTTP requests for gallery cache synchronization
type GallerySyncController struct {
	syncService service.GallerySyncInterface
}

// NewGallerySyncController creates a new GallerySyncController
func NewGallerySyncController(syncService service.GallerySyncInterface) *GallerySyncController {
	return &GallerySyncController{syncService: syncService}
}

// SyncGallery handles POST /admin/gallery/sync
// Downloads every Drive gallery image not yet cached and optimizes it
func (c *GallerySyncController) SyncGallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	log.Printf("📥 Gallery sync request received")

	result, err := c.syncService.SyncGallery(r.Context())
	if err != nil {
		log.Printf("❌ Gallery sync failed: %v", err)
		if errors.Is(err, service.ErrDriveDisabled) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to sync gallery: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
	log.Printf("✅ Gallery sync request completed: %d/%d images", result.Cached, result.Total)
}
