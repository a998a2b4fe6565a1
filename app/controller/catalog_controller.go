package controller

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/schema"

	"leoga-storefront/models"
	"leoga-storefront/service"
)

// CatalogController handles HTTP requests for the product gallery
type CatalogController struct {
	catalogService *service.CatalogService
	decoder        *schema.Decoder
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &CatalogController{
		catalogService: catalogService,
		decoder:        decoder,
	}
}

// GalleryResponse represents the response of GET /api/product-gallery
type GalleryResponse struct {
	Items []models.CatalogItem `json:"items"`
	Total int                  `json:"total"`
}

// ListGallery handles GET /api/product-gallery?category=suits&featured=true
func (c *CatalogController) ListGallery(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListGallery: Received %s request to %s", r.Method, r.URL.String())

	if r.Method != http.MethodGet {
		log.Printf("❌ ListGallery: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var filter service.GalleryFilter
	if err := c.decoder.Decode(&filter, r.URL.Query()); err != nil {
		log.Printf("❌ ListGallery: Invalid query: %v", err)
		http.Error(w, fmt.Sprintf("Invalid query parameters: %v", err), http.StatusBadRequest)
		return
	}

	items, err := c.catalogService.ListGallery(r.Context(), filter)
	if err != nil {
		log.Printf("❌ ListGallery: Error fetching catalog: %v", err)
		http.Error(w, fmt.Sprintf("Failed to fetch gallery: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✓ ListGallery: %d items", len(items))
	writeJSON(w, http.StatusOK, GalleryResponse{Items: items, Total: len(items)})
}
