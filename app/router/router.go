package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leoga-storefront/app/controller"
)

// Controllers groups the HTTP handlers that SetupRoutes mounts
type Controllers struct {
	Browse  *controller.BrowseController
	Catalog *controller.CatalogController
	Image   *controller.ImageController
	Contact *controller.ContactController
	Gallery *controller.GallerySyncController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every storefront route on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Open a browsing view
	mux.HandleFunc("/views", controllers.Browse.OpenView)

	// View state, interactions, stream and lookbook
	mux.HandleFunc("/views/", controllers.Browse.HandleView)

	// Product gallery
	mux.HandleFunc("/api/product-gallery", controllers.Catalog.ListGallery)

	// Contact form
	mux.HandleFunc("/api/contact", controllers.Contact.SendContact)

	// Optimized gallery images
	mux.HandleFunc("/catalog/images/", controllers.Image.GetImage)

	// Warm the image cache from Drive
	mux.HandleFunc("/admin/gallery/sync", controllers.Gallery.SyncGallery)
}
