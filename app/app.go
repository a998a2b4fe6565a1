package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"leoga-storefront/app/controller"
	"leoga-storefront/app/router"
	"leoga-storefront/db"
	"leoga-storefront/repository"
	"leoga-storefront/service"
)

// Initialize wires the application and returns its handler plus the hooks to run on shutdown
func Initialize(ctx context.Context, cfg Config) (http.Handler, []ShutdownHook, error) {
	var hooks []ShutdownHook

	// Catalog source: Postgres when configured, the bundled JSON file otherwise
	connStr, err := db.ConnStringFromEnv()
	if err != nil {
		return nil, nil, err
	}
	var catalogRepo repository.CatalogRepositoryInterface
	if connStr != "" {
		if err := db.InitDB(ctx, connStr); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		hooks = append(hooks, func(context.Context) error { return db.CloseDB() })
		catalogRepo = repository.NewCatalogRepository(db.DB)
	} else {
		log.Printf("📋 No database configured, serving catalog from %s", cfg.CatalogFile)
		catalogRepo = repository.NewFileCatalogRepository(cfg.CatalogFile)
	}

	// Drive is optional; without it items keep their primary image only
	var driveService service.DriveServiceInterface
	if cfg.CredentialsPath != "" {
		ds, err := service.NewDriveService(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, nil, err
		}
		driveService = ds
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, Drive galleries disabled")
	}

	fabricSchema, err := repository.LoadFacetSchema(cfg.FacetsFile)
	if err != nil {
		return nil, nil, err
	}

	locales, err := service.NewLocaleService(cfg.LocalesDir, cfg.DefaultLang)
	if err != nil {
		return nil, nil, err
	}

	catalogService := service.NewCatalogService(catalogRepo, driveService, cfg.DriveFolderID)
	views := service.NewViewService(catalogService, fabricSchema, cfg.Views)
	views.StartSweeper(time.Minute)
	// CloseAll also stops the idle sweeper
	hooks = append([]ShutdownHook{views.CloseAll}, hooks...)

	imageService := service.NewImageService(driveService, cfg.ImageCacheDir)
	gallerySync := service.NewGallerySyncService(driveService, imageService, cfg.DriveFolderID)
	if cfg.SyncGalleryOnStart && driveService != nil {
		go func() {
			if _, err := gallerySync.SyncGallery(context.Background()); err != nil {
				log.Printf("⚠️  Startup gallery sync failed: %v", err)
			}
		}()
	}
	mailService := service.NewMailService(cfg.Mail, nil)
	lookbook := service.NewLookbookService(locales, cfg.BaseURL, cfg.ChromePath)

	controllers := &router.Controllers{
		Browse:  controller.NewBrowseController(views, locales, lookbook),
		Catalog: controller.NewCatalogController(catalogService),
		Image:   controller.NewImageController(imageService),
		Contact: controller.NewContactController(mailService),
		Gallery: controller.NewGallerySyncController(gallerySync),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return mux, hooks, nil
}
