package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"leoga-storefront/engine"
	"leoga-storefront/service"
)

// Config holds the application settings read from the environment
type Config struct {
	Port               string
	CatalogFile        string
	FacetsFile         string
	LocalesDir         string
	DefaultLang        string
	CredentialsPath    string
	DriveFolderID      string
	ImageCacheDir      string
	SyncGalleryOnStart bool // Warm the image cache from Drive in the background at startup
	BaseURL            string
	ChromePath         string
	Views              service.ViewSettings
	Mail               service.MailConfig
	Timeouts           TimeoutConfig
}

// LoadConfig reads Config from environment variables, applying defaults
func LoadConfig() Config {
	port := strings.TrimPrefix(getEnv("PORT", "8080"), ":")

	views := service.DefaultViewSettings()
	views.FabricPageSize = getEnvInt("FABRIC_PAGE_SIZE", views.FabricPageSize)
	views.ProductPageSize = getEnvInt("PRODUCT_PAGE_SIZE", views.ProductPageSize)
	views.MenuPageSize = getEnvInt("MENU_PAGE_SIZE", views.MenuPageSize)
	views.RotationInterval = getEnvMillis("ROTATION_INTERVAL_MS", views.RotationInterval)
	views.HoverGrace = getEnvMillis("HOVER_GRACE_MS", views.HoverGrace)
	views.HighlightFor = getEnvMillis("HIGHLIGHT_MS", views.HighlightFor)
	views.MenuAutoAdvance = getEnvMillis("AUTO_ADVANCE_MS", views.MenuAutoAdvance)
	views.IdleTTL = getEnvMillis("VIEW_IDLE_TTL_MS", views.IdleTTL)
	views.TopLevel = engine.ParseTopLevelMode(os.Getenv("TOP_LEVEL_SELECTION"))

	return Config{
		Port:               port,
		CatalogFile:        getEnv("CATALOG_FILE", "data/catalog.json"),
		FacetsFile:         getEnv("FACETS_FILE", "config/facets.yaml"),
		LocalesDir:         getEnv("LOCALES_DIR", "locales"),
		DefaultLang:        getEnv("DEFAULT_LANG", "zh"),
		CredentialsPath:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveFolderID:      os.Getenv("DRIVE_FOLDER_ID"),
		ImageCacheDir:      getEnv("IMAGE_CACHE_DIR", "cache/images"),
		SyncGalleryOnStart: os.Getenv("GALLERY_SYNC_ON_START") == "true",
		BaseURL:            getEnv("BASE_URL", "http://localhost:"+port),
		ChromePath:         os.Getenv("CHROME_PATH"),
		Views:              views,
		Mail: service.MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			To:       os.Getenv("MAIL_TO"),
		},
		Timeouts: LoadTimeoutConfig(DefaultTimeoutConfig()),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// getEnvMillis reads a millisecond count; 0 is accepted and disables optional timers
func getEnvMillis(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return fallback
}
