package models

// GalleryImage is an alternate item image stored in Google Drive.
// Files are named <itemID>_<position>.<ext>.
type GalleryImage struct {
	ItemID      string `json:"itemId"`
	Position    int    `json:"position"`
	DriveFileID string `json:"driveFileId"`
	FileName    string `json:"fileName"`
	ImageURL    string `json:"imageUrl"`
}

// GallerySyncResult reports one pass of the gallery cache sync
type GallerySyncResult struct {
	Total   int      `json:"total"`   // Gallery images seen in Drive
	Cached  int      `json:"cached"`  // Renditions downloaded and cached in this pass
	Skipped int      `json:"skipped"` // Renditions already on disk
	Errors  []string `json:"errors,omitempty"`
}
