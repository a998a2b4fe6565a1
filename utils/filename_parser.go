package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var galleryNameRegex = regexp.MustCompile(`^([a-z0-9][a-z0-9-]*)_(\d{1,3})\.(png|jpg|jpeg|webp)$`)

// ParseGalleryFileName parses a gallery filename following the pattern:
// ITEMID_POSITION.EXT
// Example: suit-001_2.jpg -> ("suit-001", 2)
func ParseGalleryFileName(filename string) (string, int, error) {
	matches := galleryNameRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(filename)))
	if len(matches) != 4 {
		return "", 0, fmt.Errorf("invalid gallery filename format: expected ITEMID_POSITION.EXT, got %s", filename)
	}

	position, err := strconv.Atoi(matches[2])
	if err != nil || position < 1 {
		return "", 0, fmt.Errorf("invalid gallery position in %s", filename)
	}
	return matches[1], position, nil
}
