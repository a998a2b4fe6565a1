package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGalleryFileName(t *testing.T) {
	tests := []struct {
		name     string
		itemID   string
		position int
		wantErr  bool
	}{
		{"suit-001_2.jpg", "suit-001", 2, false},
		{"COAT-001_10.JPEG", "coat-001", 10, false},
		{"fab-004_1.webp", "fab-004", 1, false},
		{"suit-001_0.jpg", "", 0, true},
		{"suit-001.jpg", "", 0, true},
		{"suit-001_2.gif", "", 0, true},
		{"_2.png", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itemID, position, err := ParseGalleryFileName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.itemID, itemID)
			assert.Equal(t, tt.position, position)
		})
	}
}
