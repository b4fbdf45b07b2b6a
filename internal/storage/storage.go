// Package storage abstracts where uploaded images live. The domain only
// ever sees the returned public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Storage interface {
	// Save writes the blob under key and returns its public URL.
	Save(ctx context.Context, key string, contentType string, r io.Reader) (string, error)
}

// NewKey builds a collision-free object key for an uploaded file,
// preserving the original extension.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New(), ext)
}

// AllowedImageExt reports whether the upload has a supported image extension.
func AllowedImageExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}
