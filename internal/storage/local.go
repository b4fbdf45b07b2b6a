package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores blobs on disk under Dir. The directory is expected to be
// served statically under /uploads.
type Local struct {
	Dir           string
	PublicBaseURL string
}

func NewLocal(dir, publicBaseURL string) *Local {
	return &Local{Dir: dir, PublicBaseURL: publicBaseURL}
}

func (l *Local) Save(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	path := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	publicPath := "/uploads/" + key
	if l.PublicBaseURL != "" {
		return strings.TrimRight(l.PublicBaseURL, "/") + publicPath, nil
	}
	return publicPath, nil
}
