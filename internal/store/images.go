package store

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// SaveImportedImage validates and writes one user-attached image into
// the entry's imported-images area. The suggested name is sanitized to
// letters, digits, dots, and hyphens. Validation happens before any
// byte is written, so a rejected import leaves no partial file behind.
//
// The returned path is relative to the entry folder and always uses
// forward slashes, so a client can rebuild a servable URL from the
// folder-naming function alone.
func (s *Store) SaveImportedImage(paperID int, title string, createdAt time.Time, data []byte, suggestedName string) (string, error) {
	if int64(len(data)) > s.maxImageBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(data), s.maxImageBytes)
	}

	kind := http.DetectContentType(data)
	if !allowedImageTypes[kind] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, kind)
	}

	name := sanitizeImageName(suggestedName)

	folder, err := s.EnsureFolder(paperID, title, createdAt)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(folder, ImportedImagesDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write imported image: %w", err)
	}

	return path.Join(ImportedImagesDir, name), nil
}

func sanitizeImageName(name string) string {
	name = imageNamePattern.ReplaceAllString(filepath.Base(name), "-")
	if strings.Trim(name, ".-") == "" {
		return "image"
	}
	return name
}
