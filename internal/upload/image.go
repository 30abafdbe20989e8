// Package upload stores group images: extension whitelist, unique
// filename, bounded dimensions.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const maxDimension = 500

// DefaultImageURL is served for groups created without an image.
const DefaultImageURL = "/static/uploads/default.png"

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// Allowed reports whether the filename carries a permitted image
// extension.
func Allowed(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ImageStore saves uploaded group images under dir and hands back the
// URL path they are served from.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save decodes the upload, scales it down to fit maxDimension on both
// axes (never scaling up), and writes it under a fresh uuid-derived
// name so uploads cannot collide or traverse paths.
func (s *ImageStore) Save(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("disallowed image extension %q", ext)
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)

	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	if err := imaging.Save(img, filepath.Join(s.dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return "/static/uploads/" + name, nil
}
