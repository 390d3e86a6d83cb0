package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// FileStore opens and saves images on the local filesystem.
//
// When built with a cache, opened images are shared across callers and must not
// be modified. FileStore is safe for concurrent use.
type FileStore struct {
	cache *ImageCache
}

// NewFileStore returns a store that reads straight from disk.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// NewCachedFileStore returns a store that keeps decoded images in cache.
func NewCachedFileStore(cache *ImageCache) *FileStore {
	return &FileStore{cache: cache}
}

// Open decodes the image at path.
func (s *FileStore) Open(path string) (image.Image, error) {
	if s.cache != nil {
		return s.cache.Load(path)
	}
	return OpenImage(path)
}

// Save encodes img as PNG at path, creating parent directories as needed.
func (s *FileStore) Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
