package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores the image as a flat file.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for the image file at path. The file is
// created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the image file location.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) LoadImage() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", f.path, err)
	}
	return data, nil
}

// SaveImage writes to a temp file and renames it over the image, so a crash
// never leaves a half-written file.
func (f *FileBackend) SaveImage(image []byte) error {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create image directory: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, image, 0600); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace image: %w", err)
	}
	return nil
}
