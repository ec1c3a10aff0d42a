package storage

import (
	"bytes"
	"sync"
)

// MemoryBackend keeps the image in process memory.
type MemoryBackend struct {
	mu    sync.Mutex
	image []byte
	saves int
}

// NewMemoryBackend creates a backend pre-loaded with a copy of image.
func NewMemoryBackend(image []byte) *MemoryBackend {
	return &MemoryBackend{image: bytes.Clone(image)}
}

func (m *MemoryBackend) LoadImage() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.image), nil
}

func (m *MemoryBackend) SaveImage(image []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = bytes.Clone(image)
	m.saves++
	return nil
}

// Saves reports how many times the image was written.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
