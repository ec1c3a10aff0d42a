package storage

import (
	"errors"
	"fmt"
	"sync"
)

// Erased is the value of a byte that has never been written.
const Erased = 0xFF

var (
	// ErrOutOfRange is returned for accesses outside [0, size) of the
	// current session.
	ErrOutOfRange = errors.New("storage: access out of range")

	// ErrNotBegun is returned when the medium is accessed outside a
	// Begin/End session.
	ErrNotBegun = errors.New("storage: medium not open")
)

// Medium is a byte-addressable persistent store.
type Medium interface {
	// Begin opens a session covering offsets [0, size).
	Begin(size int) error
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	// End flushes pending writes and closes the session.
	End() error
}

// Backend loads and saves a complete storage image.
type Backend interface {
	// LoadImage returns the stored image. A backend that holds nothing yet
	// returns an empty slice and no error.
	LoadImage() ([]byte, error)
	SaveImage(image []byte) error
}

// Emulated is a Medium kept in RAM between Begin and End and written back to
// its Backend only when something changed.
type Emulated struct {
	backend Backend

	mu    sync.Mutex
	image []byte
	size  int
	open  bool
	dirty bool
}

// NewEmulated creates a medium over backend.
func NewEmulated(backend Backend) *Emulated {
	return &Emulated{backend: backend}
}

func (e *Emulated) Begin(size int) error {
	if size < 0 {
		return fmt.Errorf("storage: negative size %d", size)
	}
	image, err := e.backend.LoadImage()
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Bytes past the old image end read as erased. Bytes past size that the
	// image already holds are kept so End does not truncate them.
	if len(image) < size {
		grown := make([]byte, size)
		n := copy(grown, image)
		for i := n; i < size; i++ {
			grown[i] = Erased
		}
		image = grown
	}
	e.image = image
	e.size = size
	e.open = true
	e.dirty = false
	return nil
}

func (e *Emulated) check(n int, off int64) error {
	if !e.open {
		return ErrNotBegun
	}
	if off < 0 || off+int64(n) > int64(e.size) {
		return fmt.Errorf("%w: offset %d length %d size %d", ErrOutOfRange, off, n, e.size)
	}
	return nil
}

func (e *Emulated) ReadAt(p []byte, off int64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(len(p), off); err != nil {
		return 0, err
	}
	return copy(p, e.image[off:]), nil
}

func (e *Emulated) WriteAt(p []byte, off int64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(len(p), off); err != nil {
		return 0, err
	}
	for i, b := range p {
		if e.image[int(off)+i] != b {
			e.image[int(off)+i] = b
			e.dirty = true
		}
	}
	return len(p), nil
}

func (e *Emulated) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNotBegun
	}
	e.open = false
	if !e.dirty {
		return nil
	}
	if err := e.backend.SaveImage(e.image); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	e.dirty = false
	return nil
}

// Snapshot returns a copy of the backend image.
func (e *Emulated) Snapshot() ([]byte, error) {
	return e.backend.LoadImage()
}
