package persist

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/storage"
)

// DefaultVersionLength is the size of the version tag in bytes.
const DefaultVersionLength = 4

// Options configures an Engine.
type Options struct {
	// Offset is where the tag starts on the medium.
	Offset int
	// Version identifies the layout. It is NUL-padded to VersionLength.
	Version string
	// VersionLength defaults to DefaultVersionLength.
	VersionLength int
}

// Engine maps a parameter tree onto a medium.
type Engine struct {
	root   param.Item
	medium storage.Medium
	offset int
	tag    []byte

	mu         sync.Mutex
	beforeSave func(size int)
	afterSave  func()
}

// NewEngine validates the options and returns an engine for root.
func NewEngine(root param.Item, medium storage.Medium, opts Options) (*Engine, error) {
	if opts.VersionLength == 0 {
		opts.VersionLength = DefaultVersionLength
	}
	if opts.VersionLength < 0 || opts.Offset < 0 {
		return nil, &Error{Type: ErrTypeVersion, Op: "configure",
			Err: fmt.Errorf("invalid offset %d or version length %d", opts.Offset, opts.VersionLength)}
	}
	if len(opts.Version) > opts.VersionLength {
		return nil, &Error{Type: ErrTypeVersion, Op: "configure",
			Err: fmt.Errorf("version %q longer than %d bytes", opts.Version, opts.VersionLength)}
	}
	tag := make([]byte, opts.VersionLength)
	copy(tag, opts.Version)
	return &Engine{root: root, medium: medium, offset: opts.Offset, tag: tag}, nil
}

// SetBeforeSave registers a hook called with the tree size before bytes are
// written. A later call replaces the hook.
func (e *Engine) SetBeforeSave(fn func(size int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beforeSave = fn
}

// SetAfterSave registers a hook called after the medium was flushed.
func (e *Engine) SetAfterSave(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.afterSave = fn
}

// TotalSize is the number of bytes the tree occupies, excluding the tag.
func (e *Engine) TotalSize() int {
	return e.root.StorageSize()
}

// Tag returns the configured version tag bytes.
func (e *Engine) Tag() []byte {
	return bytes.Clone(e.tag)
}

func (e *Engine) span() int {
	return e.offset + len(e.tag) + e.root.StorageSize()
}

// Load restores the tree from the medium. It reports false and applies
// defaults to the whole tree when the stored tag does not match.
func (e *Engine) Load() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.medium.Begin(e.span()); err != nil {
		return false, newError("load", err)
	}
	matched, err := e.load()
	if endErr := e.medium.End(); err == nil && endErr != nil {
		err = newError("load", endErr)
	}
	return matched, err
}

func (e *Engine) load() (bool, error) {
	stored := make([]byte, len(e.tag))
	if _, err := e.medium.ReadAt(stored, int64(e.offset)); err != nil {
		return false, newError("load", err)
	}
	if !bytes.Equal(stored, e.tag) {
		logging.LogRawBytes("Stored config version mismatch", stored)
		e.root.ApplyDefault()
		return false, nil
	}

	data := make([]byte, e.root.StorageSize())
	if _, err := e.medium.ReadAt(data, int64(e.offset+len(e.tag))); err != nil {
		return false, newError("load", err)
	}
	n, err := e.root.Load(data)
	if err != nil {
		return false, newError("load", err)
	}
	if n != len(data) {
		return false, newError("load", &param.LayoutError{ID: e.root.ID(), Declared: len(data), Actual: n})
	}
	return true, nil
}

// stage serializes the tag and tree into a fresh buffer. The medium is not
// touched, so a layout error leaves persisted state intact.
func (e *Engine) stage(op string) ([]byte, error) {
	size := e.root.StorageSize()
	buf := make([]byte, len(e.tag)+size)
	copy(buf, e.tag)
	n, err := e.root.Store(buf[len(e.tag):])
	if err != nil {
		return nil, newError(op, err)
	}
	if n != size {
		return nil, newError(op, &param.LayoutError{ID: e.root.ID(), Declared: size, Actual: n})
	}
	return buf, nil
}

// Save writes the tag followed by the tree bytes and flushes the medium.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.root.StorageSize()
	if e.beforeSave != nil {
		e.beforeSave(size)
	}

	buf, err := e.stage("save")
	if err != nil {
		return err
	}
	if err := e.write("save", buf); err != nil {
		return err
	}

	if e.afterSave != nil {
		e.afterSave()
	}
	return nil
}

func (e *Engine) write(op string, buf []byte) error {
	if err := e.medium.Begin(e.offset + len(buf)); err != nil {
		return newError(op, err)
	}
	if _, err := e.medium.WriteAt(buf, int64(e.offset)); err != nil {
		e.medium.End()
		return newError(op, err)
	}
	if err := e.medium.End(); err != nil {
		return newError(op, err)
	}
	return nil
}

// Verify serializes the tree into scratch memory and checks that every item
// honours its declared size. Run it once after the tree is wired.
func (e *Engine) Verify() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.stage("verify")
	return err
}

// Invalidate zeroes the stored tag so the next Load applies defaults.
func (e *Engine) Invalidate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.write("invalidate", make([]byte, len(e.tag)))
}

// Layout returns every leaf's absolute position on the medium.
func (e *Engine) Layout() []param.Slot {
	slots := param.Layout(e.root)
	base := e.offset + len(e.tag)
	for i := range slots {
		slots[i].Offset += base
	}
	return slots
}
