package storage

import (
	"fmt"
	"io"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the image file for "file" and the database directory for
	// "badger".
	Path string
	// Key is the Badger key holding the image.
	Key string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds an emulated medium over the configured backend. The returned
// closer releases the backend and must be called after the last End.
func Open(opts Options) (*Emulated, io.Closer, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewEmulated(NewMemoryBackend(nil)), nopCloser{}, nil
	case "", BackendFile:
		if opts.Path == "" {
			return nil, nil, fmt.Errorf("file backend requires a path")
		}
		return NewEmulated(NewFileBackend(opts.Path)), nopCloser{}, nil
	case BackendBadger:
		if opts.Path == "" {
			return nil, nil, fmt.Errorf("badger backend requires a path")
		}
		b, err := NewBadgerBackend(opts.Path, opts.Key)
		if err != nil {
			return nil, nil, err
		}
		return NewEmulated(b), b, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
