package persist

import (
	"errors"
	"fmt"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
)

// ErrorType represents the category of persistence failure
type ErrorType int

const (
	// ErrTypeStorage indicates the medium failed to open, read, write or flush
	ErrTypeStorage ErrorType = iota
	// ErrTypeLayout indicates the tree's declared sizes and its actual
	// serialization disagree
	ErrTypeLayout
	// ErrTypeVersion indicates an unusable version string
	ErrTypeVersion
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeStorage:
		return "Storage Error"
	case ErrTypeLayout:
		return "Layout Error"
	case ErrTypeVersion:
		return "Version Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Engine operation that fails.
type Error struct {
	Type ErrorType
	Op   string // load, save, verify, invalidate
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s during %s: %v", e.Type, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	t := ErrTypeStorage
	var layoutErr *param.LayoutError
	if errors.As(err, &layoutErr) {
		t = ErrTypeLayout
	}
	return &Error{Type: t, Op: op, Err: err}
}

// IsStorageError reports whether err is a medium failure.
func IsStorageError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeStorage
}

// IsLayoutError reports whether err is a size mismatch in the tree.
func IsLayoutError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeLayout
}
