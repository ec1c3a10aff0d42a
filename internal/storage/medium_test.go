package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testBackend runs the shared medium suite against a backend factory. The
// factory is called again to reopen the same underlying store.
func testBackend(t *testing.T, open func() Backend) {
	t.Helper()

	t.Run("FreshReadsErased", func(t *testing.T) {
		m := NewEmulated(open())
		if err := m.Begin(8); err != nil {
			t.Fatalf("Begin() error: %v", err)
		}
		buf := make([]byte, 8)
		if _, err := m.ReadAt(buf, 0); err != nil {
			t.Fatalf("ReadAt() error: %v", err)
		}
		if !bytes.Equal(buf, bytes.Repeat([]byte{Erased}, 8)) {
			t.Errorf("fresh medium = %x, want all 0xFF", buf)
		}
		if err := m.End(); err != nil {
			t.Fatalf("End() error: %v", err)
		}
	})

	t.Run("WritePersistsAcrossSessions", func(t *testing.T) {
		m := NewEmulated(open())
		if err := m.Begin(8); err != nil {
			t.Fatalf("Begin() error: %v", err)
		}
		if _, err := m.WriteAt([]byte("abc"), 2); err != nil {
			t.Fatalf("WriteAt() error: %v", err)
		}
		if err := m.End(); err != nil {
			t.Fatalf("End() error: %v", err)
		}

		m2 := NewEmulated(open())
		if err := m2.Begin(8); err != nil {
			t.Fatalf("Begin() error: %v", err)
		}
		defer m2.End()
		buf := make([]byte, 3)
		if _, err := m2.ReadAt(buf, 2); err != nil {
			t.Fatalf("ReadAt() error: %v", err)
		}
		if string(buf) != "abc" {
			t.Errorf("ReadAt() = %q, want abc", buf)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		m := NewEmulated(open())
		if err := m.Begin(4); err != nil {
			t.Fatalf("Begin() error: %v", err)
		}
		defer m.End()
		if _, err := m.WriteAt([]byte("xx"), 3); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("WriteAt() past end error = %v, want ErrOutOfRange", err)
		}
		if _, err := m.ReadAt(make([]byte, 1), -1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ReadAt() negative offset error = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("SmallerSessionKeepsTail", func(t *testing.T) {
		m := NewEmulated(open())
		if err := m.Begin(2); err != nil {
			t.Fatalf("Begin() error: %v", err)
		}
		if _, err := m.WriteAt([]byte("zz"), 0); err != nil {
			t.Fatalf("WriteAt() error: %v", err)
		}
		if err := m.End(); err != nil {
			t.Fatalf("End() error: %v", err)
		}

		image, err := open().LoadImage()
		if err != nil {
			t.Fatalf("LoadImage() error: %v", err)
		}
		if len(image) < 5 || string(image[:5]) != "zzabc" {
			t.Errorf("image = %q, want prefix zzabc", image)
		}
	})
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend(nil)
	testBackend(t, func() Backend { return b })
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "eeprom.bin")
	testBackend(t, func() Backend { return NewFileBackend(path) })

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("image permissions = %o, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestBadgerBackend(t *testing.T) {
	b, err := NewBadgerBackend(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewBadgerBackend() error: %v", err)
	}
	defer b.Close()
	testBackend(t, func() Backend { return b })
}

func TestInMemoryBadgerBackend(t *testing.T) {
	b, err := NewInMemoryBadgerBackend("custom")
	if err != nil {
		t.Fatalf("NewInMemoryBadgerBackend() error: %v", err)
	}
	defer b.Close()
	testBackend(t, func() Backend { return b })
}

func TestEndWritesOnlyWhenDirty(t *testing.T) {
	b := NewMemoryBackend(nil)
	m := NewEmulated(b)

	if err := m.Begin(4); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := m.End(); err != nil {
		t.Fatalf("End() error: %v", err)
	}
	if b.Saves() != 0 {
		t.Errorf("clean session saved %d times", b.Saves())
	}

	if err := m.Begin(4); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	// Writing the erased value again changes nothing.
	m.WriteAt([]byte{Erased}, 0)
	m.End()
	if b.Saves() != 0 {
		t.Errorf("unchanged write saved %d times", b.Saves())
	}

	m.Begin(4)
	m.WriteAt([]byte{1}, 0)
	m.End()
	if b.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", b.Saves())
	}
}

func TestAccessOutsideSession(t *testing.T) {
	m := NewEmulated(NewMemoryBackend(nil))
	if _, err := m.ReadAt(make([]byte, 1), 0); !errors.Is(err, ErrNotBegun) {
		t.Errorf("ReadAt() error = %v, want ErrNotBegun", err)
	}
	if err := m.End(); !errors.Is(err, ErrNotBegun) {
		t.Errorf("End() error = %v, want ErrNotBegun", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"memory", Options{Backend: BackendMemory}, false},
		{"file", Options{Backend: BackendFile, Path: filepath.Join(dir, "img")}, false},
		{"default is file", Options{Path: filepath.Join(dir, "img2")}, false},
		{"badger", Options{Backend: BackendBadger, Path: filepath.Join(dir, "db")}, false},
		{"file without path", Options{Backend: BackendFile}, true},
		{"badger without path", Options{Backend: BackendBadger}, true},
		{"unknown", Options{Backend: "floppy"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, closer, err := Open(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer closer.Close()
			if err := m.Begin(1); err != nil {
				t.Errorf("Begin() error: %v", err)
			}
			m.End()
		})
	}
}
