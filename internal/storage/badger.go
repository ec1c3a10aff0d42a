package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// DefaultBadgerKey is the key the image is stored under when none is given.
const DefaultBadgerKey = "iotwebconf/eeprom"

// BadgerBackend stores the image as a single value in a Badger database.
type BadgerBackend struct {
	db  *badger.DB
	key []byte
}

// NewBadgerBackend opens (creating if needed) the database at path.
func NewBadgerBackend(path, key string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	return openBadger(opts, key)
}

// NewInMemoryBadgerBackend opens a database that lives only in memory.
func NewInMemoryBadgerBackend(key string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts, key)
}

func openBadger(opts badger.Options, key string) (*BadgerBackend, error) {
	if key == "" {
		key = DefaultBadgerKey
	}
	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, fmt.Errorf("database at %s is locked by another process: %w", opts.Dir, err)
		}
		return nil, fmt.Errorf("open database at %s: %w", opts.Dir, err)
	}
	return &BadgerBackend{db: db, key: []byte(key)}, nil
}

func (b *BadgerBackend) LoadImage() ([]byte, error) {
	var image []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key)
		if err != nil {
			return err
		}
		image, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return image, nil
}

func (b *BadgerBackend) SaveImage(image []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key, image)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
