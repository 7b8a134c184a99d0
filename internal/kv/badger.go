package kv

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures the embedded Badger backend.
type BadgerConfig struct {
	// Path is the directory for the database files.
	// Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites makes every write durable before returning.
	SyncWrites bool
}

// BadgerStore implements Store on top of dgraph-io/badger.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens the Badger backend, creating the directory if needed.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("kv: badger path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("kv: cannot create badger directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("kv: open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(raw)
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv: get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("kv: set %q: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) DeletePrefix(prefix string) error {
	if err := s.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("kv: delete prefix %q: %w", prefix, err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
