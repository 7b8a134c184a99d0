// Package kv provides the string-keyed value store the persistence
// adapter writes through. Two backends implement the contract: an
// embedded Badger database (the default) and a single key/value table
// in SQLite for installs that prefer one plain database file.
package kv

// Store is a flat, string-keyed store. Implementations are used by a
// single process with a single writer; they do not need to coordinate
// concurrent mutation.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) (string, bool, error)
	// Set writes key to value, overwriting any previous value.
	Set(key, value string) error
	// DeletePrefix removes every key that starts with prefix.
	DeletePrefix(prefix string) error
	// Close flushes and releases the underlying database.
	Close() error
}
