// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by ReadTxn.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// KV is one stored key/value pair.
type KV struct {
	Key   string
	Value []byte
}

// ReadTxn is a read view of the record store.
type ReadTxn interface {
	// Get returns the value under key or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Scan returns every pair whose key starts with prefix, ordered by key.
	Scan(prefix string) ([]KV, error)
}

// Txn is a read-write view. Writes become visible only when the enclosing
// Update returns nil.
type Txn interface {
	ReadTxn

	// Put stores value under key.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// RecordStore defines the secondary port for the opaque key-value store
// holding land records.
type RecordStore interface {
	// View runs fn against a read-only view.
	View(ctx context.Context, fn func(tx ReadTxn) error) error

	// Update runs fn and commits its writes atomically. If fn returns an
	// error, or the commit fails, no write is visible. fn may be re-run by
	// stores that retry on conflict, so it must not have side effects
	// beyond the transaction.
	Update(ctx context.Context, fn func(tx Txn) error) error

	// Close releases the store's resources.
	Close() error
}
