// Package memory provides an in-process RecordStore. It backs tests and the
// default "memory" backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/patta/internal/ports/secondary"
)

// Store is a map guarded by a single RWMutex. Update holds the write lock for
// the whole function, so transactions are serializable.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// View runs fn under the read lock.
func (s *Store) View(ctx context.Context, fn func(tx secondary.ReadTxn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&txn{store: s})
}

// Update runs fn under the write lock and applies its writes only if fn succeeds.
func (s *Store) Update(ctx context.Context, fn func(tx secondary.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{store: s, writes: make(map[string][]byte), deletes: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	for k := range tx.deletes {
		delete(s.data, k)
	}
	for k, v := range tx.writes {
		s.data[k] = v
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// PutRaw stores value without any transaction. Used to seed fixtures,
// including values that are not valid records.
func (s *Store) PutRaw(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

type txn struct {
	store   *Store
	writes  map[string][]byte
	deletes map[string]bool
}

func (t *txn) Get(key string) ([]byte, error) {
	if t.writes != nil {
		if v, ok := t.writes[key]; ok {
			return append([]byte(nil), v...), nil
		}
		if t.deletes[key] {
			return nil, secondary.ErrKeyNotFound
		}
	}
	v, ok := t.store.data[key]
	if !ok {
		return nil, secondary.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (t *txn) Scan(prefix string) ([]secondary.KV, error) {
	merged := make(map[string][]byte)
	for k, v := range t.store.data {
		if strings.HasPrefix(k, prefix) && !t.deletes[k] {
			merged[k] = v
		}
	}
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]secondary.KV, 0, len(keys))
	for _, k := range keys {
		out = append(out, secondary.KV{Key: k, Value: append([]byte(nil), merged[k]...)})
	}
	return out, nil
}

func (t *txn) Put(key string, value []byte) error {
	delete(t.deletes, key)
	t.writes[key] = append([]byte(nil), value...)
	return nil
}

func (t *txn) Delete(key string) error {
	delete(t.writes, key)
	t.deletes[key] = true
	return nil
}

var _ secondary.RecordStore = (*Store)(nil)
