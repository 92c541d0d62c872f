// Package sqlite contains the SQLite implementation of the record store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/patta/internal/ports/secondary"
)

// Store implements secondary.RecordStore over the kv table.
// Every View and Update is one SQL transaction.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store on an open database whose schema is current.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// View runs fn in a transaction that is always rolled back.
func (s *Store) View(ctx context.Context, fn func(tx secondary.ReadTxn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin read: %w", err)
	}
	defer tx.Rollback()

	return fn(&txn{ctx: ctx, tx: tx})
}

// Update runs fn and commits its writes, or rolls back if fn fails.
func (s *Store) Update(ctx context.Context, fn func(tx secondary.Txn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&txn{ctx: ctx, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type txn struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *txn) Get(key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, secondary.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (t *txn) Scan(prefix string) ([]secondary.KV, error) {
	query := "SELECT key, value FROM kv WHERE key >= ? ORDER BY key"
	args := []any{prefix}
	if end, ok := prefixEnd(prefix); ok {
		query = "SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key"
		args = append(args, end)
	}

	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", prefix, err)
	}
	defer rows.Close()

	var out []secondary.KV
	for rows.Next() {
		var kv secondary.KV
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		out = append(out, kv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", prefix, err)
	}
	return out, nil
}

func (t *txn) Put(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (t *txn) Delete(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// prefixEnd returns the smallest string greater than every string starting
// with prefix. ok is false when no such bound exists (empty or all 0xFF).
func prefixEnd(prefix string) (string, bool) {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xFF {
			b[i]++
			return string(b[:i+1]), true
		}
	}
	return "", false
}

var _ secondary.RecordStore = (*Store)(nil)
