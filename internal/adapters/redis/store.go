// Package redis contains the Redis implementation of the record store.
//
// Values live under their own keys. A sorted set with every member at score
// zero holds the key names, so ZRANGEBYLEX yields them in byte order for
// prefix scans. Update is optimistic: keys read inside the transaction are
// WATCHed and the staged writes are applied in one MULTI/EXEC; a conflicting
// writer causes the whole function to re-run from fresh reads.
//
// View reads without WATCH. A scan in View can observe some keys before and
// some after a concurrent Update.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/example/patta/internal/ports/secondary"
)

const (
	defaultKeySet     = "patta:keys"
	defaultMaxRetries = 10
)

// ErrConflict is returned when an Update lost every optimistic retry.
var ErrConflict = errors.New("redis: transaction conflict, retries exhausted")

// Store implements secondary.RecordStore over a redis client.
type Store struct {
	client     *redis.Client
	keySet     string
	maxRetries int
}

// Option configures a Store.
type Option func(*Store)

// WithKeySet names the sorted set that orders keys.
func WithKeySet(name string) Option {
	return func(s *Store) { s.keySet = name }
}

// WithMaxRetries bounds how often a conflicting Update is re-run.
func WithMaxRetries(n int) Option {
	return func(s *Store) { s.maxRetries = n }
}

// New creates a Store on an existing client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, keySet: defaultKeySet, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to url (redis://host:port/db) and checks the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// View runs fn with direct, unwatched reads.
func (s *Store) View(ctx context.Context, fn func(tx secondary.ReadTxn) error) error {
	return fn(&txn{ctx: ctx, store: s, reader: s.client})
}

// Update runs fn with watched reads and commits its staged writes in one
// MULTI/EXEC, retrying when a watched key changed.
func (s *Store) Update(ctx context.Context, fn func(tx secondary.Txn) error) error {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			t := &txn{
				ctx:     ctx,
				store:   s,
				reader:  rtx,
				watch:   func(keys ...string) error { return rtx.Watch(ctx, keys...).Err() },
				writes:  make(map[string][]byte),
				deletes: make(map[string]bool),
			}
			if err := fn(t); err != nil {
				return err
			}
			if len(t.writes) == 0 && len(t.deletes) == 0 {
				return nil
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				t.apply(pipe)
				return nil
			})
			return err
		})
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// reader is the read surface shared by *redis.Client and *redis.Tx.
type reader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	ZRangeByLex(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
}

type txn struct {
	ctx     context.Context
	store   *Store
	reader  reader
	watch   func(keys ...string) error
	writes  map[string][]byte
	deletes map[string]bool
}

func (t *txn) watchKeys(keys ...string) error {
	if t.watch == nil {
		return nil
	}
	return t.watch(keys...)
}

func (t *txn) Get(key string) ([]byte, error) {
	if v, ok := t.writes[key]; ok {
		return append([]byte(nil), v...), nil
	}
	if t.deletes[key] {
		return nil, secondary.ErrKeyNotFound
	}
	if err := t.watchKeys(key); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", key, err)
	}
	v, err := t.reader.Get(t.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, secondary.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (t *txn) Scan(prefix string) ([]secondary.KV, error) {
	if err := t.watchKeys(t.store.keySet); err != nil {
		return nil, fmt.Errorf("failed to watch key set: %w", err)
	}

	upper := "+"
	if end, ok := prefixEnd(prefix); ok {
		upper = "(" + end
	}
	keys, err := t.reader.ZRangeByLex(t.ctx, t.store.keySet, &redis.ZRangeBy{Min: "[" + prefix, Max: upper}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", prefix, err)
	}

	merged := make(map[string][]byte, len(keys))
	if len(keys) > 0 {
		if err := t.watchKeys(keys...); err != nil {
			return nil, fmt.Errorf("failed to watch scanned keys: %w", err)
		}
		values, err := t.reader.MGet(t.ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", prefix, err)
		}
		for i, k := range keys {
			s, ok := values[i].(string)
			if !ok || t.deletes[k] {
				continue
			}
			merged[k] = []byte(s)
		}
	}
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}

	ordered := make([]string, 0, len(merged))
	for k := range merged {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	out := make([]secondary.KV, 0, len(ordered))
	for _, k := range ordered {
		out = append(out, secondary.KV{Key: k, Value: merged[k]})
	}
	return out, nil
}

func (t *txn) Put(key string, value []byte) error {
	if t.writes == nil {
		return errors.New("redis: write outside Update")
	}
	delete(t.deletes, key)
	t.writes[key] = append([]byte(nil), value...)
	return nil
}

func (t *txn) Delete(key string) error {
	if t.writes == nil {
		return errors.New("redis: write outside Update")
	}
	delete(t.writes, key)
	t.deletes[key] = true
	return nil
}

func (t *txn) apply(pipe redis.Pipeliner) {
	for k := range t.deletes {
		pipe.Del(t.ctx, k)
		pipe.ZRem(t.ctx, t.store.keySet, k)
	}
	for k, v := range t.writes {
		pipe.Set(t.ctx, k, v, 0)
		pipe.ZAdd(t.ctx, t.store.keySet, redis.Z{Score: 0, Member: k})
	}
}

// prefixEnd returns the smallest string greater than every string starting
// with prefix. ok is false when no such bound exists.
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
