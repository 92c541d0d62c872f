package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/history"
	"github.com/example/patta/internal/core/keyspace"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
	"github.com/example/patta/internal/ctxutil"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// Ledger holds the collaborators shared by every land record service and
// the load/save rules they all follow.
type Ledger struct {
	store    secondary.RecordStore
	keys     keyspace.Space
	ids      txnid.Generator
	clock    secondary.Clock
	observer secondary.Observer
}

// NewLedger creates a Ledger with injected dependencies. Nil ids, clock or
// observer fall back to random ids, the wall clock and a no-op observer.
func NewLedger(store secondary.RecordStore, keys keyspace.Space, ids txnid.Generator, clock secondary.Clock, observer secondary.Observer) *Ledger {
	if ids == nil {
		ids = txnid.UUIDGenerator{}
	}
	if clock == nil {
		clock = secondary.SystemClock{}
	}
	if observer == nil {
		observer = secondary.NopObserver{}
	}
	return &Ledger{store: store, keys: keys, ids: ids, clock: clock, observer: observer}
}

func (l *Ledger) now() string {
	return record.FormatTime(l.clock.Now())
}

// track reports one operation boundary. Use as defer l.track(ctx, op, key)(&err).
func (l *Ledger) track(ctx context.Context, op, key string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		l.observer.OperationCompleted(ctx, op, key, time.Since(start), *errp)
	}
}

// load reads and decodes one record. Single-key reads are strict: an
// undecodable value is Internal, never skipped.
func (l *Ledger) load(tx secondary.ReadTxn, receipt string) (*record.LandRecord, error) {
	data, err := tx.Get(l.keys.Record(receipt))
	if errors.Is(err, secondary.ErrKeyNotFound) {
		return nil, apperr.NotFound("Land request %s does not exist", receipt)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to read land request %s", receipt)
	}
	r, err := record.Decode(data)
	if err != nil {
		return nil, apperr.Internal(err, "land request %s is corrupt", receipt)
	}
	return r, nil
}

// save writes r and keeps its index entries in step. before is the state r
// was loaded in, or nil for a new record. Every entry gets an id first.
func (l *Ledger) save(tx secondary.Txn, before, r *record.LandRecord) error {
	history.EnsureIDs(r, l.ids)

	data, err := record.Encode(r)
	if err != nil {
		return apperr.Internal(err, "failed to encode land request %s", r.ReceiptNumber)
	}
	if err := tx.Put(l.keys.Record(r.ReceiptNumber), data); err != nil {
		return apperr.Internal(err, "failed to write land request %s", r.ReceiptNumber)
	}

	deletes, puts := l.keys.IndexDiff(before, r)
	for _, k := range deletes {
		if err := tx.Delete(k); err != nil {
			return apperr.Internal(err, "failed to update index for %s", r.ReceiptNumber)
		}
	}
	for k, v := range puts {
		if err := tx.Put(k, v); err != nil {
			return apperr.Internal(err, "failed to update index for %s", r.ReceiptNumber)
		}
	}
	return nil
}

// snapshot keeps the index-relevant state of r before a mutation.
func snapshot(r *record.LandRecord) *record.LandRecord {
	s := *r
	return &s
}

// mutate runs fn in one Update. With an idempotency token the first result
// is stored alongside the write and replayed on retries against the same
// receipt. A token reused for another receipt does not replay.
func (l *Ledger) mutate(ctx context.Context, op, receipt, token string, fn func(tx secondary.Txn) (*primary.MutationResult, error)) (*primary.MutationResult, error) {
	if token == "" {
		token = ctxutil.IdempotencyKeyFromContext(ctx)
	}

	var result *primary.MutationResult
	err := l.store.Update(ctx, func(tx secondary.Txn) error {
		result = nil

		var idemKey string
		if token != "" {
			idemKey = l.keys.Idempotency(op, receipt, token)
			stored, err := tx.Get(idemKey)
			switch {
			case err == nil:
				var prev primary.MutationResult
				if err := json.Unmarshal(stored, &prev); err != nil {
					return apperr.Internal(err, "stored result for %s is corrupt", op)
				}
				prev.Replayed = true
				result = &prev
				return nil
			case !errors.Is(err, secondary.ErrKeyNotFound):
				return apperr.Internal(err, "failed to read idempotency token")
			}
		}

		res, err := fn(tx)
		if err != nil {
			return err
		}
		if idemKey != "" {
			data, err := json.Marshal(res)
			if err != nil {
				return apperr.Internal(err, "failed to encode result for %s", op)
			}
			if err := tx.Put(idemKey, data); err != nil {
				return apperr.Internal(err, "failed to store idempotency token")
			}
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err, "%s failed", op)
	}
	return result, nil
}

// view runs fn in a read-only transaction, classifying store failures.
func (l *Ledger) view(ctx context.Context, fn func(tx secondary.ReadTxn) error) error {
	if err := l.store.View(ctx, fn); err != nil {
		return apperr.Internal(err, "failed to read record store")
	}
	return nil
}

// scanRecords decodes every record in key order. Values that fail to decode
// are reported and left out.
func (l *Ledger) scanRecords(ctx context.Context, tx secondary.ReadTxn) ([]*record.LandRecord, int, error) {
	pairs, err := tx.Scan(l.keys.RecordPrefix())
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to scan land requests")
	}
	out := make([]*record.LandRecord, 0, len(pairs))
	skipped := 0
	for _, kv := range pairs {
		r, err := record.Decode(kv.Value)
		if err != nil {
			l.observer.RecordSkipped(ctx, kv.Key, err)
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped, nil
}
