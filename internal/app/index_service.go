package app

import (
	"bytes"
	"context"
	"sort"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// IndexServiceImpl implements the IndexService interface.
type IndexServiceImpl struct {
	ledger *Ledger
}

// NewIndexService creates a new IndexService with injected dependencies.
func NewIndexService(ledger *Ledger) *IndexServiceImpl {
	return &IndexServiceImpl{ledger: ledger}
}

// RebuildIndexes drops every index key and recomputes them from a full scan,
// in one transaction.
func (s *IndexServiceImpl) RebuildIndexes(ctx context.Context) (report *primary.IndexReport, err error) {
	defer s.ledger.track(ctx, primary.OpRebuildIndexes, "")(&err)

	err = s.ledger.store.Update(ctx, func(tx secondary.Txn) error {
		report = &primary.IndexReport{}

		old, err := tx.Scan(s.ledger.keys.IndexPrefix())
		if err != nil {
			return apperr.Internal(err, "failed to scan index")
		}
		for _, kv := range old {
			if err := tx.Delete(kv.Key); err != nil {
				return apperr.Internal(err, "failed to drop index key %s", kv.Key)
			}
		}
		report.Removed = len(old)

		want, records, skipped, err := s.expected(ctx, tx)
		if err != nil {
			return err
		}
		for k, v := range want {
			if err := tx.Put(k, v); err != nil {
				return apperr.Internal(err, "failed to write index key %s", k)
			}
		}
		report.Records = records
		report.Skipped = skipped
		report.Written = len(want)
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to rebuild indexes")
	}
	return report, nil
}

// CheckIndexes reports index keys that should exist but do not (or hold the
// wrong receipt) as Missing, and keys with no backing record as Stale.
func (s *IndexServiceImpl) CheckIndexes(ctx context.Context) (report *primary.IndexReport, err error) {
	defer s.ledger.track(ctx, primary.OpCheckIndexes, "")(&err)

	err = s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		want, records, skipped, err := s.expected(ctx, tx)
		if err != nil {
			return err
		}
		stored, err := tx.Scan(s.ledger.keys.IndexPrefix())
		if err != nil {
			return apperr.Internal(err, "failed to scan index")
		}

		report = &primary.IndexReport{Records: records, Skipped: skipped}
		have := make(map[string][]byte, len(stored))
		for _, kv := range stored {
			have[kv.Key] = kv.Value
			if _, ok := want[kv.Key]; !ok {
				report.Stale = append(report.Stale, kv.Key)
			}
		}
		for k, v := range want {
			if got, ok := have[k]; !ok || !bytes.Equal(got, v) {
				report.Missing = append(report.Missing, k)
			}
		}
		sort.Strings(report.Missing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *IndexServiceImpl) expected(ctx context.Context, tx secondary.ReadTxn) (map[string][]byte, int, int, error) {
	records, skipped, err := s.ledger.scanRecords(ctx, tx)
	if err != nil {
		return nil, 0, 0, err
	}
	want := make(map[string][]byte)
	for _, r := range records {
		for k, v := range s.ledger.keys.IndexEntries(r) {
			want[k] = v
		}
	}
	return want, len(records), skipped, nil
}

// Ensure IndexServiceImpl implements the interface
var _ primary.IndexService = (*IndexServiceImpl)(nil)
