package app

import (
	"context"
	"errors"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// QueryServiceImpl implements the QueryService interface.
//
// Results are best-effort over possibly dirty data: a stored value that does
// not decode is reported to the observer and left out. On stores without
// snapshot reads a scan may mix values from before and after a concurrent
// write to other keys.
type QueryServiceImpl struct {
	ledger     *Ledger
	useIndexes bool
}

// NewQueryService creates a new QueryService with injected dependencies.
func NewQueryService(ledger *Ledger, opts Options) *QueryServiceImpl {
	return &QueryServiceImpl{ledger: ledger, useIndexes: opts.UseIndexes}
}

// ListAll returns every decodable record in key order.
func (s *QueryServiceImpl) ListAll(ctx context.Context) (out []*primary.LandRecord, err error) {
	defer s.ledger.track(ctx, primary.OpListAll, "")(&err)

	err = s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		records, _, err := s.ledger.scanRecords(ctx, tx)
		out = records
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStatus returns records whose status equals status.
func (s *QueryServiceImpl) ListByStatus(ctx context.Context, status string) (out []*primary.LandRecord, err error) {
	defer s.ledger.track(ctx, primary.OpListByStatus, status)(&err)

	match := func(r *record.LandRecord) bool { return r.Status == status }
	return s.list(ctx, s.ledger.keys.StatusPrefix(status), match)
}

// ListByCustodian returns records currently with custodian.
func (s *QueryServiceImpl) ListByCustodian(ctx context.Context, custodian string) (out []*primary.LandRecord, err error) {
	defer s.ledger.track(ctx, primary.OpListByCustodian, custodian)(&err)

	match := func(r *record.LandRecord) bool { return r.CurrentlyWith == custodian }
	return s.list(ctx, s.ledger.keys.CustodianPrefix(custodian), match)
}

// list serves a filter from the index under indexPrefix, or from a full scan.
// An empty index prefix also falls back to a scan, so records written without
// index entries are still found. The predicate is applied on both paths so a
// stale index entry never leaks.
func (s *QueryServiceImpl) list(ctx context.Context, indexPrefix string, match func(*record.LandRecord) bool) ([]*record.LandRecord, error) {
	out := []*record.LandRecord{}
	err := s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		var candidates []*record.LandRecord
		var err error
		scan := !s.useIndexes
		if s.useIndexes {
			var hits int
			candidates, hits, err = s.fromIndex(ctx, tx, indexPrefix)
			scan = err == nil && hits == 0
		}
		if scan {
			candidates, _, err = s.ledger.scanRecords(ctx, tx)
		}
		if err != nil {
			return err
		}
		for _, r := range candidates {
			if match(r) {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fromIndex loads the records named under prefix and reports how many index
// entries it saw.
func (s *QueryServiceImpl) fromIndex(ctx context.Context, tx secondary.ReadTxn, prefix string) ([]*record.LandRecord, int, error) {
	hits, err := tx.Scan(prefix)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to scan index")
	}
	out := make([]*record.LandRecord, 0, len(hits))
	for _, hit := range hits {
		receipt, ok := s.ledger.keys.ReceiptFromKey(hit.Key)
		if !ok {
			continue
		}
		key := s.ledger.keys.Record(receipt)
		data, err := tx.Get(key)
		if errors.Is(err, secondary.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, apperr.Internal(err, "failed to read land request %s", receipt)
		}
		r, err := record.Decode(data)
		if err != nil {
			s.ledger.observer.RecordSkipped(ctx, key, err)
			continue
		}
		out = append(out, r)
	}
	return out, len(hits), nil
}

// Ensure QueryServiceImpl implements the interface
var _ primary.QueryService = (*QueryServiceImpl)(nil)
