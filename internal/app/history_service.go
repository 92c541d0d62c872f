package app

import (
	"context"
	"fmt"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/history"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	ledger    *Ledger
	validator *record.Validator
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(ledger *Ledger, validator *record.Validator) *HistoryServiceImpl {
	return &HistoryServiceImpl{ledger: ledger, validator: validator}
}

// AppendAction adds a caller-described action to the record's history.
func (s *HistoryServiceImpl) AppendAction(ctx context.Context, req primary.AppendActionRequest) (res *primary.MutationResult, err error) {
	defer s.ledger.track(ctx, primary.OpAppendAction, req.ReceiptNumber)(&err)

	return s.ledger.mutate(ctx, primary.OpAppendAction, req.ReceiptNumber, req.IdempotencyKey, func(tx secondary.Txn) (*primary.MutationResult, error) {
		r, err := s.ledger.load(tx, req.ReceiptNumber)
		if err != nil {
			return nil, err
		}
		in, err := history.ParseAction(s.validator, req.Payload)
		if err != nil {
			return nil, err
		}
		if in.TxnID != "" && history.HasTxnID(r, in.TxnID) {
			return nil, apperr.InvalidInput(nil, "txn_id %s already exists on land request %s", in.TxnID, r.ReceiptNumber)
		}

		before := snapshot(r)
		now := s.ledger.now()
		entry := history.BuildActionEntry(in, now, s.ledger.ids)
		history.Append(r, entry)
		r.LastUpdated = now

		if err := s.ledger.save(tx, before, r); err != nil {
			return nil, err
		}
		return &primary.MutationResult{
			ReceiptNumber: r.ReceiptNumber,
			Message:       fmt.Sprintf("Action added to history for land request %s", r.ReceiptNumber),
			TxnID:         entry.TxnID,
		}, nil
	})
}

// GetHistory returns the ordered history of a record.
func (s *HistoryServiceImpl) GetHistory(ctx context.Context, receiptNumber string) (res *primary.HistoryResult, err error) {
	defer s.ledger.track(ctx, primary.OpGetHistory, receiptNumber)(&err)

	err = s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		r, err := s.ledger.load(tx, receiptNumber)
		if err != nil {
			return err
		}
		h := history.Of(r)
		res = &h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Ensure HistoryServiceImpl implements the interface
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
