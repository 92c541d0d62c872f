package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// RecordServiceImpl implements the RecordService interface.
type RecordServiceImpl struct {
	ledger    *Ledger
	validator *record.Validator
}

// NewRecordService creates a new RecordService with injected dependencies.
func NewRecordService(ledger *Ledger, validator *record.Validator) *RecordServiceImpl {
	return &RecordServiceImpl{ledger: ledger, validator: validator}
}

// CreateRecord stores a new land record. The receipt number must be unused.
func (s *RecordServiceImpl) CreateRecord(ctx context.Context, req primary.CreateRecordRequest) (res *primary.MutationResult, err error) {
	defer s.ledger.track(ctx, primary.OpCreateRecord, req.ReceiptNumber)(&err)

	if req.ReceiptNumber == "" {
		return nil, apperr.InvalidInput(nil, "receipt number is required")
	}

	return s.ledger.mutate(ctx, primary.OpCreateRecord, req.ReceiptNumber, req.IdempotencyKey, func(tx secondary.Txn) (*primary.MutationResult, error) {
		key := s.ledger.keys.Record(req.ReceiptNumber)
		_, err := tx.Get(key)
		switch {
		case err == nil:
			return nil, apperr.AlreadyExists("Land request %s already exists", req.ReceiptNumber)
		case !errors.Is(err, secondary.ErrKeyNotFound):
			return nil, apperr.Internal(err, "failed to check land request %s", req.ReceiptNumber)
		}

		r, err := s.validator.ParseCreatePayload(req.Payload)
		if err != nil {
			return nil, err
		}
		record.Normalize(r, req.ReceiptNumber, s.ledger.clock.Now())

		if err := s.ledger.save(tx, nil, r); err != nil {
			return nil, err
		}
		return &primary.MutationResult{
			ReceiptNumber: req.ReceiptNumber,
			Message:       fmt.Sprintf("Land request %s created successfully", req.ReceiptNumber),
		}, nil
	})
}

// ReadRecord retrieves the full land record.
func (s *RecordServiceImpl) ReadRecord(ctx context.Context, receiptNumber string) (r *primary.LandRecord, err error) {
	defer s.ledger.track(ctx, primary.OpReadRecord, receiptNumber)(&err)

	err = s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		var loadErr error
		r, loadErr = s.ledger.load(tx, receiptNumber)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Ensure RecordServiceImpl implements the interface
var _ primary.RecordService = (*RecordServiceImpl)(nil)
