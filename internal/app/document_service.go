package app

import (
	"context"
	"fmt"

	"github.com/example/patta/internal/core/document"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// DocumentServiceImpl implements the DocumentService interface.
type DocumentServiceImpl struct {
	ledger *Ledger
}

// NewDocumentService creates a new DocumentService with injected dependencies.
func NewDocumentService(ledger *Ledger) *DocumentServiceImpl {
	return &DocumentServiceImpl{ledger: ledger}
}

// RegisterDocument attaches a document content hash to a record.
func (s *DocumentServiceImpl) RegisterDocument(ctx context.Context, req primary.RegisterDocumentRequest) (res *primary.MutationResult, err error) {
	defer s.ledger.track(ctx, primary.OpRegisterDocument, req.ReceiptNumber)(&err)

	return s.ledger.mutate(ctx, primary.OpRegisterDocument, req.ReceiptNumber, req.IdempotencyKey, func(tx secondary.Txn) (*primary.MutationResult, error) {
		r, err := s.ledger.load(tx, req.ReceiptNumber)
		if err != nil {
			return nil, err
		}

		before := snapshot(r)
		entry := document.Register(r, document.Registration{
			DocumentType: req.DocumentType,
			IPFSHash:     req.IPFSHash,
			UploadedBy:   req.UploadedBy,
			Timestamp:    req.Timestamp,
		}, s.ledger.now(), s.ledger.ids)

		if err := s.ledger.save(tx, before, r); err != nil {
			return nil, err
		}
		return &primary.MutationResult{
			ReceiptNumber: r.ReceiptNumber,
			Message:       fmt.Sprintf("Document hash stored for land request %s", r.ReceiptNumber),
			TxnID:         entry.TxnID,
		}, nil
	})
}

// VerifyDocument checks a (type, hash) pair against the record's documents.
func (s *DocumentServiceImpl) VerifyDocument(ctx context.Context, req primary.VerifyDocumentRequest) (res *primary.DocumentVerification, err error) {
	defer s.ledger.track(ctx, primary.OpVerifyDocument, req.ReceiptNumber)(&err)

	err = s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		r, err := s.ledger.load(tx, req.ReceiptNumber)
		if err != nil {
			return err
		}
		v, err := document.Verify(r, req.DocumentType, req.IPFSHash)
		if err != nil {
			return err
		}
		res = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Ensure DocumentServiceImpl implements the interface
var _ primary.DocumentService = (*DocumentServiceImpl)(nil)
