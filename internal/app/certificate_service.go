package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/certificate"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// CertificateServiceImpl implements the CertificateService interface.
type CertificateServiceImpl struct {
	ledger     *Ledger
	validator  *record.Validator
	opts       certificate.Options
	useIndexes bool
}

// NewCertificateService creates a new CertificateService with injected dependencies.
func NewCertificateService(ledger *Ledger, validator *record.Validator, opts Options) *CertificateServiceImpl {
	return &CertificateServiceImpl{
		ledger:     ledger,
		validator:  validator,
		opts:       opts.Certificates,
		useIndexes: opts.UseIndexes,
	}
}

// IssueCertificate attaches a patta certificate and completes the record.
func (s *CertificateServiceImpl) IssueCertificate(ctx context.Context, req primary.IssueCertificateRequest) (res *primary.MutationResult, err error) {
	defer s.ledger.track(ctx, primary.OpIssueCertificate, req.ReceiptNumber)(&err)

	return s.ledger.mutate(ctx, primary.OpIssueCertificate, req.ReceiptNumber, req.IdempotencyKey, func(tx secondary.Txn) (*primary.MutationResult, error) {
		r, err := s.ledger.load(tx, req.ReceiptNumber)
		if err != nil {
			return nil, err
		}
		in, err := certificate.Parse(s.validator, req.Payload)
		if err != nil {
			return nil, err
		}

		existing := ""
		if r.PattaCertificate != nil {
			existing = r.PattaCertificate.CertificateNumber
		}
		guard := certificate.CanIssue(certificate.IssueContext{
			ReceiptNumber:       r.ReceiptNumber,
			ExistingCertificate: existing,
			AllowReissue:        s.opts.AllowReissue,
		})
		if !guard.Allowed {
			return nil, apperr.AlreadyIssued("%s", guard.Reason)
		}

		owner, err := tx.Get(s.ledger.keys.CertificateIndex(in.CertificateNumber))
		switch {
		case err == nil && string(owner) != r.ReceiptNumber:
			return nil, apperr.AlreadyExists("Patta certificate %s already belongs to land request %s", in.CertificateNumber, owner)
		case err != nil && !errors.Is(err, secondary.ErrKeyNotFound):
			return nil, apperr.Internal(err, "failed to check certificate %s", in.CertificateNumber)
		}

		before := snapshot(r)
		now := s.ledger.now()
		cert := certificate.Build(r, in, s.opts, now)
		entry := certificate.Apply(r, cert, in.IssuedBy, now, s.ledger.ids)

		if err := s.ledger.save(tx, before, r); err != nil {
			return nil, err
		}
		return &primary.MutationResult{
			ReceiptNumber: r.ReceiptNumber,
			Message:       fmt.Sprintf("Patta certificate %s issued for land request %s", cert.CertificateNumber, r.ReceiptNumber),
			TxnID:         entry.TxnID,
		}, nil
	})
}

// VerifyCertificate finds the record holding certificateNumber. An unknown
// number yields a negative result. With indexes on, a number missing from the
// certificate index is looked up by scanning.
func (s *CertificateServiceImpl) VerifyCertificate(ctx context.Context, certificateNumber string) (res *primary.CertificateVerification, err error) {
	defer s.ledger.track(ctx, primary.OpVerifyCertificate, certificateNumber)(&err)

	err = s.ledger.view(ctx, func(tx secondary.ReadTxn) error {
		var holder *record.LandRecord
		var findErr error
		if s.useIndexes {
			holder, findErr = s.findIndexed(ctx, tx, certificateNumber)
		} else {
			holder, findErr = s.findScanned(ctx, tx, certificateNumber)
		}
		if findErr != nil {
			return findErr
		}

		v := certificate.NotVerified(certificateNumber)
		if holder != nil {
			v = certificate.Verified(holder)
		}
		res = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *CertificateServiceImpl) findIndexed(ctx context.Context, tx secondary.ReadTxn, certificateNumber string) (*record.LandRecord, error) {
	receipt, err := tx.Get(s.ledger.keys.CertificateIndex(certificateNumber))
	if errors.Is(err, secondary.ErrKeyNotFound) {
		return s.findScanned(ctx, tx, certificateNumber)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to read certificate index")
	}

	key := s.ledger.keys.Record(string(receipt))
	data, err := tx.Get(key)
	if errors.Is(err, secondary.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to read land request %s", receipt)
	}
	r, err := record.Decode(data)
	if err != nil {
		s.ledger.observer.RecordSkipped(ctx, key, err)
		return nil, nil
	}
	if !certificate.Matches(r, certificateNumber) {
		return nil, nil
	}
	return r, nil
}

func (s *CertificateServiceImpl) findScanned(ctx context.Context, tx secondary.ReadTxn, certificateNumber string) (*record.LandRecord, error) {
	records, _, err := s.ledger.scanRecords(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if certificate.Matches(r, certificateNumber) {
			return r, nil
		}
	}
	return nil, nil
}

// Ensure CertificateServiceImpl implements the interface
var _ primary.CertificateService = (*CertificateServiceImpl)(nil)
