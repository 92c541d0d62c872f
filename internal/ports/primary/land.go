package primary

import (
	"context"

	"github.com/example/patta/internal/core/certificate"
	"github.com/example/patta/internal/core/document"
	"github.com/example/patta/internal/core/history"
	"github.com/example/patta/internal/core/record"
)

// Operation names, shared by the dispatcher, transports and observers.
const (
	OpCreateRecord      = "CreateRecord"
	OpReadRecord        = "ReadRecord"
	OpAdvanceStatus     = "AdvanceStatus"
	OpAppendAction      = "AppendAction"
	OpGetHistory        = "GetHistory"
	OpRegisterDocument  = "RegisterDocument"
	OpVerifyDocument    = "VerifyDocument"
	OpIssueCertificate  = "IssueCertificate"
	OpVerifyCertificate = "VerifyCertificate"
	OpListAll           = "ListAll"
	OpListByStatus      = "ListByStatus"
	OpListByCustodian   = "ListByCustodian"
	OpRebuildIndexes    = "RebuildIndexes"
	OpCheckIndexes      = "CheckIndexes"
)

// Result shapes are the core's own, exposed at the port boundary.
type (
	LandRecord              = record.LandRecord
	HistoryResult           = history.Result
	DocumentVerification    = document.Verification
	CertificateVerification = certificate.Verification
)

// RecordService defines the primary port for land record creation and lookup.
type RecordService interface {
	// CreateRecord stores a new land record under its receipt number.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*MutationResult, error)

	// ReadRecord retrieves the full land record.
	ReadRecord(ctx context.Context, receiptNumber string) (*LandRecord, error)
}

// WorkflowService defines the primary port for status and custody changes.
type WorkflowService interface {
	// AdvanceStatus moves a record to a new status and custodian.
	AdvanceStatus(ctx context.Context, req AdvanceStatusRequest) (*MutationResult, error)
}

// HistoryService defines the primary port for the audit trail.
type HistoryService interface {
	// AppendAction adds a free-form action to a record's history.
	AppendAction(ctx context.Context, req AppendActionRequest) (*MutationResult, error)

	// GetHistory returns a record's ordered history.
	GetHistory(ctx context.Context, receiptNumber string) (*HistoryResult, error)
}

// DocumentService defines the primary port for document hashes.
type DocumentService interface {
	// RegisterDocument attaches a document hash to a record.
	RegisterDocument(ctx context.Context, req RegisterDocumentRequest) (*MutationResult, error)

	// VerifyDocument checks a (type, hash) pair against a record's documents.
	VerifyDocument(ctx context.Context, req VerifyDocumentRequest) (*DocumentVerification, error)
}

// CertificateService defines the primary port for patta certificates.
type CertificateService interface {
	// IssueCertificate attaches a certificate and completes the record.
	IssueCertificate(ctx context.Context, req IssueCertificateRequest) (*MutationResult, error)

	// VerifyCertificate looks up a certificate by number. An unknown number
	// is a negative result, not an error.
	VerifyCertificate(ctx context.Context, certificateNumber string) (*CertificateVerification, error)
}

// QueryService defines the primary port for read-only filters over all records.
type QueryService interface {
	// ListAll returns every decodable record in key order.
	ListAll(ctx context.Context) ([]*LandRecord, error)

	// ListByStatus returns records whose status equals status.
	ListByStatus(ctx context.Context, status string) ([]*LandRecord, error)

	// ListByCustodian returns records currently with custodian.
	ListByCustodian(ctx context.Context, custodian string) ([]*LandRecord, error)
}

// IndexService defines the primary port for secondary index maintenance.
type IndexService interface {
	// RebuildIndexes drops and recomputes every index entry from the records.
	RebuildIndexes(ctx context.Context) (*IndexReport, error)

	// CheckIndexes compares stored index entries against the records.
	CheckIndexes(ctx context.Context) (*IndexReport, error)
}

// CreateRecordRequest contains parameters for creating a land record.
type CreateRecordRequest struct {
	ReceiptNumber  string
	Payload        []byte // JSON object
	IdempotencyKey string // Optional
}

// AdvanceStatusRequest contains parameters for a status change.
type AdvanceStatusRequest struct {
	ReceiptNumber  string
	NewStatus      string
	AssignedTo     string // Optional
	Remarks        string // Optional
	FromUser       string // Optional, defaults to the context actor then the custodian
	Timestamp      string // Optional
	ActorRole      string // Optional, derived from FromUser when empty
	IdempotencyKey string // Optional
}

// AppendActionRequest contains parameters for a free-form history action.
type AppendActionRequest struct {
	ReceiptNumber  string
	Payload        []byte // JSON object
	IdempotencyKey string // Optional
}

// RegisterDocumentRequest contains parameters for attaching a document hash.
type RegisterDocumentRequest struct {
	ReceiptNumber  string
	DocumentType   string
	IPFSHash       string
	UploadedBy     string
	Timestamp      string // Optional
	IdempotencyKey string // Optional
}

// VerifyDocumentRequest contains parameters for a document check.
type VerifyDocumentRequest struct {
	ReceiptNumber string
	DocumentType  string
	IPFSHash      string
}

// IssueCertificateRequest contains parameters for certificate issuance.
type IssueCertificateRequest struct {
	ReceiptNumber  string
	Payload        []byte // JSON object, certificateNumber required
	IdempotencyKey string // Optional
}

// MutationResult is returned by every operation that writes a record.
type MutationResult struct {
	ReceiptNumber string `json:"receiptNumber"`
	Message       string `json:"message"`
	TxnID         string `json:"txnId,omitempty"`
	Replayed      bool   `json:"replayed,omitempty"`
}

// IndexReport summarizes an index rebuild or check.
type IndexReport struct {
	Records int      `json:"records"`
	Skipped int      `json:"skipped"`
	Written int      `json:"written,omitempty"`
	Removed int      `json:"removed,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Stale   []string `json:"stale,omitempty"`
}

// Consistent reports whether a check found no missing or stale entries.
func (r *IndexReport) Consistent() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0
}
