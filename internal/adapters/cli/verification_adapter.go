package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/patta/internal/ports/primary"
)

// VerificationAdapter translates CLI operations to the document, certificate
// and index services.
type VerificationAdapter struct {
	documents    primary.DocumentService
	certificates primary.CertificateService
	indexes      primary.IndexService
	out          io.Writer
}

// NewVerificationAdapter creates a new VerificationAdapter.
func NewVerificationAdapter(documents primary.DocumentService, certificates primary.CertificateService, indexes primary.IndexService, out io.Writer) *VerificationAdapter {
	return &VerificationAdapter{
		documents:    documents,
		certificates: certificates,
		indexes:      indexes,
		out:          out,
	}
}

// RegisterDocument attaches a document hash to a record.
func (a *VerificationAdapter) RegisterDocument(ctx context.Context, req primary.RegisterDocumentRequest) (*primary.MutationResult, error) {
	res, err := a.documents.RegisterDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	printMutation(a.out, res)
	return res, nil
}

// VerifyDocument prints whether the (type, hash) pair is on file.
func (a *VerificationAdapter) VerifyDocument(ctx context.Context, req primary.VerifyDocumentRequest) (*primary.DocumentVerification, error) {
	v, err := a.documents.VerifyDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	printVerdict(a.out, v.Verified, v.Message)
	if v.Document != nil {
		fmt.Fprintf(a.out, "  txn:         %s\n", v.Document.TxnID)
		fmt.Fprintf(a.out, "  uploaded by: %s\n", orDash(v.Document.UploadedBy))
		fmt.Fprintf(a.out, "  at:          %s\n", v.Document.Timestamp)
	}
	return v, nil
}

// IssueCertificate issues a patta certificate for a record.
func (a *VerificationAdapter) IssueCertificate(ctx context.Context, req primary.IssueCertificateRequest) (*primary.MutationResult, error) {
	res, err := a.certificates.IssueCertificate(ctx, req)
	if err != nil {
		return nil, err
	}
	printMutation(a.out, res)
	return res, nil
}

// VerifyCertificate prints the certificate and its record when found.
func (a *VerificationAdapter) VerifyCertificate(ctx context.Context, certificateNumber string) (*primary.CertificateVerification, error) {
	v, err := a.certificates.VerifyCertificate(ctx, certificateNumber)
	if err != nil {
		return nil, err
	}
	printVerdict(a.out, v.Verified, v.Message)
	if v.Certificate != nil && v.LandRequest != nil {
		fmt.Fprintf(a.out, "  receipt:   %s\n", v.LandRequest.ReceiptNumber)
		fmt.Fprintf(a.out, "  owner:     %s\n", orDash(v.Certificate.OwnerName))
		fmt.Fprintf(a.out, "  survey:    %s\n", orDash(v.Certificate.SurveyNumber))
		fmt.Fprintf(a.out, "  issued by: %s on %s\n", v.Certificate.IssuedBy, v.Certificate.IssuedDate)
		fmt.Fprintf(a.out, "  status:    %s\n", v.Certificate.Status)
	}
	return v, nil
}

// RebuildIndexes recomputes all index entries.
func (a *VerificationAdapter) RebuildIndexes(ctx context.Context) (*primary.IndexReport, error) {
	report, err := a.indexes.RebuildIndexes(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "%s Rebuilt indexes over %d records\n", color.New(color.FgGreen).Sprint("✓"), report.Records)
	fmt.Fprintf(a.out, "  removed: %d, written: %d\n", report.Removed, report.Written)
	if report.Skipped > 0 {
		fmt.Fprintf(a.out, "  %s %d undecodable records skipped\n", color.New(color.FgYellow).Sprint("!"), report.Skipped)
	}
	return report, nil
}

// CheckIndexes reports missing and stale index entries.
func (a *VerificationAdapter) CheckIndexes(ctx context.Context) (*primary.IndexReport, error) {
	report, err := a.indexes.CheckIndexes(ctx)
	if err != nil {
		return nil, err
	}
	if report.Consistent() {
		fmt.Fprintf(a.out, "%s Indexes consistent (%d records)\n", color.New(color.FgGreen).Sprint("✓"), report.Records)
		return report, nil
	}

	fmt.Fprintf(a.out, "%s Indexes inconsistent (%d records)\n", color.New(color.FgRed).Sprint("✗"), report.Records)
	for _, key := range report.Missing {
		fmt.Fprintf(a.out, "  missing: %s\n", key)
	}
	for _, key := range report.Stale {
		fmt.Fprintf(a.out, "  stale:   %s\n", key)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Run: patta index rebuild")
	return report, nil
}

func printVerdict(out io.Writer, verified bool, message string) {
	if verified {
		fmt.Fprintf(out, "%s %s\n", color.New(color.FgGreen).Sprint("VERIFIED"), message)
		return
	}
	fmt.Fprintf(out, "%s %s\n", color.New(color.FgRed).Sprint("NOT VERIFIED"), message)
}
