// Package certificate contains the rules for issuing and verifying the
// terminal ownership certificate (patta).
// This is part of the Functional Core - no I/O, only pure functions.
package certificate

import (
	"encoding/json"
	"fmt"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/history"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
	"github.com/example/patta/internal/core/workflow"
)

// Fixed values written by issuance.
const (
	DefaultIssuingAuthority = "Government of Telangana"
	StatusActive            = "active"
	ActionIssued            = "patta_issued"
	systemActor             = "system"
)

// Input is the caller-supplied certificate data. Empty fields are defaulted
// from the record or from Options.
type Input struct {
	CertificateNumber string `json:"certificateNumber"`
	IssuedDate        string `json:"issuedDate"`
	IssuedBy          string `json:"issuedBy"`
	OwnerName         string `json:"ownerName"`
	SurveyNumber      string `json:"surveyNumber"`
	Area              string `json:"area"`
	Address           string `json:"address"`
	QRCode            string `json:"qrCode"`
	IPFSHash          string `json:"ipfsHash"`
}

// Parse validates and decodes certificate data.
func Parse(v *record.Validator, raw []byte) (Input, error) {
	if err := v.Check(record.SchemaCertificate, raw); err != nil {
		return Input{}, err
	}
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return Input{}, apperr.InvalidInput(err, "invalid certificate data JSON")
	}
	return in, nil
}

// Options carries deployment-level issuance settings.
type Options struct {
	IssuingAuthority string
	AllowReissue     bool
}

// IssueContext provides context for the issuance guard.
type IssueContext struct {
	ReceiptNumber       string
	ExistingCertificate string
	AllowReissue        bool
}

// CanIssue evaluates whether a certificate may be attached.
// Rules:
// - A record already holding a certificate cannot be issued another
// - Unless re-issuance is enabled
func CanIssue(ctx IssueContext) workflow.GuardResult {
	if ctx.ExistingCertificate != "" && !ctx.AllowReissue {
		return workflow.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("land request %s already holds patta certificate %s", ctx.ReceiptNumber, ctx.ExistingCertificate),
		}
	}
	return workflow.GuardResult{Allowed: true}
}

// Build produces the certificate for r, filling gaps in in from the record.
func Build(r *record.LandRecord, in Input, opts Options, now string) record.CertificateRecord {
	authority := opts.IssuingAuthority
	if authority == "" {
		authority = DefaultIssuingAuthority
	}
	return record.CertificateRecord{
		CertificateNumber: in.CertificateNumber,
		IssuedDate:        orDefault(in.IssuedDate, now),
		IssuedBy:          orDefault(in.IssuedBy, authority),
		OwnerName:         orDefault(in.OwnerName, r.DisplayOwner()),
		SurveyNumber:      orDefault(in.SurveyNumber, r.SurveyNumber),
		Area:              orDefault(in.Area, r.Area),
		Address:           orDefault(in.Address, r.Address),
		QRCode:            in.QRCode,
		IPFSHash:          in.IPFSHash,
		Status:            StatusActive,
		IssuedAt:          now,
	}
}

// Apply attaches cert to r, forces the terminal status and appends the
// PATTA- ided issuance entry. issuedBy is the caller-supplied issuer, recorded
// as the acting user ("system" when empty).
func Apply(r *record.LandRecord, cert record.CertificateRecord, issuedBy string, now string, gen txnid.Generator) record.HistoryEntry {
	r.PattaCertificate = &cert
	r.Status = workflow.StatusAfterIssuance
	r.PattaIssued = true
	r.PattaIssuedDate = now
	r.LastUpdated = now

	entry := record.HistoryEntry{
		Timestamp: now,
		FromUser:  orDefault(issuedBy, systemActor),
		ToUser:    record.StatusCompleted,
		Action:    ActionIssued,
		Remarks:   fmt.Sprintf("Patta certificate %s issued", cert.CertificateNumber),
		PattaID:   r.ReceiptNumber,
		TxnID:     gen.New(txnid.PrefixIssuance),
	}
	history.Append(r, entry)
	return entry
}

// Summary projects the identifying fields of the record owning a certificate.
type Summary struct {
	ReceiptNumber string `json:"receiptNumber"`
	OwnerName     string `json:"ownerName"`
	SurveyNumber  string `json:"surveyNumber"`
	Status        string `json:"status"`
}

// Verification is the result of looking up a certificate number.
type Verification struct {
	Verified    bool                      `json:"verified"`
	Certificate *record.CertificateRecord `json:"certificate,omitempty"`
	LandRequest *Summary                  `json:"landRequest,omitempty"`
	Message     string                    `json:"message"`
}

// Matches reports whether r holds the certificate numbered certificateNumber.
func Matches(r *record.LandRecord, certificateNumber string) bool {
	return r.PattaCertificate != nil && r.PattaCertificate.CertificateNumber == certificateNumber
}

// Verified builds the positive result for r.
func Verified(r *record.LandRecord) Verification {
	cert := *r.PattaCertificate
	return Verification{
		Verified:    true,
		Certificate: &cert,
		LandRequest: &Summary{
			ReceiptNumber: r.ReceiptNumber,
			OwnerName:     r.DisplayOwner(),
			SurveyNumber:  r.SurveyNumber,
			Status:        r.Status,
		},
		Message: fmt.Sprintf("Patta certificate %s verified successfully", cert.CertificateNumber),
	}
}

// NotVerified builds the negative result for an unknown certificate number.
func NotVerified(certificateNumber string) Verification {
	return Verification{
		Verified: false,
		Message:  fmt.Sprintf("Patta certificate %s not found", certificateNumber),
	}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
