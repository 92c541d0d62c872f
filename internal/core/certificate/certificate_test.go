package certificate

import (
	"errors"
	"testing"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
)

func TestCanIssue(t *testing.T) {
	tests := []struct {
		name        string
		ctx         IssueContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "no certificate yet",
			ctx:         IssueContext{ReceiptNumber: "RC-1"},
			wantAllowed: true,
		},
		{
			name:        "already issued",
			ctx:         IssueContext{ReceiptNumber: "RC-1", ExistingCertificate: "CERT-1"},
			wantAllowed: false,
			wantReason:  "land request RC-1 already holds patta certificate CERT-1",
		},
		{
			name:        "reissue enabled",
			ctx:         IssueContext{ReceiptNumber: "RC-1", ExistingCertificate: "CERT-1", AllowReissue: true},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanIssue(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestBuild_Defaults(t *testing.T) {
	r := &record.LandRecord{
		ReceiptNumber: "RC-1",
		SurveyNumber:  "SY-12",
		Area:          "2 acres",
		Address:       "Village X",
	}

	cert := Build(r, Input{CertificateNumber: "CERT-9", OwnerName: "Asha"}, Options{}, "NOW")

	if cert.IssuedBy != DefaultIssuingAuthority {
		t.Errorf("IssuedBy = %q, want %q", cert.IssuedBy, DefaultIssuingAuthority)
	}
	if cert.OwnerName != "Asha" || cert.SurveyNumber != "SY-12" || cert.Area != "2 acres" || cert.Address != "Village X" {
		t.Errorf("record fields not carried: %+v", cert)
	}
	if cert.IssuedDate != "NOW" || cert.IssuedAt != "NOW" {
		t.Errorf("dates = %q/%q, want NOW", cert.IssuedDate, cert.IssuedAt)
	}
	if cert.Status != StatusActive {
		t.Errorf("Status = %q, want active", cert.Status)
	}
	if cert.QRCode != "" || cert.IPFSHash != "" {
		t.Errorf("qr/ipfs should default empty: %+v", cert)
	}
}

func TestBuild_ConfiguredAuthorityAndOverrides(t *testing.T) {
	r := &record.LandRecord{ReceiptNumber: "RC-1", OwnerName: "Record Owner", SurveyNumber: "SY-1"}

	cert := Build(r, Input{CertificateNumber: "C", SurveyNumber: "SY-OVERRIDE", IssuedDate: "D"}, Options{IssuingAuthority: "District Office"}, "NOW")

	if cert.IssuedBy != "District Office" {
		t.Errorf("IssuedBy = %q", cert.IssuedBy)
	}
	if cert.OwnerName != "Record Owner" {
		t.Errorf("OwnerName = %q", cert.OwnerName)
	}
	if cert.SurveyNumber != "SY-OVERRIDE" {
		t.Errorf("SurveyNumber = %q", cert.SurveyNumber)
	}
	if cert.IssuedDate != "D" || cert.IssuedAt != "NOW" {
		t.Errorf("IssuedDate = %q, IssuedAt = %q", cert.IssuedDate, cert.IssuedAt)
	}
}

func TestApply(t *testing.T) {
	r := &record.LandRecord{ReceiptNumber: "RC-001", Status: "approved", History: []record.HistoryEntry{}}
	cert := record.CertificateRecord{CertificateNumber: "CERT-9", Status: StatusActive}

	entry := Apply(r, cert, "", "NOW", txnid.NewSequenceGenerator())

	if r.Status != record.StatusCompleted {
		t.Errorf("Status = %q, want completed", r.Status)
	}
	if !r.PattaIssued || r.PattaIssuedDate != "NOW" {
		t.Errorf("patta_issued=%v date=%q", r.PattaIssued, r.PattaIssuedDate)
	}
	if r.PattaCertificate == nil || r.PattaCertificate.CertificateNumber != "CERT-9" {
		t.Fatalf("certificate not attached: %+v", r.PattaCertificate)
	}
	if entry.TxnID != "PATTA-000000000001" {
		t.Errorf("TxnID = %q", entry.TxnID)
	}
	if entry.FromUser != "system" || entry.ToUser != "completed" || entry.Action != ActionIssued {
		t.Errorf("entry = %+v", entry)
	}
	if entry.PattaID != "RC-001" {
		t.Errorf("PattaID = %q, want RC-001", entry.PattaID)
	}
	if entry.Remarks != "Patta certificate CERT-9 issued" {
		t.Errorf("Remarks = %q", entry.Remarks)
	}
	if len(r.History) != 1 {
		t.Errorf("len(History) = %d", len(r.History))
	}
}

func TestVerification(t *testing.T) {
	r := &record.LandRecord{
		ReceiptNumber:    "RC-001",
		Status:           "completed",
		SurveyNumber:     "SY-1",
		PattaCertificate: &record.CertificateRecord{CertificateNumber: "CERT-9"},
	}

	if !Matches(r, "CERT-9") || Matches(r, "CERT-1") {
		t.Error("Matches gave wrong answer")
	}
	if Matches(&record.LandRecord{}, "CERT-9") {
		t.Error("record without certificate matched")
	}

	res := Verified(r)
	if !res.Verified || res.LandRequest.ReceiptNumber != "RC-001" || res.Certificate.CertificateNumber != "CERT-9" {
		t.Errorf("Verified = %+v", res)
	}
	if res.Message != "Patta certificate CERT-9 verified successfully" {
		t.Errorf("Message = %q", res.Message)
	}

	miss := NotVerified("CERT-UNKNOWN")
	if miss.Verified || miss.Message != "Patta certificate CERT-UNKNOWN not found" {
		t.Errorf("NotVerified = %+v", miss)
	}
}

func TestBuild_FullNameFallback(t *testing.T) {
	r, err := record.Decode([]byte(`{"receiptNumber":"RC-2","fullName":"Ravi Kumar"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	cert := Build(r, Input{CertificateNumber: "C"}, Options{}, "NOW")
	if cert.OwnerName != "Ravi Kumar" {
		t.Errorf("OwnerName = %q, want Ravi Kumar", cert.OwnerName)
	}
}

func TestParse(t *testing.T) {
	v := record.MustValidator()

	in, err := Parse(v, []byte(`{"certificateNumber":"CERT-9","issuedBy":"MRO"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if in.CertificateNumber != "CERT-9" || in.IssuedBy != "MRO" {
		t.Errorf("in = %+v", in)
	}

	for _, raw := range []string{`{`, `{"ownerName":"x"}`, `{"certificateNumber":42}`} {
		if _, err := Parse(v, []byte(raw)); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("Parse(%s) err = %v, want InvalidInput", raw, err)
		}
	}
}
