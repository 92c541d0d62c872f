package record

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/patta/internal/apperr"
)

var fixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNormalize_Defaults(t *testing.T) {
	r := &LandRecord{OwnerName: "Asha"}
	Normalize(r, "RC-001", fixedTime)

	if r.ReceiptNumber != "RC-001" {
		t.Errorf("ReceiptNumber = %q", r.ReceiptNumber)
	}
	if r.Status != StatusCreated {
		t.Errorf("Status = %q, want %q", r.Status, StatusCreated)
	}
	if r.CurrentlyWith != "" {
		t.Errorf("CurrentlyWith = %q, want empty", r.CurrentlyWith)
	}
	if r.History == nil || len(r.History) != 0 {
		t.Errorf("History = %v, want empty slice", r.History)
	}
	if r.CreatedAt != "2024-01-01T00:00:00.000Z" {
		t.Errorf("CreatedAt = %q", r.CreatedAt)
	}
}

func TestNormalize_KeepsSuppliedStatus(t *testing.T) {
	r := &LandRecord{Status: "with_clerk", CurrentlyWith: "clerk-1"}
	Normalize(r, "RC-002", fixedTime)

	if r.Status != "with_clerk" || r.CurrentlyWith != "clerk-1" {
		t.Errorf("got status=%q currentlyWith=%q", r.Status, r.CurrentlyWith)
	}
}

func TestLandRecord_AttributesRoundTrip(t *testing.T) {
	raw := `{"receiptNumber":"RC-1","status":"created","currentlyWith":"","ownerName":"Asha",` +
		`"history":[],"documents":[],"createdAt":"x","pincode":"500001","surveyData":{"measuredArea":"2ac"}}`

	var r LandRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if r.OwnerName != "Asha" {
		t.Errorf("OwnerName = %q", r.OwnerName)
	}
	if len(r.Attributes) != 2 {
		t.Fatalf("Attributes = %v, want 2 entries", r.Attributes)
	}
	if got := r.StringAttribute("pincode"); got != "500001" {
		t.Errorf("pincode = %q", got)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal of output failed: %v", err)
	}
	if back["pincode"] != "500001" {
		t.Errorf("flattened pincode missing: %s", out)
	}
	if _, ok := back["surveyData"].(map[string]any); !ok {
		t.Errorf("flattened surveyData missing: %s", out)
	}
}

func TestLandRecord_AttributesCannotShadowFixedFields(t *testing.T) {
	r := LandRecord{
		ReceiptNumber: "RC-1",
		Status:        "created",
		Attributes:    map[string]json.RawMessage{"status": json.RawMessage(`"hijacked"`)},
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(out), "hijacked") {
		t.Errorf("attribute shadowed fixed field: %s", out)
	}
}

func TestLandRecord_MarshalEmitsEmptySequences(t *testing.T) {
	out, err := Encode(&LandRecord{ReceiptNumber: "RC-1"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(out), `"history":[]`) || !strings.Contains(string(out), `"documents":[]`) {
		t.Errorf("expected empty sequences, got %s", out)
	}
}

func TestHistoryEntry_LegacyTxnID(t *testing.T) {
	var e HistoryEntry
	if err := json.Unmarshal([]byte(`{"action":"forwarded","txnId":"HIST-LEGACY"}`), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.TxnID != "HIST-LEGACY" {
		t.Errorf("TxnID = %q, want legacy id", e.TxnID)
	}
}

func TestDisplayOwner_FallsBackToFullName(t *testing.T) {
	r := LandRecord{Attributes: map[string]json.RawMessage{"fullName": json.RawMessage(`"Ravi Kumar"`)}}
	if got := r.DisplayOwner(); got != "Ravi Kumar" {
		t.Errorf("DisplayOwner() = %q", got)
	}
}

func TestParseCreatePayload(t *testing.T) {
	v := MustValidator()

	tests := []struct {
		name        string
		raw         string
		wantErr     bool
		wantHistory int
	}{
		{name: "minimal object", raw: `{"ownerName":"Asha"}`},
		{name: "history kept", raw: `{"history":[{"action":"submitted"}]}`, wantHistory: 1},
		{name: "malformed history dropped", raw: `{"history":"oops"}`},
		{name: "history with bad entry dropped", raw: `{"history":[1,2]}`},
		{name: "not json", raw: `{"ownerName":`, wantErr: true},
		{name: "array payload", raw: `[1,2,3]`, wantErr: true},
		{name: "non-string owner", raw: `{"ownerName":42}`, wantErr: true},
		{name: "certificate smuggled in", raw: `{"pattaCertificate":{"certificateNumber":"X"}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := v.ParseCreatePayload([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidInput) {
					t.Fatalf("err = %v, want InvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCreatePayload failed: %v", err)
			}
			if len(r.History) != tt.wantHistory {
				t.Errorf("len(History) = %d, want %d", len(r.History), tt.wantHistory)
			}
		})
	}
}

func TestValidator_CertificateRequiresNumber(t *testing.T) {
	v := MustValidator()

	if err := v.Check(SchemaCertificate, []byte(`{"certificateNumber":"CERT-9"}`)); err != nil {
		t.Errorf("valid certificate payload rejected: %v", err)
	}
	if err := v.Check(SchemaCertificate, []byte(`{"ownerName":"Asha"}`)); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want InvalidInput", err)
	}
	if err := v.Check(SchemaCertificate, []byte(`{"certificateNumber":""}`)); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want InvalidInput for empty number", err)
	}
}
