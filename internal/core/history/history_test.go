package history

import (
	"errors"
	"testing"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
)

func TestEnsureIDs(t *testing.T) {
	gen := txnid.NewSequenceGenerator()
	r := &record.LandRecord{
		History: []record.HistoryEntry{
			{Action: "submitted"},
			{Action: "forwarded", TxnID: "HIST-KEEPME"},
		},
		Documents: []record.DocumentEntry{
			{DocumentType: "sale_deed"},
		},
	}

	if filled := EnsureIDs(r, gen); filled != 2 {
		t.Errorf("filled = %d, want 2", filled)
	}
	if r.History[0].TxnID != "HIST-000000000001" {
		t.Errorf("History[0].TxnID = %q", r.History[0].TxnID)
	}
	if r.History[1].TxnID != "HIST-KEEPME" {
		t.Errorf("existing id was rewritten: %q", r.History[1].TxnID)
	}
	if !txnid.HasPrefix(r.Documents[0].TxnID, txnid.PrefixDocument) {
		t.Errorf("document id %q lacks DOC- prefix", r.Documents[0].TxnID)
	}

	if filled := EnsureIDs(r, gen); filled != 0 {
		t.Errorf("second pass filled %d, want 0 (idempotent)", filled)
	}
}

func TestBuildActionEntry(t *testing.T) {
	tests := []struct {
		name     string
		in       ActionInput
		wantFrom string
		wantTo   string
		wantTS   string
		wantTxn  string
	}{
		{
			name:     "camelCase users",
			in:       ActionInput{FromUser: "clerk-1", ToUser: "vro-1", Action: "forwarded"},
			wantFrom: "clerk-1",
			wantTo:   "vro-1",
			wantTS:   "NOW",
			wantTxn:  "HIST-000000000001",
		},
		{
			name:     "snake_case users",
			in:       ActionInput{FromUserSnake: "vro-1", ToUserSnake: "mro-1", Timestamp: "T1"},
			wantFrom: "vro-1",
			wantTo:   "mro-1",
			wantTS:   "T1",
			wantTxn:  "HIST-000000000001",
		},
		{
			name:     "missing from user defaults to unknown",
			in:       ActionInput{Action: "data_added", TxnID: "HIST-CALLER"},
			wantFrom: DefaultFromUser,
			wantTS:   "NOW",
			wantTxn:  "HIST-CALLER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := BuildActionEntry(tt.in, "NOW", txnid.NewSequenceGenerator())
			if entry.FromUser != tt.wantFrom {
				t.Errorf("FromUser = %q, want %q", entry.FromUser, tt.wantFrom)
			}
			if entry.ToUser != tt.wantTo {
				t.Errorf("ToUser = %q, want %q", entry.ToUser, tt.wantTo)
			}
			if entry.Timestamp != tt.wantTS {
				t.Errorf("Timestamp = %q, want %q", entry.Timestamp, tt.wantTS)
			}
			if entry.TxnID != tt.wantTxn {
				t.Errorf("TxnID = %q, want %q", entry.TxnID, tt.wantTxn)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	v := record.MustValidator()

	in, err := ParseAction(v, []byte(`{"action":"inspected","from_user":"surveyor-2","remarks":"site visit"}`))
	if err != nil {
		t.Fatalf("ParseAction failed: %v", err)
	}
	if in.Action != "inspected" || in.FromUserSnake != "surveyor-2" {
		t.Errorf("unexpected input: %+v", in)
	}

	if _, err := ParseAction(v, []byte(`not json`)); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want InvalidInput", err)
	}
}

func TestOf_CopiesTrail(t *testing.T) {
	r := &record.LandRecord{
		ReceiptNumber: "RC-1",
		History:       []record.HistoryEntry{{Action: "a", TxnID: "HIST-1"}},
	}
	res := Of(r)
	res.History[0].Action = "mutated"

	if r.History[0].Action != "a" {
		t.Error("Of() result aliases the record's history")
	}
	if res.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d", res.TotalEntries)
	}
}

func TestHasTxnID(t *testing.T) {
	r := &record.LandRecord{
		History:   []record.HistoryEntry{{Action: "x", TxnID: "HIST-A"}, {Action: "legacy"}},
		Documents: []record.DocumentEntry{{DocumentType: "deed", TxnID: "DOC-B"}},
	}
	tests := []struct {
		id   string
		want bool
	}{
		{"HIST-A", true},
		{"DOC-B", true},
		{"HIST-C", false},
	}
	for _, tt := range tests {
		if got := HasTxnID(r, tt.id); got != tt.want {
			t.Errorf("HasTxnID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
