// Package record contains the land record model and its normalization rules.
// This is part of the Functional Core - no I/O, only pure functions.
package record

import (
	"encoding/json"
	"time"
)

// Status values the core attaches meaning to. Any other string is a valid
// workflow stage.
const (
	StatusCreated   = "created"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// HistoryEntry is one immutable audit record of an action taken on a land record.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	FromUser  string `json:"from_user"`
	ToUser    string `json:"to_user"`
	Action    string `json:"action"`
	Remarks   string `json:"remarks"`
	PattaID   string `json:"patta_id"`
	TxnID     string `json:"txn_id"`
}

// UnmarshalJSON accepts the legacy camelCase txnId spelling.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	var aux struct {
		plain
		LegacyTxnID string `json:"txnId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = HistoryEntry(aux.plain)
	if e.TxnID == "" {
		e.TxnID = aux.LegacyTxnID
	}
	return nil
}

// DocumentEntry references an uploaded supporting document by content hash.
type DocumentEntry struct {
	DocumentType string `json:"documentType"`
	IPFSHash     string `json:"ipfsHash"`
	UploadedBy   string `json:"uploadedBy"`
	Timestamp    string `json:"timestamp"`
	TxnID        string `json:"txn_id"`
}

// CertificateRecord is the issued ownership certificate (patta).
type CertificateRecord struct {
	CertificateNumber string `json:"certificateNumber"`
	IssuedDate        string `json:"issuedDate"`
	IssuedBy          string `json:"issuedBy"`
	OwnerName         string `json:"ownerName"`
	SurveyNumber      string `json:"surveyNumber"`
	Area              string `json:"area"`
	Address           string `json:"address"`
	QRCode            string `json:"qrCode"`
	IPFSHash          string `json:"ipfsHash"`
	Status            string `json:"status"`
	IssuedAt          string `json:"issuedAt"`
}

// LandRecord is the persisted shape of one case, keyed by ReceiptNumber.
// Attributes holds caller-supplied domain fields outside the fixed set; they
// are stored flattened next to the fixed fields.
type LandRecord struct {
	ReceiptNumber string `json:"receiptNumber"`
	Status        string `json:"status"`
	CurrentlyWith string `json:"currentlyWith"`

	OwnerName    string `json:"ownerName,omitempty"`
	SurveyNumber string `json:"surveyNumber,omitempty"`
	Area         string `json:"area,omitempty"`
	Address      string `json:"address,omitempty"`

	History          []HistoryEntry     `json:"history"`
	Documents        []DocumentEntry    `json:"documents"`
	PattaCertificate *CertificateRecord `json:"pattaCertificate,omitempty"`

	PattaID          string `json:"patta_id,omitempty"`
	PattaGeneratedOn string `json:"patta_generated_on,omitempty"`
	PattaIssued      bool   `json:"patta_issued,omitempty"`
	PattaIssuedDate  string `json:"patta_issued_date,omitempty"`

	CreatedAt   string `json:"createdAt"`
	LastUpdated string `json:"lastUpdated,omitempty"`

	Attributes map[string]json.RawMessage `json:"-"`
}

// reservedKeys are the JSON names of the fixed fields. Attributes never
// shadow them.
var reservedKeys = map[string]bool{
	"receiptNumber": true, "status": true, "currentlyWith": true,
	"ownerName": true, "surveyNumber": true, "area": true, "address": true,
	"history": true, "documents": true, "pattaCertificate": true,
	"patta_id": true, "patta_generated_on": true, "patta_issued": true, "patta_issued_date": true,
	"createdAt": true, "lastUpdated": true,
}

// IsReserved reports whether key names a fixed record field.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

type wireRecord LandRecord

// MarshalJSON writes the fixed fields and the flattened attributes.
func (r LandRecord) MarshalJSON() ([]byte, error) {
	w := wireRecord(r)
	if w.History == nil {
		w.History = []HistoryEntry{}
	}
	if w.Documents == nil {
		w.Documents = []DocumentEntry{}
	}
	base, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	if len(r.Attributes) == 0 {
		return base, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range r.Attributes {
		if reservedKeys[k] {
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the fixed fields and collects everything else into Attributes.
func (r *LandRecord) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for k := range fields {
		if reservedKeys[k] {
			delete(fields, k)
		}
	}

	*r = LandRecord(w)
	r.Attributes = nil
	if len(fields) > 0 {
		r.Attributes = fields
	}
	return nil
}

// StringAttribute returns a string-valued attribute, or "" when absent or not a string.
func (r *LandRecord) StringAttribute(key string) string {
	raw, ok := r.Attributes[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// DisplayOwner is the owner name, falling back to the fullName attribute.
func (r *LandRecord) DisplayOwner() string {
	if r.OwnerName != "" {
		return r.OwnerName
	}
	return r.StringAttribute("fullName")
}

// Normalize applies creation defaults. The receipt number and creation time
// always come from the caller of the create operation, never from the payload.
func Normalize(r *LandRecord, receiptNumber string, now time.Time) {
	r.ReceiptNumber = receiptNumber
	r.CreatedAt = FormatTime(now)
	if r.Status == "" {
		r.Status = StatusCreated
	}
	if r.History == nil {
		r.History = []HistoryEntry{}
	}
	if r.Documents == nil {
		r.Documents = []DocumentEntry{}
	}
}

// FormatTime renders t as an ISO-8601 UTC timestamp with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Decode parses a stored record value.
func Decode(data []byte) (*LandRecord, error) {
	var r LandRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Encode serializes a record for storage.
func Encode(r *LandRecord) ([]byte, error) {
	return json.Marshal(r)
}
