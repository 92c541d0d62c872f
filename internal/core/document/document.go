// Package document contains the content-hash registry rules for land records.
// This is part of the Functional Core - no I/O, only pure functions.
package document

import (
	"fmt"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
)

// Registration describes a document upload to attach to a record.
type Registration struct {
	DocumentType string
	IPFSHash     string
	UploadedBy   string
	Timestamp    string
}

// Register appends a DOC- ided entry to r and touches lastUpdated.
// now is used when the registration carries no timestamp.
func Register(r *record.LandRecord, reg Registration, now string, gen txnid.Generator) record.DocumentEntry {
	ts := reg.Timestamp
	if ts == "" {
		ts = now
	}
	entry := record.DocumentEntry{
		DocumentType: reg.DocumentType,
		IPFSHash:     reg.IPFSHash,
		UploadedBy:   reg.UploadedBy,
		Timestamp:    ts,
		TxnID:        gen.New(txnid.PrefixDocument),
	}
	r.Documents = append(r.Documents, entry)
	r.LastUpdated = now
	return entry
}

// Verification is the result of checking a (type, hash) pair against a record.
type Verification struct {
	Verified bool                  `json:"verified"`
	Document *record.DocumentEntry `json:"document,omitempty"`
	Message  string                `json:"message"`
}

// Verify looks for an exact (documentType, ipfsHash) match.
// A record with no documents at all is a NoDocuments error; a record with
// documents but no match is a negative Verification, not an error.
func Verify(r *record.LandRecord, documentType, ipfsHash string) (Verification, error) {
	if len(r.Documents) == 0 {
		return Verification{}, apperr.NoDocuments("No documents found for land request %s", r.ReceiptNumber)
	}
	for i := range r.Documents {
		d := r.Documents[i]
		if d.DocumentType == documentType && d.IPFSHash == ipfsHash {
			return Verification{
				Verified: true,
				Document: &d,
				Message:  fmt.Sprintf("Document %s verified successfully", documentType),
			}, nil
		}
	}
	return Verification{
		Verified: false,
		Message:  fmt.Sprintf("Document %s with hash %s not found", documentType, ipfsHash),
	}, nil
}
