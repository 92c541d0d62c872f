// Package keyspace lays out every key the engine writes to the record store.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Layout under a namespace ns:
//
//	ns/record/<receipt>                       full record JSON
//	ns/idx/status/<status>/<receipt>          value: receipt
//	ns/idx/custodian/<currentlyWith>/<receipt> value: receipt
//	ns/idx/certificate/<certificateNumber>    value: receipt
//	ns/idem/<op>/<token>                      stored operation result
//
// Every variable segment is path-escaped, so no segment contains "/".
package keyspace

import (
	"net/url"
	"strings"

	"github.com/example/patta/internal/core/record"
)

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace = "land"

const (
	recordSeg      = "record"
	indexSeg       = "idx"
	idemSeg        = "idem"
	statusSeg      = "status"
	custodianSeg   = "custodian"
	certificateSeg = "certificate"
)

// Space builds keys for one namespace.
type Space struct {
	ns string
}

// New returns the keyspace for ns.
func New(ns string) Space {
	if ns == "" {
		ns = DefaultNamespace
	}
	return Space{ns: url.PathEscape(ns)}
}

// Namespace returns the escaped namespace.
func (s Space) Namespace() string { return s.ns }

func (s Space) join(parts ...string) string {
	return s.ns + "/" + strings.Join(parts, "/")
}

func esc(v string) string { return url.PathEscape(v) }

// Record is the key holding a land record.
func (s Space) Record(receipt string) string {
	return s.join(recordSeg, esc(receipt))
}

// RecordPrefix covers every land record and nothing else.
func (s Space) RecordPrefix() string {
	return s.join(recordSeg, "")
}

// IndexPrefix covers every secondary index key.
func (s Space) IndexPrefix() string {
	return s.join(indexSeg, "")
}

// StatusIndex is the index key placing receipt under status.
func (s Space) StatusIndex(status, receipt string) string {
	return s.join(indexSeg, statusSeg, esc(status), esc(receipt))
}

// StatusPrefix covers every receipt indexed under status.
func (s Space) StatusPrefix(status string) string {
	return s.join(indexSeg, statusSeg, esc(status), "")
}

// CustodianIndex is the index key placing receipt under its custodian.
func (s Space) CustodianIndex(custodian, receipt string) string {
	return s.join(indexSeg, custodianSeg, esc(custodian), esc(receipt))
}

// CustodianPrefix covers every receipt indexed under custodian.
func (s Space) CustodianPrefix(custodian string) string {
	return s.join(indexSeg, custodianSeg, esc(custodian), "")
}

// CertificateIndex is the key mapping a certificate number to its receipt.
func (s Space) CertificateIndex(certificateNumber string) string {
	return s.join(indexSeg, certificateSeg, esc(certificateNumber))
}

// Idempotency is the key storing the result of op on receipt under token.
func (s Space) Idempotency(op, receipt, token string) string {
	return s.join(idemSeg, esc(op), esc(receipt), esc(token))
}

// ReceiptFromKey returns the unescaped last segment of a record or
// status/custodian index key.
func (s Space) ReceiptFromKey(key string) (string, bool) {
	i := strings.LastIndexByte(key, '/')
	if i < 0 || !strings.HasPrefix(key, s.ns+"/") {
		return "", false
	}
	receipt, err := url.PathUnescape(key[i+1:])
	if err != nil || receipt == "" {
		return "", false
	}
	return receipt, true
}

// IndexEntries returns every index key r should have, mapped to its value.
func (s Space) IndexEntries(r *record.LandRecord) map[string][]byte {
	receipt := []byte(r.ReceiptNumber)
	entries := map[string][]byte{
		s.StatusIndex(r.Status, r.ReceiptNumber):           receipt,
		s.CustodianIndex(r.CurrentlyWith, r.ReceiptNumber): receipt,
	}
	if r.PattaCertificate != nil && r.PattaCertificate.CertificateNumber != "" {
		entries[s.CertificateIndex(r.PattaCertificate.CertificateNumber)] = receipt
	}
	return entries
}

// IndexDiff computes the index keys to delete and to put when a record moves
// from before (nil for a new record) to after.
func (s Space) IndexDiff(before, after *record.LandRecord) (deletes []string, puts map[string][]byte) {
	next := s.IndexEntries(after)
	puts = make(map[string][]byte)
	prev := map[string][]byte{}
	if before != nil {
		prev = s.IndexEntries(before)
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			deletes = append(deletes, k)
		}
	}
	for k, v := range next {
		if old, ok := prev[k]; !ok || string(old) != string(v) {
			puts[k] = v
		}
	}
	return deletes, puts
}
