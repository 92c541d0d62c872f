// Package history contains the audit trail rules for land records.
// This is part of the Functional Core - no I/O, only pure functions.
package history

import (
	"encoding/json"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
)

// DefaultFromUser is recorded when no acting user can be determined.
const DefaultFromUser = "unknown"

// EnsureIDs assigns a txn_id to every history and document entry lacking one.
// It is applied at every write boundary so no entry is persisted without an id.
// Returns the number of entries that were filled in.
func EnsureIDs(r *record.LandRecord, gen txnid.Generator) int {
	filled := 0
	for i := range r.History {
		if r.History[i].TxnID == "" {
			r.History[i].TxnID = gen.New(txnid.PrefixHistory)
			filled++
		}
	}
	for i := range r.Documents {
		if r.Documents[i].TxnID == "" {
			r.Documents[i].TxnID = gen.New(txnid.PrefixDocument)
			filled++
		}
	}
	return filled
}

// Append adds entry to the end of the trail. Existing entries are never touched.
func Append(r *record.LandRecord, entry record.HistoryEntry) {
	r.History = append(r.History, entry)
}

// ActionInput is a caller-described history action. Both camelCase and
// snake_case user fields are accepted.
type ActionInput struct {
	Timestamp     string `json:"timestamp"`
	FromUser      string `json:"fromUser"`
	FromUserSnake string `json:"from_user"`
	ToUser        string `json:"toUser"`
	ToUserSnake   string `json:"to_user"`
	Action        string `json:"action"`
	Remarks       string `json:"remarks"`
	PattaID       string `json:"patta_id"`
	TxnID         string `json:"txn_id"`
}

// ParseAction validates and decodes an action payload.
func ParseAction(v *record.Validator, raw []byte) (ActionInput, error) {
	if err := v.Check(record.SchemaAction, raw); err != nil {
		return ActionInput{}, err
	}
	var in ActionInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return ActionInput{}, apperr.InvalidInput(err, "invalid action JSON")
	}
	return in, nil
}

// BuildActionEntry turns an action into a history entry. now is used when the
// caller gave no timestamp; an id is generated only when the caller gave none.
func BuildActionEntry(in ActionInput, now string, gen txnid.Generator) record.HistoryEntry {
	entry := record.HistoryEntry{
		Timestamp: firstNonEmpty(in.Timestamp, now),
		FromUser:  firstNonEmpty(in.FromUser, in.FromUserSnake, DefaultFromUser),
		ToUser:    firstNonEmpty(in.ToUser, in.ToUserSnake),
		Action:    in.Action,
		Remarks:   in.Remarks,
		PattaID:   in.PattaID,
		TxnID:     in.TxnID,
	}
	if entry.TxnID == "" {
		entry.TxnID = gen.New(txnid.PrefixHistory)
	}
	return entry
}

// HasTxnID reports whether id is already used by a history or document entry of r.
func HasTxnID(r *record.LandRecord, id string) bool {
	for _, e := range r.History {
		if e.TxnID == id {
			return true
		}
	}
	for _, d := range r.Documents {
		if d.TxnID == id {
			return true
		}
	}
	return false
}

// Result is the read view of a record's trail.
type Result struct {
	ReceiptNumber string                `json:"receiptNumber"`
	History       []record.HistoryEntry `json:"history"`
	TotalEntries  int                   `json:"totalEntries"`
}

// Of returns the trail of r without modifying it.
func Of(r *record.LandRecord) Result {
	entries := make([]record.HistoryEntry, len(r.History))
	copy(entries, r.History)
	return Result{
		ReceiptNumber: r.ReceiptNumber,
		History:       entries,
		TotalEntries:  len(entries),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
