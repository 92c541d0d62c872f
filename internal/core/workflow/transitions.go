package workflow

import (
	"time"

	"github.com/example/patta/internal/core/history"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
)

// StatusAfterIssuance is the terminal status forced by certificate issuance.
const StatusAfterIssuance = record.StatusCompleted

// IsPattaStatus reports whether moving to status links the record to a patta.
func IsPattaStatus(status string) bool {
	return status == record.StatusApproved || status == record.StatusCompleted
}

// StatusChange describes one caller-requested status move.
type StatusChange struct {
	NewStatus  string
	AssignedTo string
	Remarks    string
	FromUser   string
	Timestamp  string
}

// TransitionResult captures the audit entry produced by a status change.
type TransitionResult struct {
	Entry       record.HistoryEntry
	PattaLinked bool
}

// ApplyStatusTransition moves r to ch.NewStatus, hands custody to
// ch.AssignedTo and appends the matching history entry.
// The caller passes the current time to enable testing.
func ApplyStatusTransition(r *record.LandRecord, ch StatusChange, now time.Time, gen txnid.Generator) TransitionResult {
	stamp := record.FormatTime(now)
	timestamp := ch.Timestamp
	if timestamp == "" {
		timestamp = stamp
	}

	from := ch.FromUser
	if from == "" {
		from = r.CurrentlyWith
	}
	if from == "" {
		from = history.DefaultFromUser
	}

	entry := record.HistoryEntry{
		Timestamp: timestamp,
		FromUser:  from,
		ToUser:    ch.AssignedTo,
		Action:    ch.NewStatus,
		Remarks:   ch.Remarks,
		TxnID:     gen.New(txnid.PrefixHistory),
	}

	result := TransitionResult{}
	if IsPattaStatus(ch.NewStatus) {
		entry.PattaID = r.ReceiptNumber
		r.PattaID = r.ReceiptNumber
		r.PattaGeneratedOn = stamp
		result.PattaLinked = true
	}

	history.Append(r, entry)
	r.Status = ch.NewStatus
	r.CurrentlyWith = ch.AssignedTo
	r.LastUpdated = timestamp

	result.Entry = entry
	return result
}
