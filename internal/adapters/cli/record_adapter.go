package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/patta/internal/ports/primary"
)

// RecordAdapter is a thin adapter that translates CLI operations to the
// record, workflow, history and query services.
type RecordAdapter struct {
	records  primary.RecordService
	workflow primary.WorkflowService
	history  primary.HistoryService
	queries  primary.QueryService
	out      io.Writer
}

// NewRecordAdapter creates a new RecordAdapter.
func NewRecordAdapter(records primary.RecordService, workflow primary.WorkflowService, history primary.HistoryService, queries primary.QueryService, out io.Writer) *RecordAdapter {
	return &RecordAdapter{
		records:  records,
		workflow: workflow,
		history:  history,
		queries:  queries,
		out:      out,
	}
}

// Create stores a new land record.
func (a *RecordAdapter) Create(ctx context.Context, req primary.CreateRecordRequest) (*primary.MutationResult, error) {
	res, err := a.records.CreateRecord(ctx, req)
	if err != nil {
		return nil, err
	}
	a.printMutation(res)
	return res, nil
}

// Show displays one land record.
func (a *RecordAdapter) Show(ctx context.Context, receiptNumber string) (*primary.LandRecord, error) {
	r, err := a.records.ReadRecord(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nLand request: %s\n", r.ReceiptNumber)
	fmt.Fprintf(a.out, "Status:    %s\n", colorStatus(r.Status))
	fmt.Fprintf(a.out, "With:      %s\n", orDash(r.CurrentlyWith))
	fmt.Fprintf(a.out, "Owner:     %s\n", orDash(r.DisplayOwner()))
	fmt.Fprintf(a.out, "Survey:    %s\n", orDash(r.SurveyNumber))
	fmt.Fprintf(a.out, "History:   %d entries\n", len(r.History))
	fmt.Fprintf(a.out, "Documents: %d\n", len(r.Documents))
	if r.PattaCertificate != nil {
		fmt.Fprintf(a.out, "Patta:     %s (issued %s by %s)\n",
			r.PattaCertificate.CertificateNumber,
			r.PattaCertificate.IssuedDate,
			r.PattaCertificate.IssuedBy,
		)
	}
	if r.LastUpdated != "" {
		fmt.Fprintf(a.out, "Updated:   %s\n", r.LastUpdated)
	}
	fmt.Fprintln(a.out)

	return r, nil
}

// Advance moves a record to a new status.
func (a *RecordAdapter) Advance(ctx context.Context, req primary.AdvanceStatusRequest) (*primary.MutationResult, error) {
	res, err := a.workflow.AdvanceStatus(ctx, req)
	if err != nil {
		return nil, err
	}
	a.printMutation(res)
	return res, nil
}

// AppendAction adds a free-form action to the record's history.
func (a *RecordAdapter) AppendAction(ctx context.Context, req primary.AppendActionRequest) (*primary.MutationResult, error) {
	res, err := a.history.AppendAction(ctx, req)
	if err != nil {
		return nil, err
	}
	a.printMutation(res)
	return res, nil
}

// History prints the audit trail of a record.
func (a *RecordAdapter) History(ctx context.Context, receiptNumber string) (*primary.HistoryResult, error) {
	h, err := a.history.GetHistory(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}

	if h.TotalEntries == 0 {
		fmt.Fprintf(a.out, "No history for %s.\n", h.ReceiptNumber)
		return h, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TXN\tTIME\tACTION\tFROM\tTO\tREMARKS")
	fmt.Fprintln(w, "---\t----\t------\t----\t--\t-------")
	for _, e := range h.History {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.TxnID,
			e.Timestamp,
			e.Action,
			orDash(e.FromUser),
			orDash(e.ToUser),
			e.Remarks,
		)
	}
	w.Flush()
	fmt.Fprintf(a.out, "\n%d entries\n", h.TotalEntries)
	return h, nil
}

// ListFilters selects which records List prints. At most one filter applies;
// Status wins over Custodian.
type ListFilters struct {
	Status      string
	Custodian   string
	ByCustodian bool // filter on Custodian even when it is empty (unassigned)
}

// List prints records matching filters.
func (a *RecordAdapter) List(ctx context.Context, filters ListFilters) ([]*primary.LandRecord, error) {
	var (
		records []*primary.LandRecord
		err     error
	)
	switch {
	case filters.Status != "":
		records, err = a.queries.ListByStatus(ctx, filters.Status)
	case filters.ByCustodian || filters.Custodian != "":
		records, err = a.queries.ListByCustodian(ctx, filters.Custodian)
	default:
		records, err = a.queries.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No land records found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first record:")
		fmt.Fprintln(a.out, `  patta record create RC-001 --data '{"ownerName":"..."}'`)
		return records, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RECEIPT\tSTATUS\tWITH\tOWNER\tUPDATED")
	fmt.Fprintln(w, "-------\t------\t----\t-----\t-------")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ReceiptNumber,
			r.Status,
			orDash(r.CurrentlyWith),
			orDash(r.DisplayOwner()),
			orDash(r.LastUpdated),
		)
	}
	w.Flush()
	return records, nil
}

func (a *RecordAdapter) printMutation(res *primary.MutationResult) {
	printMutation(a.out, res)
}

func printMutation(out io.Writer, res *primary.MutationResult) {
	fmt.Fprintf(out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), res.Message)
	if res.TxnID != "" {
		fmt.Fprintf(out, "  txn: %s\n", res.TxnID)
	}
	if res.Replayed {
		fmt.Fprintf(out, "  %s\n", color.New(color.FgYellow).Sprint("(replayed from an earlier attempt)"))
	}
}

func colorStatus(status string) string {
	switch status {
	case "approved", "completed":
		return color.New(color.FgGreen).Sprint(status)
	case "rejected":
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
