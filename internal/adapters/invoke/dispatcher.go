// Package invoke exposes the land record services as named operations that
// take string arguments and return JSON strings.
package invoke

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/ports/primary"
)

// Services bundles the primary ports the dispatcher routes to.
type Services struct {
	Records      primary.RecordService
	Workflow     primary.WorkflowService
	History      primary.HistoryService
	Documents    primary.DocumentService
	Certificates primary.CertificateService
	Queries      primary.QueryService
	Indexes      primary.IndexService
}

type handler struct {
	minArgs, maxArgs int
	usage            string
	call             func(ctx context.Context, s Services, args []string) (any, error)
}

// Dispatcher routes operation names to services.
type Dispatcher struct {
	services Services
	handlers map[string]handler
}

// NewDispatcher creates a dispatcher over services.
func NewDispatcher(services Services) *Dispatcher {
	return &Dispatcher{services: services, handlers: handlers()}
}

// Operations returns the supported operation names, sorted.
func (d *Dispatcher) Operations() []string {
	ops := make([]string, 0, len(d.handlers))
	for op := range d.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Usage returns the argument synopsis for op.
func (d *Dispatcher) Usage(op string) (string, bool) {
	h, ok := d.handlers[op]
	return h.usage, ok
}

// Invoke runs op with args and returns the JSON-encoded result.
func (d *Dispatcher) Invoke(ctx context.Context, op string, args []string) (string, error) {
	h, ok := d.handlers[op]
	if !ok {
		return "", apperr.InvalidInput(nil, "unknown operation %q", op)
	}
	if len(args) < h.minArgs || len(args) > h.maxArgs {
		return "", apperr.InvalidInput(nil, "%s expects %s", op, h.usage)
	}

	result, err := h.call(ctx, d.services, args)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", apperr.Internal(err, "failed to encode %s result", op)
	}
	return string(out), nil
}

// arg returns args[i] or "" when the optional argument was omitted.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func handlers() map[string]handler {
	return map[string]handler{
		primary.OpCreateRecord: {2, 2, "(receiptNumber, payload)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Records.CreateRecord(ctx, primary.CreateRecordRequest{ReceiptNumber: a[0], Payload: []byte(a[1])})
			}},
		primary.OpReadRecord: {1, 1, "(receiptNumber)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Records.ReadRecord(ctx, a[0])
			}},
		primary.OpAdvanceStatus: {2, 6, "(receiptNumber, newStatus[, assignedTo, remarks, fromUser, timestamp])",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{
					ReceiptNumber: a[0],
					NewStatus:     a[1],
					AssignedTo:    arg(a, 2),
					Remarks:       arg(a, 3),
					FromUser:      arg(a, 4),
					Timestamp:     arg(a, 5),
				})
			}},
		primary.OpAppendAction: {2, 2, "(receiptNumber, actionData)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.History.AppendAction(ctx, primary.AppendActionRequest{ReceiptNumber: a[0], Payload: []byte(a[1])})
			}},
		primary.OpGetHistory: {1, 1, "(receiptNumber)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.History.GetHistory(ctx, a[0])
			}},
		primary.OpRegisterDocument: {3, 5, "(receiptNumber, documentType, ipfsHash[, uploadedBy, timestamp])",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Documents.RegisterDocument(ctx, primary.RegisterDocumentRequest{
					ReceiptNumber: a[0],
					DocumentType:  a[1],
					IPFSHash:      a[2],
					UploadedBy:    arg(a, 3),
					Timestamp:     arg(a, 4),
				})
			}},
		primary.OpVerifyDocument: {3, 3, "(receiptNumber, documentType, ipfsHash)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Documents.VerifyDocument(ctx, primary.VerifyDocumentRequest{ReceiptNumber: a[0], DocumentType: a[1], IPFSHash: a[2]})
			}},
		primary.OpIssueCertificate: {2, 2, "(receiptNumber, certData)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Certificates.IssueCertificate(ctx, primary.IssueCertificateRequest{ReceiptNumber: a[0], Payload: []byte(a[1])})
			}},
		primary.OpVerifyCertificate: {1, 1, "(certificateNumber)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Certificates.VerifyCertificate(ctx, a[0])
			}},
		primary.OpListAll: {0, 0, "no arguments",
			func(ctx context.Context, s Services, _ []string) (any, error) {
				return s.Queries.ListAll(ctx)
			}},
		primary.OpListByStatus: {1, 1, "(status)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Queries.ListByStatus(ctx, a[0])
			}},
		primary.OpListByCustodian: {1, 1, "(assignedTo)",
			func(ctx context.Context, s Services, a []string) (any, error) {
				return s.Queries.ListByCustodian(ctx, a[0])
			}},
		primary.OpRebuildIndexes: {0, 0, "no arguments",
			func(ctx context.Context, s Services, _ []string) (any, error) {
				return s.Indexes.RebuildIndexes(ctx)
			}},
		primary.OpCheckIndexes: {0, 0, "no arguments",
			func(ctx context.Context, s Services, _ []string) (any, error) {
				return s.Indexes.CheckIndexes(ctx)
			}},
	}
}
