package app

import (
	"context"
	"fmt"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/core/workflow"
	"github.com/example/patta/internal/ctxutil"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

// WorkflowServiceImpl implements the WorkflowService interface.
type WorkflowServiceImpl struct {
	ledger  *Ledger
	table   *workflow.Table
	enforce bool
}

// NewWorkflowService creates a new WorkflowService with injected dependencies.
func NewWorkflowService(ledger *Ledger, opts Options) *WorkflowServiceImpl {
	table := opts.Transitions
	if table == nil {
		table = workflow.DefaultTable()
	}
	return &WorkflowServiceImpl{ledger: ledger, table: table, enforce: opts.EnforceTransitions}
}

// AdvanceStatus moves a record to a new status and custodian and appends
// the matching history entry.
func (s *WorkflowServiceImpl) AdvanceStatus(ctx context.Context, req primary.AdvanceStatusRequest) (res *primary.MutationResult, err error) {
	defer s.ledger.track(ctx, primary.OpAdvanceStatus, req.ReceiptNumber)(&err)

	fromUser := req.FromUser
	if fromUser == "" {
		fromUser = ctxutil.ActorFromContext(ctx)
	}
	role := req.ActorRole
	if role == "" {
		role = workflow.RoleFromActor(fromUser)
	}

	return s.ledger.mutate(ctx, primary.OpAdvanceStatus, req.ReceiptNumber, req.IdempotencyKey, func(tx secondary.Txn) (*primary.MutationResult, error) {
		r, err := s.ledger.load(tx, req.ReceiptNumber)
		if err != nil {
			return nil, err
		}
		if req.NewStatus == "" {
			return nil, apperr.InvalidInput(nil, "new status is required")
		}

		guardCtx := workflow.TransitionContext{
			ReceiptNumber:  r.ReceiptNumber,
			CurrentStatus:  r.Status,
			NewStatus:      req.NewStatus,
			ActorRole:      role,
			HasCertificate: r.PattaCertificate != nil,
		}
		if result := workflow.CanLeaveCompletion(guardCtx); !result.Allowed {
			return nil, apperr.InvalidTransition("%s", result.Reason)
		}
		if s.enforce {
			if result := workflow.CanTransition(s.table, guardCtx); !result.Allowed {
				return nil, apperr.InvalidTransition("%s", result.Reason)
			}
		}

		before := snapshot(r)
		applied := workflow.ApplyStatusTransition(r, workflow.StatusChange{
			NewStatus:  req.NewStatus,
			AssignedTo: req.AssignedTo,
			Remarks:    req.Remarks,
			FromUser:   fromUser,
			Timestamp:  req.Timestamp,
		}, s.ledger.clock.Now(), s.ledger.ids)

		if err := s.ledger.save(tx, before, r); err != nil {
			return nil, err
		}
		return &primary.MutationResult{
			ReceiptNumber: r.ReceiptNumber,
			Message:       fmt.Sprintf("Land request %s updated with status '%s'", r.ReceiptNumber, req.NewStatus),
			TxnID:         applied.Entry.TxnID,
		}, nil
	})
}

// Ensure WorkflowServiceImpl implements the interface
var _ primary.WorkflowService = (*WorkflowServiceImpl)(nil)
