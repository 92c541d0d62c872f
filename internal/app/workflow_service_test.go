package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/ctxutil"
	"github.com/example/patta/internal/ports/primary"
)

func TestAdvanceStatus_ApprovalScenario(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "RC-001", `{"ownerName":"Asha"}`)

	res, err := env.workflow.AdvanceStatus(context.Background(), primary.AdvanceStatusRequest{
		ReceiptNumber: "RC-001",
		NewStatus:     "approved",
		AssignedTo:    "clerk-1",
		Remarks:       "ok",
		FromUser:      "mro-1",
		Timestamp:     "2024-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "Land request RC-001 updated with status 'approved'", res.Message)

	r := env.read(t, "RC-001")
	assert.Equal(t, "approved", r.Status)
	assert.Equal(t, "clerk-1", r.CurrentlyWith)
	assert.Equal(t, "RC-001", r.PattaID)
	assert.Equal(t, testNowString, r.PattaGeneratedOn)
	assert.Equal(t, "2024-01-01T00:00:00Z", r.LastUpdated)
	require.Len(t, r.History, 1)
	assert.Equal(t, "mro-1", r.History[0].FromUser)
	assert.Equal(t, "clerk-1", r.History[0].ToUser)
	assert.Equal(t, "RC-001", r.History[0].PattaID)
	assert.Equal(t, res.TxnID, r.History[0].TxnID)
}

func TestAdvanceStatus_FromUserFallbacks(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "RC-001", `{}`)
	ctx := context.Background()

	_, err := env.workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{ReceiptNumber: "RC-001", NewStatus: "with_clerk", AssignedTo: "clerk-1"})
	require.NoError(t, err)
	_, err = env.workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{ReceiptNumber: "RC-001", NewStatus: "with_superintendent", AssignedTo: "supt-1"})
	require.NoError(t, err)
	_, err = env.workflow.AdvanceStatus(ctxutil.WithActorID(ctx, "supt-1"), primary.AdvanceStatusRequest{ReceiptNumber: "RC-001", NewStatus: "with_clerk", AssignedTo: "clerk-1"})
	require.NoError(t, err)

	r := env.read(t, "RC-001")
	require.Len(t, r.History, 3)
	assert.Equal(t, "unknown", r.History[0].FromUser)
	assert.Equal(t, "clerk-1", r.History[1].FromUser)
	assert.Equal(t, "supt-1", r.History[2].FromUser)
	for _, e := range r.History {
		assert.Empty(t, e.PattaID, "non-approval entry %s carries patta_id", e.Action)
	}
	assert.Empty(t, r.PattaID)
	assert.Equal(t, testNowString, r.LastUpdated)
}

func TestAdvanceStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workflow.AdvanceStatus(context.Background(), primary.AdvanceStatusRequest{ReceiptNumber: "RC-404", NewStatus: "approved"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAdvanceStatus_PermissiveByDefault(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "RC-001", `{}`)

	_, err := env.workflow.AdvanceStatus(context.Background(), primary.AdvanceStatusRequest{
		ReceiptNumber: "RC-001",
		NewStatus:     "with_districtcollector",
		FromUser:      "clerk-1",
	})
	assert.NoError(t, err)
}

func TestAdvanceStatus_EnforcedTable(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.EnforceTransitions = true })
	ctx := context.Background()
	env.create(t, "RC-001", `{"status":"with_clerk","currentlyWith":"clerk-1"}`)

	tests := []struct {
		name    string
		req     primary.AdvanceStatusRequest
		wantErr error
	}{
		{
			name:    "skip ahead",
			req:     primary.AdvanceStatusRequest{NewStatus: "approved", FromUser: "clerk-1"},
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name:    "wrong role",
			req:     primary.AdvanceStatusRequest{NewStatus: "with_superintendent", FromUser: "vro-1"},
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name: "explicit role wins",
			req:  primary.AdvanceStatusRequest{NewStatus: "with_superintendent", FromUser: "desk-7", ActorRole: "Clerk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.ReceiptNumber = "RC-001"
			_, err := env.workflow.AdvanceStatus(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	r := env.read(t, "RC-001")
	assert.Equal(t, "with_superintendent", r.Status)
	assert.Len(t, r.History, 1)
}

func TestAdvanceStatus_CertifiedRecordIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.create(t, "RC-001", `{}`)
	_, err := env.certificates.IssueCertificate(ctx, primary.IssueCertificateRequest{ReceiptNumber: "RC-001", Payload: []byte(`{"certificateNumber":"CERT-9"}`)})
	require.NoError(t, err)

	_, err = env.workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{ReceiptNumber: "RC-001", NewStatus: "with_clerk"})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, "completed", env.read(t, "RC-001").Status)
}

func TestAdvanceStatus_BackfillsLegacyEntries(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutRaw(env.keys.Record("RC-OLD"), []byte(`{
		"receiptNumber":"RC-OLD","status":"with_vro","currentlyWith":"vro-1",
		"history":[{"action":"submitted"},{"action":"forwarded","txnId":"HIST-LEGACY"}],
		"createdAt":"2023-01-01T00:00:00.000Z"
	}`))

	_, err := env.workflow.AdvanceStatus(context.Background(), primary.AdvanceStatusRequest{ReceiptNumber: "RC-OLD", NewStatus: "with_surveyor", AssignedTo: "surveyor-1"})
	require.NoError(t, err)

	r := env.read(t, "RC-OLD")
	require.Len(t, r.History, 3)
	assert.NotEmpty(t, r.History[0].TxnID)
	assert.Equal(t, "HIST-LEGACY", r.History[1].TxnID)
	assert.Equal(t, "vro-1", r.History[2].FromUser)

	seen := map[string]bool{}
	for _, e := range r.History {
		assert.False(t, seen[e.TxnID], "duplicate txn_id %s", e.TxnID)
		seen[e.TxnID] = true
	}
}

func TestAdvanceStatus_MissingStatus(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "RC-001", `{}`)

	_, err := env.workflow.AdvanceStatus(context.Background(), primary.AdvanceStatusRequest{ReceiptNumber: "RC-001"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAdvanceStatus_IdempotentRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.create(t, "RC-001", `{}`)

	req := primary.AdvanceStatusRequest{ReceiptNumber: "RC-001", NewStatus: "with_clerk", AssignedTo: "clerk-1", IdempotencyKey: "submit-1"}
	first, err := env.workflow.AdvanceStatus(ctx, req)
	require.NoError(t, err)
	second, err := env.workflow.AdvanceStatus(ctx, req)
	require.NoError(t, err)

	assert.False(t, first.Replayed)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.TxnID, second.TxnID)
	assert.Len(t, env.read(t, "RC-001").History, 1)

	// The token can also travel on the context.
	tokenCtx := ctxutil.WithIdempotencyKey(ctx, "submit-2")
	req.IdempotencyKey = ""
	_, err = env.workflow.AdvanceStatus(tokenCtx, req)
	require.NoError(t, err)
	_, err = env.workflow.AdvanceStatus(tokenCtx, req)
	require.NoError(t, err)
	assert.Len(t, env.read(t, "RC-001").History, 2)
}

func TestAdvanceStatus_TokenReusedAcrossRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := ctxutil.WithIdempotencyKey(context.Background(), "tok-1")
	env.create(t, "RC-001", `{}`)
	env.create(t, "RC-002", `{}`)

	_, err := env.workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{ReceiptNumber: "RC-001", NewStatus: "with_clerk"})
	require.NoError(t, err)

	second, err := env.workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{ReceiptNumber: "RC-002", NewStatus: "approved"})
	require.NoError(t, err)
	assert.False(t, second.Replayed)
	assert.Equal(t, "RC-002", second.ReceiptNumber)

	r := env.read(t, "RC-002")
	assert.Equal(t, "approved", r.Status)
	assert.Len(t, r.History, 1)
	assert.Equal(t, "with_clerk", env.read(t, "RC-001").Status)
}
