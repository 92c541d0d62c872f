package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/patta/internal/adapters/memory"
	"github.com/example/patta/internal/core/keyspace"
	"github.com/example/patta/internal/core/record"
	"github.com/example/patta/internal/core/txnid"
	"github.com/example/patta/internal/ports/primary"
	"github.com/example/patta/internal/ports/secondary"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

const testNowString = "2024-05-01T10:00:00.000Z"

// Ensure recordingObserver implements the interface
var _ secondary.Observer = (*recordingObserver)(nil)

type observedOp struct {
	op  string
	key string
	err error
}

// recordingObserver captures boundary events for assertions.
type recordingObserver struct {
	mu      sync.Mutex
	ops     []observedOp
	skipped []string
}

func (o *recordingObserver) OperationCompleted(_ context.Context, op, key string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, observedOp{op: op, key: key, err: err})
}

func (o *recordingObserver) RecordSkipped(_ context.Context, key string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped = append(o.skipped, key)
}

// testEnv wires every service over one memory store.
type testEnv struct {
	store    *memory.Store
	keys     keyspace.Space
	observer *recordingObserver

	records      *RecordServiceImpl
	workflow     *WorkflowServiceImpl
	history      *HistoryServiceImpl
	documents    *DocumentServiceImpl
	certificates *CertificateServiceImpl
	queries      *QueryServiceImpl
	indexes      *IndexServiceImpl
}

func newTestEnv(t *testing.T, tweaks ...func(*Options)) *testEnv {
	t.Helper()

	opts := DefaultOptions()
	for _, tweak := range tweaks {
		tweak(&opts)
	}

	store := memory.NewStore()
	keys := keyspace.New("land")
	observer := &recordingObserver{}
	ledger := NewLedger(store, keys, txnid.NewSequenceGenerator(), secondary.FixedClock{T: testNow}, observer)
	validator := record.MustValidator()

	return &testEnv{
		store:        store,
		keys:         keys,
		observer:     observer,
		records:      NewRecordService(ledger, validator),
		workflow:     NewWorkflowService(ledger, opts),
		history:      NewHistoryService(ledger, validator),
		documents:    NewDocumentService(ledger),
		certificates: NewCertificateService(ledger, validator, opts),
		queries:      NewQueryService(ledger, opts),
		indexes:      NewIndexService(ledger),
	}
}

func (e *testEnv) create(t *testing.T, receipt, payload string) {
	t.Helper()
	if _, err := e.records.CreateRecord(context.Background(), primary.CreateRecordRequest{
		ReceiptNumber: receipt,
		Payload:       []byte(payload),
	}); err != nil {
		t.Fatalf("CreateRecord(%s) failed: %v", receipt, err)
	}
}

func (e *testEnv) read(t *testing.T, receipt string) *record.LandRecord {
	t.Helper()
	r, err := e.records.ReadRecord(context.Background(), receipt)
	if err != nil {
		t.Fatalf("ReadRecord(%s) failed: %v", receipt, err)
	}
	return r
}

func receipts(records []*record.LandRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ReceiptNumber)
	}
	return out
}
