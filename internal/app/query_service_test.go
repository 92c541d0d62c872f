package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/patta/internal/ports/primary"
)

func seedQueryFixtures(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	env.create(t, "RC-003", `{}`)
	env.create(t, "RC-001", `{}`)
	env.create(t, "RC-002", `{}`)
	for _, receipt := range []string{"RC-001", "RC-003"} {
		_, err := env.workflow.AdvanceStatus(ctx, primary.AdvanceStatusRequest{ReceiptNumber: receipt, NewStatus: "with_clerk", AssignedTo: "clerk-1"})
		require.NoError(t, err)
	}
	env.store.PutRaw(env.keys.Record("RC-000"), []byte(`{"receiptNumber":`))
}

func TestQueries(t *testing.T) {
	for _, useIndexes := range []bool{true, false} {
		name := "scan"
		if useIndexes {
			name = "index"
		}
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, func(o *Options) { o.UseIndexes = useIndexes })
			ctx := context.Background()
			seedQueryFixtures(t, env)

			all, err := env.queries.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"RC-001", "RC-002", "RC-003"}, receipts(all))

			byStatus, err := env.queries.ListByStatus(ctx, "with_clerk")
			require.NoError(t, err)
			assert.Equal(t, []string{"RC-001", "RC-003"}, receipts(byStatus))

			created, err := env.queries.ListByStatus(ctx, "created")
			require.NoError(t, err)
			assert.Equal(t, []string{"RC-002"}, receipts(created))

			byCustodian, err := env.queries.ListByCustodian(ctx, "clerk-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"RC-001", "RC-003"}, receipts(byCustodian))

			unassigned, err := env.queries.ListByCustodian(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"RC-002"}, receipts(unassigned))

			none, err := env.queries.ListByStatus(ctx, "rejected")
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})
	}
}

func TestQueries_SkipUndecodableRecords(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.UseIndexes = false })
	ctx := context.Background()
	seedQueryFixtures(t, env)

	_, err := env.queries.ListByStatus(ctx, "created")
	require.NoError(t, err)
	assert.Equal(t, []string{env.keys.Record("RC-000")}, env.observer.skipped)
}

func TestQueries_IndexHitWithCorruptRecord(t *testing.T) {
	env := newTestEnv(t)
	env.store.PutRaw(env.keys.StatusIndex("created", "RC-BAD"), []byte("RC-BAD"))
	env.store.PutRaw(env.keys.Record("RC-BAD"), []byte(`[]`))
	env.create(t, "RC-GOOD", `{}`)

	got, err := env.queries.ListByStatus(context.Background(), "created")
	require.NoError(t, err)
	assert.Equal(t, []string{"RC-GOOD"}, receipts(got))
	assert.Equal(t, []string{env.keys.Record("RC-BAD")}, env.observer.skipped)
}

func TestQueries_StaleIndexEntryIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "RC-001", `{}`)
	env.store.PutRaw(env.keys.StatusIndex("with_vro", "RC-001"), []byte("RC-001"))

	got, err := env.queries.ListByStatus(context.Background(), "with_vro")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueries_UnindexedRecordFoundByScan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.PutRaw(env.keys.Record("RC-9"), []byte(`{"receiptNumber":"RC-9","status":"with_clerk","currentlyWith":"clerk-9"}`))

	all, err := env.queries.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"RC-9"}, receipts(all))

	byStatus, err := env.queries.ListByStatus(ctx, "with_clerk")
	require.NoError(t, err)
	assert.Equal(t, []string{"RC-9"}, receipts(byStatus))

	byCustodian, err := env.queries.ListByCustodian(ctx, "clerk-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"RC-9"}, receipts(byCustodian))
}
