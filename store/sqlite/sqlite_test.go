package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sop/fiscal-engine/ledger"
	"github.com/sop/fiscal-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedExpense(t *testing.T, store *sqlite.Store, protocol, amount string) ledger.Expense {
	e := ledger.Expense{
		ProtocolNumber: protocol,
		Category:       ledger.CategoryRoadWorks,
		ProtocolDate:   time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		Creditor:       "Pavimentadora Beta S.A.",
		Description:    "Recapeamento de trecho",
		Amount:         ledger.MustParseDecimal(amount),
	}
	require.NoError(t, store.SaveExpense(context.Background(), &e))
	return e
}

func seedCommitment(t *testing.T, store *sqlite.Store, expenseID ledger.ExpenseID, number, amount string) ledger.Commitment {
	c := ledger.Commitment{
		Number:    number,
		Date:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount:    ledger.MustParseDecimal(amount),
		Note:      "empenho de teste",
		ExpenseID: expenseID,
	}
	require.NoError(t, store.SaveCommitment(context.Background(), &c))
	return c
}

// =============================================================================
// ROUND-TRIP TESTS
// =============================================================================

func TestSQLite_ExpenseRoundTrip(t *testing.T) {
	// GIVEN: A saved expense
	// WHEN: Reading it back
	// THEN: Every field survives, amount without float drift

	store := newTestStore(t)
	ctx := context.Background()

	e := seedExpense(t, store, "43022.000123/2026-07", "1234567.89")
	require.True(t, e.ID.Persisted())

	got, err := store.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, e.ProtocolNumber, got.ProtocolNumber)
	assert.Equal(t, ledger.CategoryRoadWorks, got.Category)
	assert.Equal(t, e.Creditor, got.Creditor)
	assert.Equal(t, e.Description, got.Description)
	assert.True(t, e.ProtocolDate.Equal(got.ProtocolDate))
	assert.True(t, e.DueDate.Equal(got.DueDate))
	assert.True(t, e.Amount.Equal(got.Amount), "amount should round-trip exactly")
}

func TestSQLite_GetExpense_Missing_NilNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetExpense(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_DuplicateProtocolNumber_Rejected(t *testing.T) {
	store := newTestStore(t)

	seedExpense(t, store, "43022.000001/2026-01", "100.00")
	dup := ledger.Expense{
		ProtocolNumber: "43022.000001/2026-01",
		Category:       ledger.CategoryOther,
		Creditor:       "Outro Fornecedor",
		Description:    "Duplicata",
		Amount:         ledger.MustParseDecimal("50.00"),
	}

	err := store.SaveExpense(context.Background(), &dup)
	assert.ErrorIs(t, err, ledger.ErrDuplicateNumber)
}

func TestSQLite_CommitmentForeignKey_Enforced(t *testing.T) {
	// GIVEN: No expenses
	// WHEN: Saving a commitment referencing a missing expense
	// THEN: The FK violation surfaces as the not-found sentinel

	store := newTestStore(t)

	c := ledger.Commitment{
		Number:    "2026NE0001",
		Date:      time.Now(),
		Amount:    ledger.MustParseDecimal("10.00"),
		ExpenseID: 999,
	}
	err := store.SaveCommitment(context.Background(), &c)
	assert.ErrorIs(t, err, ledger.ErrExpenseNotFound)
}

func TestSQLite_DeleteGuards_NoCascade(t *testing.T) {
	// GIVEN: expense -> commitment -> payment
	// WHEN: Deleting top-down, then bottom-up
	// THEN: Top-down is refused at each level; bottom-up succeeds

	store := newTestStore(t)
	ctx := context.Background()

	e := seedExpense(t, store, "43022.000002/2026-02", "1000.00")
	c := seedCommitment(t, store, e.ID, "2026NE0010", "600.00")
	p := ledger.Payment{
		Number:       "2026NP0010",
		Date:         time.Now(),
		Amount:       ledger.MustParseDecimal("100.00"),
		CommitmentID: c.ID,
	}
	require.NoError(t, store.SavePayment(ctx, &p))

	assert.ErrorIs(t, store.DeleteExpense(ctx, e.ID), ledger.ErrHasCommitments)
	assert.ErrorIs(t, store.DeleteCommitment(ctx, c.ID), ledger.ErrHasPayments)

	require.NoError(t, store.DeletePayment(ctx, p.ID))
	require.NoError(t, store.DeleteCommitment(ctx, c.ID))
	require.NoError(t, store.DeleteExpense(ctx, e.ID))
}

func TestSQLite_UpdateMissing_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := ledger.Expense{
		ID:             42,
		ProtocolNumber: "43022.000003/2026-03",
		Category:       ledger.CategoryOther,
		Creditor:       "x",
		Description:    "x",
		Amount:         ledger.MustParseDecimal("1.00"),
	}
	assert.ErrorIs(t, store.UpdateExpense(ctx, e), ledger.ErrExpenseNotFound)

	p := ledger.Payment{ID: 42, Number: "2026NP0099", Amount: ledger.MustParseDecimal("1.00"), CommitmentID: 1}
	assert.ErrorIs(t, store.UpdatePayment(ctx, p), ledger.ErrPaymentNotFound)
}

func TestSQLite_ListByParent_FiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e1 := seedExpense(t, store, "43022.000004/2026-04", "1000.00")
	e2 := seedExpense(t, store, "43022.000005/2026-05", "1000.00")

	c1 := seedCommitment(t, store, e1.ID, "2026NE0020", "100.00")
	c2 := seedCommitment(t, store, e1.ID, "2026NE0021", "200.00")
	seedCommitment(t, store, e2.ID, "2026NE0022", "300.00")

	got, err := store.ListCommitmentsByExpense(ctx, e1.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, c1.ID, got[0].ID)
	assert.Equal(t, c2.ID, got[1].ID)
}

func TestSQLite_Snapshot_LoadsAllCollections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := seedExpense(t, store, "43022.000006/2026-06", "1000.00")
	c := seedCommitment(t, store, e.ID, "2026NE0030", "400.00")
	p := ledger.Payment{
		Number:       "2026NP0030",
		Date:         time.Now(),
		Amount:       ledger.MustParseDecimal("150.00"),
		CommitmentID: c.ID,
	}
	require.NoError(t, store.SavePayment(ctx, &p))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Expenses, 1)
	assert.Len(t, snap.Commitments, 1)
	assert.Len(t, snap.Payments, 1)

	// The snapshot feeds status derivation directly.
	status := ledger.ResolveStatus(snap.Expenses[0], snap.Commitments, snap.Payments)
	assert.Equal(t, ledger.StatusPartiallyCommitted, status)
}

func TestSQLite_UpdatePayment_Reparent(t *testing.T) {
	// GIVEN: A payment under commitment A
	// WHEN: Updating it with commitment B's id
	// THEN: It lists under B and no longer under A

	store := newTestStore(t)
	ctx := context.Background()

	e := seedExpense(t, store, "43022.000007/2026-07", "1000.00")
	a := seedCommitment(t, store, e.ID, "2026NE0040", "500.00")
	b := seedCommitment(t, store, e.ID, "2026NE0041", "500.00")

	p := ledger.Payment{
		Number:       "2026NP0040",
		Date:         time.Now(),
		Amount:       ledger.MustParseDecimal("100.00"),
		CommitmentID: a.ID,
	}
	require.NoError(t, store.SavePayment(ctx, &p))

	p.CommitmentID = b.ID
	require.NoError(t, store.UpdatePayment(ctx, p))

	underA, err := store.ListPaymentsByCommitment(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, underA)

	underB, err := store.ListPaymentsByCommitment(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, underB, 1)
	assert.Equal(t, p.ID, underB[0].ID)
}
