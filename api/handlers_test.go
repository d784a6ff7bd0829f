/*
handlers_test.go - End-to-end tests for the HTTP API

Exercises the full stack: router, handlers, engine validation, and the
SQLite store (in-memory). Covers the containment ceilings, the derived
status transitions, and the deletion guards as seen over HTTP.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sop/fiscal-engine/api"
	"github.com/sop/fiscal-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) *chi.Mux {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store, zap.NewNop())
	return api.NewRouter(handler)
}

func do(t *testing.T, router http.Handler, method, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func expenseBody(protocol, amount string) map[string]any {
	return map[string]any{
		"protocol_number": protocol,
		"category":        "Obra de Edificação",
		"protocol_date":   "2026-02-10",
		"due_date":        "2026-08-10",
		"creditor":        "Construtora Gama Ltda",
		"description":     "Ampliação de escola",
		"amount":          amount,
	}
}

func createExpense(t *testing.T, router http.Handler, protocol, amount string) int64 {
	t.Helper()

	rec := do(t, router, http.MethodPost, "/api/expenses", expenseBody(protocol, amount))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return int64(decode(t, rec)["id"].(float64))
}

func createCommitment(t *testing.T, router http.Handler, expenseID int64, number, amount string) int64 {
	t.Helper()

	rec := do(t, router, http.MethodPost, "/api/commitments", map[string]any{
		"number":     number,
		"date":       "2026-03-01",
		"amount":     amount,
		"expense_id": expenseID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return int64(decode(t, rec)["id"].(float64))
}

func createPayment(t *testing.T, router http.Handler, commitmentID int64, number, amount string) int64 {
	t.Helper()

	rec := do(t, router, http.MethodPost, "/api/payments", map[string]any{
		"number":        number,
		"date":          "2026-04-01",
		"amount":        amount,
		"commitment_id": commitmentID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return int64(decode(t, rec)["id"].(float64))
}

func expenseStatus(t *testing.T, router http.Handler, id int64) string {
	t.Helper()

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/expenses/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decode(t, rec)["status"].(string)
}

// =============================================================================
// EXPENSE LIFECYCLE
// =============================================================================

func TestAPI_CreateExpense_StartsAwaitingCommitment(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/expenses", expenseBody("43022.000100/2026-10", "1000.00"))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "awaiting_commitment", body["status"])
	assert.Equal(t, "Aguardando Empenho", body["status_label"])
	assert.Equal(t, "1000.00", body["amount"])
	assert.Equal(t, "0.00", body["committed_total"])
	assert.Equal(t, "0.00", body["paid_total"])
}

func TestAPI_CreateExpense_GeneratesProtocolNumberWhenOmitted(t *testing.T) {
	router := newTestRouter(t)

	body := expenseBody("", "500.00")
	delete(body, "protocol_number")
	rec := do(t, router, http.MethodPost, "/api/expenses", body)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	got := decode(t, rec)["protocol_number"].(string)
	assert.Regexp(t, `^\d{5}\.\d{6}/\d{4}-\d{2}$`, got)
}

func TestAPI_CreateExpense_InvalidInput_Rejected(t *testing.T) {
	router := newTestRouter(t)

	// Unknown category
	body := expenseBody("43022.000101/2026-11", "100.00")
	body["category"] = "Obra Espacial"
	rec := do(t, router, http.MethodPost, "/api/expenses", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-positive amount
	rec = do(t, router, http.MethodPost, "/api/expenses", expenseBody("43022.000102/2026-12", "0.00"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing creditor
	body = expenseBody("43022.000103/2026-13", "100.00")
	body["creditor"] = ""
	rec = do(t, router, http.MethodPost, "/api/expenses", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_CreateExpense_DuplicateProtocol_Conflict(t *testing.T) {
	router := newTestRouter(t)

	createExpense(t, router, "43022.000104/2026-14", "100.00")
	rec := do(t, router, http.MethodPost, "/api/expenses", expenseBody("43022.000104/2026-14", "200.00"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// =============================================================================
// COMMITMENT CEILING OVER HTTP
// =============================================================================

func TestAPI_CommitmentCeiling_FullLifecycle(t *testing.T) {
	// GIVEN: An expense of 1000
	// WHEN: Committing 400, then 600, then one cent more
	// THEN: Status walks awaiting -> partially -> awaiting payment,
	//       and the overrun is rejected with both totals

	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000105/2026-15", "1000.00")

	createCommitment(t, router, expenseID, "2026NE0100", "400.00")
	assert.Equal(t, "partially_committed", expenseStatus(t, router, expenseID))

	createCommitment(t, router, expenseID, "2026NE0101", "600.00")
	assert.Equal(t, "awaiting_payment", expenseStatus(t, router, expenseID))

	rec := do(t, router, http.MethodPost, "/api/commitments", map[string]any{
		"number":     "2026NE0102",
		"date":       "2026-03-01",
		"amount":     "0.01",
		"expense_id": expenseID,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "1000.01", body["attempted_total"])
	assert.Equal(t, "1000.00", body["ceiling"])
	assert.Contains(t, body["error"], "empenhos")
}

func TestAPI_CreateCommitment_MissingExpense_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/commitments", map[string]any{
		"number":     "2026NE0103",
		"date":       "2026-03-01",
		"amount":     "10.00",
		"expense_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateCommitment_ExcludesOwnAmount(t *testing.T) {
	// GIVEN: Expense 100 with commitments 60 and 30
	// WHEN: Raising the 60 commitment to 70, then to 70.01
	// THEN: 70 fits (its own 60 does not count), 70.01 does not

	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000106/2026-16", "100.00")
	c1 := createCommitment(t, router, expenseID, "2026NE0110", "60.00")
	createCommitment(t, router, expenseID, "2026NE0111", "30.00")

	rec := do(t, router, http.MethodPut, fmt.Sprintf("/api/commitments/%d", c1), map[string]any{
		"number": "2026NE0110",
		"date":   "2026-03-01",
		"amount": "70.00",
	})
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	rec = do(t, router, http.MethodPut, fmt.Sprintf("/api/commitments/%d", c1), map[string]any{
		"number": "2026NE0110",
		"date":   "2026-03-01",
		"amount": "70.01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_UpdateCommitment_ReductionBelowPayments_Rejected(t *testing.T) {
	// GIVEN: Commitment of 500 with 200 already paid
	// WHEN: Reducing it to 150, then to 200
	// THEN: 150 strands payments and is refused; 200 is the floor and passes

	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000107/2026-17", "1000.00")
	c := createCommitment(t, router, expenseID, "2026NE0120", "500.00")
	createPayment(t, router, c, "2026NP0120", "200.00")

	rec := do(t, router, http.MethodPut, fmt.Sprintf("/api/commitments/%d", c), map[string]any{
		"number": "2026NE0120",
		"date":   "2026-03-01",
		"amount": "150.00",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "pagamentos já realizados")

	rec = do(t, router, http.MethodPut, fmt.Sprintf("/api/commitments/%d", c), map[string]any{
		"number": "2026NE0120",
		"date":   "2026-03-01",
		"amount": "200.00",
	})
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
}

// =============================================================================
// PAYMENT CEILING OVER HTTP
// =============================================================================

func TestAPI_PaymentCeiling_AgainstCommitmentNotExpense(t *testing.T) {
	// GIVEN: Expense 1000 fully committed as 400 + 600
	// WHEN: Paying 600 against the 600 commitment, then one cent more
	// THEN: The ceiling reported is the commitment's 600, not the expense's 1000

	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000108/2026-18", "1000.00")
	createCommitment(t, router, expenseID, "2026NE0130", "400.00")
	c2 := createCommitment(t, router, expenseID, "2026NE0131", "600.00")

	createPayment(t, router, c2, "2026NP0130", "600.00")
	assert.Equal(t, "partially_paid", expenseStatus(t, router, expenseID))

	rec := do(t, router, http.MethodPost, "/api/payments", map[string]any{
		"number":        "2026NP0131",
		"date":          "2026-04-01",
		"amount":        "0.01",
		"commitment_id": c2,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "600.01", body["attempted_total"])
	assert.Equal(t, "600.00", body["ceiling"])
}

func TestAPI_FullyPaidExpense_StatusPaid(t *testing.T) {
	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000109/2026-19", "1000.00")
	c1 := createCommitment(t, router, expenseID, "2026NE0140", "400.00")
	c2 := createCommitment(t, router, expenseID, "2026NE0141", "600.00")

	createPayment(t, router, c1, "2026NP0140", "400.00")
	createPayment(t, router, c2, "2026NP0141", "600.00")

	assert.Equal(t, "paid", expenseStatus(t, router, expenseID))
}

func TestAPI_UpdatePayment_Reparent(t *testing.T) {
	// GIVEN: Two commitments, a payment under the first
	// WHEN: Moving it to the second via PUT with the new commitment_id
	// THEN: The payment validates against the target's ceiling and moves

	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000110/2026-20", "1000.00")
	a := createCommitment(t, router, expenseID, "2026NE0150", "500.00")
	b := createCommitment(t, router, expenseID, "2026NE0151", "500.00")
	p := createPayment(t, router, a, "2026NP0150", "300.00")

	rec := do(t, router, http.MethodPut, fmt.Sprintf("/api/payments/%d", p), map[string]any{
		"number":        "2026NP0150",
		"date":          "2026-04-01",
		"amount":        "300.00",
		"commitment_id": b,
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, float64(b), decode(t, rec)["commitment_id"])

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/api/payments/commitment/%d", a), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var underA []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &underA))
	assert.Empty(t, underA)
}

// =============================================================================
// DELETION GUARDS OVER HTTP
// =============================================================================

func TestAPI_DeleteGuards_BottomUpOnly(t *testing.T) {
	router := newTestRouter(t)
	expenseID := createExpense(t, router, "43022.000111/2026-21", "1000.00")
	c := createCommitment(t, router, expenseID, "2026NE0160", "500.00")
	p := createPayment(t, router, c, "2026NP0160", "100.00")

	rec := do(t, router, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", expenseID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/api/commitments/%d", c), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/api/payments/%d", p), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/api/commitments/%d", c), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", expenseID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, fmt.Sprintf("/api/expenses/%d", expenseID), nil).Code)
}

// =============================================================================
// ADMIN AND HEALTH
// =============================================================================

func TestAPI_SeedDemoData(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/admin/seed", nil)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, float64(5), decode(t, rec)["expenses"])

	rec = do(t, router, http.MethodGet, "/api/expenses", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var expenses []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expenses))
	require.Len(t, expenses, 5)

	// The dataset covers every derived status.
	seen := map[string]bool{}
	for _, e := range expenses {
		seen[e["status"].(string)] = true
	}
	for _, want := range []string{"awaiting_commitment", "partially_committed", "awaiting_payment", "partially_paid", "paid"} {
		assert.True(t, seen[want], "missing status %s", want)
	}
}

func TestAPI_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}
