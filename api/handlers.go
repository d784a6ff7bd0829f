/*
handlers.go - HTTP API handlers for the expenditure ledger

PURPOSE:
  Exposes the ledger via REST. Handles HTTP request/response, JSON
  serialization, and delegates every business decision to the pure
  engine in the ledger package.

ENDPOINTS:
  Expenses:
    GET    /api/expenses                    List all (with derived status)
    POST   /api/expenses                    Create
    GET    /api/expenses/{id}               Get one
    PUT    /api/expenses/{id}               Update
    DELETE /api/expenses/{id}               Delete (refused with commitments)

  Commitments:
    GET    /api/commitments                 List all
    GET    /api/commitments/expense/{id}    List for one expense
    POST   /api/commitments                 Create (ceiling-validated)
    GET    /api/commitments/{id}            Get one
    PUT    /api/commitments/{id}            Update (ceiling + floor validated)
    DELETE /api/commitments/{id}            Delete (refused with payments)

  Payments:
    GET    /api/payments                    List all
    GET    /api/payments/commitment/{id}    List for one commitment
    POST   /api/payments                    Create (ceiling-validated)
    GET    /api/payments/{id}               Get one
    PUT    /api/payments/{id}               Update (may move commitment)
    DELETE /api/payments/{id}               Delete (unconditional)

REQUEST FLOW:
  1. Parse and validate input (presence, positivity, category)
  2. Load a fresh snapshot from the store
  3. Run the engine check (validator / deletion guard)
  4. Persist only on acceptance
  5. Serialize response

  The snapshot is re-loaded immediately before each write; the write is
  the serialization point for the containment invariants.

ERROR HANDLING:
  - 400: Validation rejections (with attempted total and ceiling), bad input
  - 404: Missing records or parents
  - 409: Duplicate document numbers, deletion of records with dependents
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - ledger/validate.go: The checks enforced here
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sop/fiscal-engine/ledger"
	"github.com/sop/fiscal-engine/numbering"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  ledger.Store
	Logger *zap.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store ledger.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Logger: logger}
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns all expenses with their derived statuses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(snap.Expenses))
	for i, e := range snap.Expenses {
		dtos[i] = toExpenseDTO(e, snap)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetExpense returns a single expense.
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to get expense", err)
		return
	}

	e, ok := snap.Expense(ledger.ExpenseID(id))
	if !ok {
		writeError(w, http.StatusNotFound, "despesa não encontrada", nil)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(e, snap))
}

// CreateExpense creates a new expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", err)
		return
	}

	e, msg := expenseFromRequest(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}
	if e.ProtocolNumber == "" {
		e.ProtocolNumber = numbering.ProtocolNumber()
	}

	if err := h.Store.SaveExpense(r.Context(), &e); err != nil {
		h.storeError(w, "número de protocolo já existe: "+e.ProtocolNumber, err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(e, snap))
}

// UpdateExpense updates an existing expense.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	existing, err := h.Store.GetExpense(r.Context(), ledger.ExpenseID(id))
	if err != nil {
		h.internal(w, "failed to get expense", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "despesa não encontrada", nil)
		return
	}

	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", err)
		return
	}

	e, msg := expenseFromRequest(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}
	e.ID = existing.ID
	if e.ProtocolNumber == "" {
		e.ProtocolNumber = existing.ProtocolNumber
	}

	if err := h.Store.UpdateExpense(r.Context(), e); err != nil {
		h.storeError(w, "número de protocolo já existe: "+e.ProtocolNumber, err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(e, snap))
}

// DeleteExpense deletes an expense. Refused while commitments reference it.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	if _, found := snap.Expense(ledger.ExpenseID(id)); !found {
		writeError(w, http.StatusNotFound, "despesa não encontrada", nil)
		return
	}
	if !ledger.CanDeleteExpense(ledger.ExpenseID(id), snap.Commitments) {
		writeError(w, http.StatusConflict, "não é possível excluir despesa que possui empenhos associados", nil)
		return
	}

	if err := h.Store.DeleteExpense(ctx, ledger.ExpenseID(id)); err != nil {
		h.storeError(w, "não é possível excluir despesa que possui empenhos associados", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMMITMENT HANDLERS
// =============================================================================

// ListCommitments returns all commitments.
func (h *Handler) ListCommitments(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to list commitments", err)
		return
	}

	dtos := make([]CommitmentDTO, len(snap.Commitments))
	for i, c := range snap.Commitments {
		dtos[i] = toCommitmentDTO(c, snap)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListCommitmentsByExpense returns the commitments of one expense.
func (h *Handler) ListCommitmentsByExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "expenseID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "identificador inválido", err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to list commitments", err)
		return
	}

	commitments := snap.CommitmentsFor(ledger.ExpenseID(id))
	dtos := make([]CommitmentDTO, len(commitments))
	for i, c := range commitments {
		dtos[i] = toCommitmentDTO(c, snap)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCommitment returns a single commitment.
func (h *Handler) GetCommitment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to get commitment", err)
		return
	}

	c, found := snap.Commitment(ledger.CommitmentID(id))
	if !found {
		writeError(w, http.StatusNotFound, "empenho não encontrado", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCommitmentDTO(c, snap))
}

// CreateCommitment creates a commitment after checking the expense ceiling.
func (h *Handler) CreateCommitment(w http.ResponseWriter, r *http.Request) {
	var req CommitmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", err)
		return
	}

	amount, date, msg := parseAmountAndDate(req.Amount, req.Date, "empenho")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	ctx := r.Context()
	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}

	expense, found := snap.Expense(ledger.ExpenseID(req.ExpenseID))
	if !found {
		writeError(w, http.StatusNotFound, "despesa não encontrada", nil)
		return
	}

	verdict, err := ledger.ValidateCommitmentAmount(expense, snap.Commitments, amount, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "despesa inválida", err)
		return
	}
	if !verdict.Accepted {
		writeRejection(w, verdict)
		return
	}

	c := ledger.Commitment{
		Number:    req.Number,
		Date:      date,
		Amount:    amount,
		Note:      req.Note,
		ExpenseID: expense.ID,
	}
	if c.Number == "" {
		c.Number = numbering.CommitmentNumber()
	}

	if err := h.Store.SaveCommitment(ctx, &c); err != nil {
		h.storeError(w, "número de empenho já existe: "+c.Number, err)
		return
	}

	snap, err = h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommitmentDTO(c, snap))
}

// UpdateCommitment amends a commitment. The new amount is re-validated
// against the expense ceiling excluding the commitment's own prior
// amount, and against the floor of payments already recorded.
func (h *Handler) UpdateCommitment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	existing, err := h.Store.GetCommitment(ctx, ledger.CommitmentID(id))
	if err != nil {
		h.internal(w, "failed to get commitment", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "empenho não encontrado", nil)
		return
	}

	var req CommitmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", err)
		return
	}

	amount, date, msg := parseAmountAndDate(req.Amount, req.Date, "empenho")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}

	// A commitment never changes owner; the expense comes from the record.
	expense, found := snap.Expense(existing.ExpenseID)
	if !found {
		writeError(w, http.StatusNotFound, "despesa não encontrada", nil)
		return
	}

	floor, err := ledger.ValidateCommitmentReduction(*existing, snap.Payments, amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "empenho inválido", err)
		return
	}
	if !floor.Accepted {
		writeRejection(w, floor)
		return
	}

	verdict, err := ledger.ValidateCommitmentAmount(expense, snap.Commitments, amount, existing.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "despesa inválida", err)
		return
	}
	if !verdict.Accepted {
		writeRejection(w, verdict)
		return
	}

	c := ledger.Commitment{
		ID:        existing.ID,
		Number:    req.Number,
		Date:      date,
		Amount:    amount,
		Note:      req.Note,
		ExpenseID: existing.ExpenseID,
	}
	if c.Number == "" {
		c.Number = existing.Number
	}

	if err := h.Store.UpdateCommitment(ctx, c); err != nil {
		h.storeError(w, "número de empenho já existe: "+c.Number, err)
		return
	}

	snap, err = h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toCommitmentDTO(c, snap))
}

// DeleteCommitment deletes a commitment. Refused while payments reference it.
func (h *Handler) DeleteCommitment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	if _, found := snap.Commitment(ledger.CommitmentID(id)); !found {
		writeError(w, http.StatusNotFound, "empenho não encontrado", nil)
		return
	}
	if !ledger.CanDeleteCommitment(ledger.CommitmentID(id), snap.Payments) {
		writeError(w, http.StatusConflict, "não é possível excluir empenho que possui pagamentos associados", nil)
		return
	}

	if err := h.Store.DeleteCommitment(ctx, ledger.CommitmentID(id)); err != nil {
		h.storeError(w, "não é possível excluir empenho que possui pagamentos associados", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns all payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(snap.Payments))
	for i, p := range snap.Payments {
		dtos[i] = toPaymentDTO(p, snap)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListPaymentsByCommitment returns the payments of one commitment.
func (h *Handler) ListPaymentsByCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "commitmentID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "identificador inválido", err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to list payments", err)
		return
	}

	payments := snap.PaymentsFor(ledger.CommitmentID(id))
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p, snap)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayment returns a single payment.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		h.internal(w, "failed to get payment", err)
		return
	}

	p, found := snap.Payment(ledger.PaymentID(id))
	if !found {
		writeError(w, http.StatusNotFound, "pagamento não encontrado", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p, snap))
}

// CreatePayment creates a payment after checking the commitment ceiling.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", err)
		return
	}

	amount, date, msg := parseAmountAndDate(req.Amount, req.Date, "pagamento")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	ctx := r.Context()
	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}

	commitment, found := snap.Commitment(ledger.CommitmentID(req.CommitmentID))
	if !found {
		writeError(w, http.StatusNotFound, "empenho não encontrado", nil)
		return
	}

	verdict, err := ledger.ValidatePaymentAmount(commitment, snap.Payments, amount, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "empenho inválido", err)
		return
	}
	if !verdict.Accepted {
		writeRejection(w, verdict)
		return
	}

	p := ledger.Payment{
		Number:       req.Number,
		Date:         date,
		Amount:       amount,
		Note:         req.Note,
		CommitmentID: commitment.ID,
	}
	if p.Number == "" {
		p.Number = numbering.PaymentNumber()
	}

	if err := h.Store.SavePayment(ctx, &p); err != nil {
		h.storeError(w, "número de pagamento já existe: "+p.Number, err)
		return
	}

	snap, err = h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(p, snap))
}

// UpdatePayment amends a payment. A different commitment_id re-parents
// the payment; the amount is validated against the target commitment's
// ceiling, excluding the payment's own prior amount.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	existing, err := h.Store.GetPayment(ctx, ledger.PaymentID(id))
	if err != nil {
		h.internal(w, "failed to get payment", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "pagamento não encontrado", nil)
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido", err)
		return
	}

	amount, date, msg := parseAmountAndDate(req.Amount, req.Date, "pagamento")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}

	target := existing.CommitmentID
	if req.CommitmentID != 0 {
		target = ledger.CommitmentID(req.CommitmentID)
	}
	commitment, found := snap.Commitment(target)
	if !found {
		writeError(w, http.StatusNotFound, "empenho não encontrado", nil)
		return
	}

	// Excluding the payment's own id is correct whether or not it moves:
	// when re-parenting, the prior record sits under the old commitment
	// and never matches the target's filter anyway.
	verdict, err := ledger.ValidatePaymentAmount(commitment, snap.Payments, amount, existing.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "empenho inválido", err)
		return
	}
	if !verdict.Accepted {
		writeRejection(w, verdict)
		return
	}

	p := ledger.Payment{
		ID:           existing.ID,
		Number:       req.Number,
		Date:         date,
		Amount:       amount,
		Note:         req.Note,
		CommitmentID: commitment.ID,
	}
	if p.Number == "" {
		p.Number = existing.Number
	}

	if err := h.Store.UpdatePayment(ctx, p); err != nil {
		h.storeError(w, "número de pagamento já existe: "+p.Number, err)
		return
	}

	snap, err = h.Store.Snapshot(ctx)
	if err != nil {
		h.internal(w, "failed to load snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p, snap))
}

// DeletePayment deletes a payment. Nothing references payments, so
// deletion is unconditional.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.Store.DeletePayment(r.Context(), ledger.PaymentID(id)); err != nil {
		if errors.Is(err, ledger.ErrPaymentNotFound) {
			writeError(w, http.StatusNotFound, "pagamento não encontrado", nil)
			return
		}
		h.internal(w, "failed to delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "identificador inválido", err)
		return 0, false
	}
	return id, true
}

// parseDate accepts RFC 3339 or plain YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseAmountAndDate validates the shared commitment/payment fields.
// Returns a user-facing message when invalid. Positivity is checked here
// because the engine validator deliberately does not pre-reject it.
func parseAmountAndDate(amountStr, dateStr, kind string) (decimal.Decimal, time.Time, string) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, time.Time{}, "valor inválido"
	}
	if !amount.IsPositive() {
		return decimal.Zero, time.Time{}, "o valor do " + kind + " deve ser maior que zero"
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return decimal.Zero, time.Time{}, "data inválida (use YYYY-MM-DD)"
	}
	return amount, date, ""
}

// expenseFromRequest validates and converts an expense payload.
func expenseFromRequest(req ExpenseRequest) (ledger.Expense, string) {
	if req.Creditor == "" || req.Description == "" {
		return ledger.Expense{}, "credor e descrição são obrigatórios"
	}

	category := ledger.Category(req.Category)
	if !category.Valid() {
		return ledger.Expense{}, "tipo de despesa inválido"
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ledger.Expense{}, "valor inválido"
	}
	if !amount.IsPositive() {
		return ledger.Expense{}, "o valor da despesa deve ser maior que zero"
	}

	protocolDate, err := parseDate(req.ProtocolDate)
	if err != nil {
		return ledger.Expense{}, "data de protocolo inválida (use YYYY-MM-DD)"
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return ledger.Expense{}, "data de vencimento inválida (use YYYY-MM-DD)"
	}

	return ledger.Expense{
		ProtocolNumber: req.ProtocolNumber,
		Category:       category,
		ProtocolDate:   protocolDate,
		DueDate:        dueDate,
		Creditor:       req.Creditor,
		Description:    req.Description,
		Amount:         amount,
	}, ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeRejection surfaces a validator verdict as HTTP 400 with both
// numeric values for client-side formatting.
func writeRejection(w http.ResponseWriter, v ledger.Verdict) {
	writeJSON(w, http.StatusBadRequest, RejectionResponse{
		Error:          v.Reason,
		AttemptedTotal: v.Attempted.StringFixed(2),
		Ceiling:        v.Ceiling.StringFixed(2),
	})
}

// storeError maps store sentinels to HTTP statuses. conflictMsg is the
// user-facing message for 409s.
func (h *Handler) storeError(w http.ResponseWriter, conflictMsg string, err error) {
	switch {
	case ledger.IsConflict(err):
		writeError(w, http.StatusConflict, conflictMsg, err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	default:
		h.internal(w, "storage failure", err)
	}
}

func (h *Handler) internal(w http.ResponseWriter, message string, err error) {
	h.Logger.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message, err)
}
