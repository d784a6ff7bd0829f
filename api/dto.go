/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Monetary values travel as decimal strings ("1500.00"), never as JSON
  numbers, so nothing is lost to float parsing on either side. Locale
  rendering (R$ 1.500,00) is the frontend's job.

DATES:
  Responses use RFC 3339. Requests accept RFC 3339 or plain YYYY-MM-DD.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/sop/fiscal-engine/ledger"
)

// =============================================================================
// EXPENSES
// =============================================================================

// ExpenseDTO represents an expense in API responses. Status is derived
// from the current commitment/payment collections on every read.
type ExpenseDTO struct {
	ID             int64  `json:"id"`
	ProtocolNumber string `json:"protocol_number"`
	Category       string `json:"category"`
	ProtocolDate   string `json:"protocol_date"`
	DueDate        string `json:"due_date"`
	Creditor       string `json:"creditor"`
	Description    string `json:"description"`
	Amount         string `json:"amount"`
	Status         string `json:"status"`
	StatusLabel    string `json:"status_label"`
	CommittedTotal string `json:"committed_total"`
	PaidTotal      string `json:"paid_total"`
}

// ExpenseRequest is the request to create or update an expense.
// An empty protocol_number on create gets a generated one.
type ExpenseRequest struct {
	ProtocolNumber string `json:"protocol_number,omitempty"`
	Category       string `json:"category"`
	ProtocolDate   string `json:"protocol_date"`
	DueDate        string `json:"due_date"`
	Creditor       string `json:"creditor"`
	Description    string `json:"description"`
	Amount         string `json:"amount"`
}

// =============================================================================
// COMMITMENTS
// =============================================================================

// CommitmentDTO represents a commitment in API responses.
type CommitmentDTO struct {
	ID                    int64  `json:"id"`
	Number                string `json:"number"`
	Date                  string `json:"date"`
	Amount                string `json:"amount"`
	Note                  string `json:"note,omitempty"`
	ExpenseID             int64  `json:"expense_id"`
	ExpenseProtocolNumber string `json:"expense_protocol_number,omitempty"`
	PaidTotal             string `json:"paid_total"`
}

// CommitmentRequest is the request to create or update a commitment.
// expense_id is ignored on update; a commitment never changes owner.
type CommitmentRequest struct {
	Number    string `json:"number,omitempty"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Note      string `json:"note,omitempty"`
	ExpenseID int64  `json:"expense_id"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentDTO represents a payment in API responses.
type PaymentDTO struct {
	ID               int64  `json:"id"`
	Number           string `json:"number"`
	Date             string `json:"date"`
	Amount           string `json:"amount"`
	Note             string `json:"note,omitempty"`
	CommitmentID     int64  `json:"commitment_id"`
	CommitmentNumber string `json:"commitment_number,omitempty"`
}

// PaymentRequest is the request to create or update a payment. On update
// a different commitment_id moves the payment to that commitment, subject
// to the new commitment's ceiling.
type PaymentRequest struct {
	Number       string `json:"number,omitempty"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Note         string `json:"note,omitempty"`
	CommitmentID int64  `json:"commitment_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RejectionResponse is returned when a proposed amount would overrun its
// ceiling. It carries both numeric values for client-side formatting.
type RejectionResponse struct {
	Error          string `json:"error"`
	AttemptedTotal string `json:"attempted_total"`
	Ceiling        string `json:"ceiling"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toExpenseDTO(e ledger.Expense, snap ledger.Snapshot) ExpenseDTO {
	status := ledger.ResolveStatus(e, snap.Commitments, snap.Payments)
	return ExpenseDTO{
		ID:             int64(e.ID),
		ProtocolNumber: e.ProtocolNumber,
		Category:       string(e.Category),
		ProtocolDate:   e.ProtocolDate.Format(time.RFC3339),
		DueDate:        e.DueDate.Format(time.RFC3339),
		Creditor:       e.Creditor,
		Description:    e.Description,
		Amount:         e.Amount.StringFixed(2),
		Status:         string(status),
		StatusLabel:    status.Label(),
		CommittedTotal: ledger.SumCommitments(snap.Commitments, e.ID).StringFixed(2),
		PaidTotal:      ledger.SumPaymentsForExpense(snap.Commitments, snap.Payments, e.ID).StringFixed(2),
	}
}

func toCommitmentDTO(c ledger.Commitment, snap ledger.Snapshot) CommitmentDTO {
	dto := CommitmentDTO{
		ID:        int64(c.ID),
		Number:    c.Number,
		Date:      c.Date.Format(time.RFC3339),
		Amount:    c.Amount.StringFixed(2),
		Note:      c.Note,
		ExpenseID: int64(c.ExpenseID),
		PaidTotal: ledger.SumPayments(snap.Payments, c.ID).StringFixed(2),
	}
	if e, ok := snap.Expense(c.ExpenseID); ok {
		dto.ExpenseProtocolNumber = e.ProtocolNumber
	}
	return dto
}

func toPaymentDTO(p ledger.Payment, snap ledger.Snapshot) PaymentDTO {
	dto := PaymentDTO{
		ID:           int64(p.ID),
		Number:       p.Number,
		Date:         p.Date.Format(time.RFC3339),
		Amount:       p.Amount.StringFixed(2),
		Note:         p.Note,
		CommitmentID: int64(p.CommitmentID),
	}
	if c, ok := snap.Commitment(p.CommitmentID); ok {
		dto.CommitmentNumber = c.Number
	}
	return dto
}
