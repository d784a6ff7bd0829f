/*
Package ledger implements the public-expenditure consistency engine.

PURPOSE:
  This package contains the data model and the pure business rules for a
  three-level expenditure ledger: Expense (Despesa) -> Commitment
  (Empenho) -> Payment (Pagamento). Money committed against an expense
  never exceeds the expense amount; money paid against a commitment never
  exceeds the commitment amount.

KEY CONCEPTS IN THIS FILE (types.go):
  - Expense/Commitment/Payment: The three ledger entities
  - ExpenseID/CommitmentID/PaymentID: Type-safe identifiers (zero = draft)
  - Category: Fixed expense classification
  - Status: Derived expense lifecycle state, never stored
  - Snapshot: The three collections the engine operates over

DESIGN PRINCIPLES:
  1. Purity: Every operation is a function of caller-supplied snapshots.
     The engine holds no state, performs no I/O, and caches nothing.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
  3. Type Safety: Strong typing for IDs prevents mixing entity levels.
  4. Derivation: Status and totals are always recomputed from scratch.

USAGE:
  snap, _ := store.Snapshot(ctx)
  status := ledger.ResolveStatus(expense, snap.Commitments, snap.Payments)
  verdict, err := ledger.ValidateCommitmentAmount(expense, snap.Commitments, amount, 0)

SEE ALSO:
  - aggregate.go: Amount summation across the hierarchy
  - status.go: Status derivation state machine
  - validate.go: Containment invariant checks
  - guard.go: Deletion predicates
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// Identifiers are assigned by the persistence layer. The engine treats them
// as opaque equality-comparable values and never generates them. The zero
// value marks a draft record that has not been saved yet.

type ExpenseID int64
type CommitmentID int64
type PaymentID int64

// Persisted reports whether the identifier was assigned by storage.
func (id ExpenseID) Persisted() bool    { return id != 0 }
func (id CommitmentID) Persisted() bool { return id != 0 }
func (id PaymentID) Persisted() bool    { return id != 0 }

// =============================================================================
// CATEGORY - Fixed expense classification
// =============================================================================

// Category classifies an expense. Values are the human-facing pt-BR
// labels, so they double as wire values.
type Category string

const (
	CategoryBuildingWorks Category = "Obra de Edificação"
	CategoryRoadWorks     Category = "Obra de Rodovias"
	CategoryOther         Category = "Outros"
)

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBuildingWorks, CategoryRoadWorks, CategoryOther:
		return true
	}
	return false
}

// =============================================================================
// STATUS - Derived expense lifecycle state
// =============================================================================

// Status is the display state of an expense, derived on every read from
// the current commitment and payment collections. It is never persisted.
type Status string

const (
	StatusAwaitingCommitment Status = "awaiting_commitment"
	StatusPartiallyCommitted Status = "partially_committed"
	StatusAwaitingPayment    Status = "awaiting_payment"
	StatusPartiallyPaid      Status = "partially_paid"
	StatusPaid               Status = "paid"
)

// Label returns the pt-BR display label for the status.
func (s Status) Label() string {
	switch s {
	case StatusAwaitingCommitment:
		return "Aguardando Empenho"
	case StatusPartiallyCommitted:
		return "Parcialmente Empenhada"
	case StatusAwaitingPayment:
		return "Aguardando Pagamento"
	case StatusPartiallyPaid:
		return "Parcialmente Paga"
	case StatusPaid:
		return "Paga"
	}
	return string(s)
}

// =============================================================================
// ENTITIES
// =============================================================================

// Expense is a claim for payment, the root of the ledger hierarchy.
type Expense struct {
	ID             ExpenseID
	ProtocolNumber string
	Category       Category
	ProtocolDate   time.Time
	DueDate        time.Time
	Creditor       string
	Description    string
	Amount         decimal.Decimal // invariant: > 0
}

// Commitment is an administrative reservation of funds against exactly
// one expense. The sum of commitments referencing an expense never
// exceeds the expense amount.
type Commitment struct {
	ID        CommitmentID
	Number    string
	Date      time.Time
	Amount    decimal.Decimal // invariant: > 0
	Note      string
	ExpenseID ExpenseID
}

// Payment settles funds against exactly one commitment. The sum of
// payments referencing a commitment never exceeds the commitment amount.
type Payment struct {
	ID           PaymentID
	Number       string
	Date         time.Time
	Amount       decimal.Decimal // invariant: > 0
	Note         string
	CommitmentID CommitmentID
}

// =============================================================================
// SNAPSHOT - Point-in-time view of the three collections
// =============================================================================

// Snapshot bundles the current entity collections. The engine consumes
// snapshots assembled by a storage layer and performs no fetching itself.
// Relations are recomputed by filtering on each call; no back-pointer
// collections are maintained.
type Snapshot struct {
	Expenses    []Expense
	Commitments []Commitment
	Payments    []Payment
}

// Expense returns the expense with the given id, if present.
func (s Snapshot) Expense(id ExpenseID) (Expense, bool) {
	for _, e := range s.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}

// Commitment returns the commitment with the given id, if present.
func (s Snapshot) Commitment(id CommitmentID) (Commitment, bool) {
	for _, c := range s.Commitments {
		if c.ID == id {
			return c, true
		}
	}
	return Commitment{}, false
}

// Payment returns the payment with the given id, if present.
func (s Snapshot) Payment(id PaymentID) (Payment, bool) {
	for _, p := range s.Payments {
		if p.ID == id {
			return p, true
		}
	}
	return Payment{}, false
}

// CommitmentsFor returns the commitments referencing an expense.
func (s Snapshot) CommitmentsFor(id ExpenseID) []Commitment {
	var out []Commitment
	for _, c := range s.Commitments {
		if c.ExpenseID == id {
			out = append(out, c)
		}
	}
	return out
}

// PaymentsFor returns the payments referencing a commitment.
func (s Snapshot) PaymentsFor(id CommitmentID) []Payment {
	var out []Payment
	for _, p := range s.Payments {
		if p.CommitmentID == id {
			out = append(out, p)
		}
	}
	return out
}

// MustParseDecimal parses s as a decimal amount, returning zero on error.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
