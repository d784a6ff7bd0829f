/*
store.go - Persistence interface for the three entity collections

PURPOSE:
  Defines the interface between the ledger and the database. The engine
  itself performs no I/O; callers assemble a Snapshot through this
  interface and hand it to the pure functions. Different implementations
  can use SQLite or in-memory storage.

IDENTITY:
  Save* inserts a record and assigns its identifier. Identifiers are
  storage-owned; the engine only compares them.

UNIQUENESS:
  Document numbers (protocol, commitment and payment numbers) are unique
  per entity type. Implementations return ErrDuplicateNumber on collision.

DELETION:
  Implementations refuse to delete records with dependents
  (ErrHasCommitments, ErrHasPayments). The API layer additionally
  consults the pure deletion guard before attempting, but the store is
  the serialization point and has the final word.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - ledger/store: In-memory for testing and dev

SEE ALSO:
  - types.go: Entity and Snapshot definitions
  - guard.go: Pure deletion predicates
*/
package ledger

import "context"

// Store handles persistence of expenses, commitments and payments.
type Store interface {
	// Expenses
	ListExpenses(ctx context.Context) ([]Expense, error)
	GetExpense(ctx context.Context, id ExpenseID) (*Expense, error)
	SaveExpense(ctx context.Context, e *Expense) error
	UpdateExpense(ctx context.Context, e Expense) error
	DeleteExpense(ctx context.Context, id ExpenseID) error

	// Commitments
	ListCommitments(ctx context.Context) ([]Commitment, error)
	ListCommitmentsByExpense(ctx context.Context, id ExpenseID) ([]Commitment, error)
	GetCommitment(ctx context.Context, id CommitmentID) (*Commitment, error)
	SaveCommitment(ctx context.Context, c *Commitment) error
	UpdateCommitment(ctx context.Context, c Commitment) error
	DeleteCommitment(ctx context.Context, id CommitmentID) error

	// Payments
	ListPayments(ctx context.Context) ([]Payment, error)
	ListPaymentsByCommitment(ctx context.Context, id CommitmentID) ([]Payment, error)
	GetPayment(ctx context.Context, id PaymentID) (*Payment, error)
	SavePayment(ctx context.Context, p *Payment) error
	UpdatePayment(ctx context.Context, p Payment) error
	DeletePayment(ctx context.Context, id PaymentID) error

	// Snapshot assembles the current state of all three collections.
	// Callers re-validate against a fresh snapshot immediately before
	// each write; the write itself is the serialization point.
	Snapshot(ctx context.Context) (Snapshot, error)
}
