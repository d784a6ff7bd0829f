/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists the three entity collections (expenses, commitments, payments)
  and assembles the snapshots the pure engine consumes. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  expenses:    Root claims, unique protocol number
  commitments: Reservations, unique commitment number, FK to expenses
  payments:    Settlements, unique payment number, FK to commitments

AMOUNTS:
  Monetary values are stored as decimal strings (TEXT), never as REAL.
  They round-trip through decimal.Decimal without drift.

REFERENTIAL INTEGRITY:
  Foreign keys are ON. Deletes are additionally guarded in Go so the
  caller gets a sentinel error (ErrHasCommitments, ErrHasPayments)
  instead of a raw constraint failure. Nothing cascades.

IDENTITY:
  INTEGER PRIMARY KEY AUTOINCREMENT. Save* writes the assigned id back
  into the passed record.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/fiscal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definition
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/sop/fiscal-engine/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ ledger.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		protocol_number TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		protocol_date TEXT NOT NULL,
		due_date TEXT NOT NULL,
		creditor TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS commitments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		number TEXT NOT NULL UNIQUE,
		commitment_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		expense_id INTEGER NOT NULL REFERENCES expenses(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commitments_expense
		ON commitments(expense_id);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		number TEXT NOT NULL UNIQUE,
		payment_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		commitment_id INTEGER NOT NULL REFERENCES commitments(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_commitment
		ON payments(commitment_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation detects a UNIQUE constraint failure without binding
// to driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// =============================================================================
// EXPENSES
// =============================================================================

const expenseColumns = "id, protocol_number, category, protocol_date, due_date, creditor, description, amount"

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (ledger.Expense, error) {
	var (
		e            ledger.Expense
		category     string
		protocolDate string
		dueDate      string
		amount       string
	)
	if err := row.Scan(&e.ID, &e.ProtocolNumber, &category, &protocolDate, &dueDate, &e.Creditor, &e.Description, &amount); err != nil {
		return ledger.Expense{}, err
	}
	e.Category = ledger.Category(category)
	e.ProtocolDate, _ = time.Parse(time.RFC3339, protocolDate)
	e.DueDate, _ = time.Parse(time.RFC3339, dueDate)
	e.Amount, _ = decimal.NewFromString(amount)
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]ledger.Expense, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+expenseColumns+" FROM expenses ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetExpense(ctx context.Context, id ledger.ExpenseID) (*ledger.Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) SaveExpense(ctx context.Context, e *ledger.Expense) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (protocol_number, category, protocol_date, due_date, creditor, description, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ProtocolNumber, string(e.Category),
		e.ProtocolDate.UTC().Format(time.RFC3339), e.DueDate.UTC().Format(time.RFC3339),
		e.Creditor, e.Description, e.Amount.String(), now, now)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateNumber
	}
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = ledger.ExpenseID(id)
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e ledger.Expense) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET protocol_number = ?, category = ?, protocol_date = ?, due_date = ?, creditor = ?, description = ?, amount = ?, updated_at = ?
		WHERE id = ?`,
		e.ProtocolNumber, string(e.Category),
		e.ProtocolDate.UTC().Format(time.RFC3339), e.DueDate.UTC().Format(time.RFC3339),
		e.Creditor, e.Description, e.Amount.String(), now, e.ID)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateNumber
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id ledger.ExpenseID) error {
	var dependents int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM commitments WHERE expense_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ledger.ErrHasCommitments
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrExpenseNotFound
	}
	return nil
}

// =============================================================================
// COMMITMENTS
// =============================================================================

const commitmentColumns = "id, number, commitment_date, amount, note, expense_id"

func scanCommitment(row scanner) (ledger.Commitment, error) {
	var (
		c      ledger.Commitment
		date   string
		amount string
	)
	if err := row.Scan(&c.ID, &c.Number, &date, &amount, &c.Note, &c.ExpenseID); err != nil {
		return ledger.Commitment{}, err
	}
	c.Date, _ = time.Parse(time.RFC3339, date)
	c.Amount, _ = decimal.NewFromString(amount)
	return c, nil
}

func (s *Store) ListCommitments(ctx context.Context) ([]ledger.Commitment, error) {
	return s.queryCommitments(ctx, "SELECT "+commitmentColumns+" FROM commitments ORDER BY id")
}

func (s *Store) ListCommitmentsByExpense(ctx context.Context, id ledger.ExpenseID) ([]ledger.Commitment, error) {
	return s.queryCommitments(ctx, "SELECT "+commitmentColumns+" FROM commitments WHERE expense_id = ? ORDER BY id", id)
}

func (s *Store) queryCommitments(ctx context.Context, query string, args ...any) ([]ledger.Commitment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCommitment(ctx context.Context, id ledger.CommitmentID) (*ledger.Commitment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+commitmentColumns+" FROM commitments WHERE id = ?", id)
	c, err := scanCommitment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SaveCommitment(ctx context.Context, c *ledger.Commitment) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO commitments (number, commitment_date, amount, note, expense_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Number, c.Date.UTC().Format(time.RFC3339), c.Amount.String(), c.Note, c.ExpenseID, now, now)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateNumber
	}
	if isForeignKeyViolation(err) {
		return ledger.ErrExpenseNotFound
	}
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = ledger.CommitmentID(id)
	return nil
}

func (s *Store) UpdateCommitment(ctx context.Context, c ledger.Commitment) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE commitments
		SET number = ?, commitment_date = ?, amount = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		c.Number, c.Date.UTC().Format(time.RFC3339), c.Amount.String(), c.Note, now, c.ID)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateNumber
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrCommitmentNotFound
	}
	return nil
}

func (s *Store) DeleteCommitment(ctx context.Context, id ledger.CommitmentID) error {
	var dependents int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments WHERE commitment_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ledger.ErrHasPayments
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM commitments WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrCommitmentNotFound
	}
	return nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

const paymentColumns = "id, number, payment_date, amount, note, commitment_id"

func scanPayment(row scanner) (ledger.Payment, error) {
	var (
		p      ledger.Payment
		date   string
		amount string
	)
	if err := row.Scan(&p.ID, &p.Number, &date, &amount, &p.Note, &p.CommitmentID); err != nil {
		return ledger.Payment{}, err
	}
	p.Date, _ = time.Parse(time.RFC3339, date)
	p.Amount, _ = decimal.NewFromString(amount)
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]ledger.Payment, error) {
	return s.queryPayments(ctx, "SELECT "+paymentColumns+" FROM payments ORDER BY id")
}

func (s *Store) ListPaymentsByCommitment(ctx context.Context, id ledger.CommitmentID) ([]ledger.Payment, error) {
	return s.queryPayments(ctx, "SELECT "+paymentColumns+" FROM payments WHERE commitment_id = ? ORDER BY id", id)
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]ledger.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPayment(ctx context.Context, id ledger.PaymentID) (*ledger.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SavePayment(ctx context.Context, p *ledger.Payment) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (number, payment_date, amount, note, commitment_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Number, p.Date.UTC().Format(time.RFC3339), p.Amount.String(), p.Note, p.CommitmentID, now, now)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateNumber
	}
	if isForeignKeyViolation(err) {
		return ledger.ErrCommitmentNotFound
	}
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = ledger.PaymentID(id)
	return nil
}

func (s *Store) UpdatePayment(ctx context.Context, p ledger.Payment) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE payments
		SET number = ?, payment_date = ?, amount = ?, note = ?, commitment_id = ?, updated_at = ?
		WHERE id = ?`,
		p.Number, p.Date.UTC().Format(time.RFC3339), p.Amount.String(), p.Note, p.CommitmentID, now, p.ID)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateNumber
	}
	if isForeignKeyViolation(err) {
		return ledger.ErrCommitmentNotFound
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) DeletePayment(ctx context.Context, id ledger.PaymentID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrPaymentNotFound
	}
	return nil
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot loads all three collections. Callers re-validate against a
// fresh snapshot immediately before each write.
func (s *Store) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	commitments, err := s.ListCommitments(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	payments, err := s.ListPayments(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return ledger.Snapshot{
		Expenses:    expenses,
		Commitments: commitments,
		Payments:    payments,
	}, nil
}
