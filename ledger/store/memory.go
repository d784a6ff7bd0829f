// Package store provides an in-memory ledger.Store implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sop/fiscal-engine/ledger"
)

// Memory keeps the three collections in maps guarded by a RWMutex.
// Identifiers are assigned from per-entity counters, mirroring the
// AUTOINCREMENT behavior of the SQLite store.
type Memory struct {
	mu sync.RWMutex

	expenses    map[ledger.ExpenseID]ledger.Expense
	commitments map[ledger.CommitmentID]ledger.Commitment
	payments    map[ledger.PaymentID]ledger.Payment

	nextExpense    ledger.ExpenseID
	nextCommitment ledger.CommitmentID
	nextPayment    ledger.PaymentID
}

func NewMemory() *Memory {
	return &Memory{
		expenses:       make(map[ledger.ExpenseID]ledger.Expense),
		commitments:    make(map[ledger.CommitmentID]ledger.Commitment),
		payments:       make(map[ledger.PaymentID]ledger.Payment),
		nextExpense:    1,
		nextCommitment: 1,
		nextPayment:    1,
	}
}

var _ ledger.Store = (*Memory)(nil)

// =============================================================================
// EXPENSES
// =============================================================================

func (m *Memory) ListExpenses(_ context.Context) ([]ledger.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Expense, 0, len(m.expenses))
	for _, e := range m.expenses {
		out = append(out, e)
	}
	sortExpenses(out)
	return out, nil
}

func (m *Memory) GetExpense(_ context.Context, id ledger.ExpenseID) (*ledger.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) SaveExpense(_ context.Context, e *ledger.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.expenses {
		if existing.ProtocolNumber == e.ProtocolNumber {
			return ledger.ErrDuplicateNumber
		}
	}

	e.ID = m.nextExpense
	m.nextExpense++
	m.expenses[e.ID] = *e
	return nil
}

func (m *Memory) UpdateExpense(_ context.Context, e ledger.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[e.ID]; !ok {
		return ledger.ErrExpenseNotFound
	}
	for id, existing := range m.expenses {
		if id != e.ID && existing.ProtocolNumber == e.ProtocolNumber {
			return ledger.ErrDuplicateNumber
		}
	}
	m.expenses[e.ID] = e
	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, id ledger.ExpenseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[id]; !ok {
		return ledger.ErrExpenseNotFound
	}
	for _, c := range m.commitments {
		if c.ExpenseID == id {
			return ledger.ErrHasCommitments
		}
	}
	delete(m.expenses, id)
	return nil
}

// =============================================================================
// COMMITMENTS
// =============================================================================

func (m *Memory) ListCommitments(_ context.Context) ([]ledger.Commitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Commitment, 0, len(m.commitments))
	for _, c := range m.commitments {
		out = append(out, c)
	}
	sortCommitments(out)
	return out, nil
}

func (m *Memory) ListCommitmentsByExpense(_ context.Context, id ledger.ExpenseID) ([]ledger.Commitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.Commitment
	for _, c := range m.commitments {
		if c.ExpenseID == id {
			out = append(out, c)
		}
	}
	sortCommitments(out)
	return out, nil
}

func (m *Memory) GetCommitment(_ context.Context, id ledger.CommitmentID) (*ledger.Commitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.commitments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) SaveCommitment(_ context.Context, c *ledger.Commitment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[c.ExpenseID]; !ok {
		return ledger.ErrExpenseNotFound
	}
	for _, existing := range m.commitments {
		if existing.Number == c.Number {
			return ledger.ErrDuplicateNumber
		}
	}

	c.ID = m.nextCommitment
	m.nextCommitment++
	m.commitments[c.ID] = *c
	return nil
}

func (m *Memory) UpdateCommitment(_ context.Context, c ledger.Commitment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.commitments[c.ID]; !ok {
		return ledger.ErrCommitmentNotFound
	}
	for id, existing := range m.commitments {
		if id != c.ID && existing.Number == c.Number {
			return ledger.ErrDuplicateNumber
		}
	}
	m.commitments[c.ID] = c
	return nil
}

func (m *Memory) DeleteCommitment(_ context.Context, id ledger.CommitmentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.commitments[id]; !ok {
		return ledger.ErrCommitmentNotFound
	}
	for _, p := range m.payments {
		if p.CommitmentID == id {
			return ledger.ErrHasPayments
		}
	}
	delete(m.commitments, id)
	return nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (m *Memory) ListPayments(_ context.Context) ([]ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, p)
	}
	sortPayments(out)
	return out, nil
}

func (m *Memory) ListPaymentsByCommitment(_ context.Context, id ledger.CommitmentID) ([]ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.Payment
	for _, p := range m.payments {
		if p.CommitmentID == id {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

func (m *Memory) GetPayment(_ context.Context, id ledger.PaymentID) (*ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) SavePayment(_ context.Context, p *ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.commitments[p.CommitmentID]; !ok {
		return ledger.ErrCommitmentNotFound
	}
	for _, existing := range m.payments {
		if existing.Number == p.Number {
			return ledger.ErrDuplicateNumber
		}
	}

	p.ID = m.nextPayment
	m.nextPayment++
	m.payments[p.ID] = *p
	return nil
}

func (m *Memory) UpdatePayment(_ context.Context, p ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[p.ID]; !ok {
		return ledger.ErrPaymentNotFound
	}
	if _, ok := m.commitments[p.CommitmentID]; !ok {
		return ledger.ErrCommitmentNotFound
	}
	for id, existing := range m.payments {
		if id != p.ID && existing.Number == p.Number {
			return ledger.ErrDuplicateNumber
		}
	}
	m.payments[p.ID] = p
	return nil
}

func (m *Memory) DeletePayment(_ context.Context, id ledger.PaymentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[id]; !ok {
		return ledger.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Map iteration order is random; listings sort by id so callers see
// stable, insertion-ordered collections like the SQLite store returns.

func sortExpenses(out []ledger.Expense) {
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
}

func sortCommitments(out []ledger.Commitment) {
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
}

func sortPayments(out []ledger.Payment) {
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
}

func (m *Memory) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	expenses, _ := m.ListExpenses(ctx)
	commitments, _ := m.ListCommitments(ctx)
	payments, _ := m.ListPayments(ctx)
	return ledger.Snapshot{
		Expenses:    expenses,
		Commitments: commitments,
		Payments:    payments,
	}, nil
}
