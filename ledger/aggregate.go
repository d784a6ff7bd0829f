/*
aggregate.go - Amount summation across the ledger hierarchy

PURPOSE:
  Leaf component used by the status resolver and the validators. Sums
  monetary amounts across a filtered subset of one collection: commitments
  by owning expense, payments by owning commitment, and payments reached
  transitively through an expense's commitments.

SEMANTICS:
  - Exact decimal arithmetic; no floating-point drift.
  - Empty input or no matching foreign key yields decimal zero.
  - The *Excluding variants skip one record by id, which supports
    re-validating an edit against its own prior amount.

SEE ALSO:
  - status.go: Consumes these sums to derive expense status
  - validate.go: Consumes these sums for containment checks
*/
package ledger

import "github.com/shopspring/decimal"

// SumCommitments returns the total committed against an expense.
func SumCommitments(commitments []Commitment, expenseID ExpenseID) decimal.Decimal {
	return SumCommitmentsExcluding(commitments, expenseID, 0)
}

// SumCommitmentsExcluding returns the total committed against an expense,
// skipping the commitment identified by exclude (zero excludes nothing).
func SumCommitmentsExcluding(commitments []Commitment, expenseID ExpenseID, exclude CommitmentID) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range commitments {
		if c.ExpenseID != expenseID {
			continue
		}
		if exclude.Persisted() && c.ID == exclude {
			continue
		}
		sum = sum.Add(c.Amount)
	}
	return sum
}

// SumPayments returns the total paid against a commitment.
func SumPayments(payments []Payment, commitmentID CommitmentID) decimal.Decimal {
	return SumPaymentsExcluding(payments, commitmentID, 0)
}

// SumPaymentsExcluding returns the total paid against a commitment,
// skipping the payment identified by exclude (zero excludes nothing).
func SumPaymentsExcluding(payments []Payment, commitmentID CommitmentID, exclude PaymentID) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.CommitmentID != commitmentID {
			continue
		}
		if exclude.Persisted() && p.ID == exclude {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum
}

// SumPaymentsForExpense returns the total paid across all of an expense's
// commitments. Payments relate to expenses only transitively.
func SumPaymentsForExpense(commitments []Commitment, payments []Payment, expenseID ExpenseID) decimal.Decimal {
	owned := make(map[CommitmentID]bool)
	for _, c := range commitments {
		if c.ExpenseID == expenseID {
			owned[c.ID] = true
		}
	}

	sum := decimal.Zero
	for _, p := range payments {
		if owned[p.CommitmentID] {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// CountPaymentsForExpense returns how many payments exist across an
// expense's commitments. The status resolver distinguishes "no payments
// yet" from "paid zero", so the count matters independently of the sum.
func CountPaymentsForExpense(commitments []Commitment, payments []Payment, expenseID ExpenseID) int {
	owned := make(map[CommitmentID]bool)
	for _, c := range commitments {
		if c.ExpenseID == expenseID {
			owned[c.ID] = true
		}
	}

	n := 0
	for _, p := range payments {
		if owned[p.CommitmentID] {
			n++
		}
	}
	return n
}
