/*
status.go - Expense status derivation

PURPOSE:
  Derives an expense's lifecycle status from the current commitment and
  payment collections. Deterministic, total: every expense maps to exactly
  one status, recomputed from scratch on every call. There is no stored
  status that could go stale.

STATE MACHINE (first matching condition wins, in this exact order):
  1. Awaiting Commitment  - no commitment references the expense
  2. Partially Committed  - committed total < expense amount
  3. Awaiting Payment     - committed total covers the amount, zero payments
  4. Partially Paid       - payments exist, paid total < expense amount
  5. Paid                 - paid total >= expense amount

  The evaluation order is the contract, not an optimization. An expense
  whose commitments sum past its amount but which has zero payments must
  report Awaiting Payment, never Partially Paid. Payments are only
  consulted once commitments cover the amount.

SEE ALSO:
  - aggregate.go: The sums consumed here
*/
package ledger

// ResolveStatus derives the display status of an expense from the full
// commitment and payment collections.
func ResolveStatus(expense Expense, commitments []Commitment, payments []Payment) Status {
	owned := 0
	for _, c := range commitments {
		if c.ExpenseID == expense.ID {
			owned++
		}
	}
	if owned == 0 {
		return StatusAwaitingCommitment
	}

	committed := SumCommitments(commitments, expense.ID)
	if committed.LessThan(expense.Amount) {
		return StatusPartiallyCommitted
	}

	if CountPaymentsForExpense(commitments, payments, expense.ID) == 0 {
		return StatusAwaitingPayment
	}

	paid := SumPaymentsForExpense(commitments, payments, expense.ID)
	if paid.LessThan(expense.Amount) {
		return StatusPartiallyPaid
	}

	return StatusPaid
}
