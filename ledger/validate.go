/*
validate.go - Containment invariant checks

PURPOSE:
  Gates every commitment/payment create or edit. A proposed amount is
  accepted only if the cumulative total at its level stays within the
  parent's ceiling: expense amount for commitments, commitment amount for
  payments.

VERDICTS, NOT ERRORS:
  A rejection is a business outcome, not a fault. Validators return a
  Verdict carrying the reason plus both numeric values (attempted total
  and ceiling) so callers can format them for display. The error return
  is reserved for contract violations: validating against a parent that
  was never persisted.

BOUNDARY:
  Rejection uses strict "attempted > ceiling". A total exactly equal to
  the ceiling is accepted. A commitment can reserve the full expense
  amount and a payment can settle the full commitment amount.

EDIT EXCLUSION:
  When re-validating an edit, the record's own prior amount must not count
  against it. Callers pass the record's id as the exclude argument; zero
  excludes nothing (create path).

SEE ALSO:
  - aggregate.go: The exclusion-aware sums used here
  - guard.go: Deletion predicates
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Verdict is the outcome of an amount validation. Attempted and Ceiling
// carry the raw decimal values; Reason is a ready-made description.
// Currency formatting beyond that is a presentation concern.
type Verdict struct {
	Accepted  bool
	Reason    string
	Attempted decimal.Decimal
	Ceiling   decimal.Decimal
}

// Accept builds an accepting verdict with the totals that were checked.
func Accept(attempted, ceiling decimal.Decimal) Verdict {
	return Verdict{Accepted: true, Attempted: attempted, Ceiling: ceiling}
}

// ValidateCommitmentAmount checks whether a proposed commitment amount
// against expense would keep the committed total within the expense
// amount. exclude names a commitment whose prior amount should not count
// (edit path); pass zero when creating.
//
// Non-positive candidates are not pre-rejected here; they participate in
// the sum comparison like any other value. Required-field and positivity
// checks belong to the caller.
func ValidateCommitmentAmount(expense Expense, commitments []Commitment, candidate decimal.Decimal, exclude CommitmentID) (Verdict, error) {
	if !expense.ID.Persisted() {
		return Verdict{}, fmt.Errorf("validate commitment: %w", ErrDraftExpense)
	}

	existing := SumCommitmentsExcluding(commitments, expense.ID, exclude)
	attempted := existing.Add(candidate)

	if attempted.GreaterThan(expense.Amount) {
		return Verdict{
			Accepted:  false,
			Reason:    overrunReason("empenhos", "o valor da despesa", attempted, expense.Amount),
			Attempted: attempted,
			Ceiling:   expense.Amount,
		}, nil
	}
	return Accept(attempted, expense.Amount), nil
}

// ValidatePaymentAmount checks whether a proposed payment amount against
// commitment would keep the paid total within the commitment amount.
// Structurally identical to ValidateCommitmentAmount, one level down.
func ValidatePaymentAmount(commitment Commitment, payments []Payment, candidate decimal.Decimal, exclude PaymentID) (Verdict, error) {
	if !commitment.ID.Persisted() {
		return Verdict{}, fmt.Errorf("validate payment: %w", ErrDraftCommitment)
	}

	existing := SumPaymentsExcluding(payments, commitment.ID, exclude)
	attempted := existing.Add(candidate)

	if attempted.GreaterThan(commitment.Amount) {
		return Verdict{
			Accepted:  false,
			Reason:    overrunReason("pagamentos", "o valor do empenho", attempted, commitment.Amount),
			Attempted: attempted,
			Ceiling:   commitment.Amount,
		}, nil
	}
	return Accept(attempted, commitment.Amount), nil
}

// ValidateCommitmentReduction checks whether lowering a commitment's
// amount would strand payments already recorded against it. The new
// amount may not drop below the paid total; equal is fine.
func ValidateCommitmentReduction(commitment Commitment, payments []Payment, newAmount decimal.Decimal) (Verdict, error) {
	if !commitment.ID.Persisted() {
		return Verdict{}, fmt.Errorf("validate commitment reduction: %w", ErrDraftCommitment)
	}

	paid := SumPayments(payments, commitment.ID)
	if newAmount.LessThan(paid) {
		return Verdict{
			Accepted: false,
			Reason: fmt.Sprintf(
				"o novo valor do empenho (R$ %s) não pode ser menor que a soma dos pagamentos já realizados (R$ %s)",
				newAmount.StringFixed(2), paid.StringFixed(2)),
			Attempted: newAmount,
			Ceiling:   paid,
		}, nil
	}
	return Accept(newAmount, paid), nil
}

func overrunReason(children, parent string, attempted, ceiling decimal.Decimal) string {
	return fmt.Sprintf(
		"o valor total dos %s (R$ %s) não pode ultrapassar %s (R$ %s)",
		children, attempted.StringFixed(2), parent, ceiling.StringFixed(2))
}
