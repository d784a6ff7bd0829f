/*
errors.go - Centralized error types for the ledger

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  These mark contract violations and storage conflicts. Business outcomes
  (validation rejections, deletion refusals) are ordinary values - a
  Verdict or a bool - never errors.

USAGE:
  if errors.Is(err, ledger.ErrExpenseNotFound) {
      writeError(w, http.StatusNotFound, ...)
  }

SEE ALSO:
  - validate.go: Verdict, the non-error rejection type
  - store.go: Storage interface returning these errors
*/
package ledger

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDraftExpense is returned when an operation requires a persisted
	// expense but the expense was never saved (zero id).
	ErrDraftExpense = errors.New("expense has no persisted id")

	// ErrDraftCommitment is the commitment-level counterpart.
	ErrDraftCommitment = errors.New("commitment has no persisted id")

	// ErrExpenseNotFound is returned when a referenced expense doesn't exist.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrCommitmentNotFound is returned when a referenced commitment doesn't exist.
	ErrCommitmentNotFound = errors.New("commitment not found")

	// ErrPaymentNotFound is returned when a referenced payment doesn't exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicateNumber is returned when a document number (protocol,
	// commitment or payment number) is already taken.
	ErrDuplicateNumber = errors.New("document number already exists")

	// ErrHasCommitments is returned when deleting an expense that still
	// has commitments referencing it.
	ErrHasCommitments = errors.New("expense has commitments")

	// ErrHasPayments is returned when deleting a commitment that still
	// has payments referencing it.
	ErrHasPayments = errors.New("commitment has payments")
)

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExpenseNotFound) ||
		errors.Is(err, ErrCommitmentNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsConflict reports whether err indicates a state conflict the client
// can resolve: duplicate numbers or deletion of a record with dependents.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateNumber) ||
		errors.Is(err, ErrHasCommitments) ||
		errors.Is(err, ErrHasPayments)
}
