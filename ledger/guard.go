/*
guard.go - Deletion predicates

PURPOSE:
  Decides whether an expense or commitment may be removed. Dependent
  records are never cascade-deleted; referential integrity is preserved
  by refusal, not by cleanup. Payments have no dependents, so their
  deletion needs no guard.
*/
package ledger

// CanDeleteExpense reports whether no commitment references the expense.
func CanDeleteExpense(id ExpenseID, commitments []Commitment) bool {
	for _, c := range commitments {
		if c.ExpenseID == id {
			return false
		}
	}
	return true
}

// CanDeleteCommitment reports whether no payment references the commitment.
func CanDeleteCommitment(id CommitmentID, payments []Payment) bool {
	for _, p := range payments {
		if p.CommitmentID == id {
			return false
		}
	}
	return true
}
