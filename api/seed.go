/*
seed.go - Demo data loader for testing and demonstrations

PURPOSE:

	Populates the store with a realistic dataset covering every derived
	status an expense can take: one expense with no commitments, one
	partially committed, one fully committed but unpaid, one partially
	paid, and one fully paid.

USAGE VIA API:

	POST /api/admin/seed

	Records are appended with freshly generated document numbers, so
	repeated calls never collide. Only use in development/demo
	environments.

SEE ALSO:
  - server.go: Route registration
  - numbering: Document number generation
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sop/fiscal-engine/ledger"
	"github.com/sop/fiscal-engine/numbering"
)

type seedExpense struct {
	category    ledger.Category
	creditor    string
	description string
	amount      string
	commitments []seedCommitment
}

type seedCommitment struct {
	amount   string
	payments []string
}

var demoDataset = []seedExpense{
	{
		category:    ledger.CategoryBuildingWorks,
		creditor:    "Construtora Horizonte Ltda",
		description: "Reforma do bloco administrativo",
		amount:      "250000.00",
		// No commitments yet: awaiting commitment.
	},
	{
		category:    ledger.CategoryRoadWorks,
		creditor:    "Pavimentadora Sul S.A.",
		description: "Recapeamento da rodovia estadual, trecho norte",
		amount:      "1800000.00",
		commitments: []seedCommitment{
			{amount: "600000.00"},
		},
	},
	{
		category:    ledger.CategoryOther,
		creditor:    "TechSupre Informática ME",
		description: "Aquisição de estações de trabalho",
		amount:      "90000.00",
		commitments: []seedCommitment{
			{amount: "50000.00"},
			{amount: "40000.00"},
		},
	},
	{
		category:    ledger.CategoryBuildingWorks,
		creditor:    "Engenharia Delta Ltda",
		description: "Construção de creche municipal",
		amount:      "500000.00",
		commitments: []seedCommitment{
			{amount: "500000.00", payments: []string{"200000.00"}},
		},
	},
	{
		category:    ledger.CategoryOther,
		creditor:    "Gráfica Central EIRELI",
		description: "Impressão de material institucional",
		amount:      "12000.00",
		commitments: []seedCommitment{
			{amount: "12000.00", payments: []string{"7000.00", "5000.00"}},
		},
	},
}

// SeedDemoData appends the demo dataset to the store.
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var expenses, commitments, payments int
	for _, se := range demoDataset {
		created, err := h.seedExpense(ctx, se)
		if err != nil {
			h.internal(w, "failed to seed demo data", err)
			return
		}
		expenses++
		commitments += created.commitments
		payments += created.payments
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "dados de demonstração carregados",
		"expenses":    expenses,
		"commitments": commitments,
		"payments":    payments,
	})
}

type seedCounts struct {
	commitments int
	payments    int
}

func (h *Handler) seedExpense(ctx context.Context, se seedExpense) (seedCounts, error) {
	now := time.Now()

	e := ledger.Expense{
		ProtocolNumber: numbering.ProtocolNumber(),
		Category:       se.category,
		ProtocolDate:   now.AddDate(0, -2, 0),
		DueDate:        now.AddDate(0, 4, 0),
		Creditor:       se.creditor,
		Description:    se.description,
		Amount:         ledger.MustParseDecimal(se.amount),
	}
	if err := h.Store.SaveExpense(ctx, &e); err != nil {
		return seedCounts{}, fmt.Errorf("seed expense %q: %w", se.description, err)
	}

	var counts seedCounts
	for _, sc := range se.commitments {
		c := ledger.Commitment{
			Number:    numbering.CommitmentNumber(),
			Date:      now.AddDate(0, -1, 0),
			Amount:    ledger.MustParseDecimal(sc.amount),
			ExpenseID: e.ID,
		}
		if err := h.Store.SaveCommitment(ctx, &c); err != nil {
			return seedCounts{}, fmt.Errorf("seed commitment under %q: %w", se.description, err)
		}
		counts.commitments++

		for _, amount := range sc.payments {
			p := ledger.Payment{
				Number:       numbering.PaymentNumber(),
				Date:         now.AddDate(0, 0, -10),
				Amount:       ledger.MustParseDecimal(amount),
				CommitmentID: c.ID,
			}
			if err := h.Store.SavePayment(ctx, &p); err != nil {
				return seedCounts{}, fmt.Errorf("seed payment under %q: %w", se.description, err)
			}
			counts.payments++
		}
	}

	return counts, nil
}
