// Package finance holds the pure derivation engine: project totals, the
// payment-status consistency rule, and the dashboard aggregation. Every
// function is a side-effect-free transformation over an in-memory snapshot;
// callers thread the clock in explicitly where a rule needs "now".
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/model"
)

// ProjectTotal returns the project's base value plus the income of every
// todo attached to it. Todos referencing other projects are ignored.
func ProjectTotal(p model.Project, todos []model.Todo) decimal.Decimal {
	total := p.Value
	for _, t := range todos {
		if t.ProjectID == p.ID {
			total = total.Add(t.Income)
		}
	}
	return total
}

// PaidAmount returns the sum of the project's payments, zero when there
// are none.
func PaidAmount(p model.Project) decimal.Decimal {
	paid := decimal.Zero
	for _, pay := range p.Payments {
		paid = paid.Add(pay.Amount)
	}
	return paid
}

// Remaining returns the project total minus the amount paid so far. The
// result is negative when a project has been overpaid; callers must
// tolerate that.
func Remaining(p model.Project, todos []model.Todo) decimal.Decimal {
	return ProjectTotal(p, todos).Sub(PaidAmount(p))
}
