package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/model"
)

// ReconcilePayments recomputes the cached payment status of a project from
// its payment list and returns the updated project. Both the payment-add
// and payment-delete call sites must go through this one function so that
// adding and removing a payment can never disagree on the resulting state.
//
// The rule, with total = ProjectTotal and paid = PaidAmount:
//   - paid <= 0: stay ToInvoice if the project was never invoiced,
//     otherwise revert to Invoiced (never back to ToInvoice automatically)
//   - 0 < paid < total: PartiallyPaid
//   - paid >= total: Paid
//
// PaidAt is stamped with now when the status enters Paid and cleared when
// it leaves; it is left untouched while the status stays Paid.
func ReconcilePayments(p model.Project, todos []model.Todo, now time.Time) model.Project {
	total := ProjectTotal(p, todos)
	paid := PaidAmount(p)

	next := p.PaymentStatus
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		if p.PaymentStatus != model.PaymentToInvoice {
			next = model.PaymentInvoiced
		}
	case paid.LessThan(total):
		next = model.PaymentPartiallyPaid
	default:
		next = model.PaymentPaid
	}

	return applyPaymentStatus(p, next, now)
}

// SetPaymentStatus applies a manual payment-status edit. It bypasses the
// payment-derived rule but carries the same PaidAt side effect: stamp on
// entering Paid, clear on leaving, preserve while staying Paid.
func SetPaymentStatus(p model.Project, status model.PaymentStatus, now time.Time) model.Project {
	return applyPaymentStatus(p, status, now)
}

// applyPaymentStatus sets the status and keeps PaidAt consistent with it.
func applyPaymentStatus(p model.Project, status model.PaymentStatus, now time.Time) model.Project {
	if status == model.PaymentPaid {
		if p.PaidAt == nil {
			ts := now
			p.PaidAt = &ts
		}
	} else {
		p.PaidAt = nil
	}
	p.PaymentStatus = status
	return p
}
