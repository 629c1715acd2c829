package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlocatelli/progetta/internal/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func project(value string, status model.PaymentStatus, amounts ...string) model.Project {
	p := model.Project{ID: "p1", Value: dec(value), PaymentStatus: status}
	for i, a := range amounts {
		p.Payments = append(p.Payments, model.Payment{
			ID:        string(rune('a' + i)),
			ProjectID: "p1",
			Amount:    dec(a),
			Date:      now,
		})
	}
	return p
}

func TestReconcilePayments_NoPaymentsKeepsToInvoice(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentToInvoice), nil, now)

	assert.Equal(t, model.PaymentToInvoice, p.PaymentStatus)
	assert.Nil(t, p.PaidAt)
}

func TestReconcilePayments_NoPaymentsRevertsToInvoiced(t *testing.T) {
	// Once a project left ToInvoice it never goes back automatically.
	p := ReconcilePayments(project("1000", model.PaymentPartiallyPaid), nil, now)

	assert.Equal(t, model.PaymentInvoiced, p.PaymentStatus)
}

func TestReconcilePayments_PartialPayment(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentInvoiced, "400"), nil, now)

	assert.Equal(t, model.PaymentPartiallyPaid, p.PaymentStatus)
	assert.Nil(t, p.PaidAt)
}

func TestReconcilePayments_CrossingFullAmountStampsPaidAt(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentPartiallyPaid, "600", "400"), nil, now)

	assert.Equal(t, model.PaymentPaid, p.PaymentStatus)
	require.NotNil(t, p.PaidAt)
	assert.True(t, p.PaidAt.Equal(now))
}

func TestReconcilePayments_OverpaymentIsPaid(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentInvoiced, "1200"), nil, now)

	assert.Equal(t, model.PaymentPaid, p.PaymentStatus)
}

func TestReconcilePayments_TodoIncomeRaisesTotal(t *testing.T) {
	todos := []model.Todo{{ID: "t1", ProjectID: "p1", Income: dec("500")}}

	p := ReconcilePayments(project("1000", model.PaymentInvoiced, "1000"), todos, now)

	// 1000 paid of 1500 total.
	assert.Equal(t, model.PaymentPartiallyPaid, p.PaymentStatus)
}

func TestReconcilePayments_RemovalRevertsAndClearsPaidAt(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentInvoiced, "1000"), nil, now)
	require.Equal(t, model.PaymentPaid, p.PaymentStatus)
	require.NotNil(t, p.PaidAt)

	// Remove the payment and reconcile again, later.
	p.Payments = nil
	later := now.Add(24 * time.Hour)
	p = ReconcilePayments(p, nil, later)

	assert.Equal(t, model.PaymentInvoiced, p.PaymentStatus)
	assert.Nil(t, p.PaidAt)
}

func TestReconcilePayments_Idempotent(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentToInvoice, "400"), nil, now)
	again := ReconcilePayments(p, nil, now.Add(time.Hour))

	assert.Equal(t, p.PaymentStatus, again.PaymentStatus)
	assert.Equal(t, p.PaidAt, again.PaidAt)
}

func TestReconcilePayments_PaidAtPreservedWhileStayingPaid(t *testing.T) {
	p := ReconcilePayments(project("1000", model.PaymentInvoiced, "1000"), nil, now)
	require.NotNil(t, p.PaidAt)
	first := *p.PaidAt

	// Another payment arrives later; status stays Paid.
	p.Payments = append(p.Payments, model.Payment{ID: "z", ProjectID: "p1", Amount: dec("50")})
	p = ReconcilePayments(p, nil, now.Add(48*time.Hour))

	assert.Equal(t, model.PaymentPaid, p.PaymentStatus)
	require.NotNil(t, p.PaidAt)
	assert.True(t, p.PaidAt.Equal(first))
}

func TestSetPaymentStatus_ManualEditSharesPaidAtSideEffect(t *testing.T) {
	p := project("1000", model.PaymentInvoiced)

	p = SetPaymentStatus(p, model.PaymentPaid, now)
	require.NotNil(t, p.PaidAt)
	assert.True(t, p.PaidAt.Equal(now))

	p = SetPaymentStatus(p, model.PaymentInvoiced, now.Add(time.Hour))
	assert.Nil(t, p.PaidAt)
	assert.Equal(t, model.PaymentInvoiced, p.PaymentStatus)
}

func TestSetPaymentStatus_StayingPaidKeepsStamp(t *testing.T) {
	p := SetPaymentStatus(project("1000", model.PaymentInvoiced), model.PaymentPaid, now)
	first := *p.PaidAt

	p = SetPaymentStatus(p, model.PaymentPaid, now.Add(time.Hour))

	assert.True(t, p.PaidAt.Equal(first))
}
