package migrate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlocatelli/progetta/internal/model"
)

func TestNormalizeProject_LegacyStatusMapping(t *testing.T) {
	cases := []struct {
		legacy  string
		work    model.WorkStatus
		payment model.PaymentStatus
	}{
		{"quote_to_send", model.WorkQuoteToSend, model.PaymentToInvoice},
		{"quote_sent", model.WorkQuoteSent, model.PaymentToInvoice},
		{"quote_accepted", model.WorkInProgress, model.PaymentToInvoice},
		{"project_delivered", model.WorkDelivered, model.PaymentToInvoice},
		{"awaiting_payment", model.WorkDelivered, model.PaymentInvoiced},
		{"paid", model.WorkDelivered, model.PaymentPaid},
	}

	for _, tc := range cases {
		t.Run(tc.legacy, func(t *testing.T) {
			p := NormalizeProject(RawProject{ID: "p1", Status: tc.legacy})
			assert.Equal(t, tc.work, p.WorkStatus)
			assert.Equal(t, tc.payment, p.PaymentStatus)
		})
	}
}

func TestNormalizeProject_UnknownLegacyStatusFallsBack(t *testing.T) {
	p := NormalizeProject(RawProject{ID: "p1", Status: "something_else"})

	assert.Equal(t, model.WorkQuoteToSend, p.WorkStatus)
	assert.Equal(t, model.PaymentToInvoice, p.PaymentStatus)
}

func TestNormalizeProject_CurrentShapePassesThrough(t *testing.T) {
	raw := RawProject{
		ID:            "p1",
		WorkStatus:    model.WorkInProgress,
		PaymentStatus: model.PaymentPartiallyPaid,
		Priority:      model.PriorityHigh,
		// A leftover legacy field must not override the split pair.
		Status: "paid",
	}

	p := NormalizeProject(raw)

	assert.Equal(t, model.WorkInProgress, p.WorkStatus)
	assert.Equal(t, model.PaymentPartiallyPaid, p.PaymentStatus)
	assert.Equal(t, model.PriorityHigh, p.Priority)
}

func TestNormalizeProject_Defaults(t *testing.T) {
	p := NormalizeProject(RawProject{ID: "p1", Status: "quote_sent"})

	assert.Equal(t, model.PriorityMedium, p.Priority)
	require.NotNil(t, p.Payments)
	assert.Empty(t, p.Payments)
}

func TestNormalizeProject_BackfillsPaymentProjectID(t *testing.T) {
	raw := RawProject{
		ID:     "p1",
		Status: "awaiting_payment",
		Payments: []model.Payment{
			{ID: "pay1", Amount: decimal.NewFromInt(100), Date: time.Now()},
			{ID: "pay2", ProjectID: "p1", Amount: decimal.NewFromInt(50), Date: time.Now()},
		},
	}

	p := NormalizeProject(raw)

	assert.Equal(t, "p1", p.Payments[0].ProjectID)
	assert.Equal(t, "p1", p.Payments[1].ProjectID)
}

func TestNormalizeProject_Idempotent(t *testing.T) {
	first := NormalizeProject(RawProject{ID: "p1", Status: "paid", Value: decimal.NewFromInt(900)})

	second := NormalizeProject(RawProject{
		ID:            first.ID,
		Value:         first.Value,
		WorkStatus:    first.WorkStatus,
		PaymentStatus: first.PaymentStatus,
		Priority:      first.Priority,
		Payments:      first.Payments,
	})

	assert.Equal(t, first, second)
}
