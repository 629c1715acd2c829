package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlocatelli/progetta/internal/model"
)

func paymentOn(amount string, year int, month time.Month) model.Payment {
	return model.Payment{
		Amount: dec(amount),
		Date:   time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestDashboardTotals_Classification(t *testing.T) {
	projects := []model.Project{
		// Quote stage: full total to potential.
		{ID: "q", Value: dec("1000"), WorkStatus: model.WorkQuoteSent, PaymentStatus: model.PaymentToInvoice},
		// In progress with a partial payment: remainder to future.
		{ID: "w", Value: dec("2000"), WorkStatus: model.WorkInProgress, PaymentStatus: model.PaymentPartiallyPaid,
			Payments: []model.Payment{paymentOn("500", 2025, time.March)}},
		// Fully paid: nothing beyond collected.
		{ID: "d", Value: dec("3000"), WorkStatus: model.WorkDelivered, PaymentStatus: model.PaymentPaid,
			Payments: []model.Payment{paymentOn("3000", 2025, time.April)}},
	}

	totals := DashboardTotals(projects, nil, Filter{})

	assert.True(t, dec("3500").Equal(totals.Collected))
	assert.True(t, dec("1500").Equal(totals.Future))
	assert.True(t, dec("1000").Equal(totals.Potential))
}

func TestDashboardTotals_CancelledKeepsCollectedOnly(t *testing.T) {
	projects := []model.Project{
		{ID: "c", Value: dec("1000"), WorkStatus: model.WorkCancelled, PaymentStatus: model.PaymentPartiallyPaid,
			Payments: []model.Payment{paymentOn("400", 2025, time.May)}},
	}

	totals := DashboardTotals(projects, nil, Filter{})

	assert.True(t, dec("400").Equal(totals.Collected))
	assert.True(t, totals.Future.IsZero())
	assert.True(t, totals.Potential.IsZero())
}

func TestDashboardTotals_FilterAppliesToPaymentsOnly(t *testing.T) {
	projects := []model.Project{
		{ID: "w", Value: dec("2000"), WorkStatus: model.WorkInProgress, PaymentStatus: model.PaymentPartiallyPaid,
			Payments: []model.Payment{
				paymentOn("500", 2024, time.December),
				paymentOn("300", 2025, time.January),
			}},
	}

	totals := DashboardTotals(projects, nil, Filter{Year: 2025})

	// Only the 2025 payment is collected, but the future remainder still
	// reflects every payment ever made.
	assert.True(t, dec("300").Equal(totals.Collected))
	assert.True(t, dec("1200").Equal(totals.Future))
}

func TestDashboardTotals_MonthFilter(t *testing.T) {
	projects := []model.Project{
		{ID: "p", Value: dec("100"), WorkStatus: model.WorkDelivered, PaymentStatus: model.PaymentPaid,
			Payments: []model.Payment{
				paymentOn("60", 2025, time.January),
				paymentOn("40", 2025, time.February),
			}},
	}

	totals := DashboardTotals(projects, nil, Filter{Year: 2025, Month: time.February})

	assert.True(t, dec("40").Equal(totals.Collected))
}

func TestDashboardTotals_NegativeRemainderExcludedFromFuture(t *testing.T) {
	projects := []model.Project{
		{ID: "w", Value: dec("100"), WorkStatus: model.WorkInProgress, PaymentStatus: model.PaymentPartiallyPaid,
			Payments: []model.Payment{paymentOn("150", 2025, time.June)}},
	}

	totals := DashboardTotals(projects, nil, Filter{})

	assert.True(t, totals.Future.IsZero())
}

func TestChartData_PreservesClientOrderAndOmitsZeroRows(t *testing.T) {
	clients := []model.Client{
		{ID: "c1", Name: "Alpha"},
		{ID: "c2", Name: "Beta"},
		{ID: "c3", Name: "Gamma"},
	}
	projects := []model.Project{
		{ID: "p3", ClientID: "c3", Value: dec("500"), WorkStatus: model.WorkQuoteToSend, PaymentStatus: model.PaymentToInvoice},
		{ID: "p1", ClientID: "c1", Value: dec("1000"), WorkStatus: model.WorkInProgress, PaymentStatus: model.PaymentToInvoice},
	}

	series := ChartData(clients, projects, nil, Filter{})

	require.Len(t, series, 2)
	assert.Equal(t, "Alpha", series[0].Name)
	assert.Equal(t, "Gamma", series[1].Name)
	assert.True(t, dec("1000").Equal(series[0].Future))
	assert.True(t, dec("500").Equal(series[1].Potential))
}

func TestChartData_UnknownClientSkipped(t *testing.T) {
	projects := []model.Project{
		{ID: "p", ClientID: "ghost", Value: dec("100"), WorkStatus: model.WorkInProgress},
	}

	series := ChartData([]model.Client{{ID: "c1", Name: "Alpha"}}, projects, nil, Filter{})

	assert.Empty(t, series)
}

func TestChartData_SumMatchesDashboardTotals(t *testing.T) {
	clients := []model.Client{{ID: "c1", Name: "A"}, {ID: "c2", Name: "B"}}
	projects := []model.Project{
		{ID: "p1", ClientID: "c1", Value: dec("1000"), WorkStatus: model.WorkInProgress, PaymentStatus: model.PaymentPartiallyPaid,
			Payments: []model.Payment{paymentOn("250", 2025, time.March)}},
		{ID: "p2", ClientID: "c2", Value: dec("800"), WorkStatus: model.WorkQuoteSent, PaymentStatus: model.PaymentToInvoice},
	}

	totals := DashboardTotals(projects, nil, Filter{})
	series := ChartData(clients, projects, nil, Filter{})

	collected, future, potential := decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range series {
		collected = collected.Add(s.Collected)
		future = future.Add(s.Future)
		potential = potential.Add(s.Potential)
	}

	assert.True(t, totals.Collected.Equal(collected))
	assert.True(t, totals.Future.Equal(future))
	assert.True(t, totals.Potential.Equal(potential))
}

func TestAvailableYears_SortedDescending(t *testing.T) {
	projects := []model.Project{
		{ID: "p1", CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Payments: []model.Payment{paymentOn("10", 2025, time.January)}},
		{ID: "p2", CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t, []int{2025, 2024, 2023}, AvailableYears(projects))
}

func TestAvailableYears_Empty(t *testing.T) {
	assert.Empty(t, AvailableYears(nil))
}
