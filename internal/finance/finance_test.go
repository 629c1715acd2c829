package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mlocatelli/progetta/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProjectTotal_IncludesOwnTodosOnly(t *testing.T) {
	p := model.Project{ID: "p1", Value: dec("1000")}
	todos := []model.Todo{
		{ID: "t1", ProjectID: "p1", Income: dec("250.50")},
		{ID: "t2", ProjectID: "p1", Income: dec("100")},
		{ID: "t3", ProjectID: "other", Income: dec("9999")},
	}

	assert.True(t, dec("1350.50").Equal(ProjectTotal(p, todos)))
}

func TestProjectTotal_NoTodos(t *testing.T) {
	p := model.Project{ID: "p1", Value: dec("500")}

	assert.True(t, dec("500").Equal(ProjectTotal(p, nil)))
}

func TestPaidAmount(t *testing.T) {
	p := model.Project{
		ID: "p1",
		Payments: []model.Payment{
			{Amount: dec("300")},
			{Amount: dec("199.99")},
		},
	}

	assert.True(t, dec("499.99").Equal(PaidAmount(p)))
	assert.True(t, decimal.Zero.Equal(PaidAmount(model.Project{})))
}

func TestRemaining_CanGoNegativeOnOverpayment(t *testing.T) {
	p := model.Project{
		ID:    "p1",
		Value: dec("100"),
		Payments: []model.Payment{
			{Amount: dec("150")},
		},
	}

	assert.True(t, dec("-50").Equal(Remaining(p, nil)))
}
