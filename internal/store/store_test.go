package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/store"
	"github.com/mlocatelli/progetta/tests/testutil"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s := testutil.NewTestStore(t)
	s.SetClock(func() time.Time { return testNow })
	return s
}

func seedProject(t *testing.T, s *store.SQLiteStore, value string) model.Project {
	t.Helper()
	ctx := context.Background()

	client, err := s.CreateClient(ctx, model.Client{Name: "Acme"})
	require.NoError(t, err)

	p, err := s.CreateProject(ctx, model.Project{
		ClientID: client.ID,
		Name:     "Website",
		Value:    decimal.RequireFromString(value),
	})
	require.NoError(t, err)
	return p
}

func TestCreateProject_Defaults(t *testing.T) {
	s := newStore(t)
	p := seedProject(t, s, "1000")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, model.WorkQuoteToSend, p.WorkStatus)
	assert.Equal(t, model.PaymentToInvoice, p.PaymentStatus)
	assert.Equal(t, model.PriorityMedium, p.Priority)
	assert.True(t, p.CreatedAt.Equal(testNow))
}

func TestAddPayment_PartialThenFull(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	updated, err := s.AddPayment(ctx, p.ID, model.Payment{
		Amount: decimal.RequireFromString("400"),
		Date:   testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartiallyPaid, updated.PaymentStatus)
	assert.Nil(t, updated.PaidAt)

	updated, err = s.AddPayment(ctx, p.ID, model.Payment{
		Amount: decimal.RequireFromString("600"),
		Date:   testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaidAt)
	assert.True(t, updated.PaidAt.Equal(testNow))
	require.Len(t, updated.Payments, 2)
}

func TestDeletePayment_RevertsStatusAndClearsPaidAt(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	paid, err := s.AddPayment(ctx, p.ID, model.Payment{
		Amount: decimal.RequireFromString("1000"),
		Date:   testNow,
	})
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, paid.PaymentStatus)

	updated, err := s.DeletePayment(ctx, p.ID, paid.Payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentInvoiced, updated.PaymentStatus)
	assert.Nil(t, updated.PaidAt)
	assert.Empty(t, updated.Payments)

	// The reverted state is persisted, not just returned.
	stored, err := s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentInvoiced, stored.PaymentStatus)
	assert.Nil(t, stored.PaidAt)
}

func TestDeletePayment_Unknown(t *testing.T) {
	s := newStore(t)
	p := seedProject(t, s, "1000")

	_, err := s.DeletePayment(context.Background(), p.ID, "missing")
	assert.Error(t, err)
}

func TestAddPayment_TodoIncomeCountsTowardTotal(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	_, err := s.CreateTodo(ctx, model.Todo{
		ProjectID: p.ID,
		Task:      "Extra feature",
		Income:    decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	updated, err := s.AddPayment(ctx, p.ID, model.Payment{
		Amount: decimal.RequireFromString("1000"),
		Date:   testNow,
	})
	require.NoError(t, err)

	// 1000 of 1500: still partially paid.
	assert.Equal(t, model.PaymentPartiallyPaid, updated.PaymentStatus)
}

func TestSetProjectPaymentStatus_ManualStampsPaidAt(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	require.NoError(t, s.SetProjectPaymentStatus(ctx, p.ID, model.PaymentPaid))

	stored, err := s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, stored.PaymentStatus)
	require.NotNil(t, stored.PaidAt)

	require.NoError(t, s.SetProjectPaymentStatus(ctx, p.ID, model.PaymentInvoiced))
	stored, err = s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PaidAt)
}

func TestDuplicateProject_ResetsLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	require.NoError(t, s.SetProjectWorkStatus(ctx, p.ID, model.WorkDelivered))
	_, err := s.AddPayment(ctx, p.ID, model.Payment{
		Amount: decimal.RequireFromString("1000"),
		Date:   testNow,
	})
	require.NoError(t, err)
	todo, err := s.CreateTodo(ctx, model.Todo{ProjectID: p.ID, Task: "Deploy"})
	require.NoError(t, err)
	require.NoError(t, s.ToggleTodo(ctx, todo.ID, true))

	dup, err := s.DuplicateProject(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, "Website (copy)", dup.Name)
	assert.Equal(t, model.WorkQuoteToSend, dup.WorkStatus)
	assert.Equal(t, model.PaymentToInvoice, dup.PaymentStatus)
	assert.Nil(t, dup.PaidAt)
	assert.Empty(t, dup.Payments)

	todos, err := s.GetTodos(ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.False(t, todos[0].Completed)
}

func TestDeleteClient_CascadesProjectsTodosPayments(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	_, err := s.CreateTodo(ctx, model.Todo{ProjectID: p.ID, Task: "Design"})
	require.NoError(t, err)
	_, err = s.AddPayment(ctx, p.ID, model.Payment{
		Amount: decimal.RequireFromString("100"),
		Date:   testNow,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteClient(ctx, p.ClientID))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Projects)
	assert.Empty(t, snap.Todos)
}

func TestSetTodoOrders_Persists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	a, err := s.CreateTodo(ctx, model.Todo{ProjectID: p.ID, Task: "A"})
	require.NoError(t, err)
	b, err := s.CreateTodo(ctx, model.Todo{ProjectID: p.ID, Task: "B"})
	require.NoError(t, err)

	keyA, keyB := int64(200), int64(100)
	a.Order = &keyA
	b.Order = &keyB
	require.NoError(t, s.SetTodoOrders(ctx, []model.Todo{a, b}))

	todos, err := s.GetTodos(ctx, p.ID)
	require.NoError(t, err)
	byTask := map[string]model.Todo{}
	for _, todo := range todos {
		byTask[todo.Task] = todo
	}
	require.NotNil(t, byTask["A"].Order)
	require.NotNil(t, byTask["B"].Order)
	assert.Equal(t, int64(200), *byTask["A"].Order)
	assert.Equal(t, int64(100), *byTask["B"].Order)
}

func TestReorderClients(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	c1, err := s.CreateClient(ctx, model.Client{Name: "First"})
	require.NoError(t, err)
	c2, err := s.CreateClient(ctx, model.Client{Name: "Second"})
	require.NoError(t, err)

	require.NoError(t, s.ReorderClients(ctx, []string{c2.ID, c1.ID}))

	clients, err := s.GetClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Second", clients[0].Name)
	assert.Equal(t, "First", clients[1].Name)
}

func TestImportSnapshot_ReplacesAllData(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedProject(t, s, "1000")

	snap := model.Snapshot{
		Clients: []model.Client{{ID: "c9", Name: "Imported"}},
		Projects: []model.Project{{
			ID:            "p9",
			ClientID:      "c9",
			Name:          "Imported project",
			Value:         decimal.RequireFromString("750"),
			WorkStatus:    model.WorkInProgress,
			PaymentStatus: model.PaymentPartiallyPaid,
			Priority:      model.PriorityHigh,
			CreatedAt:     testNow,
			Payments: []model.Payment{{
				ID:        "pay9",
				ProjectID: "p9",
				Amount:    decimal.RequireFromString("250"),
				Date:      testNow,
			}},
		}},
		Todos: []model.Todo{{ID: "t9", ProjectID: "p9", Task: "Imported todo"}},
	}

	require.NoError(t, s.ImportSnapshot(ctx, snap))

	loaded, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Clients, 1)
	require.Len(t, loaded.Projects, 1)
	require.Len(t, loaded.Todos, 1)
	assert.Equal(t, "Imported", loaded.Clients[0].Name)
	assert.Equal(t, model.PaymentPartiallyPaid, loaded.Projects[0].PaymentStatus)
	require.Len(t, loaded.Projects[0].Payments, 1)
	assert.True(t, decimal.RequireFromString("250").Equal(loaded.Projects[0].Payments[0].Amount))
}

func TestGetProjects_FilterByClient(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "1000")

	other, err := s.CreateClient(ctx, model.Client{Name: "Other"})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, model.Project{ClientID: other.ID, Name: "Logo"})
	require.NoError(t, err)

	mine, err := s.GetProjects(ctx, p.ClientID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Website", mine[0].Name)

	all, err := s.GetProjects(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
