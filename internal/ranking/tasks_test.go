package ranking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlocatelli/progetta/internal/model"
)

var today = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func orderPtr(v int64) *int64 { return &v }

func TestGroupTodos_Partition(t *testing.T) {
	todos := []model.Todo{
		{ID: "overdue", ProjectID: "p", DueDate: datePtr(today.AddDate(0, 0, -3))},
		{ID: "today", ProjectID: "p", DueDate: datePtr(today.Add(5 * time.Hour))},
		{ID: "upcoming", ProjectID: "p", DueDate: datePtr(today.AddDate(0, 0, 2))},
		{ID: "nodate", ProjectID: "p"},
	}

	g := GroupTodos(todos, []model.Project{{ID: "p"}}, today)

	require.Len(t, g.Overdue, 1)
	require.Len(t, g.Today, 1)
	require.Len(t, g.Upcoming, 1)
	require.Len(t, g.NoDate, 1)
	assert.Equal(t, "overdue", g.Overdue[0].ID)
	assert.Equal(t, "today", g.Today[0].ID)
	assert.Equal(t, "upcoming", g.Upcoming[0].ID)
	assert.Equal(t, "nodate", g.NoDate[0].ID)
}

func TestGroupTodos_CompletedAndCancelledExcluded(t *testing.T) {
	projects := []model.Project{
		{ID: "live"},
		{ID: "dead", WorkStatus: model.WorkCancelled},
	}
	todos := []model.Todo{
		{ID: "done", ProjectID: "live", Completed: true},
		{ID: "onCancelled", ProjectID: "dead"},
		{ID: "kept", ProjectID: "live"},
	}

	g := GroupTodos(todos, projects, today)

	require.Len(t, g.NoDate, 1)
	assert.Equal(t, "kept", g.NoDate[0].ID)
}

func TestGroupTodos_OrphanTodoKeptAtLowRank(t *testing.T) {
	projects := []model.Project{
		{ID: "p", Priority: model.PriorityMedium},
	}
	todos := []model.Todo{
		{ID: "orphan", ProjectID: "gone"},
		{ID: "owned", ProjectID: "p"},
	}

	g := GroupTodos(todos, projects, today)

	require.Len(t, g.NoDate, 2)
	// Medium outranks the orphan's fallback of Low.
	assert.Equal(t, "owned", g.NoDate[0].ID)
	assert.Equal(t, "orphan", g.NoDate[1].ID)
}

func TestGroupTodos_ManualOrderWinsOverPriority(t *testing.T) {
	projects := []model.Project{
		{ID: "hi", Priority: model.PriorityHigh},
		{ID: "lo", Priority: model.PriorityLow},
	}
	todos := []model.Todo{
		{ID: "a", ProjectID: "hi", Order: orderPtr(200)},
		{ID: "b", ProjectID: "lo", Order: orderPtr(100)},
	}

	g := GroupTodos(todos, projects, today)

	require.Len(t, g.NoDate, 2)
	assert.Equal(t, "b", g.NoDate[0].ID)
}

func TestGroupTodos_NilOrderReadsAsZero(t *testing.T) {
	todos := []model.Todo{
		{ID: "keyed", ProjectID: "p", Order: orderPtr(10)},
		{ID: "unkeyed", ProjectID: "p"},
	}

	g := GroupTodos(todos, []model.Project{{ID: "p"}}, today)

	require.Len(t, g.NoDate, 2)
	assert.Equal(t, "unkeyed", g.NoDate[0].ID)
}

func TestGroupTodos_TupleTieBreakers(t *testing.T) {
	projects := []model.Project{{ID: "p", Priority: model.PriorityMedium}}
	todos := []model.Todo{
		{ID: "later", ProjectID: "p", DueDate: datePtr(today.AddDate(0, 0, 5)), Income: decimal.NewFromInt(100)},
		{ID: "sooner", ProjectID: "p", DueDate: datePtr(today.AddDate(0, 0, 2)), Income: decimal.NewFromInt(10)},
		{ID: "rich", ProjectID: "p", DueDate: datePtr(today.AddDate(0, 0, 2)), Income: decimal.NewFromInt(500)},
	}

	g := GroupTodos(todos, projects, today)

	require.Len(t, g.Upcoming, 3)
	// Same order key and priority: due date ascending, then income
	// descending among equal dates.
	assert.Equal(t, "rich", g.Upcoming[0].ID)
	assert.Equal(t, "sooner", g.Upcoming[1].ID)
	assert.Equal(t, "later", g.Upcoming[2].ID)
}

func TestGroupTodos_StableForFullTies(t *testing.T) {
	todos := []model.Todo{
		{ID: "first", ProjectID: "p"},
		{ID: "second", ProjectID: "p"},
	}

	g := GroupTodos(todos, []model.Project{{ID: "p"}}, today)

	require.Len(t, g.NoDate, 2)
	assert.Equal(t, "first", g.NoDate[0].ID)
	assert.Equal(t, "second", g.NoDate[1].ID)
}

func TestReorderKeys_MonotonicFromBase(t *testing.T) {
	group := []model.Todo{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	reordered := ReorderKeys(group, 1000)

	require.Len(t, reordered, 3)
	for i, todo := range reordered {
		require.NotNil(t, todo.Order)
		assert.Equal(t, int64(1000+i), *todo.Order)
	}
	// Input is not mutated.
	assert.Nil(t, group[0].Order)
}

func TestGroupsEmpty(t *testing.T) {
	assert.True(t, Groups{}.Empty())
	assert.False(t, Groups{Today: []model.Todo{{ID: "t"}}}.Empty())
}
