package ranking

import (
	"sort"
	"time"

	"github.com/mlocatelli/progetta/internal/model"
)

// Groups partitions the open task list by due date relative to a fixed
// "today".
type Groups struct {
	Overdue  []model.Todo
	Today    []model.Todo
	Upcoming []model.Todo
	NoDate   []model.Todo
}

// Empty reports whether no group has any task.
func (g Groups) Empty() bool {
	return len(g.Overdue) == 0 && len(g.Today) == 0 &&
		len(g.Upcoming) == 0 && len(g.NoDate) == 0
}

// GroupTodos partitions todos into Overdue/Today/Upcoming/NoDate and sorts
// each group. Completed todos and todos belonging to cancelled projects
// are excluded; todos whose project no longer exists stay in, ranked at
// the lowest project priority.
//
// Within a group the sort is a strict tuple comparison: the manual order
// key wins when the two differ (nil reads as 0), then owning-project
// priority descending, then due date ascending when both are set and
// differ, then income descending. Manual order and derived priority are
// deliberately two separate keys rather than one blended score.
func GroupTodos(todos []model.Todo, projects []model.Project, today time.Time) Groups {
	byID := make(map[string]model.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	day := truncateToDay(today)

	var g Groups
	for _, t := range todos {
		if t.Completed {
			continue
		}
		if p, ok := byID[t.ProjectID]; ok && p.WorkStatus == model.WorkCancelled {
			continue
		}

		switch {
		case t.DueDate == nil:
			g.NoDate = append(g.NoDate, t)
		case truncateToDay(*t.DueDate).Before(day):
			g.Overdue = append(g.Overdue, t)
		case truncateToDay(*t.DueDate).Equal(day):
			g.Today = append(g.Today, t)
		default:
			g.Upcoming = append(g.Upcoming, t)
		}
	}

	projectRank := func(projectID string) int {
		if p, ok := byID[projectID]; ok {
			return p.Priority.Rank()
		}
		return model.PriorityLow.Rank()
	}

	less := func(a, b model.Todo) bool {
		orderA, orderB := manualOrder(a), manualOrder(b)
		if orderA != orderB {
			return orderA < orderB
		}

		rankA, rankB := projectRank(a.ProjectID), projectRank(b.ProjectID)
		if rankA != rankB {
			return rankA > rankB
		}

		if a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Income.GreaterThan(b.Income)
	}

	for _, group := range []*[]model.Todo{&g.Overdue, &g.Today, &g.Upcoming, &g.NoDate} {
		list := *group
		sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	}
	return g
}

// ReorderKeys assigns fresh manual order keys to a group after the user
// moves an item, base+index so that keys stay unique and monotonic. The
// caller persists the returned todos as the group's new order.
func ReorderKeys(group []model.Todo, base int64) []model.Todo {
	reordered := make([]model.Todo, len(group))
	for i, t := range group {
		key := base + int64(i)
		t.Order = &key
		reordered[i] = t
	}
	return reordered
}

func manualOrder(t model.Todo) int64 {
	if t.Order == nil {
		return 0
	}
	return *t.Order
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
