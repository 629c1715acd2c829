package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/model"
)

// Filter restricts the collected bucket to payments dated within a given
// year and/or month. A zero field means "all". The future and potential
// buckets are never date-filtered.
type Filter struct {
	Year  int
	Month time.Month
}

// Matches reports whether a payment date falls within the filter.
func (f Filter) Matches(date time.Time) bool {
	if f.Year != 0 && date.Year() != f.Year {
		return false
	}
	if f.Month != 0 && date.Month() != f.Month {
		return false
	}
	return true
}

// Totals are the three dashboard revenue buckets.
type Totals struct {
	// Collected is the sum of payment amounts whose date matches the
	// filter, across all projects including cancelled ones.
	Collected decimal.Decimal

	// Future is the outstanding remainder of projects that are in
	// progress or delivered.
	Future decimal.Decimal

	// Potential is the full total of projects still at the quote stage.
	Potential decimal.Decimal
}

// ClientSeries is one chart row: the three buckets for a single client.
type ClientSeries struct {
	ClientID  string
	Name      string
	Collected decimal.Decimal
	Future    decimal.Decimal
	Potential decimal.Decimal
}

// zeroTotals returns a Totals with all buckets at zero rather than the
// decimal zero value, so callers can Add without nil checks.
func zeroTotals() Totals {
	return Totals{Collected: decimal.Zero, Future: decimal.Zero, Potential: decimal.Zero}
}

// accumulate classifies one project into the three buckets.
//
// Collected counts matching payments regardless of work status: a
// cancelled project may already have been paid. Cancelled projects are
// otherwise excluded, and a fully Paid project is already realized in
// Collected so it contributes nothing further. In-progress and delivered
// work contributes its positive remainder to Future; everything else is
// still a quote and contributes its full total to Potential.
func (t *Totals) accumulate(p model.Project, todos []model.Todo, f Filter) {
	for _, pay := range p.Payments {
		if f.Matches(pay.Date) {
			t.Collected = t.Collected.Add(pay.Amount)
		}
	}

	if p.WorkStatus == model.WorkCancelled {
		return
	}

	switch {
	case p.PaymentStatus == model.PaymentPaid:
		// Fully realized in Collected. Remaining may even be negative
		// when the client overpaid.
	case p.WorkStatus == model.WorkInProgress || p.WorkStatus == model.WorkDelivered:
		if remaining := Remaining(p, todos); remaining.IsPositive() {
			t.Future = t.Future.Add(remaining)
		}
	default:
		t.Potential = t.Potential.Add(ProjectTotal(p, todos))
	}
}

// DashboardTotals folds all projects into the three revenue buckets under
// the given date filter.
func DashboardTotals(projects []model.Project, todos []model.Todo, f Filter) Totals {
	totals := zeroTotals()
	for _, p := range projects {
		totals.accumulate(p, todos, f)
	}
	return totals
}

// ChartData groups the same classification by client, in input client
// order. Clients whose three buckets are all zero are omitted; projects
// referencing an unknown client contribute nothing.
func ChartData(clients []model.Client, projects []model.Project, todos []model.Todo, f Filter) []ClientSeries {
	byClient := make(map[string]*Totals, len(clients))
	for _, c := range clients {
		t := zeroTotals()
		byClient[c.ID] = &t
	}

	for _, p := range projects {
		t, ok := byClient[p.ClientID]
		if !ok {
			continue
		}
		t.accumulate(p, todos, f)
	}

	var series []ClientSeries
	for _, c := range clients {
		t := byClient[c.ID]
		if t.Collected.IsZero() && t.Future.IsZero() && t.Potential.IsZero() {
			continue
		}
		series = append(series, ClientSeries{
			ClientID:  c.ID,
			Name:      c.Name,
			Collected: t.Collected,
			Future:    t.Future,
			Potential: t.Potential,
		})
	}
	return series
}

// AvailableYears returns the distinct years seen across project creation
// dates and payment dates, most recent first. These feed the dashboard's
// year filter options.
func AvailableYears(projects []model.Project) []int {
	seen := make(map[int]bool)
	for _, p := range projects {
		if !p.CreatedAt.IsZero() {
			seen[p.CreatedAt.Year()] = true
		}
		for _, pay := range p.Payments {
			seen[pay.Date.Year()] = true
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
