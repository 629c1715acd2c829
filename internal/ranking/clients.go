// Package ranking derives presentation order from the entity graph: the
// effective priority of each client, the tiered client sort, the inactive
// flag, and the grouping and ordering of the task list.
package ranking

import "github.com/mlocatelli/progetta/internal/model"

// ClientPriorities derives the effective priority of every client: the
// maximum priority among its active projects. A project is active unless
// it is cancelled or fully closed (delivered and paid). Clients with no
// active projects have no entry.
func ClientPriorities(projects []model.Project) map[string]model.Priority {
	priorities := make(map[string]model.Priority)
	for _, p := range projects {
		finished := p.WorkStatus == model.WorkDelivered && p.PaymentStatus == model.PaymentPaid
		if p.WorkStatus == model.WorkCancelled || finished {
			continue
		}
		if current, ok := priorities[p.ClientID]; !ok || p.Priority.Rank() > current.Rank() {
			priorities[p.ClientID] = p.Priority
		}
	}
	return priorities
}

// SortClients orders clients by priority tier: High, then Medium, then Low
// together with clients that have no effective priority. Relative input
// order is preserved within each tier; this is a bucket partition, not a
// comparator sort, so ties never reorder.
func SortClients(clients []model.Client, priorities map[string]model.Priority) []model.Client {
	var high, medium, low []model.Client
	for _, c := range clients {
		switch priorities[c.ID] {
		case model.PriorityHigh:
			high = append(high, c)
		case model.PriorityMedium:
			medium = append(medium, c)
		default:
			low = append(low, c)
		}
	}

	sorted := make([]model.Client, 0, len(clients))
	sorted = append(sorted, high...)
	sorted = append(sorted, medium...)
	sorted = append(sorted, low...)
	return sorted
}

// InactiveClients reports which clients are fully wound down: at least one
// project, and every project simultaneously delivered and paid. The UI
// dims these in the sidebar.
func InactiveClients(clients []model.Client, projects []model.Project) map[string]bool {
	byClient := make(map[string][]model.Project)
	for _, p := range projects {
		byClient[p.ClientID] = append(byClient[p.ClientID], p)
	}

	inactive := make(map[string]bool)
	for _, c := range clients {
		owned := byClient[c.ID]
		if len(owned) == 0 {
			continue
		}
		done := true
		for _, p := range owned {
			if p.WorkStatus != model.WorkDelivered || p.PaymentStatus != model.PaymentPaid {
				done = false
				break
			}
		}
		if done {
			inactive[c.ID] = true
		}
	}
	return inactive
}
