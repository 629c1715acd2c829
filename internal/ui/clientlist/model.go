package clientlist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlocatelli/progetta/internal/keys"
	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/ranking"
	"github.com/mlocatelli/progetta/internal/store"
	"github.com/mlocatelli/progetta/internal/theme"
)

// ClientsLoadedMsg is sent when the client list has been rebuilt.
type ClientsLoadedMsg struct {
	Clients  []model.Client
	Projects []model.Project
}

// SelectedClientMsg is sent when the user opens a client's detail view.
type SelectedClientMsg struct {
	ClientID string
}

// EditClientMsg asks the root model to open the client form for editing.
type EditClientMsg struct {
	Client model.Client
}

// DeleteClientMsg asks the root model to confirm and delete a client.
type DeleteClientMsg struct {
	Client model.Client
}

// Model is the client sidebar: clients sorted into priority tiers, with
// inactive clients dimmed at their sorted position.
type Model struct {
	list   list.Model
	store  store.Store
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new client list model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Clients"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial client list.
func (m Model) Init() tea.Cmd {
	return m.LoadClients()
}

// Update handles messages for the client list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClientsLoadedMsg:
		cmd := m.list.SetItems(buildItems(msg.Clients, msg.Projects))
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(ClientItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedClientMsg{ClientID: item.Client.ID}
			}

		case key.Matches(msg, m.keys.Edit):
			item, ok := m.list.SelectedItem().(ClientItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return EditClientMsg{Client: item.Client}
			}

		case key.Matches(msg, m.keys.Delete):
			item, ok := m.list.SelectedItem().(ClientItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return DeleteClientMsg{Client: item.Client}
			}

		case key.Matches(msg, m.keys.MoveUp):
			return m.move(-1)

		case key.Matches(msg, m.keys.MoveDown):
			return m.move(1)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// move swaps the selected client with its neighbor and persists the new
// manual order. Reordering stays within one priority tier; the tiered
// sort would undo a cross-tier move anyway.
func (m Model) move(delta int) (Model, tea.Cmd) {
	items := m.list.Items()
	idx := m.list.Index()
	target := idx + delta
	if target < 0 || target >= len(items) {
		return m, nil
	}

	cur, ok := items[idx].(ClientItem)
	if !ok {
		return m, nil
	}
	neighbor, ok := items[target].(ClientItem)
	if !ok || tier(cur) != tier(neighbor) {
		return m, nil
	}

	items[idx], items[target] = items[target], items[idx]
	orderedIDs := make([]string, len(items))
	for i, it := range items {
		orderedIDs[i] = it.(ClientItem).Client.ID
	}

	setCmd := m.list.SetItems(items)
	m.list.Select(target)

	s := m.store
	return m, tea.Batch(setCmd, func() tea.Msg {
		if err := s.ReorderClients(context.Background(), orderedIDs); err != nil {
			return nil
		}
		return nil
	})
}

// tier maps a client to its display bucket: High, Medium, or everything
// else.
func tier(ci ClientItem) model.Priority {
	if !ci.HasPriority {
		return model.PriorityLow
	}
	switch ci.Priority {
	case model.PriorityHigh, model.PriorityMedium:
		return ci.Priority
	default:
		return model.PriorityLow
	}
}

// buildItems derives per-client presentation state and applies the tiered
// priority sort.
func buildItems(clients []model.Client, projects []model.Project) []list.Item {
	priorities := ranking.ClientPriorities(projects)
	inactive := ranking.InactiveClients(clients, projects)
	sorted := ranking.SortClients(clients, priorities)

	open := make(map[string]int)
	for _, p := range projects {
		closed := p.WorkStatus == model.WorkDelivered && p.PaymentStatus == model.PaymentPaid
		if p.WorkStatus == model.WorkCancelled || closed {
			continue
		}
		open[p.ClientID]++
	}

	items := make([]list.Item, len(sorted))
	for i, c := range sorted {
		pri, ok := priorities[c.ID]
		items[i] = ClientItem{
			Client:       c,
			Priority:     pri,
			HasPriority:  ok,
			Inactive:     inactive[c.ID],
			OpenProjects: open[c.ID],
		}
	}
	return items
}

// View renders the client list.
func (m Model) View() string {
	return m.list.View()
}

// LoadClients returns a tea.Cmd that loads clients and projects.
func (m Model) LoadClients() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		clients, err := s.GetClients(ctx)
		if err != nil {
			return ClientsLoadedMsg{}
		}
		projects, err := s.GetProjects(ctx, "")
		if err != nil {
			return ClientsLoadedMsg{}
		}
		return ClientsLoadedMsg{Clients: clients, Projects: projects}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
