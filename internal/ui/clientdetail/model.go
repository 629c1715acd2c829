package clientdetail

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlocatelli/progetta/internal/finance"
	"github.com/mlocatelli/progetta/internal/keys"
	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/store"
	"github.com/mlocatelli/progetta/internal/theme"
	"github.com/mlocatelli/progetta/internal/ui"
)

// DetailLoadedMsg is sent when a client's projects and todos have been
// loaded.
type DetailLoadedMsg struct {
	Client   model.Client
	Projects []model.Project
	Todos    []model.Todo
}

// NewProjectMsg asks the root model to open the project form for this
// client.
type NewProjectMsg struct {
	ClientID string
}

// EditProjectMsg asks the root model to open the project form for an
// existing project.
type EditProjectMsg struct {
	Project model.Project
}

// NewTodoMsg asks the root model to open the todo form for a project.
type NewTodoMsg struct {
	Project model.Project
}

// RecordPaymentMsg asks the root model to open the payment form for a
// project.
type RecordPaymentMsg struct {
	Project model.Project
}

// Model is the detail view for one client: its projects with status
// badges, per-project financials, todos, and payment history.
type Model struct {
	store    store.Store
	keys     *keys.KeyMap
	clientID string
	client   model.Client
	projects []model.Project
	todos    []model.Todo
	cursor   int
	currency string
	width    int
	height   int
}

// New creates a new client detail model.
func New(s store.Store, k *keys.KeyMap, currency string, width, height int) Model {
	return Model{
		store:    s,
		keys:     k,
		currency: currency,
		width:    width,
		height:   height,
	}
}

// Open points the view at a client and loads its data.
func (m *Model) Open(clientID string) tea.Cmd {
	m.clientID = clientID
	m.cursor = 0
	return m.Load()
}

// ClientID returns the client currently shown.
func (m Model) ClientID() string {
	return m.clientID
}

// Update handles messages for the client detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.client = msg.Client
		m.projects = msg.Projects
		m.todos = msg.Todos
		if m.cursor >= len(m.projects) {
			m.cursor = len(m.projects) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		clientID := m.clientID
		return m, func() tea.Msg { return NewProjectMsg{ClientID: clientID} }
	}

	p, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		return m, func() tea.Msg { return EditProjectMsg{Project: p} }

	case key.Matches(msg, m.keys.Select):
		return m, func() tea.Msg { return NewTodoMsg{Project: p} }

	case key.Matches(msg, m.keys.Payment):
		return m, func() tea.Msg { return RecordPaymentMsg{Project: p} }

	case key.Matches(msg, m.keys.CycleWorkStatus):
		return m, m.mutate(func(ctx context.Context) error {
			return m.store.SetProjectWorkStatus(ctx, p.ID, nextWorkStatus(p.WorkStatus))
		})

	case key.Matches(msg, m.keys.CyclePayStatus):
		return m, m.mutate(func(ctx context.Context) error {
			return m.store.SetProjectPaymentStatus(ctx, p.ID, nextPaymentStatus(p.PaymentStatus))
		})

	case key.Matches(msg, m.keys.CyclePriority):
		return m, m.mutate(func(ctx context.Context) error {
			return m.store.SetProjectPriority(ctx, p.ID, nextPriority(p.Priority))
		})

	case key.Matches(msg, m.keys.Duplicate):
		return m, m.mutate(func(ctx context.Context) error {
			_, err := m.store.DuplicateProject(ctx, p.ID)
			return err
		})

	case key.Matches(msg, m.keys.Delete):
		return m, m.mutate(func(ctx context.Context) error {
			return m.store.DeleteProject(ctx, p.ID)
		})

	case msg.String() == "backspace":
		if len(p.Payments) == 0 {
			return m, nil
		}
		last := p.Payments[len(p.Payments)-1]
		return m, m.mutate(func(ctx context.Context) error {
			_, err := m.store.DeletePayment(ctx, p.ID, last.ID)
			return err
		})
	}
	return m, nil
}

func (m Model) selected() (model.Project, bool) {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return model.Project{}, false
	}
	return m.projects[m.cursor], true
}

// mutate runs a store mutation and reloads the view.
func (m Model) mutate(fn func(ctx context.Context) error) tea.Cmd {
	load := m.Load()
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return nil
		}
		return load()
	}
}

func nextWorkStatus(s model.WorkStatus) model.WorkStatus {
	for i, ws := range model.WorkStatuses {
		if ws == s {
			return model.WorkStatuses[(i+1)%len(model.WorkStatuses)]
		}
	}
	return model.WorkQuoteToSend
}

func nextPaymentStatus(s model.PaymentStatus) model.PaymentStatus {
	for i, ps := range model.PaymentStatuses {
		if ps == s {
			return model.PaymentStatuses[(i+1)%len(model.PaymentStatuses)]
		}
	}
	return model.PaymentToInvoice
}

func nextPriority(p model.Priority) model.Priority {
	for i, pr := range model.Priorities {
		if pr == p {
			return model.Priorities[(i+1)%len(model.Priorities)]
		}
	}
	return model.PriorityMedium
}

// View renders the client detail view.
func (m Model) View() string {
	if m.clientID == "" {
		return ""
	}

	var rows []string
	rows = append(rows, theme.SectionTitleStyle.Render(m.client.Name))
	if m.client.Email != "" {
		rows = append(rows, theme.HelpStyle.Render(m.client.Email))
	}

	if len(m.projects) == 0 {
		rows = append(rows, "", theme.HelpStyle.Render("No projects yet. Press n to add one."))
	}

	for i, p := range m.projects {
		rows = append(rows, "", m.renderProject(p, i == m.cursor))
		if i == m.cursor {
			rows = append(rows, m.renderProjectDetail(p)...)
		}
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderProject(p model.Project, selected bool) string {
	total := finance.ProjectTotal(p, m.todos)

	line := fmt.Sprintf("%s  %s %s %s  %s",
		p.Name,
		theme.WorkStatusStyle(p.WorkStatus).Render(p.WorkStatus.Label()),
		theme.PaymentStatusStyle(p.PaymentStatus).Render(p.PaymentStatus.Label()),
		theme.PriorityStyle(p.Priority).Render(p.Priority.Label()),
		ui.FormatCurrency(total, m.currency),
	)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// renderProjectDetail expands the selected project: financial summary,
// todos, payment history, and notes.
func (m Model) renderProjectDetail(p model.Project) []string {
	indent := lipgloss.NewStyle().PaddingLeft(4)

	paid := finance.PaidAmount(p)
	remaining := finance.Remaining(p, m.todos)

	var rows []string
	rows = append(rows, indent.Render(fmt.Sprintf("paid %s, remaining %s",
		ui.FormatCurrency(paid, m.currency),
		ui.FormatCurrency(remaining, m.currency),
	)))

	if p.PaidAt != nil {
		rows = append(rows, indent.Render(theme.HelpStyle.Render(
			"paid in full on "+p.PaidAt.Format("2006-01-02"),
		)))
	}

	for _, t := range m.todos {
		if t.ProjectID != p.ID {
			continue
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		rows = append(rows, indent.Render(fmt.Sprintf("%s %s  %s",
			check, t.Task, ui.FormatCurrency(t.Income, m.currency))))
	}

	for _, pay := range p.Payments {
		rows = append(rows, indent.Render(theme.HelpStyle.Render(
			fmt.Sprintf("payment %s on %s",
				ui.FormatCurrency(pay.Amount, m.currency),
				pay.Date.Format("2006-01-02")),
		)))
	}

	if p.Notes != "" {
		rows = append(rows, indent.Render(theme.HelpStyle.Render(p.Notes)))
	}
	return rows
}

// Load returns a tea.Cmd that loads the client, its projects, and todos.
func (m Model) Load() tea.Cmd {
	s := m.store
	clientID := m.clientID
	return func() tea.Msg {
		ctx := context.Background()

		clients, err := s.GetClients(ctx)
		if err != nil {
			return DetailLoadedMsg{}
		}
		var client model.Client
		for _, c := range clients {
			if c.ID == clientID {
				client = c
				break
			}
		}

		projects, err := s.GetProjects(ctx, clientID)
		if err != nil {
			return DetailLoadedMsg{Client: client}
		}
		todos, err := s.GetTodos(ctx, "")
		if err != nil {
			return DetailLoadedMsg{Client: client, Projects: projects}
		}
		return DetailLoadedMsg{Client: client, Projects: projects, Todos: todos}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
