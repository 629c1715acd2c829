package tasklist

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlocatelli/progetta/internal/keys"
	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/ranking"
	"github.com/mlocatelli/progetta/internal/store"
	"github.com/mlocatelli/progetta/internal/theme"
	"github.com/mlocatelli/progetta/internal/ui"
)

// TasksLoadedMsg is sent when todos and projects have been loaded.
type TasksLoadedMsg struct {
	Todos    []model.Todo
	Projects []model.Project
}

// EditTodoMsg asks the root model to open the todo form for an existing
// todo.
type EditTodoMsg struct {
	Todo model.Todo
}

// section is one rendered due-date group.
type section struct {
	title string
	todos []model.Todo
}

// Model is the cross-project task view grouped by due date.
type Model struct {
	store    store.Store
	keys     *keys.KeyMap
	projects map[string]model.Project
	sections []section
	cursor   int
	total    int
	currency string
	width    int
	height   int
}

// New creates a new task list model.
func New(s store.Store, k *keys.KeyMap, currency string, width, height int) Model {
	return Model{
		store:    s,
		keys:     k,
		currency: currency,
		width:    width,
		height:   height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.setData(msg.Todos, msg.Projects)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m *Model) setData(todos []model.Todo, projects []model.Project) {
	m.projects = make(map[string]model.Project, len(projects))
	for _, p := range projects {
		m.projects[p.ID] = p
	}

	groups := ranking.GroupTodos(todos, projects, time.Now())
	m.sections = nil
	for _, s := range []section{
		{title: "Overdue", todos: groups.Overdue},
		{title: "Today", todos: groups.Today},
		{title: "Upcoming", todos: groups.Upcoming},
		{title: "No due date", todos: groups.NoDate},
	} {
		if len(s.todos) > 0 {
			m.sections = append(m.sections, s)
		}
	}

	m.total = 0
	for _, s := range m.sections {
		m.total += len(s.todos)
	}
	if m.cursor >= m.total {
		m.cursor = m.total - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.total-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.toggle(todo)

	case key.Matches(msg, m.keys.Delete):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.delete(todo)

	case key.Matches(msg, m.keys.Edit):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTodoMsg{Todo: todo} }

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.move(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.move(1)
	}
	return m, nil
}

// selected resolves the cursor to a todo.
func (m Model) selected() (model.Todo, bool) {
	idx := m.cursor
	for _, s := range m.sections {
		if idx < len(s.todos) {
			return s.todos[idx], true
		}
		idx -= len(s.todos)
	}
	return model.Todo{}, false
}

// sectionAt returns the section containing the cursor and the position of
// the cursor within it.
func (m Model) sectionAt() (int, int, bool) {
	idx := m.cursor
	for si, s := range m.sections {
		if idx < len(s.todos) {
			return si, idx, true
		}
		idx -= len(s.todos)
	}
	return 0, 0, false
}

func (m Model) toggle(todo model.Todo) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.ToggleTodo(ctx, todo.ID, !todo.Completed); err != nil {
			return nil
		}
		return reloadMsg(ctx, s)
	}
}

func (m Model) delete(todo model.Todo) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.DeleteTodo(ctx, todo.ID); err != nil {
			return nil
		}
		return reloadMsg(ctx, s)
	}
}

// move swaps the selected todo with its neighbor within the same group and
// persists fresh manual order keys for the whole group.
func (m *Model) move(delta int) tea.Cmd {
	si, pos, ok := m.sectionAt()
	if !ok {
		return nil
	}
	group := m.sections[si].todos
	target := pos + delta
	if target < 0 || target >= len(group) {
		return nil
	}

	reordered := make([]model.Todo, len(group))
	copy(reordered, group)
	reordered[pos], reordered[target] = reordered[target], reordered[pos]
	reordered = ranking.ReorderKeys(reordered, time.Now().UnixMilli())

	m.cursor += delta
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.SetTodoOrders(ctx, reordered); err != nil {
			return nil
		}
		return reloadMsg(ctx, s)
	}
}

// View renders the grouped task view.
func (m Model) View() string {
	if m.total == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No open tasks.\n\nPress n to add one from a project.")
	}

	var rows []string
	flat := 0
	for _, s := range m.sections {
		label := fmt.Sprintf("%s (%d)", s.title, len(s.todos))
		title := theme.SectionTitleStyle.Render(label)
		if s.title == "Overdue" {
			title = theme.OverdueStyle.MarginTop(1).Render(label)
		}
		rows = append(rows, title)
		for _, t := range s.todos {
			rows = append(rows, m.renderTodo(t, flat == m.cursor))
			flat++
		}
	}
	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderTodo(t model.Todo, selected bool) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	projectName := "(no project)"
	priority := model.PriorityLow
	if p, ok := m.projects[t.ProjectID]; ok {
		projectName = p.Name
		priority = p.Priority
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02")
	}

	line := fmt.Sprintf("%s %s  %s  %s  %s %s",
		check,
		t.Task,
		theme.PriorityStyle(priority).Render(priority.Label()),
		theme.HelpStyle.Render(projectName),
		ui.FormatCurrency(t.Income, m.currency),
		theme.HelpStyle.Render(due),
	)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// LoadTasks returns a tea.Cmd that loads todos and projects.
func (m Model) LoadTasks() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return reloadMsg(context.Background(), s)
	}
}

func reloadMsg(ctx context.Context, s store.Store) tea.Msg {
	todos, err := s.GetTodos(ctx, "")
	if err != nil {
		return TasksLoadedMsg{}
	}
	projects, err := s.GetProjects(ctx, "")
	if err != nil {
		return TasksLoadedMsg{}
	}
	return TasksLoadedMsg{Todos: todos, Projects: projects}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
