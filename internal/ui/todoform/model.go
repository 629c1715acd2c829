package todoform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/theme"
)

// TodoSubmittedMsg is dispatched when the form is submitted.
type TodoSubmittedMsg struct {
	Todo model.Todo
	Edit bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	task    string
	income  string
	dueDate string
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editMode  bool
	editID    string
	projectID string
	width     int
	height    int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a todo under a project.
func (m *Model) StartCreate(projectID string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.projectID = projectID
	m.fb.task = ""
	m.fb.income = ""
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing todo.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.editMode = true
	m.editID = todo.ID
	m.projectID = todo.ProjectID
	m.fb.task = todo.Task
	m.fb.income = todo.Income.String()
	if todo.DueDate != nil {
		m.fb.dueDate = todo.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("What needs to be done?").
				Value(&m.fb.task).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Task is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Income").
				Placeholder("0.00 (optional)").
				Value(&m.fb.income).
				Validate(validateOptionalAmount),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(formWidth(m.width))
}

func (m Model) handleSubmit() tea.Cmd {
	todo := model.Todo{
		ProjectID: m.projectID,
		Task:      strings.TrimSpace(m.fb.task),
		Income:    decimal.Zero,
	}

	if v, err := decimal.NewFromString(strings.TrimSpace(m.fb.income)); err == nil {
		todo.Income = v
	}

	if m.fb.dueDate != "" {
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(m.fb.dueDate)); err == nil {
			todo.DueDate = &t
		}
	}

	edit := m.editMode
	if edit {
		todo.ID = m.editID
	}
	return func() tea.Msg { return TodoSubmittedMsg{Todo: todo, Edit: edit} }
}

func validateOptionalAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("invalid amount")
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func formWidth(w int) int {
	w = w - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}
