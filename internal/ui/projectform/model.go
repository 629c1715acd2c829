package projectform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/theme"
)

// ProjectSubmittedMsg is dispatched when the form is submitted.
type ProjectSubmittedMsg struct {
	Project model.Project
	Edit    bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	value    string
	priority model.Priority
	notes    string
}

// Model is the Bubble Tea model for the project create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	clientID string
	width    int
	height   int
}

// New creates a new project form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a project under a client.
func (m *Model) StartCreate(clientID string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.clientID = clientID
	m.fb.name = ""
	m.fb.value = ""
	m.fb.priority = model.PriorityMedium
	m.fb.notes = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing project.
func (m *Model) StartEdit(p model.Project) tea.Cmd {
	m.editMode = true
	m.editID = p.ID
	m.clientID = p.ClientID
	m.fb.name = p.Name
	m.fb.value = p.Value.String()
	m.fb.priority = p.Priority
	m.fb.notes = p.Notes
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
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

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editMode {
		titleText = "Edit Project"
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
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Value").
				Placeholder("0.00").
				Value(&m.fb.value).
				Validate(validateAmount),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("High", model.PriorityHigh),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("Low", model.PriorityLow),
				).
				Value(&m.fb.priority),
			huh.NewText().
				Title("Notes").
				Placeholder("Optional").
				Value(&m.fb.notes),
		),
	).WithWidth(formWidth(m.width))
}

func (m Model) handleSubmit() tea.Cmd {
	value := decimal.Zero
	if v, err := decimal.NewFromString(strings.TrimSpace(m.fb.value)); err == nil {
		value = v
	}

	project := model.Project{
		ClientID: m.clientID,
		Name:     strings.TrimSpace(m.fb.name),
		Value:    value,
		Priority: m.fb.priority,
		Notes:    m.fb.notes,
	}
	edit := m.editMode
	if edit {
		project.ID = m.editID
	}
	return func() tea.Msg { return ProjectSubmittedMsg{Project: project, Edit: edit} }
}

func validateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("invalid amount")
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
