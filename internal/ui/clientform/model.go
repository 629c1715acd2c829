package clientform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/theme"
)

// ClientSubmittedMsg is dispatched when the form is submitted.
type ClientSubmittedMsg struct {
	Client model.Client
	Edit   bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name  string
	email string
}

// Model is the Bubble Tea model for the client create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new client form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new client.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.name = ""
	m.fb.email = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing client.
func (m *Model) StartEdit(client model.Client) tea.Cmd {
	m.editMode = true
	m.editID = client.ID
	m.fb.name = client.Name
	m.fb.email = client.Email
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the client form.
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

// View renders the client form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Client"
	if m.editMode {
		titleText = "Edit Client"
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
				Placeholder("Client name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Placeholder("Optional").
				Value(&m.fb.email),
		),
	).WithWidth(formWidth(m.width))
}

func (m Model) handleSubmit() tea.Cmd {
	client := model.Client{
		Name:  strings.TrimSpace(m.fb.name),
		Email: strings.TrimSpace(m.fb.email),
	}
	edit := m.editMode
	if edit {
		client.ID = m.editID
	}
	return func() tea.Msg { return ClientSubmittedMsg{Client: client, Edit: edit} }
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
