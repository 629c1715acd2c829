package paymentform

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

// PaymentSubmittedMsg is dispatched when the form is submitted.
type PaymentSubmittedMsg struct {
	ProjectID string
	Payment   model.Payment
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	amount string
	date   string
	notes  string
}

// Model is the Bubble Tea model for recording a payment against a project.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	projectID   string
	projectName string
	width       int
	height      int
}

// New creates a new payment form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for recording a payment on a project. The
// date defaults to today.
func (m *Model) Start(p model.Project) tea.Cmd {
	m.projectID = p.ID
	m.projectName = p.Name
	m.fb.amount = ""
	m.fb.date = time.Now().Format("2006-01-02")
	m.fb.notes = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the payment form.
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

// View renders the payment form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Record Payment: "+m.projectName) + "\n" + m.form.View()

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
				Title("Amount").
				Placeholder("0.00").
				Value(&m.fb.amount).
				Validate(func(s string) error {
					v, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("invalid amount")
					}
					if !v.IsPositive() {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("invalid date format, use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Notes").
				Placeholder("Optional").
				Value(&m.fb.notes),
		),
	).WithWidth(formWidth(m.width))
}

func (m Model) handleSubmit() tea.Cmd {
	amount, _ := decimal.NewFromString(strings.TrimSpace(m.fb.amount))
	date, _ := time.Parse("2006-01-02", strings.TrimSpace(m.fb.date))

	payment := model.Payment{
		Amount: amount,
		Date:   date,
		Notes:  m.fb.notes,
	}
	projectID := m.projectID
	return func() tea.Msg {
		return PaymentSubmittedMsg{ProjectID: projectID, Payment: payment}
	}
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
