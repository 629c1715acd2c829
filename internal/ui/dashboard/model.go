package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mlocatelli/progetta/internal/finance"
	"github.com/mlocatelli/progetta/internal/keys"
	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/store"
	"github.com/mlocatelli/progetta/internal/theme"
	"github.com/mlocatelli/progetta/internal/ui"
)

// DataLoadedMsg is sent when the snapshot has been loaded from the store.
type DataLoadedMsg struct {
	Snapshot model.Snapshot
}

// maxBarWidth caps the widest chart bar.
const maxBarWidth = 40

// Model is the dashboard view: the three revenue cards and the per-client
// breakdown chart, filtered by year and month.
type Model struct {
	store    store.Store
	keys     *keys.KeyMap
	snapshot model.Snapshot
	filter   finance.Filter
	years    []int
	currency string
	width    int
	height   int
}

// New creates a new dashboard model.
func New(s store.Store, k *keys.KeyMap, currency string, width, height int) Model {
	return Model{
		store:    s,
		keys:     k,
		currency: currency,
		width:    width,
		height:   height,
	}
}

// Init returns a command that loads the initial snapshot.
func (m Model) Init() tea.Cmd {
	return m.LoadData()
}

// Filter returns the currently applied date filter.
func (m Model) Filter() finance.Filter {
	return m.filter
}

// SetFilter applies a previously saved date filter, e.g. from config.
func (m *Model) SetFilter(f finance.Filter) {
	m.filter = f
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DataLoadedMsg:
		m.snapshot = msg.Snapshot
		m.years = finance.AvailableYears(msg.Snapshot.Projects)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.CycleYear):
			m.cycleYear()
			return m, nil
		case key.Matches(msg, m.keys.CycleMonth):
			m.filter.Month = time.Month((int(m.filter.Month) + 1) % 13)
			return m, nil
		}
	}
	return m, nil
}

// cycleYear advances the year filter through "all" and every year that
// appears in the data.
func (m *Model) cycleYear() {
	if len(m.years) == 0 {
		m.filter.Year = 0
		return
	}
	if m.filter.Year == 0 {
		m.filter.Year = m.years[0]
		return
	}
	for i, y := range m.years {
		if y == m.filter.Year {
			if i+1 < len(m.years) {
				m.filter.Year = m.years[i+1]
			} else {
				m.filter.Year = 0
			}
			return
		}
	}
	m.filter.Year = 0
}

// View renders the dashboard.
func (m Model) View() string {
	totals := finance.DashboardTotals(m.snapshot.Projects, m.snapshot.Todos, m.filter)
	series := finance.ChartData(m.snapshot.Clients, m.snapshot.Projects, m.snapshot.Todos, m.filter)

	sections := []string{
		m.renderFilterLine(),
		m.renderCards(totals),
		m.renderChart(series),
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderFilterLine() string {
	year := "all years"
	if m.filter.Year != 0 {
		year = fmt.Sprintf("%d", m.filter.Year)
	}
	month := "all months"
	if m.filter.Month != 0 {
		month = m.filter.Month.String()
	}
	return theme.HelpStyle.Render(
		fmt.Sprintf("Collected filter: %s, %s (y/m to change)", year, month),
	)
}

func (m Model) renderCards(totals finance.Totals) string {
	card := func(title string, amount decimal.Decimal, color lipgloss.AdaptiveColor) string {
		return theme.PanelStyle.
			BorderForeground(color).
			Render(lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Foreground(color).Render(title),
				ui.FormatCurrency(amount, m.currency),
			))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Collected", totals.Collected, theme.ColorGreen),
		card("Future", totals.Future, theme.ColorBlue),
		card("Potential", totals.Potential, theme.ColorYellow),
	)
}

func (m Model) renderChart(series []finance.ClientSeries) string {
	if len(series) == 0 {
		return theme.HelpStyle.Render("No revenue data yet.")
	}

	max := decimal.Zero
	for _, s := range series {
		for _, v := range []decimal.Decimal{s.Collected, s.Future, s.Potential} {
			if v.GreaterThan(max) {
				max = v
			}
		}
	}

	var rows []string
	rows = append(rows, lipgloss.NewStyle().Bold(true).MarginTop(1).Render("By client"))
	for _, s := range series {
		rows = append(rows, lipgloss.NewStyle().Bold(true).Render(s.Name))
		rows = append(rows,
			m.renderBar("collected", s.Collected, max, theme.ColorGreen),
			m.renderBar("future", s.Future, max, theme.ColorBlue),
			m.renderBar("potential", s.Potential, max, theme.ColorYellow),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderBar(label string, value, max decimal.Decimal, color lipgloss.AdaptiveColor) string {
	width := 0
	if max.IsPositive() && value.IsPositive() {
		ratio, _ := value.Div(max).Float64()
		width = int(ratio * maxBarWidth)
		if width < 1 {
			width = 1
		}
	}

	bar := lipgloss.NewStyle().
		Foreground(color).
		Render(strings.Repeat("█", width))

	return fmt.Sprintf("  %-10s %s %s",
		label, bar, ui.FormatCurrency(value, m.currency))
}

// LoadData returns a tea.Cmd that loads the full snapshot from the store.
func (m Model) LoadData() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		snap, err := s.LoadSnapshot(context.Background())
		if err != nil {
			return DataLoadedMsg{}
		}
		return DataLoadedMsg{Snapshot: snap}
	}
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
