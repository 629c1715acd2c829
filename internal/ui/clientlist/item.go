package clientlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/theme"
)

// ClientItem wraps a model.Client together with its derived presentation
// state so it can be used in a bubbles/list.
type ClientItem struct {
	Client model.Client

	// Priority is the effective priority derived from the client's active
	// projects; HasPriority is false when the client has none.
	Priority    model.Priority
	HasPriority bool

	// Inactive is true when every project of the client is delivered and
	// paid.
	Inactive bool

	// OpenProjects counts projects that are neither cancelled nor closed.
	OpenProjects int
}

// FilterValue returns the string used for fuzzy filtering.
func (i ClientItem) FilterValue() string { return i.Client.Name }

// ItemDelegate implements list.ItemDelegate for rendering client rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single client row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(ClientItem)
	if !ok {
		return
	}

	priBadge := ""
	if ci.HasPriority {
		priBadge = " " + theme.PriorityStyle(ci.Priority).Render(ci.Priority.Label())
	}

	projects := ""
	if ci.OpenProjects > 0 {
		projects = theme.HelpStyle.Render(fmt.Sprintf("  %d open", ci.OpenProjects))
	}

	line := ci.Client.Name + priBadge + projects

	if ci.Inactive {
		line = theme.DimmedStyle.Render(ci.Client.Name + "  (inactive)")
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
