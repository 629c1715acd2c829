package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// View switching
	Dashboard key.Binding
	Tasks     key.Binding
	Clients   key.Binding

	// Help toggle
	Help key.Binding

	// Dashboard filters
	CycleYear  key.Binding
	CycleMonth key.Binding

	// CRUD actions
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Project actions
	Duplicate       key.Binding
	CycleWorkStatus key.Binding
	CyclePayStatus  key.Binding
	CyclePriority   key.Binding
	Payment         key.Binding

	// Task actions
	Toggle   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding

	// Backup
	Export key.Binding
	Import key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Tasks: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "tasks"),
		),
		Clients: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "clients"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		CycleYear: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "cycle year"),
		),
		CycleMonth: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle month"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "duplicate project"),
		),
		CycleWorkStatus: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "cycle work status"),
		),
		CyclePayStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle payment status"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),
		Payment: key.NewBinding(
			key.WithKeys("$"),
			key.WithHelp("$", "record payment"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move task up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move task down"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export backup"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import backup"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Dashboard, k.Tasks, k.Clients, k.Help},
		{k.New, k.Edit, k.Delete, k.Duplicate},
		{k.CycleWorkStatus, k.CyclePayStatus, k.CyclePriority, k.Payment},
		{k.Toggle, k.MoveUp, k.MoveDown},
		{k.CycleYear, k.CycleMonth, k.Export, k.Import},
	}
}
