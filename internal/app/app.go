package app

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlocatelli/progetta/internal/backup"
	"github.com/mlocatelli/progetta/internal/finance"
	"github.com/mlocatelli/progetta/internal/keys"
	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/store"
	"github.com/mlocatelli/progetta/internal/ui"
	"github.com/mlocatelli/progetta/internal/ui/clientdetail"
	"github.com/mlocatelli/progetta/internal/ui/clientform"
	"github.com/mlocatelli/progetta/internal/ui/clientlist"
	"github.com/mlocatelli/progetta/internal/ui/dashboard"
	"github.com/mlocatelli/progetta/internal/ui/paymentform"
	"github.com/mlocatelli/progetta/internal/ui/projectform"
	"github.com/mlocatelli/progetta/internal/ui/tasklist"
	"github.com/mlocatelli/progetta/internal/ui/todoform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewTasks
	ViewClients
	ViewClientDetail
	ViewHelp
	ViewClientForm
	ViewProjectForm
	ViewTodoForm
	ViewPaymentForm
)

// statusMsg carries a transient message for the status bar, e.g. the
// result of a backup export.
type statusMsg string

// mutationDoneMsg signals that a store mutation finished and the data
// views should reload.
type mutationDoneMsg struct{}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	cfg          *model.AppConfig
	cfgPath      string
	keys         *keys.KeyMap
	help         help.Model

	dashboard    dashboard.Model
	taskList     tasklist.Model
	clientList   clientlist.Model
	clientDetail clientdetail.Model
	clientForm   clientform.Model
	projectForm  projectform.Model
	todoForm     todoform.Model
	paymentForm  paymentform.Model

	ready      bool
	statusText string
}

// New creates a new root application model.
func New(s store.Store, cfg *model.AppConfig, cfgPath string) Model {
	k := keys.DefaultKeyMap()
	symbol := ui.CurrencySymbol(cfg.Display.Currency)

	m := Model{
		currentView:  ViewDashboard,
		store:        s,
		cfg:          cfg,
		cfgPath:      cfgPath,
		keys:         k,
		help:         help.New(),
		dashboard:    dashboard.New(s, k, symbol, 80, 24),
		taskList:     tasklist.New(s, k, symbol, 80, 24),
		clientList:   clientlist.New(s, k, 80, 24),
		clientDetail: clientdetail.New(s, k, symbol, 80, 24),
		clientForm:   clientform.New(80, 24),
		projectForm:  projectform.New(80, 24),
		todoForm:     todoform.New(80, 24),
		paymentForm:  paymentform.New(80, 24),
	}
	m.dashboard.SetFilter(finance.Filter{
		Year:  cfg.Dashboard.FilterYear,
		Month: time.Month(cfg.Dashboard.FilterMonth),
	})
	return m
}

// Init returns the initial commands to load all data views.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dashboard.Init(),
		m.taskList.Init(),
		m.clientList.Init(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.clientList.SetSize(w, h)
		m.clientDetail.SetSize(w, h)
		m.clientForm.SetSize(w, h)
		m.projectForm.SetSize(w, h)
		m.todoForm.SetSize(w, h)
		m.paymentForm.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case statusMsg:
		m.statusText = string(msg)
		return m, nil

	case mutationDoneMsg:
		return m, m.reloadAll()

	case clientlist.SelectedClientMsg:
		m.previousView = m.currentView
		m.currentView = ViewClientDetail
		return m, m.clientDetail.Open(msg.ClientID)

	case clientlist.EditClientMsg:
		m.previousView = m.currentView
		m.currentView = ViewClientForm
		return m, m.clientForm.StartEdit(msg.Client)

	case clientlist.DeleteClientMsg:
		return m, m.runMutation(func(ctx context.Context) error {
			return m.store.DeleteClient(ctx, msg.Client.ID)
		})

	case clientdetail.NewProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjectForm
		return m, m.projectForm.StartCreate(msg.ClientID)

	case clientdetail.EditProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjectForm
		return m, m.projectForm.StartEdit(msg.Project)

	case clientdetail.NewTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewTodoForm
		return m, m.todoForm.StartCreate(msg.Project.ID)

	case clientdetail.RecordPaymentMsg:
		m.previousView = m.currentView
		m.currentView = ViewPaymentForm
		return m, m.paymentForm.Start(msg.Project)

	case tasklist.EditTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewTodoForm
		return m, m.todoForm.StartEdit(msg.Todo)

	case clientform.ClientSubmittedMsg:
		m.currentView = ViewClients
		client := msg.Client
		if msg.Edit {
			return m, m.runMutation(func(ctx context.Context) error {
				return m.store.UpdateClient(ctx, client)
			})
		}
		return m, m.runMutation(func(ctx context.Context) error {
			_, err := m.store.CreateClient(ctx, client)
			return err
		})

	case clientform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case projectform.ProjectSubmittedMsg:
		m.currentView = ViewClientDetail
		p := msg.Project
		if msg.Edit {
			return m, m.runMutation(func(ctx context.Context) error {
				if err := m.store.UpdateProject(ctx, p); err != nil {
					return err
				}
				return m.store.SetProjectPriority(ctx, p.ID, p.Priority)
			})
		}
		return m, m.runMutation(func(ctx context.Context) error {
			_, err := m.store.CreateProject(ctx, p)
			return err
		})

	case projectform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case todoform.TodoSubmittedMsg:
		m.currentView = m.previousView
		todo := msg.Todo
		if msg.Edit {
			return m, m.runMutation(func(ctx context.Context) error {
				return m.store.UpdateTodo(ctx, todo)
			})
		}
		return m, m.runMutation(func(ctx context.Context) error {
			_, err := m.store.CreateTodo(ctx, todo)
			return err
		})

	case todoform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case paymentform.PaymentSubmittedMsg:
		m.currentView = ViewClientDetail
		return m, m.runMutation(func(ctx context.Context) error {
			_, err := m.store.AddPayment(ctx, msg.ProjectID, msg.Payment)
			return err
		})

	case paymentform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		m.statusText = ""
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active view.
// Form views keep full keyboard focus and only react to their own keys.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.inForm() {
		return false, m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return true, m, m.quit()

	case "q":
		if m.currentView == ViewDashboard || m.currentView == ViewTasks || m.currentView == ViewClients {
			return true, m, m.quit()
		}

	case "esc":
		switch m.currentView {
		case ViewClientDetail:
			m.currentView = ViewClients
			return true, m, m.clientList.LoadClients()
		case ViewHelp:
			m.currentView = m.previousView
			return true, m, nil
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "1":
		m.currentView = ViewDashboard
		return true, m, m.dashboard.LoadData()

	case "2":
		m.currentView = ViewTasks
		return true, m, m.taskList.LoadTasks()

	case "3":
		m.currentView = ViewClients
		return true, m, m.clientList.LoadClients()

	case "n":
		if m.currentView == ViewClients {
			m.previousView = m.currentView
			m.currentView = ViewClientForm
			return true, m, m.clientForm.StartCreate()
		}

	case "E":
		return true, m, m.exportBackup()

	case "I":
		return true, m, m.importBackup()
	}

	return false, m, nil
}

// inForm reports whether a huh form currently owns the keyboard.
func (m Model) inForm() bool {
	switch m.currentView {
	case ViewClientForm, ViewProjectForm, ViewTodoForm, ViewPaymentForm:
		return true
	}
	return false
}

// quit persists the dashboard filter so it is restored on next start.
func (m Model) quit() tea.Cmd {
	f := m.dashboard.Filter()
	m.cfg.Dashboard.FilterYear = f.Year
	m.cfg.Dashboard.FilterMonth = int(f.Month)
	_ = model.SaveConfig(m.cfgPath, m.cfg)
	return tea.Quit
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewClients:
		m.clientList, cmd = m.clientList.Update(msg)
	case ViewClientDetail:
		m.clientDetail, cmd = m.clientDetail.Update(msg)
	case ViewClientForm:
		m.clientForm, cmd = m.clientForm.Update(msg)
	case ViewProjectForm:
		m.projectForm, cmd = m.projectForm.Update(msg)
	case ViewTodoForm:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewPaymentForm:
		m.paymentForm, cmd = m.paymentForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Progetta", m.viewName())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewClients:
		return m.clientList.View()
	case ViewClientDetail:
		return m.clientDetail.View()
	case ViewHelp:
		return m.help.FullHelpView(m.keys.FullHelp())
	case ViewClientForm:
		return m.clientForm.View()
	case ViewProjectForm:
		return m.projectForm.View()
	case ViewTodoForm:
		return m.todoForm.View()
	case ViewPaymentForm:
		return m.paymentForm.View()
	default:
		return ""
	}
}

func (m Model) viewName() string {
	switch m.currentView {
	case ViewDashboard:
		return "dashboard"
	case ViewTasks:
		return "tasks"
	case ViewClients, ViewClientDetail:
		return "clients"
	case ViewHelp:
		return "help"
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusText != "" {
		return m.statusText
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewClientForm, ViewProjectForm, ViewTodoForm, ViewPaymentForm:
		return "enter submit | esc cancel"
	case ViewClientDetail:
		return "n project | enter task | $ payment | w/s/p cycle | d duplicate | x delete | esc back"
	case ViewTasks:
		return "space toggle | J/K move | e edit | x delete | 1/3 switch view"
	case ViewClients:
		return "enter open | n new | e edit | x delete | J/K move | 1/2 switch view"
	default:
		return "q quit | ? help | y year | m month | 2 tasks | 3 clients | E export"
	}
}

// runMutation executes a store mutation off the update loop and triggers
// a full reload when it succeeds.
func (m Model) runMutation(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return statusMsg("error: " + err.Error())
		}
		return mutationDoneMsg{}
	}
}

// reloadAll refreshes every data view after a mutation.
func (m Model) reloadAll() tea.Cmd {
	cmds := []tea.Cmd{
		m.dashboard.LoadData(),
		m.taskList.LoadTasks(),
		m.clientList.LoadClients(),
	}
	if m.clientDetail.ClientID() != "" {
		cmds = append(cmds, m.clientDetail.Load())
	}
	return tea.Batch(cmds...)
}

// exportBackup writes a timestamped JSON backup to the working directory.
func (m Model) exportBackup() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		snap, err := s.LoadSnapshot(context.Background())
		if err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		name := backup.FileName(time.Now())
		if err := backup.Export(name, snap); err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		return statusMsg("exported " + name)
	}
}

// importBackup restores the most recent backup file found in the working
// directory, replacing all current data.
func (m Model) importBackup() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		matches, err := filepath.Glob("progetta_backup_*.json")
		if err != nil || len(matches) == 0 {
			return statusMsg("no backup file found")
		}
		sort.Strings(matches)
		path := matches[len(matches)-1]

		snap, err := backup.Import(path)
		if err != nil {
			return statusMsg("import failed: " + err.Error())
		}
		if err := s.ImportSnapshot(context.Background(), snap); err != nil {
			return statusMsg("import failed: " + err.Error())
		}
		return mutationDoneMsg{}
	}
}
