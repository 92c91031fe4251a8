package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/model"
	appsync "github.com/nhle/studytrack/internal/sync"
	"github.com/nhle/studytrack/internal/tracker"
	"github.com/nhle/studytrack/internal/ui"
	"github.com/nhle/studytrack/internal/ui/categorymgr"
	"github.com/nhle/studytrack/internal/ui/command"
	"github.com/nhle/studytrack/internal/ui/detail"
	helpview "github.com/nhle/studytrack/internal/ui/help"
	"github.com/nhle/studytrack/internal/ui/stats"
	"github.com/nhle/studytrack/internal/ui/taskform"
	"github.com/nhle/studytrack/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewTaskCreate
	ViewTaskEdit
	ViewTaskDelete
	ViewCategories
	ViewStats
)

// Options configures the root model.
type Options struct {
	ShowCompleted bool
	Logger        zerolog.Logger
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the tracker service.
type Model struct {
	currentView  ViewState
	previousView ViewState
	formReturn   ViewState
	layout       ui.Layout
	svc          *tracker.Service
	keys         *keys.KeyMap
	log          zerolog.Logger
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	taskForm     taskform.Model
	categoryView categorymgr.Model
	statsView    stats.Model
	watcher      *appsync.Watcher
	ready        bool
	statusMsg    string
	statusErr    bool
}

// New creates a new root application model backed by svc.
func New(svc *tracker.Service, opts Options) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView:  ViewList,
		svc:          svc,
		keys:         k,
		log:          opts.Logger,
		taskList:     tasklist.New(svc, k, opts.ShowCompleted, 80, 24),
		detail:       detail.New(svc, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		taskForm:     taskform.New(80, 24),
		categoryView: categorymgr.New(svc, k, 80, 24),
		statsView:    stats.New(svc, k, 80, 24),
		watcher:      appsync.New(svc.Bus()),
	}
}

// Init loads tasks and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.taskList.Init(),
		m.watcher.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.Width
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.categoryView.SetSize(contentWidth, contentHeight)
		m.statsView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.ChangedMsg:
		m.log.Debug().Str("topic", string(msg.Topic)).Str("task_id", msg.TaskID).Msg("reloading views")
		return m, tea.Batch(m.reloadViews(), m.watcher.WaitForChange())

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		cmd := m.detail.Open(msg.TaskID)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.EditTaskMsg:
		cmd := m.openTaskForm(ViewTaskEdit, msg.TaskID)
		return m, cmd

	case detail.DeleteTaskMsg:
		cmd := m.openTaskForm(ViewTaskDelete, msg.TaskID)
		return m, cmd

	case detail.ItemChangedMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.setStatus("Item " + msg.Verb)
		}
		return m, nil

	case taskFormReadyMsg:
		cmd := m.startTaskForm(msg)
		return m, cmd

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg.Task)

	case taskform.TaskEditedMsg:
		m.currentView = m.formReturn
		return m, m.updateTask(msg.ID, msg.Meta)

	case taskform.TaskDeleteConfirmedMsg:
		m.currentView = ViewList
		return m, m.deleteTask(msg.ID)

	case taskform.CancelMsg:
		m.currentView = m.formReturn
		return m, nil

	case taskCreatedResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("Task created")
		}
		return m, nil

	case taskUpdatedResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("Task updated")
		}
		return m, nil

	case taskDeletedResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("Task deleted")
		}
		return m, nil

	case categorymgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case categorymgr.ChangedMsg:
		return m, nil

	case stats.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
			m.statusErr = true
			return m, nil
		}
		cmd := m.executeCommand(msg)
		return m, cmd

	case tea.KeyMsg:
		m.statusMsg = ""

		if msg.String() == "ctrl+c" {
			m.watcher.Stop()
			return m, tea.Quit
		}
		if m.inputFocused() {
			break
		}

		switch m.currentView {
		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		case ViewCommand:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		case ViewList:
			if cmd, ok := m.handleListKey(msg); ok {
				return m, cmd
			}
		case ViewDetail:
			if key.Matches(msg, m.keys.Help) {
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// inputFocused reports whether the active view is capturing text input,
// in which case global shortcuts are not interpreted.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewTaskCreate, ViewTaskEdit, ViewTaskDelete:
		return true
	case ViewList:
		return m.taskList.Searching()
	case ViewDetail:
		return m.detail.Editing()
	case ViewCategories:
		return m.categoryView.Editing()
	}
	return false
}

// handleListKey handles the shortcuts available from the task list. ok
// is false when the key should reach the list itself.
func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.watcher.Stop()
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case msg.String() == ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Refresh):
		return m.taskList.LoadTasks(), true

	case key.Matches(msg, m.keys.New):
		return m.openTaskForm(ViewTaskCreate, ""), true

	case key.Matches(msg, m.keys.Edit):
		if v, ok := m.taskList.SelectedTask(); ok {
			return m.openTaskForm(ViewTaskEdit, v.ID), true
		}
		return nil, true

	case key.Matches(msg, m.keys.Delete):
		if v, ok := m.taskList.SelectedTask(); ok {
			return m.openTaskForm(ViewTaskDelete, v.ID), true
		}
		return nil, true

	case key.Matches(msg, m.keys.Categories):
		return m.openCategories(), true

	case key.Matches(msg, m.keys.Stats):
		return m.openStats(), true
	}
	return nil, false
}

func (m *Model) openCategories() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewCategories
	return m.categoryView.Init()
}

func (m *Model) openStats() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewStats
	return m.statsView.Init()
}

// reloadViews re-reads every view that shows stored data. The list is
// always refreshed so it is current when the user navigates back.
func (m Model) reloadViews() tea.Cmd {
	cmds := []tea.Cmd{m.taskList.LoadTasks()}
	switch m.currentView {
	case ViewDetail:
		cmds = append(cmds, m.detail.Reload())
	case ViewCategories:
		cmds = append(cmds, m.categoryView.Reload())
	case ViewStats:
		cmds = append(cmds, m.statsView.Reload())
	}
	return tea.Batch(cmds...)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit, ViewTaskDelete:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewCategories:
		m.categoryView, cmd = m.categoryView.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	}

	// Load results can arrive after the user navigated away; they still
	// belong to their view.
	switch msg := msg.(type) {
	case tasklist.TasksLoadedMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		}
		if m.currentView != ViewList {
			m.taskList, _ = m.taskList.Update(msg)
		}
	case detail.LoadedMsg:
		if msg.Err != nil && !model.IsNotFound(msg.Err) {
			m.setError(msg.Err)
		}
		if m.currentView != ViewDetail {
			m.detail, _ = m.detail.Update(msg)
		}
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("studytrack", m.taskList.Summary())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.statusMsg, m.statusErr)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate, ViewTaskEdit, ViewTaskDelete:
		return m.taskForm.View()
	case ViewCategories:
		return m.categoryView.View()
	case ViewStats:
		return m.statsView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		if m.detail.Editing() {
			return "enter save | esc cancel"
		}
		return "space toggle | a add | R rename | X remove | e edit | d delete | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter next | shift+tab back | esc cancel"
	case ViewTaskDelete:
		return "←/→ choose | enter confirm | esc cancel"
	case ViewCategories:
		return "n new | e edit | d delete | esc back"
	case ViewStats:
		return "esc back"
	default:
		if m.taskList.Searching() {
			return "enter apply | esc clear"
		}
		filterSummary := m.taskList.FilterSummary()
		if filterSummary != "" {
			return filterSummary + " | q quit | ? help"
		}
		return "q quit | ? help | n new | / search | tab completed | c categories | s stats"
	}
}

// executeCommand runs a parsed palette command.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	switch c.Name {
	case "refresh":
		return m.taskList.LoadTasks()
	case "quit":
		m.watcher.Stop()
		return tea.Quit
	case "new":
		return m.openTaskForm(ViewTaskCreate, "")
	case "completed":
		switch c.Arg {
		case "on":
			return m.taskList.SetShowCompleted(true)
		case "off":
			return m.taskList.SetShowCompleted(false)
		}
		return m.taskList.ToggleShowCompleted()
	case "categories":
		return m.openCategories()
	case "stats":
		return m.openStats()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
	}
	return nil
}
