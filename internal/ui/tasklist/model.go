package tasklist

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/theme"
	"github.com/nhle/studytrack/internal/tracker"
)

// TasksLoadedMsg is sent when tasks have been loaded.
type TasksLoadedMsg struct {
	Views []model.TaskView
	Err   error
}

// SelectedTaskMsg is sent when a user opens a task.
type SelectedTaskMsg struct {
	TaskID string
}

// Model is the task list view: every task in display order with its
// category, priority, progress and deadline.
type Model struct {
	list          list.Model
	svc           *tracker.Service
	keys          *keys.KeyMap
	all           []model.TaskView
	query         string
	showCompleted bool
	searchMode    bool
	searchInput   textinput.Model
	loaded        bool
	width         int
	height        int
}

// New creates a new task list model.
func New(svc *tracker.Service, k *keys.KeyMap, showCompleted bool, width, height int) Model {
	delegate := ItemDelegate{now: svc.Now}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "filter by title, subtitle or category..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:          l,
		svc:           svc,
		keys:          k,
		showCompleted: showCompleted,
		searchInput:   si,
		width:         width,
		height:        height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			return m, nil
		}
		m.all = msg.Views
		cmd := m.applyFilter()
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The filter
// is applied as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.query = ""
		cmd := m.applyFilter()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.query = m.searchInput.Value()
	filterCmd := m.applyFilter()
	return m, tea.Batch(cmd, filterCmd)
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: item.View.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ShowCompleted):
		cmd := m.ToggleShowCompleted()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// ToggleShowCompleted flips whether completed tasks are listed.
func (m *Model) ToggleShowCompleted() tea.Cmd {
	return m.SetShowCompleted(!m.showCompleted)
}

// SetShowCompleted sets whether completed tasks are listed.
func (m *Model) SetShowCompleted(show bool) tea.Cmd {
	m.showCompleted = show
	return m.applyFilter()
}

// applyFilter rebuilds the visible items from the loaded tasks.
func (m *Model) applyFilter() tea.Cmd {
	items := make([]list.Item, 0, len(m.all))
	for _, v := range m.all {
		if !m.showCompleted && v.IsCompleted {
			continue
		}
		if m.query != "" && !matches(v, m.query) {
			continue
		}
		items = append(items, TaskItem{View: v})
	}
	return m.list.SetItems(items)
}

// SelectedTask returns the focused task, if any.
func (m Model) SelectedTask() (model.TaskView, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.TaskView{}, false
	}
	return item.View, true
}

// Summary describes the list for the header, e.g. "2/5 done".
func (m Model) Summary() string {
	done := 0
	for _, v := range m.all {
		if v.IsCompleted {
			done++
		}
	}
	return fmt.Sprintf("%d/%d done", done, len(m.all))
}

// FilterSummary describes the active filters, or "" when none apply.
func (m Model) FilterSummary() string {
	s := ""
	if m.query != "" {
		s = fmt.Sprintf("filter: %q", m.query)
	}
	if !m.showCompleted {
		if s != "" {
			s += " | "
		}
		s += "completed hidden"
	}
	return s
}

// Searching reports whether the filter input has focus.
func (m Model) Searching() bool { return m.searchMode }

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if !m.loaded {
		return style.Render("Loading...")
	}
	if len(m.all) > 0 {
		return style.Render("No matching tasks.\nPress / to change the filter or tab to show completed tasks.")
	}
	return style.Render("No tasks yet.\n\nPress n to create one.")
}

// LoadTasks returns a tea.Cmd that reads all tasks in display order.
func (m Model) LoadTasks() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		views, err := svc.ListTaskViews(ctx, true)
		return TasksLoadedMsg{Views: views, Err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
