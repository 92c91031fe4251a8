package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/theme"
	"github.com/nhle/studytrack/internal/tracker"
	"github.com/nhle/studytrack/internal/ui"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EditTaskMsg asks the parent to open the edit form for a task.
type EditTaskMsg struct {
	TaskID string
}

// DeleteTaskMsg asks the parent to confirm and delete a task.
type DeleteTaskMsg struct {
	TaskID string
}

// LoadedMsg carries the task shown by the view. Err is a NotFoundError
// when the task is gone.
type LoadedMsg struct {
	View *model.TaskView
	Err  error
}

// ItemChangedMsg reports the result of a checklist edit.
type ItemChangedMsg struct {
	Verb string
	Err  error
}

type detailMode int

const (
	modeChecklist detailMode = iota
	modeInput
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	label string
}

// Model is the task detail view: task metadata, progress and the
// checklist with a cursor.
type Model struct {
	svc      *tracker.Service
	keys     *keys.KeyMap
	taskID   string
	view     *model.TaskView
	items    []model.ChecklistItem
	cursor   int
	offset   int
	mode     detailMode
	form     *huh.Form
	fb       *formBindings
	renaming int
	loading  bool
	gone     bool
	loadErr  error
	width    int
	height   int
}

// New creates a new detail view model.
func New(svc *tracker.Service, k *keys.KeyMap, width, height int) Model {
	return Model{
		svc:    svc,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Open switches the view to a task and returns the command loading it.
func (m *Model) Open(taskID string) tea.Cmd {
	m.taskID = taskID
	m.view = nil
	m.items = nil
	m.cursor = 0
	m.offset = 0
	m.mode = modeChecklist
	m.loading = true
	m.gone = false
	m.loadErr = nil
	return m.Reload()
}

// TaskID returns the id of the task being shown.
func (m Model) TaskID() string { return m.taskID }

// Editing reports whether an inline item form has focus.
func (m Model) Editing() bool { return m.mode == modeInput }

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			if model.IsNotFound(msg.Err) {
				m.gone = true
				m.view = nil
				m.items = nil
			} else {
				m.loadErr = msg.Err
			}
			return m, nil
		}
		if msg.View == nil || msg.View.ID != m.taskID {
			return m, nil
		}
		m.loadErr = nil
		m.setView(msg.View)
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.mode == modeInput {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *Model) setView(v *model.TaskView) {
	var selectedID int
	if m.cursor < len(m.items) {
		selectedID = m.items[m.cursor].ID
	}

	m.view = v
	m.items = model.SortItemsForDisplay(v.Items)

	// Keep the cursor on the same item when it moved after a toggle.
	m.cursor = min(m.cursor, max(len(m.items)-1, 0))
	for i, it := range m.items {
		if it.ID == selectedID {
			m.cursor = i
			break
		}
	}
	m.scrollToCursor()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.items) > 0 {
			m.cursor = (m.cursor + 1) % len(m.items)
			m.scrollToCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.items) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.items) - 1
			}
			m.scrollToCursor()
		}
		return m, nil
	}

	if m.view == nil {
		return m, nil
	}
	id := m.view.ID

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.current(); ok {
			return m, m.run("toggled", func(ctx context.Context) error {
				_, err := m.svc.ToggleItem(ctx, id, it.ID)
				return err
			})
		}

	case key.Matches(msg, m.keys.AddItem):
		m.fb.label = ""
		m.renaming = 0
		return m.startForm("New item")

	case key.Matches(msg, m.keys.RenameItem):
		if it, ok := m.current(); ok {
			m.fb.label = it.Label
			m.renaming = it.ID
			return m.startForm(fmt.Sprintf("Rename item #%d", it.ID))
		}

	case key.Matches(msg, m.keys.RemoveItem):
		if it, ok := m.current(); ok {
			return m, m.run("removed", func(ctx context.Context) error {
				_, err := m.svc.RemoveItem(ctx, id, it.ID)
				return err
			})
		}

	case key.Matches(msg, m.keys.Edit):
		return m, func() tea.Msg { return EditTaskMsg{TaskID: id} }

	case key.Matches(msg, m.keys.Delete):
		return m, func() tea.Msg { return DeleteTaskMsg{TaskID: id} }
	}
	return m, nil
}

func (m Model) current() (model.ChecklistItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.ChecklistItem{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) startForm(title string) (Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Label").
				Value(&m.fb.label).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("label is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithKeyMap(ui.FormKeyMap()).WithShowHelp(false)
	m.mode = modeInput
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeChecklist
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeChecklist
		id := m.view.ID
		label := m.fb.label
		if itemID := m.renaming; itemID != 0 {
			return m, m.run("renamed", func(ctx context.Context) error {
				_, err := m.svc.RenameItem(ctx, id, itemID, label)
				return err
			})
		}
		return m, m.run("added", func(ctx context.Context) error {
			_, err := m.svc.AddItem(ctx, id, label)
			return err
		})

	case huh.StateAborted:
		m.mode = modeChecklist
		return m, nil
	}
	return m, cmd
}

// run executes a checklist edit. The view reloads when the change event
// arrives, so only the outcome is reported here.
func (m Model) run(verb string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ItemChangedMsg{Verb: verb, Err: fn(ctx)}
	}
}

// Reload returns a command that re-reads the current task.
func (m Model) Reload() tea.Cmd {
	svc := m.svc
	id := m.taskID
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		v, err := svc.GetTaskView(ctx, id)
		return LoadedMsg{View: v, Err: err}
	}
}

// View renders the detail view.
func (m Model) View() string {
	center := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.gone:
		return center.Render("This task no longer exists.\n\nPress esc to go back.")
	case m.loadErr != nil && m.view == nil:
		return center.Render("Could not load this task.\n\n" + m.loadErr.Error() + "\n\nPress esc to go back.")
	case m.loading || m.view == nil:
		return center.Render("Loading task...")
	}

	header := m.renderHeader()
	body := m.renderChecklist(m.listHeight(header))

	content := lipgloss.JoinVertical(lipgloss.Left, header, body)
	if m.mode == modeInput && m.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.form.View())
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(content)
}

func (m Model) renderHeader() string {
	v := m.view
	now := m.svc.Now()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	lines := []string{
		theme.CategoryStyle(v.Category.Color).Render("● "+v.Category.Name) + "  " +
			theme.PriorityStyle(v.Priority).Render(theme.PriorityStars(v.Priority)),
		titleStyle.Render(v.Title),
	}
	if v.Subtitle != "" {
		lines = append(lines, metaStyle.Render(v.Subtitle))
	}

	deadline := metaStyle.Render("No deadline")
	if v.Deadline != "" {
		deadline = metaStyle.Render("Deadline: ") + v.Deadline
		switch {
		case v.Overdue(now):
			deadline += theme.OverdueStyle.Render("  overdue")
		case v.Urgent(now):
			deadline += theme.UrgentStyle.Render("  due soon")
		}
	}
	lines = append(lines, deadline)

	status := fmt.Sprintf("%s %d%%  %d/%d",
		theme.ProgressBar(v.Progress(), 20), v.Progress(), v.CompletedItems, v.TotalItems)
	if v.IsCompleted {
		status += theme.SuccessStyle.Render("  completed")
	}
	lines = append(lines, status, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderChecklist(height int) string {
	if len(m.items) == 0 {
		return lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).
			Render("No items. Press a to add one.")
	}

	end := min(m.offset+height, len(m.items))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		box := "[ ]"
		label := it.Label
		if it.Done {
			box = "[x]"
			label = theme.DimmedStyle.Render(label)
		}
		row := fmt.Sprintf("%s %s", box, label)
		if i == m.cursor {
			rows = append(rows, theme.SelectedItemStyle.Render(row))
		} else {
			rows = append(rows, theme.ListItemStyle.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}

// listHeight is the number of checklist rows that fit below the header.
func (m Model) listHeight(header string) int {
	h := m.height - lipgloss.Height(header)
	if m.mode == modeInput {
		h -= 4
	}
	return max(h, 1)
}

func (m *Model) scrollToCursor() {
	h := m.height - 8
	if h < 1 {
		h = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToCursor()
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}
