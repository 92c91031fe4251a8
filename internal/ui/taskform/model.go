package taskform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/theme"
	"github.com/nhle/studytrack/internal/ui"
)

// TaskSubmittedMsg is dispatched when the create form is completed.
type TaskSubmittedMsg struct {
	Task model.NewTask
}

// TaskEditedMsg is dispatched when the edit form is completed.
type TaskEditedMsg struct {
	ID   string
	Meta model.TaskMeta
}

// TaskDeleteConfirmedMsg is dispatched when the user confirms a delete.
type TaskDeleteConfirmedMsg struct {
	ID string
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

type formMode int

const (
	modeCreate formMode = iota
	modeEdit
	modeDelete
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	categoryID string
	title      string
	subtitle   string
	priority   int
	deadline   string
	mode       model.GenerateMode
	prefix     string
	suffix     string
	start      string
	end        string
	manual     string
	confirm    bool
}

// Model is the Bubble Tea model for the task create, edit and delete forms.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	mode       formMode
	editID     string
	deleteName string
	categories []model.Category
	width      int
	height     int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// SetCategories sets the options for the category selector.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// StartCreate initializes the form for a new task. The deadline defaults
// to today.
func (m *Model) StartCreate(now time.Time) tea.Cmd {
	r := model.DefaultRangeSpec()

	m.mode = modeCreate
	m.editID = ""
	*m.fb = formBindings{
		priority: model.PriorityMedium,
		deadline: now.Format(model.DeadlineLayout),
		mode:     model.GenerateRangeMode,
		prefix:   r.Prefix,
		suffix:   r.Suffix,
		start:    strconv.Itoa(r.Start),
		end:      strconv.Itoa(r.End),
	}
	if len(m.categories) > 0 {
		m.fb.categoryID = m.categories[0].ID
	}
	m.form = m.buildCreateForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing a task's metadata. The
// checklist is edited from the detail view.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.mode = modeEdit
	m.editID = t.ID
	*m.fb = formBindings{
		categoryID: t.CategoryID,
		title:      t.Title,
		subtitle:   t.Subtitle,
		priority:   t.Priority,
		deadline:   t.Deadline,
	}
	m.form = m.buildEditForm()
	return m.form.Init()
}

// StartDelete initializes the delete confirmation for a task.
func (m *Model) StartDelete(t model.Task) tea.Cmd {
	m.mode = modeDelete
	m.editID = t.ID
	m.deleteName = t.Title
	m.fb.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Title)).
				Description("The task, its checklist and its history are removed.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithKeyMap(ui.FormKeyMap())
	return m.form.Init()
}

// Update handles messages for the task form.
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

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	var titleText string
	switch m.mode {
	case modeCreate:
		titleText = "New Task"
	case modeEdit:
		titleText = "Edit Task"
	case modeDelete:
		titleText = "Delete Task"
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

func (m *Model) buildCreateForm() *huh.Form {
	fields := m.metaFields()
	fields = append(fields,
		huh.NewSelect[model.GenerateMode]().
			Title("Checklist").
			Options(
				huh.NewOption("Numbered range", model.GenerateRangeMode),
				huh.NewOption("Manual list", model.GenerateManualMode),
			).
			Value(&m.fb.mode),
	)

	fb := m.fb
	rangeGroup := huh.NewGroup(
		huh.NewInput().Title("Prefix").Value(&fb.prefix),
		huh.NewInput().Title("Suffix").Value(&fb.suffix),
		huh.NewInput().Title("Start").Value(&fb.start).Validate(validateNumber("Start")),
		huh.NewInput().Title("End").Value(&fb.end).Validate(func(s string) error {
			if err := validateNumber("End")(s); err != nil {
				return err
			}
			start, err := strconv.Atoi(strings.TrimSpace(fb.start))
			if err != nil {
				return nil
			}
			end, _ := strconv.Atoi(strings.TrimSpace(s))
			if end < start {
				return fmt.Errorf("End must not be before Start")
			}
			if end-start+1 > model.MaxGeneratedItems {
				return fmt.Errorf("at most %d items", model.MaxGeneratedItems)
			}
			return nil
		}),
	).WithHideFunc(func() bool { return fb.mode != model.GenerateRangeMode })

	manualGroup := huh.NewGroup(
		huh.NewText().
			Title("Items").
			Description("One item per line, alt+enter for a new line.").
			Value(&fb.manual),
	).WithHideFunc(func() bool { return fb.mode != model.GenerateManualMode })

	return huh.NewForm(
		huh.NewGroup(fields...),
		rangeGroup,
		manualGroup,
	).WithWidth(m.formWidth()).WithKeyMap(ui.FormKeyMap()).WithHeight(m.formHeight())
}

func (m *Model) buildEditForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(m.metaFields()...),
	).WithWidth(m.formWidth()).WithKeyMap(ui.FormKeyMap()).WithHeight(m.formHeight())
}

func (m *Model) metaFields() []huh.Field {
	opts := make([]huh.Option[string], 0, len(m.categories)+1)
	for _, c := range m.categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	// Keep a dangling reference selectable so editing does not silently
	// move the task.
	if m.fb.categoryID != "" && !hasCategory(m.categories, m.fb.categoryID) {
		opts = append(opts, huh.NewOption(model.UncategorizedName, m.fb.categoryID))
	}

	priorities := make([]huh.Option[int], 0, model.PriorityHighest)
	for p := model.PriorityHighest; p >= model.PriorityLowest; p-- {
		priorities = append(priorities, huh.NewOption(theme.PriorityStars(p), p))
	}

	return []huh.Field{
		huh.NewSelect[string]().
			Title("Category").
			Options(opts...).
			Value(&m.fb.categoryID).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("select a category")
				}
				return nil
			}),
		huh.NewInput().
			Title("Title").
			Placeholder("Textbook, course or exam").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewInput().
			Title("Subtitle").
			Placeholder("Chapter or section (optional)").
			Value(&m.fb.subtitle),
		huh.NewSelect[int]().
			Title("Priority").
			Options(priorities...).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.deadline).
			Validate(func(s string) error { return model.ValidateDeadline(strings.TrimSpace(s)) }),
	}
}

func (m Model) handleSubmit() tea.Cmd {
	fb := m.fb
	switch m.mode {
	case modeDelete:
		if !fb.confirm {
			return func() tea.Msg { return CancelMsg{} }
		}
		id := m.editID
		return func() tea.Msg { return TaskDeleteConfirmedMsg{ID: id} }

	case modeEdit:
		id := m.editID
		meta := fb.meta()
		return func() tea.Msg { return TaskEditedMsg{ID: id, Meta: meta} }
	}

	nt := model.NewTask{TaskMeta: fb.meta(), Mode: fb.mode}
	switch fb.mode {
	case model.GenerateManualMode:
		nt.ManualLabels = strings.Split(fb.manual, "\n")
	default:
		nt.Range = model.RangeSpec{Prefix: fb.prefix, Suffix: fb.suffix}
		nt.Range.Start, _ = strconv.Atoi(strings.TrimSpace(fb.start))
		nt.Range.End, _ = strconv.Atoi(strings.TrimSpace(fb.end))
	}
	return func() tea.Msg { return TaskSubmittedMsg{Task: nt} }
}

func (fb *formBindings) meta() model.TaskMeta {
	return model.TaskMeta{
		CategoryID: fb.categoryID,
		Title:      fb.title,
		Subtitle:   fb.subtitle,
		Deadline:   strings.TrimSpace(fb.deadline),
		Priority:   fb.priority,
	}
}

func hasCategory(categories []model.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateNumber(fieldName string) func(string) error {
	return func(s string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s must be a whole number", fieldName)
		}
		return nil
	}
}
