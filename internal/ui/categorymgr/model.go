package categorymgr

import (
	"context"
	"fmt"
	"regexp"
	"strings"

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

// CloseMsg signals the parent to close the category view.
type CloseMsg struct{}

// ChangedMsg signals that categories were modified.
type ChangedMsg struct{}

type categoryMode int

const (
	modeList categoryMode = iota
	modeForm
	modeConfirmDelete
)

// customColor is the select value that reveals the hex input.
const customColor = "custom"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type formBindings struct {
	name    string
	preset  string
	custom  string
	confirm bool
}

// color returns the color chosen in the form.
func (fb *formBindings) color() string {
	if fb.preset == customColor {
		return strings.TrimSpace(fb.custom)
	}
	return fb.preset
}

type categoriesLoadedMsg struct {
	categories []model.Category
	usage      map[string]int
	err        error
}

type categorySavedMsg struct{ err error }
type categoryDeletedMsg struct{ err error }

// Model is the Bubble Tea model for category management.
type Model struct {
	mode        categoryMode
	svc         *tracker.Service
	keys        *keys.KeyMap
	categories  []model.Category
	usage       map[string]int
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(svc *tracker.Service, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		svc:    svc,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads categories from the service.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Editing reports whether a form has focus.
func (m Model) Editing() bool { return m.mode != modeList }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		m.usage = msg.usage
		if m.selectedIdx >= len(m.categories) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.categories) - 1
		}
		return m, nil

	case categorySavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Category saved"
		}
		m.mode = modeList
		return m, tea.Batch(m.Reload(), func() tea.Msg { return ChangedMsg{} })

	case categoryDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Category deleted"
		}
		m.mode = modeList
		return m, tea.Batch(m.Reload(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.fb.preset = model.DefaultCategoryColor
		m.fb.custom = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.categories) == 0 {
			return m, nil
		}
		c := m.categories[m.selectedIdx]
		m.isNew = false
		m.editingID = c.ID
		m.fb.name = c.Name
		m.fb.preset, m.fb.custom = c.Color, ""
		if !isPreset(c.Color) {
			m.fb.preset, m.fb.custom = customColor, c.Color
		}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.categories) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func isPreset(color string) bool {
	for _, p := range model.PresetColors {
		if strings.EqualFold(p.Value, color) {
			return true
		}
	}
	return false
}

func (m Model) buildForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(model.PresetColors)+1)
	for _, p := range model.PresetColors {
		swatch := theme.CategoryStyle(p.Value).Render("●")
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s", swatch, p.Name), p.Value))
	}
	opts = append(opts, huh.NewOption("Custom...", customColor))

	fb := m.fb
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Category name").
				Value(&fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color").
				Options(opts...).
				Value(&fb.preset),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom color").
				Placeholder("#3b82f6").
				Value(&fb.custom).
				Validate(func(s string) error {
					if !hexColor.MatchString(strings.TrimSpace(s)) {
						return fmt.Errorf("use a #rrggbb hex color")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fb.preset != customColor }),
	).WithWidth(m.formWidth()).WithKeyMap(ui.FormKeyMap()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	var name, desc string
	if m.selectedIdx < len(m.categories) {
		c := m.categories[m.selectedIdx]
		name = c.Name
		desc = "No tasks use this category."
		if n := m.usage[c.ID]; n > 0 {
			desc = fmt.Sprintf("%d task(s) will show as %s.", n, model.UncategorizedName)
		}
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithKeyMap(ui.FormKeyMap()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveCategory()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm && m.selectedIdx < len(m.categories) {
			c := m.categories[m.selectedIdx]
			return m, m.deleteCategory(c.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No categories yet. Press 'n' to create one."))
	} else {
		for i, c := range m.categories {
			label := fmt.Sprintf("%s %s  %s",
				theme.CategoryStyle(c.Color).Render("●"),
				c.Name,
				theme.DimmedStyle.UnsetStrikethrough().Render(fmt.Sprintf("%d task(s)", m.usage[c.ID])),
			)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

// Reload returns a command that reloads categories and per-category
// task counts.
func (m Model) Reload() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		categories, err := svc.ListCategories(ctx)
		if err != nil {
			return categoriesLoadedMsg{err: err}
		}
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			return categoriesLoadedMsg{err: err}
		}
		usage := make(map[string]int, len(categories))
		for _, t := range tasks {
			usage[t.CategoryID]++
		}
		return categoriesLoadedMsg{categories: categories, usage: usage}
	}
}

func (m Model) saveCategory() tea.Cmd {
	svc := m.svc
	name := m.fb.name
	color := m.fb.color()
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		ctx := context.Background()
		if isNew {
			_, err := svc.CreateCategory(ctx, name, color)
			return categorySavedMsg{err: err}
		}
		_, err := svc.UpdateCategory(ctx, editID, name, color)
		return categorySavedMsg{err: err}
	}
}

func (m Model) deleteCategory(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.DeleteCategory(context.Background(), id)
		return categoryDeletedMsg{err: err}
	}
}
