// Package help renders the key reference: one section per screen plus a
// legend of the markers used in the task list.
package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/theme"
)

// section is a titled group of bindings.
type section struct {
	title    string
	bindings []key.Binding
}

var (
	paletteKey = key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command palette"))
	formKeys   = []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/enter", "next field")),
		key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "new line")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
)

func sections(k *keys.KeyMap) []section {
	return []section{
		{"Task list", []key.Binding{k.Up, k.Down, k.Select, k.Search, k.New, k.Edit, k.Delete, k.ShowCompleted}},
		{"Task detail", []key.Binding{k.Toggle, k.AddItem, k.RenameItem, k.RemoveItem, k.Edit, k.Delete, k.Back}},
		{"Categories", []key.Binding{k.Up, k.Down, k.New, k.Edit, k.Delete, k.Back}},
		{"Forms", formKeys},
		{"Anywhere", []key.Binding{k.Categories, k.Stats, k.Refresh, paletteKey, k.Help, k.Quit}},
	}
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	m := Model{keys: keys, help: help.New()}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders every section followed by the legend.
func (m Model) View() string {
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var blocks []string
	for _, s := range sections(m.keys) {
		blocks = append(blocks,
			headingStyle.Render(s.title),
			m.help.ShortHelpView(s.bindings),
			"",
		)
	}
	blocks = append(blocks, headingStyle.Render("Legend"), legend())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func legend() string {
	row := func(marker, meaning string) string {
		return marker + "  " + theme.HelpStyle.Render(meaning)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row(theme.PriorityStyle(model.PriorityHighest).Render(theme.PriorityStars(model.PriorityHighest)), "priority, 1 to 5 stars"),
		row(theme.UrgentStyle.Render("due soon"), fmt.Sprintf("deadline within %d days", model.UrgentWithinDays)),
		row(theme.OverdueStyle.Render("overdue"), "deadline has passed"),
		row(theme.DimmedStyle.Render("completed"), "every item checked"),
		row(theme.CategoryStyle(model.FallbackCategoryColor).Render("● "+model.UncategorizedName), "category was deleted"),
	)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
