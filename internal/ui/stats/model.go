package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/theme"
	"github.com/nhle/studytrack/internal/tracker"
)

// CloseMsg signals the parent to close the stats view.
type CloseMsg struct{}

// LoadedMsg carries a freshly computed summary.
type LoadedMsg struct {
	Summary *tracker.Summary
	Err     error
}

// Model renders per-category progress.
type Model struct {
	svc     *tracker.Service
	keys    *keys.KeyMap
	summary *tracker.Summary
	err     error
	width   int
	height  int
}

// New creates a new stats view model.
func New(svc *tracker.Service, k *keys.KeyMap, width, height int) Model {
	return Model{svc: svc, keys: k, width: width, height: height}
}

// Init loads the summary.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Update handles messages for the stats view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.summary = msg.Summary
		m.err = msg.Err
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// Reload returns a command that recomputes the summary.
func (m Model) Reload() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sum, err := svc.Stats(ctx)
		return LoadedMsg{Summary: sum, Err: err}
	}
}

// View renders the stats view.
func (m Model) View() string {
	if m.err != nil {
		return theme.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.summary == nil {
		return lipgloss.NewStyle().Foreground(theme.ColorGray).Render("Loading...")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(Render(m.summary, m.width-4))
}

// Render formats a summary as a table of category rows. It is shared
// with the stats command.
func Render(sum *tracker.Summary, width int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	b.WriteString(titleStyle.Render("Progress by category"))
	b.WriteString("\n\n")

	nameWidth := 12
	for _, row := range sum.Categories {
		nameWidth = max(nameWidth, lipgloss.Width(row.Category.Name))
	}
	barWidth := min(max(width-nameWidth-28, 10), 40)

	for _, row := range sum.Categories {
		name := theme.CategoryStyle(row.Category.Color).
			Width(nameWidth).
			Render(row.Category.Name)
		fmt.Fprintf(&b, "%s  %s %3d%%  %d/%d tasks  %d left\n",
			name,
			theme.ProgressBar(row.Progress, barWidth),
			row.Progress,
			row.CompletedTasks, row.TotalTasks,
			row.RemainingItems,
		)
	}
	if len(sum.Categories) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render("No categories."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Tasks: %d  Completed: %d  Items left: %d",
		sum.TotalTasks, sum.CompletedTasks, sum.RemainingItems)
	if sum.UrgentTasks > 0 {
		b.WriteString("  ")
		b.WriteString(theme.UrgentStyle.Render(fmt.Sprintf("Due soon: %d", sum.UrgentTasks)))
	}
	return b.String()
}

// SetSize updates the stats view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
