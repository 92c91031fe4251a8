package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/theme"
)

// progressWidth is the width of the inline progress bar.
const progressWidth = 10

// TaskItem wraps a model.TaskView so it can be used in a bubbles/list.
type TaskItem struct {
	View model.TaskView
}

// FilterValue returns the string used for filtering.
func (i TaskItem) FilterValue() string {
	return i.View.Title + " " + i.View.Subtitle + " " + i.View.Category.Name
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a task as a title line and a progress line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	fmt.Fprint(w, renderTask(ti.View, now, index == m.Index()))
}

func renderTask(v model.TaskView, now time.Time, selected bool) string {
	prefix := "○"
	if v.IsCompleted {
		prefix = "✓"
	}

	catBadge := theme.CategoryStyle(v.Category.Color).Render("● " + v.Category.Name)
	stars := theme.PriorityStyle(v.Priority).Render(theme.PriorityStars(v.Priority))

	title := v.Title
	if v.Subtitle != "" {
		title += lipgloss.NewStyle().Foreground(theme.ColorGray).Render("  " + v.Subtitle)
	}

	first := fmt.Sprintf("%s %s %s %s", prefix, catBadge, stars, title)

	second := fmt.Sprintf("  %s %3d%%  %d/%d%s",
		theme.ProgressBar(v.Progress(), progressWidth),
		v.Progress(),
		v.CompletedItems, v.TotalItems,
		deadlineLabel(v.Task, now),
	)

	line := first + "\n" + second
	if v.IsCompleted {
		line = theme.DimmedStyle.Render(first) + "\n" + second
	}

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// deadlineLabel renders the deadline with urgency styling, or "" when the
// task has none.
func deadlineLabel(t model.Task, now time.Time) string {
	days, ok := model.DaysUntilDeadline(t, now)
	if !ok {
		return ""
	}

	switch {
	case model.IsOverdue(t, now):
		return theme.OverdueStyle.Render(fmt.Sprintf("  ⚠ %s (%dd overdue)", t.Deadline, -days))
	case model.IsDeadlineUrgent(t, now):
		return theme.UrgentStyle.Render("  ⏰ " + t.Deadline + " " + relativeDays(days))
	default:
		return theme.DeadlineStyle.Render("  " + t.Deadline)
	}
}

// relativeDays returns a short label such as "today" or "in 3d".
func relativeDays(days int) string {
	switch {
	case days == 0:
		return "(today)"
	case days == 1:
		return "(tomorrow)"
	default:
		return fmt.Sprintf("(in %dd)", days)
	}
}

// matches reports whether a task view contains every word of query,
// case-insensitively.
func matches(v model.TaskView, query string) bool {
	haystack := strings.ToLower(TaskItem{View: v}.FilterValue())
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}
