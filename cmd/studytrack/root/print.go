package root

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/theme"
)

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorGray)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func printCategories(w io.Writer, categories []model.Category, usage map[string]int) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	t := newTable("ID", "NAME", "COLOR", "TASKS")
	for _, c := range categories {
		t.Row(
			shortID(c.ID),
			theme.CategoryStyle(c.Color).Render("● ")+c.Name,
			c.Color,
			fmt.Sprint(usage[c.ID]),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printTasks(w io.Writer, views []model.TaskView, now time.Time) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	t := newTable("ID", "CATEGORY", "TITLE", "PRIORITY", "PROGRESS", "DEADLINE")
	for _, v := range views {
		title := v.Title
		if v.Subtitle != "" {
			title += " / " + v.Subtitle
		}
		if v.IsCompleted {
			title = theme.DimmedStyle.Render(title)
		}
		t.Row(
			shortID(v.ID),
			theme.CategoryStyle(v.Category.Color).Render(v.Category.Name),
			title,
			theme.PriorityStyle(v.Priority).Render(theme.PriorityStars(v.Priority)),
			fmt.Sprintf("%3d%% %d/%d", v.Progress(), v.CompletedItems, v.TotalItems),
			deadlineCell(v, now),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func deadlineCell(v model.TaskView, now time.Time) string {
	switch {
	case v.Deadline == "":
		return "-"
	case v.Overdue(now):
		return theme.OverdueStyle.Render(v.Deadline + " overdue")
	case v.Urgent(now):
		return theme.UrgentStyle.Render(v.Deadline + " soon")
	default:
		return v.Deadline
	}
}

func printTask(w io.Writer, v *model.TaskView, now time.Time) {
	fmt.Fprintf(w, "%s  %s\n",
		theme.CategoryStyle(v.Category.Color).Render("● "+v.Category.Name),
		theme.PriorityStyle(v.Priority).Render(theme.PriorityStars(v.Priority)),
	)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(v.Title))
	if v.Subtitle != "" {
		fmt.Fprintln(w, v.Subtitle)
	}
	fmt.Fprintf(w, "id: %s\n", v.ID)
	fmt.Fprintf(w, "deadline: %s\n", deadlineCell(*v, now))
	fmt.Fprintf(w, "%s %d%%  %d/%d\n\n",
		theme.ProgressBar(v.Progress(), 20), v.Progress(), v.CompletedItems, v.TotalItems)

	for _, it := range model.SortItemsForDisplay(v.Items) {
		box := "[ ]"
		label := it.Label
		if it.Done {
			box = "[x]"
			label = theme.DimmedStyle.Render(label)
		}
		fmt.Fprintf(w, "%4d %s %s\n", it.ID, box, label)
	}
}
