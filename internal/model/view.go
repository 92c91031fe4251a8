package model

import "time"

// TaskView pairs a task with its live-resolved category for display.
type TaskView struct {
	Task
	Category Category
}

// NewTaskViews resolves each task's category and orders the result for
// display.
func NewTaskViews(tasks []Task, categories []Category) []TaskView {
	sorted := SortTasksForDisplay(tasks)
	views := make([]TaskView, len(sorted))
	for i, t := range sorted {
		views[i] = TaskView{Task: t, Category: ResolveCategory(categories, t.CategoryID)}
	}
	return views
}

func (v TaskView) Progress() int              { return ProgressPercent(v.Task) }
func (v TaskView) Urgent(now time.Time) bool  { return IsDeadlineUrgent(v.Task, now) }
func (v TaskView) Overdue(now time.Time) bool { return IsOverdue(v.Task, now) }
