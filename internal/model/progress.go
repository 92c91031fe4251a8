package model

import (
	"math"
	"sort"
	"time"
)

// UrgentWithinDays is the inclusive look-ahead window for urgent deadlines.
const UrgentWithinDays = 7

// DerivedState is the set of task fields computed from its items.
type DerivedState struct {
	TotalItems     int
	CompletedItems int
	IsCompleted    bool
}

// Recompute derives the counters for an item list. An empty list is
// never complete.
func Recompute(items []ChecklistItem) DerivedState {
	done := 0
	for _, it := range items {
		if it.Done {
			done++
		}
	}
	return DerivedState{
		TotalItems:     len(items),
		CompletedItems: done,
		IsCompleted:    len(items) > 0 && done == len(items),
	}
}

// ProgressPercent returns the rounded completion percentage, or 0 for a
// task without items.
func ProgressPercent(t Task) int {
	return percent(t.CompletedItems, t.TotalItems)
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// ParseDeadline parses a deadline string as a calendar date.
func ParseDeadline(s string) (time.Time, error) {
	return time.Parse(DeadlineLayout, s)
}

// DaysUntilDeadline returns the number of calendar days from now's date
// to the deadline. ok is false when the task has no valid deadline.
// The time of day of now does not affect the result.
func DaysUntilDeadline(t Task, now time.Time) (days int, ok bool) {
	if t.Deadline == "" {
		return 0, false
	}
	deadline, err := ParseDeadline(t.Deadline)
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(deadline.Sub(today).Hours() / 24), true
}

// IsDeadlineUrgent reports whether an incomplete task is due within
// [today, today+UrgentWithinDays].
func IsDeadlineUrgent(t Task, now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	days, ok := DaysUntilDeadline(t, now)
	return ok && days >= 0 && days <= UrgentWithinDays
}

// IsOverdue reports whether an incomplete task's deadline has passed.
func IsOverdue(t Task, now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	days, ok := DaysUntilDeadline(t, now)
	return ok && days < 0
}

// SortTasksForDisplay returns a copy of tasks ordered incomplete first,
// then by priority descending. Ties keep their input order.
func SortTasksForDisplay(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsCompleted != out[j].IsCompleted {
			return !out[i].IsCompleted
		}
		return out[i].Priority > out[j].Priority
	})
	return out
}

// SortItemsForDisplay returns a copy of items ordered unfinished first,
// then by ascending id.
func SortItemsForDisplay(items []ChecklistItem) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Done != out[j].Done {
			return !out[i].Done
		}
		return out[i].ID < out[j].ID
	})
	return out
}
