package model

import "time"

// Priority bounds. Higher numbers sort first in the task list.
const (
	PriorityLowest  = 1
	PriorityLow     = 2
	PriorityMedium  = 3
	PriorityHigh    = 4
	PriorityHighest = 5
)

// DeadlineLayout is the calendar-date format used for task deadlines.
const DeadlineLayout = "2006-01-02"

// ChecklistItem is one sub-unit of a task. Its ID is unique only within
// the owning task's item list.
type ChecklistItem struct {
	ID    int    `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Done  bool   `json:"done" yaml:"done"`
}

// Task is a unit of study work with a deadline, priority, and checklist.
//
// TotalItems, CompletedItems and IsCompleted are derived from Items and
// must only be changed through ApplyItems.
type Task struct {
	ID         string `json:"id" yaml:"id" db:"id"`
	CategoryID string `json:"category_id" yaml:"category_id" db:"category_id"`
	Title      string `json:"title" yaml:"title" db:"title"`
	Subtitle   string `json:"subtitle" yaml:"subtitle" db:"subtitle"`

	// Deadline is a calendar date in DeadlineLayout, or empty for none.
	Deadline string `json:"deadline,omitempty" yaml:"deadline,omitempty" db:"deadline"`
	Priority int    `json:"priority" yaml:"priority" db:"priority"`

	Items          []ChecklistItem `json:"items" yaml:"items" db:"-"`
	TotalItems     int             `json:"total_items" yaml:"total_items" db:"total_items"`
	CompletedItems int             `json:"completed_items" yaml:"completed_items" db:"completed_items"`
	IsCompleted    bool            `json:"is_completed" yaml:"is_completed" db:"is_completed"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}

// ApplyItems replaces the item list and recomputes the derived counters
// in one step.
func (t *Task) ApplyItems(items []ChecklistItem) {
	if items == nil {
		items = []ChecklistItem{}
	}
	d := Recompute(items)
	t.Items = items
	t.TotalItems = d.TotalItems
	t.CompletedItems = d.CompletedItems
	t.IsCompleted = d.IsCompleted
}

// FindItem returns the index of the item with the given local id, or -1.
func (t *Task) FindItem(itemID int) int {
	for i, it := range t.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// CloneItems returns a copy of the task's items that can be edited
// without aliasing the task.
func (t *Task) CloneItems() []ChecklistItem {
	out := make([]ChecklistItem, len(t.Items))
	copy(out, t.Items)
	return out
}

// GenerateMode selects how a new task's checklist is built.
type GenerateMode string

const (
	GenerateRangeMode  GenerateMode = "range"
	GenerateManualMode GenerateMode = "manual"
)

// RangeSpec describes a numbered item range such as 第1回 … 第10回.
type RangeSpec struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Suffix string `json:"suffix" yaml:"suffix"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
}

// DefaultRangeSpec mirrors the create form's initial values.
func DefaultRangeSpec() RangeSpec {
	return RangeSpec{Prefix: "第", Suffix: "回", Start: 1, End: 10}
}

// TaskMeta holds the user-editable metadata of a task.
type TaskMeta struct {
	CategoryID string
	Title      string
	Subtitle   string
	Deadline   string
	Priority   int
}

// NewTask is the input for creating a task.
type NewTask struct {
	TaskMeta

	Mode         GenerateMode
	Range        RangeSpec
	ManualLabels []string
}
