package store

import (
	"context"

	"github.com/nhle/studytrack/internal/model"
)

// ItemsFunc edits a copy of a task's items. Returning an error aborts
// the write.
type ItemsFunc func(items []model.ChecklistItem) ([]model.ChecklistItem, error)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Categories int
	Tasks      int
}

// Store defines the persistence interface for categories, tasks with
// their embedded checklist items, and study logs.
//
// Lookups of unknown ids return *model.NotFoundError; driver failures
// are wrapped in *model.StorageError.
type Store interface {
	// === Categories ===

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, c model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// === Tasks ===

	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (*model.Task, error)
	UpdateTaskMeta(ctx context.Context, id string, meta model.TaskMeta) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// === Checklist items ===

	// UpdateItems reads the task, applies fn to a copy of its items,
	// recomputes the derived counters and writes items and counters back
	// in one transaction.
	UpdateItems(ctx context.Context, taskID string, fn ItemsFunc) (*model.Task, error)
	ToggleItem(ctx context.Context, taskID string, itemID int) (*model.Task, error)
	ReplaceItems(ctx context.Context, taskID string, items []model.ChecklistItem) (*model.Task, error)

	// === Logs ===

	ListLogs(ctx context.Context) ([]model.StudyLog, error)
	ListLogsForTask(ctx context.Context, taskID string) ([]model.StudyLog, error)

	// === Bootstrap ===

	Seed(ctx context.Context, cfg model.SeedConfig) (SeedResult, error)
	Import(ctx context.Context, data ImportData) (ImportResult, error)

	Close() error
}
