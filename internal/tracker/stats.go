package tracker

import (
	"context"

	"github.com/nhle/studytrack/internal/model"
)

// Snapshot is the full contents of the database, as written by export.
type Snapshot struct {
	Categories []model.Category `json:"categories" yaml:"categories"`
	Tasks      []model.Task     `json:"tasks" yaml:"tasks"`
	Logs       []model.StudyLog `json:"logs" yaml:"logs"`
}

// Summary aggregates the per-category rows of the stats screen.
type Summary struct {
	Categories     []model.CategoryStats
	TotalTasks     int
	CompletedTasks int
	RemainingItems int
	UrgentTasks    int
}

// Stats computes per-category progress and overall totals.
func (s *Service) Stats(ctx context.Context) (*Summary, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Categories: model.ComputeCategoryStats(categories, tasks)}
	now := s.now()
	for _, t := range tasks {
		sum.TotalTasks++
		if t.IsCompleted {
			sum.CompletedTasks++
		}
		sum.RemainingItems += t.TotalItems - t.CompletedItems
		if model.IsDeadlineUrgent(t, now) {
			sum.UrgentTasks++
		}
	}
	return sum, nil
}

// Snapshot reads every collection.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Categories: categories, Tasks: tasks, Logs: logs}, nil
}
