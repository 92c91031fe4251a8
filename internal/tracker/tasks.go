package tracker

import (
	"context"
	"strings"

	"github.com/nhle/studytrack/internal/model"
)

// ListTasks returns tasks in storage (creation) order.
func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.store.ListTasks(ctx)
}

// ListTaskViews returns tasks in display order with their categories
// resolved. Completed tasks are dropped unless includeCompleted is set.
func (s *Service) ListTaskViews(ctx context.Context, includeCompleted bool) ([]model.TaskView, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	views := model.NewTaskViews(tasks, categories)
	if includeCompleted {
		return views, nil
	}
	out := views[:0]
	for _, v := range views {
		if !v.IsCompleted {
			out = append(out, v)
		}
	}
	return out, nil
}

// GetTask returns one task.
func (s *Service) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.store.GetTask(ctx, id)
}

// GetTaskView returns one task with its category resolved.
func (s *Service) GetTaskView(ctx context.Context, id string) (*model.TaskView, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &model.TaskView{Task: *t, Category: model.ResolveCategory(categories, t.CategoryID)}, nil
}

// CreateTask validates the input, generates the checklist and stores the
// new task with its derived counters.
func (s *Service) CreateTask(ctx context.Context, nt model.NewTask) (*model.Task, error) {
	nt.TaskMeta = normalizeMeta(nt.TaskMeta)
	if err := model.ValidateTaskMeta(nt.TaskMeta); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, nt.CategoryID); err != nil {
		return nil, err
	}

	items, err := model.GenerateItems(nt)
	if err != nil {
		return nil, err
	}

	t := model.Task{
		CategoryID: nt.CategoryID,
		Title:      nt.Title,
		Subtitle:   nt.Subtitle,
		Deadline:   nt.Deadline,
		Priority:   nt.Priority,
	}
	t.ApplyItems(items)

	created, err := s.store.CreateTask(ctx, t)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("task_id", created.ID).
		Str("category_id", created.CategoryID).
		Str("mode", string(nt.Mode)).
		Int("items", created.TotalItems).
		Msg("task created")
	s.bus.PublishTaskCreated(*created)
	return created, nil
}

// UpdateTaskMeta overwrites the editable metadata of a task. Moving the
// task to another category requires that category to exist.
func (s *Service) UpdateTaskMeta(ctx context.Context, id string, meta model.TaskMeta) (*model.Task, error) {
	meta = normalizeMeta(meta)
	if err := model.ValidateTaskMeta(meta); err != nil {
		return nil, err
	}

	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta.CategoryID != current.CategoryID {
		if err := s.requireCategory(ctx, meta.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateTaskMeta(ctx, id, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("task_id", id).
		Str("category_id", updated.CategoryID).
		Msg("task updated")
	s.bus.PublishTaskUpdated(*updated)
	return updated, nil
}

// DeleteTask removes a task, its checklist and its logs. Callers confirm
// with the user first.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("task_id", id).Msg("task deleted")
	s.bus.PublishTaskDeleted(id)
	return nil
}

func normalizeMeta(m model.TaskMeta) model.TaskMeta {
	m.CategoryID = strings.TrimSpace(m.CategoryID)
	m.Title = strings.TrimSpace(m.Title)
	m.Subtitle = strings.TrimSpace(m.Subtitle)
	m.Deadline = strings.TrimSpace(m.Deadline)
	return m
}
