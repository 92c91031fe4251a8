package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/studytrack/internal/model"
)

const taskColumns = `id, category_id, title, subtitle, deadline, priority, items,
	total_items, completed_items, is_completed, created_at, updated_at`

// taskRow carries the JSON-encoded items column alongside the task fields.
type taskRow struct {
	model.Task
	ItemsJSON string `db:"items"`
}

func (r taskRow) toTask() (model.Task, error) {
	t := r.Task
	var items []model.ChecklistItem
	if r.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(r.ItemsJSON), &items); err != nil {
			return model.Task{}, fmt.Errorf("decoding items of task %s: %w", t.ID, err)
		}
	}
	if items == nil {
		items = []model.ChecklistItem{}
	}
	// Counters are stored for indexing but always agree with items.
	t.ApplyItems(items)
	return t, nil
}

func encodeItems(items []model.ChecklistItem) (string, error) {
	if items == nil {
		items = []model.ChecklistItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding items: %w", err)
	}
	return string(b), nil
}

// ListTasks returns every task in insertion order. Display ordering is
// applied by model.SortTasksForDisplay.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT "+taskColumns+" FROM tasks ORDER BY rowid"); err != nil {
		return nil, storageErr("querying tasks", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTask()
		if err != nil {
			return nil, storageErr("scanning task row", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTask retrieves a single task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Task, error) {
	var r taskRow
	err := sqlx.GetContext(ctx, q, &r,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NotFound("task", id)
		}
		return nil, storageErr("getting task "+id, err)
	}
	t, err := r.toTask()
	if err != nil {
		return nil, storageErr("getting task "+id, err)
	}
	return &t, nil
}

// CreateTask inserts a new task with its items. Generates a UUID if ID
// is empty; the derived counters are recomputed from the items.
func (s *SQLiteStore) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return insertTask(ctx, tx, &t)
	}); err != nil {
		return nil, err
	}
	return &t, nil
}

func insertTask(ctx context.Context, ex sqlx.ExecerContext, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Priority < model.PriorityLowest || t.Priority > model.PriorityHighest {
		t.Priority = model.PriorityMedium
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.ApplyItems(t.Items)

	itemsJSON, err := encodeItems(t.Items)
	if err != nil {
		return storageErr("creating task", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO tasks (
			id, category_id, title, subtitle, deadline, priority, items,
			total_items, completed_items, is_completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CategoryID, t.Title, t.Subtitle, t.Deadline, t.Priority, itemsJSON,
		t.TotalItems, t.CompletedItems, boolToInt(t.IsCompleted), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return storageErr("creating task", err)
	}
	return nil
}

// UpdateTaskMeta overwrites a task's metadata. Items and counters are
// untouched.
func (s *SQLiteStore) UpdateTaskMeta(ctx context.Context, id string, meta model.TaskMeta) (*model.Task, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			category_id = ?, title = ?, subtitle = ?, deadline = ?,
			priority = ?, updated_at = ?
		WHERE id = ?`,
		meta.CategoryID, meta.Title, meta.Subtitle, meta.Deadline,
		meta.Priority, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, storageErr("updating task "+id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, model.NotFound("task", id)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task. CASCADE on logs removes its study logs.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting task "+id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.NotFound("task", id)
	}
	return nil
}

// UpdateItems applies fn to a copy of the task's items and persists the
// result together with the recomputed counters.
func (s *SQLiteStore) UpdateItems(ctx context.Context, taskID string, fn ItemsFunc) (*model.Task, error) {
	var updated *model.Task
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		t, err := getTask(ctx, tx, taskID)
		if err != nil {
			return err
		}

		items, err := fn(t.CloneItems())
		if err != nil {
			return err
		}
		t.ApplyItems(items)
		t.UpdatedAt = time.Now().UTC()

		itemsJSON, err := encodeItems(t.Items)
		if err != nil {
			return storageErr("updating items of task "+taskID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET
				items = ?, total_items = ?, completed_items = ?,
				is_completed = ?, updated_at = ?
			WHERE id = ?`,
			itemsJSON, t.TotalItems, t.CompletedItems,
			boolToInt(t.IsCompleted), t.UpdatedAt, taskID,
		); err != nil {
			return storageErr("updating items of task "+taskID, err)
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleItem flips the done flag of one item.
func (s *SQLiteStore) ToggleItem(ctx context.Context, taskID string, itemID int) (*model.Task, error) {
	return s.UpdateItems(ctx, taskID, func(items []model.ChecklistItem) ([]model.ChecklistItem, error) {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Done = !items[i].Done
				return items, nil
			}
		}
		return nil, model.NotFound("item", fmt.Sprintf("%s#%d", taskID, itemID))
	})
}

// ReplaceItems swaps the whole checklist. Labels are trimmed and items
// with id 0 receive fresh ids above the current maximum.
func (s *SQLiteStore) ReplaceItems(ctx context.Context, taskID string, items []model.ChecklistItem) (*model.Task, error) {
	return s.UpdateItems(ctx, taskID, func([]model.ChecklistItem) ([]model.ChecklistItem, error) {
		return model.NormalizeItems(items)
	})
}
