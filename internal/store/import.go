package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/studytrack/internal/model"
)

// ImportData is a set of records to merge into the database, usually
// read back from an export.
type ImportData struct {
	Categories []model.Category
	Tasks      []model.Task
	Logs       []model.StudyLog
}

// ImportResult counts the records written by Import.
type ImportResult struct {
	Categories int
	Tasks      int
	Logs       int

	// SkippedLogs counts logs whose task exists neither in the data nor
	// in the database.
	SkippedLogs int
}

// Import upserts categories and tasks by id and inserts logs that are not
// already present, all in one transaction. Task counters are recomputed
// from the imported items. Zero timestamps are replaced with now.
func (s *SQLiteStore) Import(ctx context.Context, data ImportData) (ImportResult, error) {
	var res ImportResult
	now := time.Now().UTC()

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, c := range data.Categories {
			if err := upsertCategory(ctx, tx, c, now); err != nil {
				return err
			}
			res.Categories++
		}

		for _, t := range data.Tasks {
			if err := upsertTask(ctx, tx, t, now); err != nil {
				return err
			}
			res.Tasks++
		}

		for _, l := range data.Logs {
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				"SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)", l.TaskID); err != nil {
				return storageErr("checking log task "+l.TaskID, err)
			}
			if !exists {
				res.SkippedLogs++
				continue
			}

			inserted, err := insertLog(ctx, tx, l, now)
			if err != nil {
				return err
			}
			if inserted {
				res.Logs++
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

func upsertCategory(ctx context.Context, tx *sqlx.Tx, c model.Category, now time.Time) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Color == "" {
		c.Color = model.DefaultCategoryColor
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		c.ID, c.Name, c.Color, c.CreatedAt,
	)
	if err != nil {
		return storageErr("importing category "+c.ID, err)
	}
	return nil
}

func upsertTask(ctx context.Context, tx *sqlx.Tx, t model.Task, now time.Time) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Priority < model.PriorityLowest || t.Priority > model.PriorityHighest {
		t.Priority = model.PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	t.ApplyItems(t.Items)

	itemsJSON, err := encodeItems(t.Items)
	if err != nil {
		return storageErr("importing task "+t.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (
			id, category_id, title, subtitle, deadline, priority, items,
			total_items, completed_items, is_completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			title = excluded.title,
			subtitle = excluded.subtitle,
			deadline = excluded.deadline,
			priority = excluded.priority,
			items = excluded.items,
			total_items = excluded.total_items,
			completed_items = excluded.completed_items,
			is_completed = excluded.is_completed,
			updated_at = excluded.updated_at`,
		t.ID, t.CategoryID, t.Title, t.Subtitle, t.Deadline, t.Priority, itemsJSON,
		t.TotalItems, t.CompletedItems, boolToInt(t.IsCompleted), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return storageErr("importing task "+t.ID, err)
	}
	return nil
}

func insertLog(ctx context.Context, tx *sqlx.Tx, l model.StudyLog, now time.Time) (bool, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO logs (id, task_id, date, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		l.ID, l.TaskID, l.Date, l.CreatedAt,
	)
	if err != nil {
		return false, storageErr("importing log "+l.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, storageErr("importing log "+l.ID, err)
	}
	return n > 0, nil
}
