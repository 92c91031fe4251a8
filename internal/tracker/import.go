package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/studytrack/internal/events"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/store"
)

// Import merges a snapshot into the database. Every record is validated
// first; a single bad record rejects the whole snapshot. Records with an
// id already in the database are overwritten.
func (s *Service) Import(ctx context.Context, snap *Snapshot) (store.ImportResult, error) {
	data, err := prepareImport(snap)
	if err != nil {
		return store.ImportResult{}, err
	}

	res, err := s.store.Import(ctx, data)
	if err != nil {
		s.log.Error().Err(err).Msg("import failed")
		return res, err
	}

	s.log.Info().
		Int("categories", res.Categories).
		Int("tasks", res.Tasks).
		Int("logs", res.Logs).
		Int("skipped_logs", res.SkippedLogs).
		Msg("snapshot imported")
	s.bus.PublishStoreImported(events.ImportedPayload{
		Categories: res.Categories,
		Tasks:      res.Tasks,
		Logs:       res.Logs,
	})
	return res, nil
}

func prepareImport(snap *Snapshot) (store.ImportData, error) {
	if snap == nil {
		return store.ImportData{}, model.Invalid("snapshot", "empty snapshot")
	}

	data := store.ImportData{
		Categories: make([]model.Category, len(snap.Categories)),
		Tasks:      make([]model.Task, len(snap.Tasks)),
		Logs:       snap.Logs,
	}

	for i, c := range snap.Categories {
		if err := model.ValidateCategoryName(c.Name); err != nil {
			return store.ImportData{}, fmt.Errorf("categories[%d]: %w", i, err)
		}
		c.Name = strings.TrimSpace(c.Name)
		c.Color = strings.TrimSpace(c.Color)
		data.Categories[i] = c
	}

	for i, t := range snap.Tasks {
		meta := normalizeMeta(model.TaskMeta{
			CategoryID: t.CategoryID,
			Title:      t.Title,
			Subtitle:   t.Subtitle,
			Deadline:   t.Deadline,
			Priority:   t.Priority,
		})
		if err := model.ValidateTaskMeta(meta); err != nil {
			return store.ImportData{}, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		items, err := model.NormalizeItems(t.Items)
		if err != nil {
			return store.ImportData{}, fmt.Errorf("tasks[%d]: %w", i, err)
		}

		t.CategoryID = meta.CategoryID
		t.Title = meta.Title
		t.Subtitle = meta.Subtitle
		t.Deadline = meta.Deadline
		t.Priority = meta.Priority
		t.ApplyItems(items)
		data.Tasks[i] = t
	}

	for i, l := range snap.Logs {
		if strings.TrimSpace(l.TaskID) == "" {
			return store.ImportData{}, fmt.Errorf("logs[%d]: %w", i, model.Invalid("task_id", "is required"))
		}
	}
	return data, nil
}
