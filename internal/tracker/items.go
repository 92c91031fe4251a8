package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/studytrack/internal/model"
)

// ToggleItem flips one checklist item and persists the recomputed
// counters together with the items.
func (s *Service) ToggleItem(ctx context.Context, taskID string, itemID int) (*model.Task, error) {
	t, err := s.store.ToggleItem(ctx, taskID, itemID)
	if err != nil {
		return nil, err
	}

	idx := t.FindItem(itemID)
	s.log.Debug().
		Str("task_id", taskID).
		Int("item_id", itemID).
		Bool("done", idx >= 0 && t.Items[idx].Done).
		Int("completed", t.CompletedItems).
		Int("total", t.TotalItems).
		Msg("item toggled")
	s.bus.PublishTaskUpdated(*t)
	return t, nil
}

// ReplaceItems swaps the whole checklist of a task. Blank labels and
// duplicate ids are rejected; items with id 0 get fresh ids.
func (s *Service) ReplaceItems(ctx context.Context, taskID string, items []model.ChecklistItem) (*model.Task, error) {
	if err := model.ValidateItemLabels(items); err != nil {
		return nil, err
	}

	t, err := s.store.ReplaceItems(ctx, taskID, items)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Int("items", t.TotalItems).Msg("items replaced")
	s.bus.PublishTaskUpdated(*t)
	return t, nil
}

// AddItem appends an item with the next free id.
func (s *Service) AddItem(ctx context.Context, taskID, label string) (*model.Task, error) {
	label, err := itemLabel(label)
	if err != nil {
		return nil, err
	}

	var itemID int
	t, err := s.store.UpdateItems(ctx, taskID, func(items []model.ChecklistItem) ([]model.ChecklistItem, error) {
		itemID = model.NextItemID(items)
		return append(items, model.ChecklistItem{ID: itemID, Label: label}), nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Int("item_id", itemID).Msg("item added")
	s.bus.PublishTaskUpdated(*t)
	return t, nil
}

// RenameItem changes the label of one item.
func (s *Service) RenameItem(ctx context.Context, taskID string, itemID int, label string) (*model.Task, error) {
	label, err := itemLabel(label)
	if err != nil {
		return nil, err
	}

	t, err := s.store.UpdateItems(ctx, taskID, func(items []model.ChecklistItem) ([]model.ChecklistItem, error) {
		i := indexOf(items, itemID)
		if i < 0 {
			return nil, itemNotFound(taskID, itemID)
		}
		items[i].Label = label
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Int("item_id", itemID).Msg("item renamed")
	s.bus.PublishTaskUpdated(*t)
	return t, nil
}

// RemoveItem deletes one item. Remaining ids are unchanged.
func (s *Service) RemoveItem(ctx context.Context, taskID string, itemID int) (*model.Task, error) {
	t, err := s.store.UpdateItems(ctx, taskID, func(items []model.ChecklistItem) ([]model.ChecklistItem, error) {
		i := indexOf(items, itemID)
		if i < 0 {
			return nil, itemNotFound(taskID, itemID)
		}
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Int("item_id", itemID).Msg("item removed")
	s.bus.PublishTaskUpdated(*t)
	return t, nil
}

func itemLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", model.Invalid("label", "label is required")
	}
	return label, nil
}

func indexOf(items []model.ChecklistItem, itemID int) int {
	for i, it := range items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func itemNotFound(taskID string, itemID int) error {
	return model.NotFound("item", fmt.Sprintf("%s#%d", taskID, itemID))
}
