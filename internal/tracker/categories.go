package tracker

import (
	"context"
	"strings"

	"github.com/nhle/studytrack/internal/model"
)

// ListCategories returns all categories in insertion order.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// CreateCategory adds a category. An empty color gets the default blue.
func (s *Service) CreateCategory(ctx context.Context, name, color string) (*model.Category, error) {
	if err := model.ValidateCategoryName(name); err != nil {
		return nil, err
	}

	c, err := s.store.CreateCategory(ctx, model.Category{
		Name:  strings.TrimSpace(name),
		Color: strings.TrimSpace(color),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("category created")
	s.bus.PublishCategoryCreated(*c)
	return c, nil
}

// UpdateCategory renames or recolors a category. Tasks are not touched;
// they resolve the category by id and see the change immediately.
func (s *Service) UpdateCategory(ctx context.Context, id, name, color string) (*model.Category, error) {
	if err := model.ValidateCategoryName(name); err != nil {
		return nil, err
	}

	c, err := s.store.UpdateCategory(ctx, model.Category{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Color: strings.TrimSpace(color),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("category updated")
	s.bus.PublishCategoryUpdated(*c)
	return c, nil
}

// DeleteCategory removes a category. Its tasks keep the dangling id and
// display as uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("category_id", id).Msg("category deleted")
	s.bus.PublishCategoryDeleted(id)
	return nil
}

// requireCategory turns a missing category into a validation failure of
// the task being written.
func (s *Service) requireCategory(ctx context.Context, id string) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		if model.IsNotFound(err) {
			return model.Invalid("category", "category "+id+" does not exist")
		}
		return err
	}
	return nil
}
