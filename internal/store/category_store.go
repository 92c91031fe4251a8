package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/studytrack/internal/model"
)

const categoryColumns = "id, name, color, created_at"

// ListCategories returns all categories in insertion order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT "+categoryColumns+" FROM categories ORDER BY rowid")
	if err != nil {
		return nil, storageErr("querying categories", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// GetCategory retrieves a single category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := s.db.GetContext(ctx, &c,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	if err != nil {
		if isNoRows(err) {
			return nil, model.NotFound("category", id)
		}
		return nil, storageErr("getting category "+id, err)
	}
	return &c, nil
}

// CreateCategory inserts a new category. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c model.Category) (*model.Category, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Color == "" {
		c.Color = model.DefaultCategoryColor
	}
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Color, c.CreatedAt,
	)
	if err != nil {
		return nil, storageErr("creating category", err)
	}
	return &c, nil
}

// UpdateCategory updates a category's name and color.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c model.Category) (*model.Category, error) {
	if c.Color == "" {
		c.Color = model.DefaultCategoryColor
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, color = ? WHERE id = ?",
		c.Name, c.Color, c.ID,
	)
	if err != nil {
		return nil, storageErr("updating category "+c.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, model.NotFound("category", c.ID)
	}
	return s.GetCategory(ctx, c.ID)
}

// DeleteCategory removes a category. Tasks referencing it are left in
// place and resolve to the uncategorized placeholder.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting category "+id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.NotFound("category", id)
	}
	return nil
}
