package model

import "time"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3b82f6"

// FallbackCategoryColor is shown for tasks whose category no longer exists.
const FallbackCategoryColor = "#6b7280"

// UncategorizedName labels tasks whose category cannot be resolved.
const UncategorizedName = "Uncategorized"

// Category is a named, colored tag used to group tasks.
type Category struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	Name      string    `json:"name" yaml:"name" db:"name"`
	Color     string    `json:"color" yaml:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// ColorPreset is a named color offered when editing categories.
type ColorPreset struct {
	Name  string
	Value string
}

// PresetColors lists the colors offered by the category editor.
var PresetColors = []ColorPreset{
	{Name: "Red", Value: "#ef4444"},
	{Name: "Blue", Value: "#3b82f6"},
	{Name: "Green", Value: "#10b981"},
	{Name: "Amber", Value: "#f59e0b"},
	{Name: "Purple", Value: "#8b5cf6"},
	{Name: "Pink", Value: "#ec4899"},
	{Name: "Gray", Value: "#6b7280"},
}

// Uncategorized returns the placeholder category used for orphaned tasks.
func Uncategorized(id string) Category {
	return Category{ID: id, Name: UncategorizedName, Color: FallbackCategoryColor}
}

// ResolveCategory looks up id in categories. Tasks may reference a
// deleted category, so a missing id yields the Uncategorized fallback
// instead of an error.
func ResolveCategory(categories []Category, id string) Category {
	if id != "" {
		for _, c := range categories {
			if c.ID == id {
				return c
			}
		}
	}
	return Uncategorized(id)
}
