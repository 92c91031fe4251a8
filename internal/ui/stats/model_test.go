package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/tracker"
)

func TestRender(t *testing.T) {
	sum := &tracker.Summary{
		Categories: []model.CategoryStats{
			{Category: model.Category{Name: "語学", Color: "#10b981"}, TotalTasks: 2, CompletedTasks: 1, TotalItems: 10, CompletedItems: 4, RemainingItems: 6, Progress: 40},
			{Category: model.Uncategorized(""), TotalTasks: 1, TotalItems: 3, RemainingItems: 3},
		},
		TotalTasks:     3,
		CompletedTasks: 1,
		RemainingItems: 9,
		UrgentTasks:    2,
	}

	out := Render(sum, 80)
	assert.Contains(t, out, "語学")
	assert.Contains(t, out, "40%")
	assert.Contains(t, out, "1/2 tasks")
	assert.Contains(t, out, "6 left")
	assert.Contains(t, out, model.UncategorizedName)
	assert.Contains(t, out, "Items left: 9")
	assert.Contains(t, out, "Due soon: 2")
}

func TestRenderEmpty(t *testing.T) {
	out := Render(&tracker.Summary{}, 80)
	assert.Contains(t, out, "No categories.")
	assert.NotContains(t, out, "Due soon")
}
