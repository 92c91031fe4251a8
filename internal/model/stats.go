package model

// CategoryStats aggregates task progress for one category.
type CategoryStats struct {
	Category       Category `json:"category" yaml:"category"`
	TotalTasks     int      `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks int      `json:"completed_tasks" yaml:"completed_tasks"`
	TotalItems     int      `json:"total_items" yaml:"total_items"`
	CompletedItems int      `json:"completed_items" yaml:"completed_items"`
	RemainingItems int      `json:"remaining_items" yaml:"remaining_items"`
	Progress       int      `json:"progress" yaml:"progress"`
}

func (s *CategoryStats) add(t Task) {
	s.TotalTasks++
	if t.IsCompleted {
		s.CompletedTasks++
	}
	s.TotalItems += t.TotalItems
	s.CompletedItems += t.CompletedItems
}

func (s *CategoryStats) finish() {
	s.RemainingItems = s.TotalItems - s.CompletedItems
	s.Progress = percent(s.CompletedItems, s.TotalItems)
}

// ComputeCategoryStats returns one row per category, in category order.
// Tasks pointing at a missing category are gathered into a trailing
// Uncategorized row, present only when such tasks exist.
func ComputeCategoryStats(categories []Category, tasks []Task) []CategoryStats {
	rows := make([]CategoryStats, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		rows[i].Category = c
		index[c.ID] = i
	}

	var orphans *CategoryStats
	for _, t := range tasks {
		if i, ok := index[t.CategoryID]; ok {
			rows[i].add(t)
			continue
		}
		if orphans == nil {
			orphans = &CategoryStats{Category: Uncategorized("")}
		}
		orphans.add(t)
	}

	if orphans != nil {
		rows = append(rows, *orphans)
	}
	for i := range rows {
		rows[i].finish()
	}
	return rows
}
