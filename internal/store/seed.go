package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/studytrack/internal/model"
)

// exampleSeed describes a sample task inserted when seeding is
// configured with ExampleTask. category indexes the categories in
// insertion order.
type exampleSeed struct {
	category int
	title    string
	subtitle string
	deadline string
	priority int
	items    int
	done     int
	prefix   string
}

var exampleSeeds = []exampleSeed{
	{
		category: 0,
		title:    "入門コンピュータ科学",
		subtitle: "第1章 データストレージ 練習問題",
		deadline: "2026-03-01",
		priority: model.PriorityHighest,
		items:    53,
		done:     20,
		prefix:   "練習問題 ",
	},
	{
		category: 1,
		title:    "離散数学",
		subtitle: "グラフ理論 基礎",
		deadline: "2026-02-15",
		priority: 3,
		items:    30,
		done:     30,
		prefix:   "問",
	},
}

// Seed writes bootstrap data in one transaction: the configured
// categories when no category exists, and the example tasks when asked
// for and no task exists. Calling it on a populated database is a no-op.
func (s *SQLiteStore) Seed(ctx context.Context, cfg model.SeedConfig) (SeedResult, error) {
	var res SeedResult
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var categoryCount int
		if err := tx.GetContext(ctx, &categoryCount, "SELECT COUNT(*) FROM categories"); err != nil {
			return storageErr("counting categories", err)
		}

		if categoryCount == 0 {
			for _, sc := range cfg.Categories {
				if err := insertSeedCategory(ctx, tx, sc); err != nil {
					return err
				}
				res.Categories++
			}
		}

		if !cfg.ExampleTask {
			return nil
		}

		var taskCount int
		if err := tx.GetContext(ctx, &taskCount, "SELECT COUNT(*) FROM tasks"); err != nil {
			return storageErr("counting tasks", err)
		}
		if taskCount > 0 {
			return nil
		}

		var categoryIDs []string
		if err := tx.SelectContext(ctx, &categoryIDs, "SELECT id FROM categories ORDER BY rowid"); err != nil {
			return storageErr("selecting example categories", err)
		}

		for _, es := range exampleSeeds {
			t, err := es.task(categoryIDs)
			if err != nil {
				return err
			}
			if err := insertTask(ctx, tx, &t); err != nil {
				return err
			}
			res.Tasks++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}

func insertSeedCategory(ctx context.Context, tx *sqlx.Tx, sc model.SeedCategory) error {
	color := sc.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), sc.Name, color, time.Now().UTC(),
	)
	if err != nil {
		return storageErr("seeding category "+sc.Name, err)
	}
	return nil
}

// task builds the sample. A missing category leaves CategoryID empty,
// which displays under the fallback category.
func (es exampleSeed) task(categoryIDs []string) (model.Task, error) {
	items, err := model.GenerateRange(es.prefix, "", 1, es.items)
	if err != nil {
		return model.Task{}, err
	}
	for i := 0; i < es.done; i++ {
		items[i].Done = true
	}

	t := model.Task{
		Title:    es.title,
		Subtitle: es.subtitle,
		Deadline: es.deadline,
		Priority: es.priority,
	}
	if es.category < len(categoryIDs) {
		t.CategoryID = categoryIDs[es.category]
	}
	t.ApplyItems(items)
	return t, nil
}
