package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studytrack/internal/events"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/testutil"
	"github.com/nhle/studytrack/internal/tracker"
)

func TestCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("create trims name and defaults color", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)

		c, err := svc.CreateCategory(ctx, "  数学  ", "")
		require.NoError(t, err)
		assert.Equal(t, "数学", c.Name)
		assert.Equal(t, model.DefaultCategoryColor, c.Color)
		assert.Equal(t, []events.Topic{events.TopicCategoryCreated}, rec.Topics())
	})

	t.Run("blank name is rejected and nothing is published", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)

		_, err := svc.CreateCategory(ctx, "   ", "#ef4444")
		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
		assert.Empty(t, rec.Events())

		cats, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, cats)
	})

	t.Run("rename is visible through tasks immediately", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)

		c := testutil.MustCategory(t, svc, "old")
		task := testutil.MustTask(t, svc, c.ID, "Physics", "A")

		_, err := svc.UpdateCategory(ctx, c.ID, "new", "#8b5cf6")
		require.NoError(t, err)

		view, err := svc.GetTaskView(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", view.Category.Name)
		assert.Equal(t, "#8b5cf6", view.Category.Color)
	})

	t.Run("update rejects blank name", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)

		c := testutil.MustCategory(t, svc, "keep")
		_, err := svc.UpdateCategory(ctx, c.ID, "", "")
		assert.True(t, model.IsValidation(err))

		got, err := svc.GetCategory(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep", got.Name)
	})

	t.Run("delete orphans tasks", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)

		c := testutil.MustCategory(t, svc, "gone")
		task := testutil.MustTask(t, svc, c.ID, "Chemistry", "A")
		rec.Reset()

		require.NoError(t, svc.DeleteCategory(ctx, c.ID))
		assert.Equal(t, []events.Topic{events.TopicCategoryDeleted}, rec.Topics())

		view, err := svc.GetTaskView(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, model.UncategorizedName, view.Category.Name)
		assert.Equal(t, model.FallbackCategoryColor, view.Category.Color)
	})

	t.Run("delete unknown", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)

		err := svc.DeleteCategory(ctx, "missing")
		assert.True(t, model.IsNotFound(err))
		assert.Empty(t, rec.Events())
	})
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("range mode", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "院試対策")
		rec.Reset()

		task, err := svc.CreateTask(ctx, model.NewTask{
			TaskMeta: model.TaskMeta{
				CategoryID: c.ID,
				Title:      " 過去問 ",
				Deadline:   "2026-02-01",
				Priority:   4,
			},
			Mode:  model.GenerateRangeMode,
			Range: model.DefaultRangeSpec(),
		})
		require.NoError(t, err)
		assert.Equal(t, "過去問", task.Title)
		assert.Equal(t, 10, task.TotalItems)
		assert.Equal(t, 0, task.CompletedItems)
		assert.False(t, task.IsCompleted)
		assert.Equal(t, "第1回", task.Items[0].Label)
		assert.Equal(t, "第10回", task.Items[9].Label)

		evs := rec.Events()
		require.Len(t, evs, 1)
		assert.Equal(t, events.TopicTaskCreated, evs[0].Topic)
		assert.Equal(t, task.ID, evs[0].TaskID())
	})

	t.Run("manual mode drops blank labels", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "語学")

		task := testutil.MustTask(t, svc, c.ID, "Vocabulary", "", "A", "  ", "B")
		require.Len(t, task.Items, 2)
		assert.Equal(t, model.ChecklistItem{ID: 1, Label: "A"}, task.Items[0])
		assert.Equal(t, model.ChecklistItem{ID: 2, Label: "B"}, task.Items[1])
	})

	t.Run("missing category selection", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)

		_, err := svc.CreateTask(ctx, model.NewTask{
			TaskMeta: model.TaskMeta{Title: "x", Priority: 3},
		})
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "category", ve.Field)
		assert.Equal(t, "no category selected", ve.Msg)
		assert.Empty(t, rec.Events())
	})

	t.Run("category must exist", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)

		_, err := svc.CreateTask(ctx, model.NewTask{
			TaskMeta: model.TaskMeta{CategoryID: "nope", Title: "x", Priority: 3},
		})
		assert.True(t, model.IsValidation(err))

		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("field errors are aggregated", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")

		_, err := svc.CreateTask(ctx, model.NewTask{
			TaskMeta: model.TaskMeta{CategoryID: c.ID, Title: " ", Priority: 9, Deadline: "tomorrow"},
		})
		require.Error(t, err)

		var fields criterio.FieldErrors
		require.True(t, errors.As(err, &fields))
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Field)
		}
		assert.ElementsMatch(t, []string{"title", "priority", "deadline"}, names)
	})

	t.Run("reversed range", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")

		_, err := svc.CreateTask(ctx, model.NewTask{
			TaskMeta: model.TaskMeta{CategoryID: c.ID, Title: "x", Priority: 3},
			Range:    model.RangeSpec{Start: 5, End: 1},
		})
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "range", ve.Field)
	})
}

func TestUpdateAndDeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("update meta keeps items", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)
		a := testutil.MustCategory(t, svc, "a")
		b := testutil.MustCategory(t, svc, "b")
		task := testutil.MustTask(t, svc, a.ID, "Old", "x", "y")
		_, err := svc.ToggleItem(ctx, task.ID, 1)
		require.NoError(t, err)
		rec.Reset()

		updated, err := svc.UpdateTaskMeta(ctx, task.ID, model.TaskMeta{
			CategoryID: b.ID,
			Title:      "New",
			Subtitle:   "sub",
			Deadline:   "2026-12-24",
			Priority:   1,
		})
		require.NoError(t, err)
		assert.Equal(t, b.ID, updated.CategoryID)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, 1, updated.CompletedItems)
		assert.Len(t, updated.Items, 2)
		assert.Equal(t, []events.Topic{events.TopicTaskUpdated}, rec.Topics())
	})

	t.Run("orphaned task can keep its category id", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")
		task := testutil.MustTask(t, svc, c.ID, "T", "x")
		require.NoError(t, svc.DeleteCategory(ctx, c.ID))

		updated, err := svc.UpdateTaskMeta(ctx, task.ID, model.TaskMeta{
			CategoryID: c.ID, Title: "Renamed", Priority: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("moving to a missing category fails", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")
		task := testutil.MustTask(t, svc, c.ID, "T", "x")

		_, err := svc.UpdateTaskMeta(ctx, task.ID, model.TaskMeta{
			CategoryID: "missing", Title: "T", Priority: 2,
		})
		assert.True(t, model.IsValidation(err))
	})

	t.Run("update unknown task", func(t *testing.T) {
		svc, _ := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")

		_, err := svc.UpdateTaskMeta(ctx, "missing", model.TaskMeta{CategoryID: c.ID, Title: "T", Priority: 2})
		assert.True(t, model.IsNotFound(err))
	})

	t.Run("delete", func(t *testing.T) {
		svc, rec := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")
		task := testutil.MustTask(t, svc, c.ID, "T", "x")
		rec.Reset()

		require.NoError(t, svc.DeleteTask(ctx, task.ID))
		assert.Equal(t, []events.Topic{events.TopicTaskDeleted}, rec.Topics())

		_, err := svc.GetTask(ctx, task.ID)
		assert.True(t, model.IsNotFound(err))
		assert.True(t, model.IsNotFound(svc.DeleteTask(ctx, task.ID)))
	})
}

func TestItems(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, labels ...string) (*tracker.Service, *testutil.Recorder, *model.Task) {
		svc, rec := testutil.NewTestService(t)
		c := testutil.MustCategory(t, svc, "c")
		task := testutil.MustTask(t, svc, c.ID, "T", labels...)
		rec.Reset()
		return svc, rec, task
	}

	t.Run("toggle twice restores", func(t *testing.T) {
		svc, rec, task := setup(t, "A", "B", "C")

		once, err := svc.ToggleItem(ctx, task.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, once.CompletedItems)

		twice, err := svc.ToggleItem(ctx, task.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, task.Items, twice.Items)
		assert.Equal(t, task.CompletedItems, twice.CompletedItems)
		assert.Equal(t, task.IsCompleted, twice.IsCompleted)
		assert.Len(t, rec.Events(), 2)
	})

	t.Run("toggle unknown item publishes nothing", func(t *testing.T) {
		svc, rec, task := setup(t, "A")

		_, err := svc.ToggleItem(ctx, task.ID, 99)
		assert.True(t, model.IsNotFound(err))
		assert.Empty(t, rec.Events())
	})

	t.Run("add uses next id", func(t *testing.T) {
		svc, _, task := setup(t, "A", "B")
		_, err := svc.RemoveItem(ctx, task.ID, 1)
		require.NoError(t, err)

		added, err := svc.AddItem(ctx, task.ID, "  C ")
		require.NoError(t, err)
		require.Len(t, added.Items, 2)
		assert.Equal(t, model.ChecklistItem{ID: 3, Label: "C"}, added.Items[1])
		assert.Equal(t, 2, added.TotalItems)
	})

	t.Run("add to completed task reopens it", func(t *testing.T) {
		svc, _, task := setup(t, "A")
		done, err := svc.ToggleItem(ctx, task.ID, 1)
		require.NoError(t, err)
		require.True(t, done.IsCompleted)

		added, err := svc.AddItem(ctx, task.ID, "B")
		require.NoError(t, err)
		assert.False(t, added.IsCompleted)
	})

	t.Run("add blank label", func(t *testing.T) {
		svc, rec, task := setup(t, "A")

		_, err := svc.AddItem(ctx, task.ID, " ")
		assert.True(t, model.IsValidation(err))
		assert.Empty(t, rec.Events())
	})

	t.Run("rename", func(t *testing.T) {
		svc, _, task := setup(t, "A", "B")

		renamed, err := svc.RenameItem(ctx, task.ID, 2, "Bee")
		require.NoError(t, err)
		assert.Equal(t, "Bee", renamed.Items[1].Label)

		_, err = svc.RenameItem(ctx, task.ID, 7, "x")
		assert.True(t, model.IsNotFound(err))
		_, err = svc.RenameItem(ctx, task.ID, 1, "")
		assert.True(t, model.IsValidation(err))
	})

	t.Run("removing the last open item completes the task", func(t *testing.T) {
		svc, _, task := setup(t, "A", "B")
		_, err := svc.ToggleItem(ctx, task.ID, 1)
		require.NoError(t, err)

		removed, err := svc.RemoveItem(ctx, task.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, removed.TotalItems)
		assert.True(t, removed.IsCompleted)
	})

	t.Run("removing every item leaves it incomplete", func(t *testing.T) {
		svc, _, task := setup(t, "A")
		_, err := svc.ToggleItem(ctx, task.ID, 1)
		require.NoError(t, err)

		removed, err := svc.RemoveItem(ctx, task.ID, 1)
		require.NoError(t, err)
		assert.Empty(t, removed.Items)
		assert.False(t, removed.IsCompleted)
	})

	t.Run("replace", func(t *testing.T) {
		svc, rec, task := setup(t, "A", "B")

		replaced, err := svc.ReplaceItems(ctx, task.ID, []model.ChecklistItem{
			{ID: 2, Label: "B", Done: true},
			{Label: "new"},
		})
		require.NoError(t, err)
		assert.Equal(t, []model.ChecklistItem{
			{ID: 2, Label: "B", Done: true},
			{ID: 3, Label: "new"},
		}, replaced.Items)
		assert.Equal(t, []events.Topic{events.TopicTaskUpdated}, rec.Topics())

		_, err = svc.ReplaceItems(ctx, task.ID, []model.ChecklistItem{{Label: ""}})
		assert.True(t, model.IsValidation(err))
		assert.Len(t, rec.Events(), 1)
	})
}

func TestListTaskViews(t *testing.T) {
	ctx := context.Background()
	svc, _ := testutil.NewTestService(t)
	c := testutil.MustCategory(t, svc, "c")

	mk := func(title string, priority int, labels ...string) *model.Task {
		task, err := svc.CreateTask(ctx, model.NewTask{
			TaskMeta:     model.TaskMeta{CategoryID: c.ID, Title: title, Priority: priority},
			Mode:         model.GenerateManualMode,
			ManualLabels: labels,
		})
		require.NoError(t, err)
		return task
	}

	mk("low", 1, "x")
	done := mk("done", 5, "x")
	mk("high", 3, "x")
	_, err := svc.ToggleItem(ctx, done.ID, 1)
	require.NoError(t, err)

	views, err := svc.ListTaskViews(ctx, true)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "high", views[0].Title)
	assert.Equal(t, "low", views[1].Title)
	assert.Equal(t, "done", views[2].Title)
	assert.Equal(t, "c", views[0].Category.Name)

	open, err := svc.ListTaskViews(ctx, false)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestStatsAndSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	svc, _ := testutil.NewTestService(t, tracker.WithClock(func() time.Time { return now }))

	a := testutil.MustCategory(t, svc, "a")
	b := testutil.MustCategory(t, svc, "b")

	t1, err := svc.CreateTask(ctx, model.NewTask{
		TaskMeta: model.TaskMeta{CategoryID: a.ID, Title: "t1", Priority: 3, Deadline: "2026-01-17"},
		Range:    model.RangeSpec{Start: 1, End: 3},
	})
	require.NoError(t, err)
	_, err = svc.ToggleItem(ctx, t1.ID, 1)
	require.NoError(t, err)

	t2 := testutil.MustTask(t, svc, b.ID, "t2", "x")
	_, err = svc.ToggleItem(ctx, t2.ID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, b.ID))

	sum, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalTasks)
	assert.Equal(t, 1, sum.CompletedTasks)
	assert.Equal(t, 2, sum.RemainingItems)
	assert.Equal(t, 1, sum.UrgentTasks)

	require.Len(t, sum.Categories, 2)
	assert.Equal(t, "a", sum.Categories[0].Category.Name)
	assert.Equal(t, 33, sum.Categories[0].Progress)
	assert.Equal(t, model.UncategorizedName, sum.Categories[1].Category.Name)
	assert.Equal(t, 100, sum.Categories[1].Progress)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Categories, 1)
	assert.Len(t, snap.Tasks, 2)
	assert.Empty(t, snap.Logs)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	svc, rec := testutil.NewTestService(t)

	res, err := svc.Seed(ctx, model.SeedConfig{Categories: model.DefaultSeedCategories()})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Categories)

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TopicStoreSeeded, evs[0].Topic)
	assert.Equal(t, events.SeededPayload{Categories: 3}, evs[0].Payload)

	rec.Reset()
	_, err = svc.Seed(ctx, model.SeedConfig{Categories: model.DefaultSeedCategories()})
	require.NoError(t, err)
	assert.Empty(t, rec.Events())
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	src, _ := testutil.NewTestService(t)
	c := testutil.MustCategory(t, src, "語学")
	task := testutil.MustTask(t, src, c.ID, "Vocabulary", "Unit 1", "Unit 2")
	_, err := src.ToggleItem(ctx, task.ID, 2)
	require.NoError(t, err)

	snap, err := src.Snapshot(ctx)
	require.NoError(t, err)
	snap.Logs = []model.StudyLog{
		{ID: "log-1", TaskID: task.ID, Date: "2024-03-01"},
		{ID: "log-2", TaskID: "missing", Date: "2024-03-02"},
	}

	dst, rec := testutil.NewTestService(t)
	res, err := dst.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Categories)
	assert.Equal(t, 1, res.Tasks)
	assert.Equal(t, 1, res.Logs)
	assert.Equal(t, 1, res.SkippedLogs)
	assert.Equal(t, []events.Topic{events.TopicStoreImported}, rec.Topics())

	got, err := dst.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CategoryID)
	assert.Equal(t, 1, got.CompletedItems)
	assert.Equal(t, task.CreatedAt.Unix(), got.CreatedAt.Unix())

	t.Run("reimport overwrites without duplicating", func(t *testing.T) {
		snap.Categories[0].Name = "English"
		res, err := dst.Import(ctx, snap)
		require.NoError(t, err)
		assert.Zero(t, res.Logs)

		cats, err := dst.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "English", cats[0].Name)
	})

	t.Run("invalid record rejects the snapshot", func(t *testing.T) {
		empty, rec := testutil.NewTestService(t)
		bad := &tracker.Snapshot{
			Categories: []model.Category{{ID: "ok", Name: "fine"}},
			Tasks:      []model.Task{{ID: "t", CategoryID: "ok", Title: " ", Priority: 3}},
		}

		_, err := empty.Import(ctx, bad)
		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
		assert.Empty(t, rec.Events())

		cats, err := empty.ListCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, cats)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		_, err := dst.Import(ctx, nil)
		assert.True(t, model.IsValidation(err))
	})
}
