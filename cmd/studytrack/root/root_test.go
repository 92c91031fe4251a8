package root

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/store"
	"github.com/nhle/studytrack/internal/tracker"
)

// run executes the CLI against a database in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "studytrack.db"),
		"--log-file", filepath.Join(dir, "studytrack.log"),
	}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err, out)
	return out
}

func snapshot(t *testing.T, dir string) tracker.Snapshot {
	t.Helper()
	var snap tracker.Snapshot
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "export")), &snap))
	return snap
}

func TestCategoryCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "category", "list")
	for _, c := range model.DefaultSeedCategories() {
		assert.Contains(t, out, c.Name)
	}

	out = mustRun(t, dir, "category", "add", "数学", "--color", "#8b5cf6")
	assert.Contains(t, out, "Created category 数学")

	mustRun(t, dir, "category", "edit", "数学", "--name", "算数")
	snap := snapshot(t, dir)
	require.Len(t, snap.Categories, 4)
	assert.Equal(t, "算数", snap.Categories[3].Name)
	assert.Equal(t, "#8b5cf6", snap.Categories[3].Color)

	mustRun(t, dir, "category", "rm", "算数")
	assert.Len(t, snapshot(t, dir).Categories, 3)

	_, err := run(t, dir, "category", "rm", "missing")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestTaskAndItemCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "task", "add", "-c", "語学", "-t", "TOEIC",
		"--prefix", "Part ", "--suffix", "", "--from", "1", "--to", "7")
	assert.Contains(t, out, "with 7 items")

	snap := snapshot(t, dir)
	require.Len(t, snap.Tasks, 1)
	id := snap.Tasks[0].ID
	assert.Equal(t, "Part 1", snap.Tasks[0].Items[0].Label)

	out = mustRun(t, dir, "item", "toggle", id[:8], "1")
	assert.Contains(t, out, "TOEIC: 1/7 (14%)")

	out = mustRun(t, dir, "item", "add", id, "Part 8")
	assert.Contains(t, out, "1/8 (13%)")

	mustRun(t, dir, "item", "rename", id, "8", "Mock test")
	out = mustRun(t, dir, "task", "show", id)
	assert.Contains(t, out, "Mock test")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "Part 1")

	out = mustRun(t, dir, "item", "rm", id, "8")
	assert.Contains(t, out, "1/7")

	_, err := run(t, dir, "item", "toggle", id, "zero")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))

	mustRun(t, dir, "task", "edit", id, "--priority", "5", "--deadline", "2026-12-01")
	task := snapshot(t, dir).Tasks[0]
	assert.Equal(t, 5, task.Priority)
	assert.Equal(t, "2026-12-01", task.Deadline)
	assert.Equal(t, "TOEIC", task.Title)

	out = mustRun(t, dir, "task", "list")
	assert.Contains(t, out, "TOEIC")

	_, err = run(t, dir, "task", "rm", id)
	require.Error(t, err)

	mustRun(t, dir, "task", "rm", id, "--yes")
	assert.Empty(t, snapshot(t, dir).Tasks)
}

func TestTaskAddManualItems(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "task", "add", "-c", "専門科目", "-t", "線形代数",
		"--item", "行列", "--item", " ", "--item", "固有値")
	assert.Contains(t, out, "with 2 items")

	_, err := run(t, dir, "task", "add", "-t", "No category")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestExportYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	mustRun(t, dir, "export", "--format", "yaml", "--output", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "categories:")
	assert.Contains(t, string(data), "院試対策")

	_, err = run(t, dir, "export", "--format", "xml")
	require.Error(t, err)
}

func TestImportRoundTrip(t *testing.T) {
	src := t.TempDir()
	mustRun(t, src, "task", "add", "-c", "語学", "-t", "TOEIC", "--item", "Listening", "--item", "Reading")
	path := filepath.Join(src, "backup.yaml")
	mustRun(t, src, "export", "-f", "yaml", "-o", path)
	want := snapshot(t, src)

	dst := t.TempDir()
	out := mustRun(t, dst, "import", "--file", path)
	assert.Contains(t, out, "Imported 3 categories, 1 tasks")

	got := snapshot(t, dst)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, want.Tasks[0].ID, got.Tasks[0].ID)
	assert.Equal(t, want.Tasks[0].Items, got.Tasks[0].Items)
	// Seeded categories plus the imported ones.
	assert.Len(t, got.Categories, 6)

	t.Run("stdin", func(t *testing.T) {
		data, err := json.Marshal(want)
		require.NoError(t, err)

		cmd := newRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetIn(bytes.NewReader(data))
		cmd.SetArgs([]string{
			"--config", filepath.Join(dst, "config.yaml"),
			"--db", filepath.Join(dst, "studytrack.db"),
			"--log-file", filepath.Join(dst, "studytrack.log"),
			"import",
		})
		require.NoError(t, cmd.ExecuteContext(context.Background()), buf.String())
		assert.Len(t, snapshot(t, dst).Tasks, 1)
	})

	t.Run("bad input", func(t *testing.T) {
		bad := filepath.Join(dst, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
		_, err := run(t, dst, "import", "--file", bad)
		require.Error(t, err)
	})
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "config", "init")
	assert.Contains(t, out, "config.yaml")
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	_, err := run(t, dir, "config", "init")
	require.Error(t, err)

	mustRun(t, dir, "config", "init", "--force")

	out = mustRun(t, dir, "config", "show")
	assert.Contains(t, out, "studytrack.db")
}

func TestMatchID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz"}

	id, err := matchID("task", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = matchID("task", "xyz", ids)
	require.NoError(t, err)
	assert.Equal(t, "xyz", id)

	_, err = matchID("task", "ab", ids)
	assert.ErrorContains(t, err, "ambiguous")
	assert.True(t, model.IsValidation(err))

	_, err = matchID("task", "q", ids)
	assert.True(t, model.IsNotFound(err))

	_, err = matchID("task", " ", ids)
	assert.True(t, model.IsValidation(err))
}

func TestErrorLine(t *testing.T) {
	assert.Equal(t, "boom", errorLine(errors.New("boom")))

	busy := &model.StorageError{Op: "create task", Err: errors.New("database is locked (5) (SQLITE_BUSY)")}
	assert.Equal(t, store.BusyHint, errorLine(busy))
}
