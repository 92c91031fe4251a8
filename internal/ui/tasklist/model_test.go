package tasklist

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/studytrack/internal/keys"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/testutil"
	"github.com/nhle/studytrack/internal/tracker"
)

var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func TestDeadlineLabel(t *testing.T) {
	tests := []struct {
		name     string
		task     model.Task
		contains string
		empty    bool
	}{
		{name: "no deadline", task: model.Task{}, empty: true},
		{name: "overdue", task: model.Task{Deadline: "2026-03-08"}, contains: "2d overdue"},
		{name: "today", task: model.Task{Deadline: "2026-03-10"}, contains: "(today)"},
		{name: "urgent", task: model.Task{Deadline: "2026-03-13"}, contains: "(in 3d)"},
		{name: "far away", task: model.Task{Deadline: "2026-04-30"}, contains: "2026-04-30"},
		{name: "completed and past", task: model.Task{Deadline: "2026-03-01", IsCompleted: true}, contains: "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deadlineLabel(tt.task, now)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.contains)
		})
	}

	assert.NotContains(t, deadlineLabel(model.Task{Deadline: "2026-04-30"}, now), "(in")
	assert.NotContains(t, deadlineLabel(model.Task{Deadline: "2026-03-01", IsCompleted: true}, now), "overdue")
}

func TestMatches(t *testing.T) {
	v := model.TaskView{
		Task:     model.Task{Title: "入門コンピュータ科学", Subtitle: "Chapter 1 Data Storage"},
		Category: model.Category{Name: "専門科目"},
	}

	assert.True(t, matches(v, "data"))
	assert.True(t, matches(v, "storage 専門"))
	assert.True(t, matches(v, "  "))
	assert.False(t, matches(v, "data network"))
}

func newListWithTasks(t *testing.T) (Model, *tracker.Service) {
	t.Helper()

	svc, _ := testutil.NewTestService(t, tracker.WithClock(func() time.Time { return now }))
	c := testutil.MustCategory(t, svc, "語学")
	testutil.MustTask(t, svc, c.ID, "TOEIC", "Part 1", "Part 2")
	done := testutil.MustTask(t, svc, c.ID, "Vocabulary", "Unit 1")
	_, err := svc.ToggleItem(context.Background(), done.ID, 1)
	require.NoError(t, err)

	m := New(svc, keys.DefaultKeyMap(), false, 80, 24)
	msg := m.LoadTasks()()
	m, _ = m.Update(msg)
	return m, svc
}

func TestLoadHidesCompletedTasks(t *testing.T) {
	m, _ := newListWithTasks(t)

	require.Len(t, m.list.Items(), 1)
	v, ok := m.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "TOEIC", v.Title)
	assert.Equal(t, "1/2 done", m.Summary())
	assert.Equal(t, "completed hidden", m.FilterSummary())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Len(t, m.list.Items(), 2)
	assert.Empty(t, m.FilterSummary())
}

func TestSearchFiltersAsYouType(t *testing.T) {
	m, _ := newListWithTasks(t)
	m.ToggleShowCompleted()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.Searching())
	for _, r := range "vocab" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	require.Len(t, m.list.Items(), 1)
	v, ok := m.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "Vocabulary", v.Title)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Searching())
	assert.Len(t, m.list.Items(), 2)
}

func TestSelectEmitsTaskID(t *testing.T) {
	m, _ := newListWithTasks(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectedTaskMsg)
	require.True(t, ok)

	v, _ := m.SelectedTask()
	assert.Equal(t, v.ID, msg.TaskID)
}
