// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/studytrack/internal/events"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/store"
	"github.com/nhle/studytrack/internal/tracker"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err, "creating test store")

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Recorder captures every event published on a bus.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewRecorder subscribes a recorder to all topics of bus.
func NewRecorder(t *testing.T, bus *events.Bus) *Recorder {
	t.Helper()

	r := &Recorder{}
	unsubscribe := bus.SubscribeAll(func(e events.Event) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	t.Cleanup(unsubscribe)
	return r
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the topics of the recorded events in publish order.
func (r *Recorder) Topics() []events.Topic {
	evs := r.Events()
	out := make([]events.Topic, len(evs))
	for i, e := range evs {
		out[i] = e.Topic
	}
	return out
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// NewTestService builds a tracker service over an in-memory store and a
// fresh bus with a recorder attached.
func NewTestService(t *testing.T, opts ...tracker.Option) (*tracker.Service, *Recorder) {
	t.Helper()

	bus := events.New()
	rec := NewRecorder(t, bus)
	return tracker.NewService(NewTestStore(t), bus, opts...), rec
}

// MustCategory creates a category or fails the test.
func MustCategory(t *testing.T, svc *tracker.Service, name string) *model.Category {
	t.Helper()

	c, err := svc.CreateCategory(context.Background(), name, "")
	require.NoError(t, err)
	return c
}

// MustTask creates a manual-mode task with the given labels or fails the test.
func MustTask(t *testing.T, svc *tracker.Service, categoryID, title string, labels ...string) *model.Task {
	t.Helper()

	task, err := svc.CreateTask(context.Background(), model.NewTask{
		TaskMeta: model.TaskMeta{
			CategoryID: categoryID,
			Title:      title,
			Priority:   model.PriorityMedium,
		},
		Mode:         model.GenerateManualMode,
		ManualLabels: labels,
	})
	require.NoError(t, err)
	return task
}
