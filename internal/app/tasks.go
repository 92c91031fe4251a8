package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hay-kot/criterio"

	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/store"
)

// taskCreatedResultMsg is sent after a task is persisted.
type taskCreatedResultMsg struct{ err error }

// taskUpdatedResultMsg is sent after a task's metadata is updated.
type taskUpdatedResultMsg struct{ err error }

// taskDeletedResultMsg is sent after a task is deleted.
type taskDeletedResultMsg struct{ err error }

// taskFormReadyMsg carries what the task form needs before it opens.
type taskFormReadyMsg struct {
	view       ViewState
	categories []model.Category
	task       *model.Task
	err        error
}

const opTimeout = 5 * time.Second

// openTaskForm switches to a task form view and loads its options. id is
// empty when creating.
func (m *Model) openTaskForm(view ViewState, id string) tea.Cmd {
	if m.currentView == ViewList || m.currentView == ViewDetail {
		m.formReturn = m.currentView
	}
	m.currentView = view

	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		msg := taskFormReadyMsg{view: view}
		msg.categories, msg.err = svc.ListCategories(ctx)
		if msg.err != nil || id == "" {
			return msg
		}
		msg.task, msg.err = svc.GetTask(ctx, id)
		return msg
	}
}

// startTaskForm initializes the form once its options are loaded.
func (m *Model) startTaskForm(msg taskFormReadyMsg) tea.Cmd {
	if m.currentView != msg.view {
		return nil
	}
	if msg.err != nil {
		m.currentView = m.formReturn
		m.setError(msg.err)
		return nil
	}

	m.taskForm.SetCategories(msg.categories)
	switch msg.view {
	case ViewTaskCreate:
		if len(msg.categories) == 0 {
			m.currentView = m.formReturn
			m.setError(model.Invalid("category", "create a category first"))
			return nil
		}
		return m.taskForm.StartCreate(m.svc.Now())
	case ViewTaskEdit:
		return m.taskForm.StartEdit(*msg.task)
	case ViewTaskDelete:
		return m.taskForm.StartDelete(*msg.task)
	}
	return nil
}

// createTask generates the checklist and persists a new task.
func (m *Model) createTask(nt model.NewTask) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := svc.CreateTask(ctx, nt)
		return taskCreatedResultMsg{err: err}
	}
}

// updateTask persists edited metadata.
func (m *Model) updateTask(id string, meta model.TaskMeta) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := svc.UpdateTaskMeta(ctx, id, meta)
		return taskUpdatedResultMsg{err: err}
	}
}

// deleteTask removes a task and its logs.
func (m *Model) deleteTask(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return taskDeletedResultMsg{err: svc.DeleteTask(ctx, id)}
	}
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.log.Error().Err(err).Msg("action failed")
	m.statusMsg = ErrorText(err)
	m.statusErr = true
}

// ErrorText renders err for a single status line.
func ErrorText(err error) string {
	var fe criterio.FieldErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		return fmt.Sprintf("%s: %v", fe[0].Field, fe[0].Err)
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if model.IsNotFound(err) {
		return "Not found: " + err.Error()
	}
	if store.IsBusyError(err) {
		return "Error: " + store.BusyHint
	}
	return "Error: " + err.Error()
}
