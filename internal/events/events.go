// Package events provides a synchronous publish/subscribe bus that
// carries change notifications from the tracker to its observers.
package events

import (
	"github.com/nhle/studytrack/internal/model"
)

// Topic names a kind of change.
type Topic string

const (
	TopicCategoryCreated Topic = "category.created"
	TopicCategoryDeleted Topic = "category.deleted"
	TopicCategoryUpdated Topic = "category.updated"
	TopicStoreImported   Topic = "store.imported"
	TopicStoreSeeded     Topic = "store.seeded"
	TopicTaskCreated     Topic = "task.created"
	TopicTaskDeleted     Topic = "task.deleted"
	TopicTaskUpdated     Topic = "task.updated"
)

// Topics lists every topic, sorted A-Z.
var Topics = []Topic{
	TopicCategoryCreated,
	TopicCategoryDeleted,
	TopicCategoryUpdated,
	TopicStoreImported,
	TopicStoreSeeded,
	TopicTaskCreated,
	TopicTaskDeleted,
	TopicTaskUpdated,
}

// Event is a published change.
type Event struct {
	Topic   Topic
	Payload any
}

// CategoryPayload accompanies category.created and category.updated.
type CategoryPayload struct {
	Category model.Category
}

// CategoryDeletedPayload accompanies category.deleted.
type CategoryDeletedPayload struct {
	CategoryID string
}

// TaskPayload accompanies task.created and task.updated.
type TaskPayload struct {
	Task model.Task
}

// TaskDeletedPayload accompanies task.deleted.
type TaskDeletedPayload struct {
	TaskID string
}

// SeededPayload accompanies store.seeded.
type SeededPayload struct {
	Categories int
	Tasks      int
}

// ImportedPayload accompanies store.imported.
type ImportedPayload struct {
	Categories int
	Tasks      int
	Logs       int
}

// TaskID returns the id of the task an event refers to, or "".
func (e Event) TaskID() string {
	switch p := e.Payload.(type) {
	case TaskPayload:
		return p.Task.ID
	case TaskDeletedPayload:
		return p.TaskID
	}
	return ""
}

func (bus *Bus) PublishCategoryCreated(c model.Category) {
	bus.Publish(Event{Topic: TopicCategoryCreated, Payload: CategoryPayload{Category: c}})
}

func (bus *Bus) PublishCategoryUpdated(c model.Category) {
	bus.Publish(Event{Topic: TopicCategoryUpdated, Payload: CategoryPayload{Category: c}})
}

func (bus *Bus) PublishCategoryDeleted(id string) {
	bus.Publish(Event{Topic: TopicCategoryDeleted, Payload: CategoryDeletedPayload{CategoryID: id}})
}

func (bus *Bus) PublishTaskCreated(t model.Task) {
	bus.Publish(Event{Topic: TopicTaskCreated, Payload: TaskPayload{Task: t}})
}

func (bus *Bus) PublishTaskUpdated(t model.Task) {
	bus.Publish(Event{Topic: TopicTaskUpdated, Payload: TaskPayload{Task: t}})
}

func (bus *Bus) PublishTaskDeleted(id string) {
	bus.Publish(Event{Topic: TopicTaskDeleted, Payload: TaskDeletedPayload{TaskID: id}})
}

func (bus *Bus) PublishStoreSeeded(categories, tasks int) {
	bus.Publish(Event{Topic: TopicStoreSeeded, Payload: SeededPayload{Categories: categories, Tasks: tasks}})
}

func (bus *Bus) PublishStoreImported(p ImportedPayload) {
	bus.Publish(Event{Topic: TopicStoreImported, Payload: p})
}
