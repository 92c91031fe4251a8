package model

import "time"

// StudyLog records a study session against a task. The collection is
// reserved for history tracking; no current operation writes to it.
type StudyLog struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	TaskID    string    `json:"task_id" yaml:"task_id" db:"task_id"`
	Date      string    `json:"date" yaml:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}
