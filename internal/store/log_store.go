package store

import (
	"context"

	"github.com/nhle/studytrack/internal/model"
)

const logColumns = "id, task_id, date, created_at"

// ListLogs returns all study logs ordered by date.
func (s *SQLiteStore) ListLogs(ctx context.Context) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	if err := s.db.SelectContext(ctx, &logs,
		"SELECT "+logColumns+" FROM logs ORDER BY date, rowid"); err != nil {
		return nil, storageErr("querying logs", err)
	}
	if logs == nil {
		logs = []model.StudyLog{}
	}
	return logs, nil
}

// ListLogsForTask returns the study logs recorded against one task.
func (s *SQLiteStore) ListLogsForTask(ctx context.Context, taskID string) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	if err := s.db.SelectContext(ctx, &logs,
		"SELECT "+logColumns+" FROM logs WHERE task_id = ? ORDER BY date, rowid", taskID); err != nil {
		return nil, storageErr("querying logs for task "+taskID, err)
	}
	if logs == nil {
		logs = []model.StudyLog{}
	}
	return logs, nil
}
