package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- category_id is a weak reference: deleting a category leaves its
-- tasks in place, so there is no foreign key.
CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	category_id     TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL,
	subtitle        TEXT NOT NULL DEFAULT '',
	deadline        TEXT NOT NULL DEFAULT '',
	priority        INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 5),
	items           TEXT NOT NULL DEFAULT '[]',
	total_items     INTEGER NOT NULL DEFAULT 0,
	completed_items INTEGER NOT NULL DEFAULT 0,
	is_completed    INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_category_id ON tasks(category_id);
CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
CREATE INDEX IF NOT EXISTS idx_tasks_is_completed ON tasks(is_completed);

CREATE TABLE IF NOT EXISTS logs (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_logs_task_id ON logs(task_id);
CREATE INDEX IF NOT EXISTS idx_logs_date ON logs(date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
