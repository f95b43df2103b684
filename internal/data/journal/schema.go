package journal

import (
	"database/sql"
	"fmt"
)

func migrateSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("journal db is nil")
	}
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS task_outcomes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  job_id TEXT NOT NULL,
  key TEXT NOT NULL,
  namespace TEXT NOT NULL DEFAULT '',
  locale TEXT NOT NULL,
  path TEXT NOT NULL,
  status TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_outcomes_run_status ON task_outcomes(run_id, status);
CREATE INDEX IF NOT EXISTS idx_task_outcomes_job ON task_outcomes(job_id);
`)
	if err != nil {
		return fmt.Errorf("migrate journal schema: %w", err)
	}
	return nil
}
