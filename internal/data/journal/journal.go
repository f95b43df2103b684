// Package journal keeps an sqlite record of translation task outcomes so a
// run can report what happened to every scheduled job.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"litscan/internal/core/ports"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var _ ports.OutcomeRecorder = (*Journal)(nil)

// Journal appends task outcomes tagged with the run that produced them.
type Journal struct {
	db    *sql.DB
	runID string
}

// Open creates or reuses the journal database at path. Each Open starts a new
// run; Summary and Recent only look at the current run.
func Open(path string) (*Journal, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("journal path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("journal path %q is a directory", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory %q: %w", dir, err)
		}
	}

	// Jobs finish concurrently; one connection plus busy_timeout serializes them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal sqlite %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal sqlite %q: %w", cleanPath, err)
	}
	if err := migrateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, runID: uuid.NewString()}, nil
}

func (j *Journal) RunID() string { return j.runID }

func (j *Journal) Record(ctx context.Context, o ports.TaskOutcome) error {
	if j == nil || j.db == nil {
		return fmt.Errorf("journal not initialized")
	}
	at := o.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO task_outcomes (run_id, job_id, key, namespace, locale, path, status, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, j.runID, o.JobID, o.Key, o.Namespace, o.Locale, o.Path, string(o.Status), o.Err, at.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("record task outcome: %w", err)
	}
	return nil
}

// Summary counts the current run's outcomes per status.
func (j *Journal) Summary(ctx context.Context) (map[ports.TaskStatus]int, error) {
	if j == nil || j.db == nil {
		return nil, fmt.Errorf("journal not initialized")
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT status, COUNT(1)
FROM task_outcomes
WHERE run_id = ?
GROUP BY status
`, j.runID)
	if err != nil {
		return nil, fmt.Errorf("summarize journal: %w", err)
	}
	defer rows.Close()

	out := make(map[ports.TaskStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan journal summary: %w", err)
		}
		out[ports.TaskStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal summary: %w", err)
	}
	return out, nil
}

// Recent returns up to limit outcomes of the current run, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]ports.TaskOutcome, error) {
	if j == nil || j.db == nil {
		return nil, fmt.Errorf("journal not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT job_id, key, namespace, locale, path, status, error, created_at
FROM task_outcomes
WHERE run_id = ?
ORDER BY id DESC
LIMIT ?
`, j.runID, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []ports.TaskOutcome
	for rows.Next() {
		var (
			o      ports.TaskOutcome
			status string
			at     int64
		)
		if err := rows.Scan(&o.JobID, &o.Key, &o.Namespace, &o.Locale, &o.Path, &status, &o.Err, &at); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		o.Status = ports.TaskStatus(status)
		o.At = time.UnixMilli(at).UTC()
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}
	return out, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
