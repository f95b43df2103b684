package ports

import (
	"context"
	"time"

	"litscan/internal/engine/syntax"
)

// SourceParser abstracts parsing and language support checks.
type SourceParser interface {
	Parse(path string, content []byte) (*syntax.File, error)
	Language(path string) string
	IsSupportedPath(path string) bool
	SupportedExtensions() []string
}

// Translator turns text from one locale into another. Implementations own
// their timeout; a timeout is reported as an ordinary error.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// CatalogWriter persists one key into one catalog file. Inserted is false
// when the key was already present; the existing value is never replaced.
type CatalogWriter interface {
	Insert(path, key, value string) (inserted bool, err error)
}

// TaskStatus is the outcome of one per-locale translation task.
type TaskStatus string

const (
	TaskStored   TaskStatus = "stored"
	TaskSkipped  TaskStatus = "skipped"
	TaskFallback TaskStatus = "fallback"
	TaskError    TaskStatus = "error"
)

// TaskOutcome records what happened to one (job, locale) pair.
type TaskOutcome struct {
	JobID     string
	Key       string
	Namespace string
	Locale    string
	Path      string
	Status    TaskStatus
	Err       string
	At        time.Time
}

// OutcomeRecorder receives task outcomes, e.g. a journal.
type OutcomeRecorder interface {
	Record(ctx context.Context, outcome TaskOutcome) error
}
