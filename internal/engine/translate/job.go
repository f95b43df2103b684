package translate

import (
	"sync"

	"litscan/internal/core/ports"
)

// Job is the translation work for one flagged literal: one task per target
// locale. Its lifetime is independent of the lint run that scheduled it.
type Job struct {
	ID        string
	Key       string
	Namespace string
	Targets   []Target

	done     chan struct{}
	mu       sync.Mutex
	outcomes []ports.TaskOutcome
}

func newJob(id, key, namespace string, targets []Target) *Job {
	return &Job{
		ID:        id,
		Key:       key,
		Namespace: namespace,
		Targets:   targets,
		done:      make(chan struct{}),
	}
}

// Done is closed once every task of the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Outcomes returns a copy of the task outcomes recorded so far.
func (j *Job) Outcomes() []ports.TaskOutcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]ports.TaskOutcome, len(j.outcomes))
	copy(out, j.outcomes)
	return out
}

func (j *Job) add(o ports.TaskOutcome) {
	j.mu.Lock()
	j.outcomes = append(j.outcomes, o)
	j.mu.Unlock()
}
