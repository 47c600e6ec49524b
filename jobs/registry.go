package jobs

import (
	"sync"
	"time"
)

// Task describes a running pipeline goroutine. The registry exists for
// discoverability, there is no cancellation path.
type Task struct {
	JobID     string
	StartedAt time.Time
}

// Registry tracks the fire-and-forget goroutine spawned per job.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]Task
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Track records a running task for the job.
func (r *Registry) Track(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[jobID] = Task{JobID: jobID, StartedAt: time.Now()}
}

// Done removes the task when the pipeline goroutine exits.
func (r *Registry) Done(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, jobID)
}

// Running returns the currently tracked tasks.
func (r *Registry) Running() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out
}
