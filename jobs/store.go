package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store is an in-memory job ledger. One pipeline goroutine writes per key
// while HTTP pollers read concurrently.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore creates an empty job ledger.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Create registers a new job in the uploaded state.
func (s *Store) Create(id, filename string) *Record {
	now := time.Now()
	rec := &Record{
		ID:        id,
		Filename:  filename,
		Status:    StatusUploaded,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.records[id] = rec
	s.mu.Unlock()

	snapshot := *rec
	return &snapshot
}

// Get returns a copy of the record for the given job.
func (s *Store) Get(id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	snapshot := *rec
	return &snapshot, true
}

// Update applies fn to the record under the write lock. Status changes that
// violate the lifecycle are rejected, which keeps terminal states frozen.
func (s *Store) Update(id string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("jobs: unknown job %s", id)
	}

	before := rec.Status
	fn(rec)
	if !before.CanTransition(rec.Status) {
		after := rec.Status
		rec.Status = before
		return fmt.Errorf("jobs: invalid transition %s -> %s for job %s", before, after, id)
	}
	rec.UpdatedAt = time.Now()
	return nil
}

// SetStatus is a convenience wrapper for plain status moves.
func (s *Store) SetStatus(id string, status Status) error {
	return s.Update(id, func(r *Record) { r.Status = status })
}

// Fail moves the job to the error state with a message.
func (s *Store) Fail(id, message string) error {
	return s.Update(id, func(r *Record) {
		r.Status = StatusError
		r.Error = message
	})
}

// List returns copies of all records, newest first.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		snapshot := *rec
		out = append(out, &snapshot)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
