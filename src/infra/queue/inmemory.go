package queue

import (
	"context"

	"driftwatch/src/features/embeddings"
)

// InMemoryQueue is a bounded in-memory FIFO implementation of the
// embeddings Queue interface.
type InMemoryQueue struct {
	jobs chan embeddings.Job
}

// NewInMemoryQueue creates a new in-memory queue holding up to size jobs.
func NewInMemoryQueue(size int) *InMemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &InMemoryQueue{jobs: make(chan embeddings.Job, size)}
}

// Enqueue adds a job, reporting false when the queue is full.
func (q *InMemoryQueue) Enqueue(job embeddings.Job) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		return false
	}
}

// Dequeue blocks until a job is available or the context is cancelled.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (embeddings.Job, bool) {
	select {
	case job := <-q.jobs:
		return job, true
	case <-ctx.Done():
		return embeddings.Job{}, false
	}
}
