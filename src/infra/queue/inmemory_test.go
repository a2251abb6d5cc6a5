package queue

import (
	"context"
	"testing"

	"driftwatch/src/features/embeddings"
)

func TestQueueIsFIFO(t *testing.T) {
	q := NewInMemoryQueue(4)
	q.Enqueue(embeddings.Job{EventID: "1"})
	q.Enqueue(embeddings.Job{EventID: "2"})

	job, ok := q.Dequeue(context.Background())
	if !ok || job.EventID != "1" {
		t.Fatalf("got %q, want 1", job.EventID)
	}
	job, _ = q.Dequeue(context.Background())
	if job.EventID != "2" {
		t.Fatalf("got %q, want 2", job.EventID)
	}
}

func TestEnqueueReportsFull(t *testing.T) {
	q := NewInMemoryQueue(1)
	if !q.Enqueue(embeddings.Job{EventID: "1"}) {
		t.Fatal("first enqueue rejected")
	}
	if q.Enqueue(embeddings.Job{EventID: "2"}) {
		t.Fatal("enqueue on a full queue succeeded")
	}
}

func TestDequeueHonorsCancellation(t *testing.T) {
	q := NewInMemoryQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := q.Dequeue(ctx); ok {
		t.Fatal("dequeue returned a job from an empty queue")
	}
}
