// Package embeddings is a best-effort enrichment pipeline: changed file
// content is sent to a local text-embedding server and truncated vector
// previews are attached to change events after the fact. The core change
// log never waits on it.
package embeddings

import (
	"context"
	"log/slog"
	"math"

	"driftwatch/src/tracking"
)

// previewLen is how many components of the unit vector are shown on each
// end of the preview.
const previewLen = 3

// Job is one pending embedding computation.
type Job struct {
	EventID string
	Path    string
	Content []byte
}

// Queue buffers embedding jobs between the scan loop and the worker.
type Queue interface {
	Enqueue(job Job) bool
	Dequeue(ctx context.Context) (Job, bool)
}

// Attacher receives the computed previews; implemented by the watching
// service.
type Attacher interface {
	AttachVectors(eventID string, head, tail []float64)
}

// Service consumes the job queue and annotates events with vector previews.
type Service struct {
	client   *Client
	queue    Queue
	attacher Attacher
	cancel   context.CancelFunc
}

// NewService creates the embeddings service.
func NewService(client *Client, queue Queue, attacher Attacher) *Service {
	return &Service{
		client:   client,
		queue:    queue,
		attacher: attacher,
	}
}

// Start launches the worker goroutine.
func (s *Service) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.worker(ctx)
	slog.Info("Embedding worker started")
}

// Stop terminates the worker.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// OnChange is the hook registered with the watching service. Deletions and
// binary content carry no text worth embedding.
func (s *Service) OnChange(event tracking.ChangeEvent, content []byte) {
	if len(content) == 0 {
		return
	}
	job := Job{EventID: event.ID, Path: event.File, Content: content}
	if !s.queue.Enqueue(job) {
		slog.Warn("Embedding queue full, dropping job", "file", event.File)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		job, ok := s.queue.Dequeue(ctx)
		if !ok {
			return
		}

		vector, err := s.client.Embed(ctx, string(job.Content))
		if err != nil {
			slog.Warn("Embedding failed", "file", job.Path, "error", err)
			continue
		}

		unit := normalize(vector)
		head, tail := preview(unit)
		s.attacher.AttachVectors(job.EventID, head, tail)
	}
}

// normalize scales a vector to unit length. Zero vectors pass through.
func normalize(vector []float64) []float64 {
	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vector
	}
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = v / norm
	}
	return out
}

// preview cuts the first and last few components for display.
func preview(vector []float64) (head, tail []float64) {
	n := previewLen
	if len(vector) <= 2*n {
		return vector, nil
	}
	return vector[:n], vector[len(vector)-n:]
}
