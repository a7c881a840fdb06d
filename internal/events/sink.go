// Package events carries optional per-request detail records from the
// workers to whoever wants to look at them. The channel between the
// two sides is bounded and writers never block: a full queue drops the
// event, not the request.
package events

import (
	"sync/atomic"
	"time"
)

// RequestEvent is one successful response observed by a worker.
type RequestEvent struct {
	WorkerID   int       `json:"worker_id"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// Metrics tracks sink publish statistics.
type Metrics struct {
	TotalPublished atomic.Int64
	TotalDropped   atomic.Int64
}

// MetricsSnapshot is a point-in-time view of sink metrics.
type MetricsSnapshot struct {
	TotalPublished int64 `json:"total_published"`
	TotalDropped   int64 `json:"total_dropped"`
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TotalPublished: m.TotalPublished.Load(),
		TotalDropped:   m.TotalDropped.Load(),
	}
}

// SinkStats is the drain-time view of the sink.
type SinkStats struct {
	QueueSize int             `json:"queue_size"`
	QueueUsed int             `json:"queue_used"`
	Metrics   MetricsSnapshot `json:"metrics"`
}

// Sink is the bounded event channel between workers and an optional
// consumer. The queue is never closed: a worker that outlives the run
// and publishes late hits a full or idle queue, never a panic.
type Sink struct {
	queue   chan RequestEvent
	metrics *Metrics
	size    int
}

// NewSink creates a sink with the given queue capacity.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = 1
	}
	return &Sink{
		queue:   make(chan RequestEvent, capacity),
		metrics: &Metrics{},
		size:    capacity,
	}
}

// TryPublish offers an event without blocking and reports whether it
// was enqueued. A full queue drops the event and counts the drop.
func (s *Sink) TryPublish(e RequestEvent) bool {
	select {
	case s.queue <- e:
		s.metrics.TotalPublished.Add(1)
		return true
	default:
		s.metrics.TotalDropped.Add(1)
		return false
	}
}

// Events returns the consumer side of the queue.
func (s *Sink) Events() <-chan RequestEvent {
	return s.queue
}

// Stats returns a snapshot of sink state and metrics.
func (s *Sink) Stats() SinkStats {
	return SinkStats{
		QueueSize: s.size,
		QueueUsed: len(s.queue),
		Metrics:   s.metrics.Snapshot(),
	}
}
