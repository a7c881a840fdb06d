// Package stats holds the shared aggregates the load generator's workers
// report into: the attempt counters, per-attempt latencies, and the
// status code tally.
package stats

import "sync"

// Counters is the shared attempt aggregate. A single mutex guards all
// three values so every snapshot is consistent: total always equals
// success plus fail, never a torn read.
type Counters struct {
	mu      sync.Mutex
	total   uint64
	success uint64
	fail    uint64
}

// Snapshot is a point-in-time view of the counters, all three values
// observed under one critical section.
type Snapshot struct {
	Total   uint64
	Success uint64
	Fail    uint64
}

// NewCounters returns a zeroed Counters.
func NewCounters() *Counters {
	return &Counters{}
}

// RecordAttempt counts one completed attempt. The total and exactly one
// of the success/fail columns advance together.
func (c *Counters) RecordAttempt(success bool) {
	c.mu.Lock()
	c.total++
	if success {
		c.success++
	} else {
		c.fail++
	}
	c.mu.Unlock()
}

// Snapshot returns the current values.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Total: c.total, Success: c.success, Fail: c.fail}
}

// Reset zeroes the counters at the start of a run.
func (c *Counters) Reset() {
	c.mu.Lock()
	c.total, c.success, c.fail = 0, 0, 0
	c.mu.Unlock()
}

// SuccessPercent returns the success share in percent, 0 when nothing
// has been recorded yet.
func (s Snapshot) SuccessPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.Total) * 100
}

// FailPercent returns the failure share in percent, 0 when nothing has
// been recorded yet.
func (s Snapshot) FailPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Fail) / float64(s.Total) * 100
}
