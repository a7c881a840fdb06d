package stats

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Latencies collects per-attempt wall durations across a run. Samples
// are kept in memory and summarized once at the end, the same way
// short-lived bench tools usually do it.
type Latencies struct {
	mu      sync.Mutex
	samples []float64 // seconds
}

// LatencySummary describes the observed latency distribution. All
// values are in seconds; Count is the number of samples.
type LatencySummary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P90   float64
	P95   float64
	P99   float64
}

// NewLatencies returns an empty collector.
func NewLatencies() *Latencies {
	return &Latencies{}
}

// Observe records one attempt duration. Failed attempts are observed
// too; a timeout showing up in the tail percentiles is information,
// not noise.
func (l *Latencies) Observe(d time.Duration) {
	sec := d.Seconds()
	l.mu.Lock()
	l.samples = append(l.samples, sec)
	l.mu.Unlock()
}

// Count returns the number of samples recorded so far.
func (l *Latencies) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.samples)
}

// Reset discards all samples.
func (l *Latencies) Reset() {
	l.mu.Lock()
	l.samples = l.samples[:0]
	l.mu.Unlock()
}

// Summarize computes the distribution over everything observed so far.
// An empty collector yields the zero summary.
func (l *Latencies) Summarize() LatencySummary {
	l.mu.Lock()
	sorted := make([]float64, len(l.samples))
	copy(sorted, l.samples)
	l.mu.Unlock()

	if len(sorted) == 0 {
		return LatencySummary{}
	}
	sort.Float64s(sorted)

	return LatencySummary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
}
