package stats

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestLatencySummarizeEmpty(t *testing.T) {
	l := NewLatencies()
	sum := l.Summarize()
	if sum.Count != 0 || sum.Min != 0 || sum.Max != 0 || sum.Mean != 0 {
		t.Errorf("expected zero summary for empty collector, got %+v", sum)
	}
}

func TestLatencySummarizeKnownSet(t *testing.T) {
	l := NewLatencies()
	// 1s..10s, observed out of order
	for _, sec := range []int{7, 2, 9, 1, 5, 10, 3, 8, 4, 6} {
		l.Observe(time.Duration(sec) * time.Second)
	}

	sum := l.Summarize()
	if sum.Count != 10 {
		t.Fatalf("expected 10 samples, got %d", sum.Count)
	}
	if sum.Min != 1 {
		t.Errorf("expected min 1s, got %v", sum.Min)
	}
	if sum.Max != 10 {
		t.Errorf("expected max 10s, got %v", sum.Max)
	}
	if math.Abs(sum.Mean-5.5) > 1e-9 {
		t.Errorf("expected mean 5.5s, got %v", sum.Mean)
	}
	if sum.P50 != 5 {
		t.Errorf("expected p50 5s, got %v", sum.P50)
	}
	if sum.P90 != 9 {
		t.Errorf("expected p90 9s, got %v", sum.P90)
	}
	if sum.P99 != 10 {
		t.Errorf("expected p99 10s, got %v", sum.P99)
	}
}

func TestLatencyConcurrentObserve(t *testing.T) {
	const (
		writers = 8
		each    = 500
	)

	l := NewLatencies()
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				l.Observe(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if got := l.Count(); got != writers*each {
		t.Errorf("expected %d samples, got %d", writers*each, got)
	}
}

func TestLatencyReset(t *testing.T) {
	l := NewLatencies()
	l.Observe(time.Second)
	l.Reset()
	if l.Count() != 0 {
		t.Errorf("expected empty collector after reset, got %d samples", l.Count())
	}
}
