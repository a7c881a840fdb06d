package loadtest

import (
	"context"
	"time"

	"github.com/DanBirg/http-test/internal/report"
	"github.com/DanBirg/http-test/internal/stats"
)

// reportLoop rewrites the progress line once per report interval. The
// previous tick's total and timestamp live only here; the loop is the
// sole writer of the progress row and prints nothing once the run
// context is cancelled.
func (r *Runner) reportLoop(ctx context.Context, start time.Time, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.cfg.ReportInterval)
	defer ticker.Stop()

	lastTotal := uint64(0)
	lastTime := start
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			snap := r.counters.Snapshot()
			sample := computeSample(snap, lastTotal, now.Sub(lastTime), now.Sub(start), int(r.active.Load()))
			if r.monitor != nil {
				if reading := r.monitor.Sample(); reading.Ok {
					sample.HasResources = true
					sample.CPUPercent = reading.CPUPercent
					sample.MemPercent = reading.MemPercent
				}
			}
			r.console.Progress(sample)
			lastTotal = snap.Total
			lastTime = now
		}
	}
}

// computeSample derives one tick's progress numbers. Rates guard
// against zero intervals so a tick that fires early reports 0 instead
// of Inf.
func computeSample(snap stats.Snapshot, lastTotal uint64, sinceLast, sinceStart time.Duration, workers int) report.Sample {
	s := report.Sample{
		Total:          snap.Total,
		SuccessPercent: snap.SuccessPercent(),
		ActiveWorkers:  workers,
	}
	if secs := sinceLast.Seconds(); secs > 0 {
		s.InstantRate = float64(snap.Total-lastTotal) / secs
	}
	if secs := sinceStart.Seconds(); secs > 0 {
		s.AvgRate = float64(snap.Total) / secs
	}
	return s
}
