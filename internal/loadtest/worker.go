package loadtest

import (
	"context"
	"time"

	"github.com/DanBirg/http-test/internal/events"
	"github.com/DanBirg/http-test/internal/stats"
)

// worker issues requests back to back until the run context is
// cancelled or its request budget is spent. The in-flight request runs
// under a background context: shutdown waits for it instead of
// cancelling it, and the client timeout keeps that wait bounded.
func (r *Runner) worker(ctx context.Context, id int, done chan<- struct{}) {
	defer close(done)
	r.active.Add(1)
	defer r.active.Add(-1)

	sent := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if r.cfg.MaxRequests > 0 && sent >= r.cfg.MaxRequests {
			return
		}

		start := time.Now()
		code, err := r.client.Get(context.Background(), r.cfg.Path)
		elapsed := time.Since(start)
		sent++

		ok := err == nil && r.statuses.Matches(code)
		r.counters.RecordAttempt(ok)

		if r.cfg.Detailed {
			r.latencies.Observe(elapsed)
			if err != nil {
				r.codes.Record(stats.TransportErrorCode)
			} else {
				r.codes.Record(code)
			}
			if ok {
				r.sink.TryPublish(events.RequestEvent{
					WorkerID:   id,
					StatusCode: code,
					Timestamp:  time.Now(),
				})
			}
		}
	}
}
