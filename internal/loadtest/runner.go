// Package loadtest coordinates a load test run: a pool of workers
// hammering one URL, a progress reporter sharing their counters, and a
// drain sequence that ends every run with a final summary, clean or
// interrupted alike.
package loadtest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DanBirg/http-test/internal/config"
	"github.com/DanBirg/http-test/internal/events"
	"github.com/DanBirg/http-test/internal/logging"
	"github.com/DanBirg/http-test/internal/report"
	"github.com/DanBirg/http-test/internal/stats"
	"github.com/DanBirg/http-test/internal/sysmon"
	"github.com/DanBirg/http-test/internal/transport"
)

// Printer receives run output. *report.Console is the production
// implementation; tests substitute a recorder.
type Printer interface {
	Start(target string, workers int)
	Progress(s report.Sample)
	ShutdownNotice()
	Summary(s report.Summary)
}

// ResourceSampler provides host resource readings for the progress
// line. *sysmon.Monitor implements it.
type ResourceSampler interface {
	Sample() sysmon.Reading
}

// Runner owns one load test run. It is single-shot: construct, Run,
// discard.
type Runner struct {
	cfg      *config.Config
	client   transport.Client
	statuses transport.StatusSet
	console  Printer
	monitor  ResourceSampler

	counters  *stats.Counters
	latencies *stats.Latencies
	codes     *stats.StatusCodes
	sink      *events.Sink
	writer    *events.Writer

	active atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRunner assembles a runner. monitor may be nil to skip resource
// sampling. When the config names an event log, the runner owns the
// file writer for it.
func NewRunner(cfg *config.Config, client transport.Client, statuses transport.StatusSet, console Printer, monitor ResourceSampler) *Runner {
	r := &Runner{
		cfg:       cfg,
		client:    client,
		statuses:  statuses,
		console:   console,
		monitor:   monitor,
		counters:  stats.NewCounters(),
		latencies: stats.NewLatencies(),
		codes:     stats.NewStatusCodes(),
		sink:      events.NewSink(cfg.EventQueueSize),
		stopCh:    make(chan struct{}),
	}
	if cfg.Detailed && cfg.EventLog != "" {
		r.writer = events.NewFileWriter(r.sink, cfg.EventLog, config.DefaultRotation())
	}
	return r
}

// Stop requests a shutdown. Safe to call from any goroutine, any
// number of times, before or during Run.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

// Run executes the test until a stop trigger fires, drains the
// workers, prints the final summary and returns it. Stop triggers are
// ctx cancellation (the user interrupt), Stop, the configured
// duration, and every worker finishing its request budget.
func (r *Runner) Run(ctx context.Context) report.Summary {
	runID := uuid.NewString()
	target := r.cfg.Target + r.cfg.Path

	logging.Info("load test starting",
		zap.String("run_id", runID),
		zap.String("target", target),
		zap.Int("workers", r.cfg.Workers),
		zap.Duration("timeout", r.cfg.Timeout))

	r.console.Start(target, r.cfg.Workers)

	// The run context is not derived from ctx. Parent cancellation is
	// routed through the watcher below, so the shutdown notice prints on
	// the interrupt path and on no other.
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A stop that is already pending must land before the first worker
	// spawns, so a run born cancelled sends nothing.
	preStopped := true
	select {
	case <-ctx.Done():
		cancel()
		r.console.ShutdownNotice()
	case <-r.stopCh:
		cancel()
	default:
		preStopped = false
	}

	watcherDone := make(chan struct{})
	if preStopped {
		close(watcherDone)
	} else {
		go func() {
			defer close(watcherDone)
			select {
			case <-ctx.Done():
				cancel()
				r.console.ShutdownNotice()
			case <-r.stopCh:
				cancel()
			case <-runCtx.Done():
			}
		}()
	}

	if r.cfg.Duration > 0 {
		timer := time.AfterFunc(r.cfg.Duration, r.Stop)
		defer timer.Stop()
	}

	if r.writer != nil {
		r.writer.Start()
	}

	start := time.Now()
	dones := make([]chan struct{}, r.cfg.Workers)
	for i := range dones {
		dones[i] = make(chan struct{})
		go r.worker(runCtx, i, dones[i])
	}

	reporterDone := make(chan struct{})
	go r.reportLoop(runCtx, start, reporterDone)

	allDone := make(chan struct{})
	go func() {
		for _, d := range dones {
			<-d
		}
		close(allDone)
	}()

	select {
	case <-runCtx.Done():
	case <-allDone:
	}
	cancel()
	<-watcherDone
	<-reporterDone

	// Workers get JoinTimeout each to come home. One stuck on a slow
	// in-flight request is abandoned with a warning; its goroutine ends
	// on its own once the client timeout fires.
	abandoned := 0
	for id, d := range dones {
		select {
		case <-d:
		case <-time.After(r.cfg.JoinTimeout):
			abandoned++
			logging.Warn("worker still busy after join timeout, abandoning",
				zap.Int("worker_id", id),
				zap.Duration("join_timeout", r.cfg.JoinTimeout))
		}
	}

	if r.writer != nil {
		if err := r.writer.Close(); err != nil {
			logging.Error("closing event log", zap.Error(err))
		}
	}

	elapsed := time.Since(start)
	snap := r.counters.Snapshot()

	sum := report.Summary{
		Counts:    snap,
		Elapsed:   elapsed,
		Abandoned: abandoned,
	}
	if r.cfg.Detailed {
		sum.Detailed = true
		sum.Latency = r.latencies.Summarize()
		sum.Codes = r.codes.Snapshot()
		sum.EventsDropped = r.sink.Stats().Metrics.TotalDropped
		if r.writer != nil {
			sum.EventsWritten = r.writer.Written()
		}
	}
	r.console.Summary(sum)

	logging.Info("load test complete",
		zap.String("run_id", runID),
		zap.Uint64("total", snap.Total),
		zap.Uint64("success", snap.Success),
		zap.Uint64("fail", snap.Fail),
		zap.Duration("elapsed", elapsed),
		zap.Float64("avg_rate", sum.AvgRate()),
		zap.Int("abandoned_workers", abandoned))
	if r.monitor != nil {
		if reading := r.monitor.Sample(); reading.Ok {
			logging.Debug("host resources at shutdown",
				zap.Float64("cpu_percent", reading.CPUPercent),
				zap.Float64("mem_percent", reading.MemPercent),
				zap.Float64("load1", reading.Load1))
		}
	}

	return sum
}
