// Package report renders run progress and final results for the
// terminal. Progress updates share a single row, rewritten in place
// with a carriage return, so a run produces one moving line instead of
// a scrolling wall of text.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DanBirg/http-test/internal/stats"
)

// Sample is one progress reading of a running test.
type Sample struct {
	Total          uint64
	InstantRate    float64
	AvgRate        float64
	SuccessPercent float64
	ActiveWorkers  int

	// Resource readings are appended to the line only when set.
	HasResources bool
	CPUPercent   float64
	MemPercent   float64
}

// Summary is the final result block printed after shutdown.
type Summary struct {
	Counts  stats.Snapshot
	Elapsed time.Duration

	// Detailed extras.
	Detailed      bool
	Latency       stats.LatencySummary
	Codes         map[int]uint64
	EventsWritten int64
	EventsDropped int64
	Abandoned     int
}

// AvgRate returns requests per second over the whole run, zero when no
// time has passed.
func (s Summary) AvgRate() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Counts.Total) / secs
}

// Console writes run output to w.
type Console struct {
	w io.Writer
}

// NewConsole creates a console reporter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Start prints the banner shown before the first request goes out.
func (c *Console) Start(target string, workers int) {
	fmt.Fprintf(c.w, "Starting load test against %s\n", target)
	fmt.Fprintf(c.w, "Using %d concurrent workers\n", workers)
	fmt.Fprintf(c.w, "Press Ctrl+C to stop the test\n\n")
}

// Progress rewrites the stats line in place. The line is built first
// and written once so a reader never sees a half-updated row.
func (c *Console) Progress(s Sample) {
	line := fmt.Sprintf("\r[STATS] Requests: %d | Rate: %.2f req/s | Avg: %.2f req/s | Success: %.1f%% | Workers: %d",
		s.Total, s.InstantRate, s.AvgRate, s.SuccessPercent, s.ActiveWorkers)
	if s.HasResources {
		line += fmt.Sprintf(" | CPU: %.1f%% | Mem: %.1f%%", s.CPUPercent, s.MemPercent)
	}
	fmt.Fprint(c.w, line)
}

// ShutdownNotice moves off the progress line and tells the user the
// drain has started.
func (c *Console) ShutdownNotice() {
	fmt.Fprint(c.w, "\n\nShutting down, please wait for workers to complete...\n")
}

// Summary prints the final result block.
func (c *Console) Summary(s Summary) {
	fmt.Fprint(c.w, "\n\n--- Final Results ---\n")
	fmt.Fprintf(c.w, "Total requests:    %d\n", s.Counts.Total)
	fmt.Fprintf(c.w, "Successful:        %d (%.1f%%)\n", s.Counts.Success, s.Counts.SuccessPercent())
	fmt.Fprintf(c.w, "Failed:            %d (%.1f%%)\n", s.Counts.Fail, s.Counts.FailPercent())
	fmt.Fprintf(c.w, "Total time:        %.2f seconds\n", s.Elapsed.Seconds())
	fmt.Fprintf(c.w, "Average rate:      %.2f requests/second\n", s.AvgRate())

	if s.Detailed {
		if s.Latency.Count > 0 {
			fmt.Fprintf(c.w, "Latency (ms):      min %.1f | mean %.1f | p50 %.1f | p90 %.1f | p95 %.1f | p99 %.1f | max %.1f\n",
				s.Latency.Min*1000, s.Latency.Mean*1000, s.Latency.P50*1000,
				s.Latency.P90*1000, s.Latency.P95*1000, s.Latency.P99*1000, s.Latency.Max*1000)
		}
		if len(s.Codes) > 0 {
			fmt.Fprintf(c.w, "Status codes:      %s\n", formatCodes(s.Codes))
		}
		fmt.Fprintf(c.w, "Events:            %d written, %d dropped\n", s.EventsWritten, s.EventsDropped)
	}
	if s.Abandoned > 0 {
		fmt.Fprintf(c.w, "Abandoned workers: %d\n", s.Abandoned)
	}
}

// formatCodes renders a status code histogram as "200=97 404=3", with
// transport failures labelled "error". Codes are sorted so output is
// stable.
func formatCodes(codes map[int]uint64) string {
	keys := make([]int, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := strconv.Itoa(k)
		if k == stats.TransportErrorCode {
			label = "error"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", label, codes[k]))
	}
	return strings.Join(parts, " ")
}
