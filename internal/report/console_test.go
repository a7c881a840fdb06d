package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DanBirg/http-test/internal/stats"
)

func TestConsoleStart(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Start("http://example.com/", 50)

	want := "Starting load test against http://example.com/\n" +
		"Using 50 concurrent workers\n" +
		"Press Ctrl+C to stop the test\n\n"
	if buf.String() != want {
		t.Errorf("unexpected banner:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleProgress(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Progress(Sample{
		Total:          1234,
		InstantRate:    456.78,
		AvgRate:        455.5,
		SuccessPercent: 97.5,
		ActiveWorkers:  50,
	})

	want := "\r[STATS] Requests: 1234 | Rate: 456.78 req/s | Avg: 455.50 req/s | Success: 97.5% | Workers: 50"
	if buf.String() != want {
		t.Errorf("unexpected progress line:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleProgressWithResources(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Progress(Sample{
		Total:          10,
		InstantRate:    5,
		AvgRate:        5,
		SuccessPercent: 100,
		ActiveWorkers:  2,
		HasResources:   true,
		CPUPercent:     12.5,
		MemPercent:     63.7,
	})

	want := "\r[STATS] Requests: 10 | Rate: 5.00 req/s | Avg: 5.00 req/s | Success: 100.0% | Workers: 2 | CPU: 12.5% | Mem: 63.7%"
	if buf.String() != want {
		t.Errorf("unexpected progress line:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleProgressOverwritesInPlace(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Progress(Sample{Total: 1})
	c.Progress(Sample{Total: 2})

	out := buf.String()
	if strings.Count(out, "\r") != 2 {
		t.Errorf("expected every progress write to start with \\r, got %q", out)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("progress output must not contain newlines, got %q", out)
	}
}

func TestConsoleShutdownNotice(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.ShutdownNotice()

	want := "\n\nShutting down, please wait for workers to complete...\n"
	if buf.String() != want {
		t.Errorf("unexpected notice:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Summary(Summary{
		Counts:  stats.Snapshot{Total: 100, Success: 97, Fail: 3},
		Elapsed: 2500 * time.Millisecond,
	})

	want := "\n\n--- Final Results ---\n" +
		"Total requests:    100\n" +
		"Successful:        97 (97.0%)\n" +
		"Failed:            3 (3.0%)\n" +
		"Total time:        2.50 seconds\n" +
		"Average rate:      40.00 requests/second\n"
	if buf.String() != want {
		t.Errorf("unexpected summary:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleSummaryZeroRequests(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Summary(Summary{})

	out := buf.String()
	if !strings.Contains(out, "Total requests:    0\n") {
		t.Errorf("expected zero total, got %q", out)
	}
	if !strings.Contains(out, "Successful:        0 (0.0%)\n") {
		t.Errorf("expected guarded success percent, got %q", out)
	}
	if !strings.Contains(out, "Failed:            0 (0.0%)\n") {
		t.Errorf("expected guarded fail percent, got %q", out)
	}
	if !strings.Contains(out, "Average rate:      0.00 requests/second\n") {
		t.Errorf("expected guarded average rate, got %q", out)
	}
}

func TestConsoleSummaryDetailed(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Summary(Summary{
		Counts:   stats.Snapshot{Total: 100, Success: 97, Fail: 3},
		Elapsed:  time.Second,
		Detailed: true,
		Latency: stats.LatencySummary{
			Count: 100,
			Min:   0.001, Max: 0.012, Mean: 0.0034,
			P50: 0.0031, P90: 0.0056, P95: 0.006, P99: 0.0089,
		},
		Codes:         map[int]uint64{200: 97, stats.TransportErrorCode: 3},
		EventsWritten: 90,
		EventsDropped: 7,
		Abandoned:     2,
	})

	out := buf.String()
	if !strings.Contains(out, "Latency (ms):      min 1.0 | mean 3.4 | p50 3.1 | p90 5.6 | p95 6.0 | p99 8.9 | max 12.0\n") {
		t.Errorf("expected latency line, got %q", out)
	}
	if !strings.Contains(out, "Status codes:      error=3 200=97\n") {
		t.Errorf("expected status code line, got %q", out)
	}
	if !strings.Contains(out, "Events:            90 written, 7 dropped\n") {
		t.Errorf("expected events line, got %q", out)
	}
	if !strings.Contains(out, "Abandoned workers: 2\n") {
		t.Errorf("expected abandoned workers line, got %q", out)
	}
}

func TestConsoleSummaryPlainOmitsDetail(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Summary(Summary{
		Counts:  stats.Snapshot{Total: 10, Success: 10},
		Elapsed: time.Second,
		Codes:   map[int]uint64{200: 10},
	})

	out := buf.String()
	if strings.Contains(out, "Status codes:") {
		t.Errorf("plain summary must not include code histogram, got %q", out)
	}
	if strings.Contains(out, "Events:") {
		t.Errorf("plain summary must not include events line, got %q", out)
	}
	if strings.Contains(out, "Abandoned") {
		t.Errorf("summary must not mention abandoned workers when none, got %q", out)
	}
}

func TestSummaryAvgRate(t *testing.T) {
	s := Summary{Counts: stats.Snapshot{Total: 100}, Elapsed: 4 * time.Second}
	if got := s.AvgRate(); got != 25 {
		t.Errorf("expected 25 req/s, got %f", got)
	}

	s = Summary{Counts: stats.Snapshot{Total: 100}}
	if got := s.AvgRate(); got != 0 {
		t.Errorf("expected 0 req/s with zero elapsed, got %f", got)
	}
}

func TestFormatCodes(t *testing.T) {
	got := formatCodes(map[int]uint64{404: 1, 200: 5, stats.TransportErrorCode: 2})
	want := "error=2 200=5 404=1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
