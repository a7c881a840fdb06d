package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DanBirg/http-test/internal/config"
	"github.com/DanBirg/http-test/internal/loadtest"
	"github.com/DanBirg/http-test/internal/logging"
	"github.com/DanBirg/http-test/internal/report"
	"github.com/DanBirg/http-test/internal/sysmon"
	"github.com/DanBirg/http-test/internal/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Flags
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")
	target := flag.String("target", "", "Target host, host:port, or URL (can also be given as the first argument)")
	path := flag.String("path", "/", "Request path")
	workers := flag.Int("workers", 50, "Number of concurrent workers")
	timeout := flag.Duration("timeout", 3*time.Second, "Per-request timeout")
	interval := flag.Duration("interval", time.Second, "Progress report interval")
	detailed := flag.Bool("detailed", false, "Collect per-request events and print extended results")
	eventLog := flag.String("event-log", "", "Write successful request events to this file as JSON lines (requires -detailed)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = run until interrupted)")
	maxRequests := flag.Int("max-requests", 0, "Per-worker request budget (0 = unbounded)")
	resourceStats := flag.Bool("resource-stats", false, "Show host CPU and memory usage on the progress line")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [target]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("loadgen %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.NewLoader().Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Positional target, then explicit flags, override the file.
	if flag.NArg() > 0 {
		cfg.Target = flag.Arg(0)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.Target = *target
		case "path":
			cfg.Path = *path
		case "workers":
			cfg.Workers = *workers
		case "timeout":
			cfg.Timeout = *timeout
		case "interval":
			cfg.ReportInterval = *interval
		case "detailed":
			cfg.Detailed = *detailed
		case "event-log":
			cfg.EventLog = *eventLog
		case "duration":
			cfg.Duration = *duration
		case "max-requests":
			cfg.MaxRequests = *maxRequests
		case "resource-stats":
			cfg.ResourceStats = *resourceStats
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})
	cfg.Normalize()

	// Initialize logger
	logger, logCloser, err := logging.New(loggerConfig(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if logCloser != nil {
		defer logCloser.Close()
	}
	logging.SetGlobal(logger)

	if err := cfg.Validate(); err != nil {
		logging.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}
	statuses, err := transport.ParseStatusSet(cfg.ExpectedStatus)
	if err != nil {
		logging.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	client := transport.NewHTTPClient(transport.Options{
		BaseURL: cfg.Target,
		Timeout: cfg.Timeout,
		Workers: cfg.Workers,
	})

	var monitor loadtest.ResourceSampler
	if cfg.ResourceStats {
		monitor = sysmon.New()
	}

	// Repeat signals during the drain are absorbed here; the context
	// fires once and the runner finishes its shutdown sequence.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := loadtest.NewRunner(cfg, client, statuses, report.NewConsole(os.Stdout), monitor)
	runner.Run(ctx)
}

func loggerConfig(lc config.LoggingConfig) logging.Config {
	out := logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: lc.Output,
	}
	if lc.Rotation.MaxSize > 0 {
		out.Rotation = &logging.RotationConfig{
			MaxSizeMB:  lc.Rotation.MaxSize,
			MaxBackups: lc.Rotation.MaxBackups,
			MaxAgeDays: lc.Rotation.MaxAge,
			Compress:   lc.Rotation.Compress,
		}
	}
	return out
}
