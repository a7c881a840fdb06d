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
	"golang.org/x/sync/errgroup"

	"github.com/DanBirg/http-test/internal/config"
	"github.com/DanBirg/http-test/internal/logging"
	"github.com/DanBirg/http-test/internal/responder"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Flags
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")
	listen := flag.String("listen", ":8080", "Listen address")
	hostname := flag.String("hostname", "", "Hostname shown on the page (default: OS hostname)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	if *showVersion {
		fmt.Printf("responder %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg := config.DefaultResponderConfig()
	if *configPath != "" {
		loaded, err := config.NewLoader().LoadResponder(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = *listen
		case "hostname":
			cfg.Hostname = *hostname
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

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

	handler, err := responder.NewHandler(cfg)
	if err != nil {
		logging.Error("Failed to create handler", zap.Error(err))
		os.Exit(1)
	}
	defer handler.Close()

	srv := responder.NewServer(cfg, responder.NewMux(cfg, handler))

	// Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(gctx); err != nil {
			return fmt.Errorf("responder server: %w", err)
		}
		logging.Info("Responder listening",
			zap.String("addr", srv.Addr()),
			zap.String("version", version),
		)
		<-gctx.Done()

		logging.Info("Shutting down responder")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Shutdown error", zap.Error(err))
		os.Exit(1)
	}

	logging.Info("Responder stopped")
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
