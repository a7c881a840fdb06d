package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the load generator configuration.
type Config struct {
	Target         string        `yaml:"target"`           // host, host:port, or full URL
	Path           string        `yaml:"path"`             // request path (default "/")
	Workers        int           `yaml:"workers"`          // concurrent workers (default 50)
	Timeout        time.Duration `yaml:"timeout"`          // per-request timeout (default 3s)
	ReportInterval time.Duration `yaml:"report_interval"`  // progress report cadence (default 1s)
	Detailed       bool          `yaml:"detailed"`         // collect per-request events
	EventQueueSize int           `yaml:"event_queue_size"` // bounded event channel capacity (default 10000)
	EventLog       string        `yaml:"event_log"`        // NDJSON event sink file, detailed mode only
	MaxRequests    int           `yaml:"max_requests"`     // per-worker attempt budget, 0 = unbounded
	Duration       time.Duration `yaml:"duration"`         // stop after this long, 0 = run until interrupt
	JoinTimeout    time.Duration `yaml:"join_timeout"`     // per-worker drain wait (default 1s)
	ExpectedStatus []string      `yaml:"expected_status"`  // statuses counted as success (default "200-399")
	ResourceStats  bool          `yaml:"resource_stats"`   // CPU/memory telemetry on the progress line
	Logging        LoggingConfig `yaml:"logging"`
}

// ResponderConfig is the companion responder server configuration.
type ResponderConfig struct {
	Listen       string          `yaml:"listen"`   // e.g. ":8080"
	Hostname     string          `yaml:"hostname"` // override; defaults to os.Hostname()
	ReadTimeout  time.Duration   `yaml:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
	IdleTimeout  time.Duration   `yaml:"idle_timeout"`
	Metrics      MetricsConfig   `yaml:"metrics"`
	AccessLog    AccessLogConfig `yaml:"access_log"`
	Logging      LoggingConfig   `yaml:"logging"`
}

// MetricsConfig defines the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default "/metrics"
}

// AccessLogConfig defines per-request file logging for the responder.
type AccessLogConfig struct {
	Enabled  bool              `yaml:"enabled"`
	File     string            `yaml:"file"`
	Rotation LogRotationConfig `yaml:"rotation"`
}

// LoggingConfig defines process logging settings.
type LoggingConfig struct {
	Format   string            `yaml:"format"` // console or json
	Level    string            `yaml:"level"`
	Output   string            `yaml:"output"` // stdout, stderr, or file path
	Rotation LogRotationConfig `yaml:"rotation"`
}

// LogRotationConfig defines log file rotation settings (powered by lumberjack).
type LogRotationConfig struct {
	MaxSize    int  `yaml:"max_size"`    // max megabytes before rotation (default 100)
	MaxBackups int  `yaml:"max_backups"` // old rotated files to keep (default 3)
	MaxAge     int  `yaml:"max_age"`     // days to retain old files (default 28)
	Compress   bool `yaml:"compress"`    // gzip rotated files (default true)
	LocalTime  bool `yaml:"local_time"`  // use local time in backup filenames (default false)
}

// DefaultRotation returns the standard rotation bounds for file sinks.
func DefaultRotation() LogRotationConfig {
	return LogRotationConfig{
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// DefaultConfig returns a load generator configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path:           "/",
		Workers:        50,
		Timeout:        3 * time.Second,
		ReportInterval: 1 * time.Second,
		EventQueueSize: 10000,
		JoinTimeout:    1 * time.Second,
		ExpectedStatus: []string{"200-399"},
		Logging: LoggingConfig{
			Format: "console",
			Level:  "info",
			Output: "stderr",
		},
	}
}

// DefaultResponderConfig returns a responder configuration with sensible defaults.
func DefaultResponderConfig() *ResponderConfig {
	return &ResponderConfig{
		Listen:       ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		AccessLog: AccessLogConfig{
			File:     "responder-access.log",
			Rotation: DefaultRotation(),
		},
		Logging: LoggingConfig{
			Format: "console",
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Normalize canonicalizes user-supplied fields after all overrides are
// applied: the target gains an http scheme when none is given and the
// path gains its leading slash.
func (c *Config) Normalize() {
	c.Target = strings.TrimSpace(c.Target)
	if c.Target != "" &&
		!strings.HasPrefix(c.Target, "http://") &&
		!strings.HasPrefix(c.Target, "https://") {
		c.Target = "http://" + c.Target
	}
	c.Target = strings.TrimRight(c.Target, "/")

	if c.Path == "" {
		c.Path = "/"
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/" + c.Path
	}
}

// Validate checks the configuration after flag overrides and Normalize.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", c.Timeout)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report_interval must be > 0, got %s", c.ReportInterval)
	}
	if c.EventQueueSize < 1 {
		return fmt.Errorf("event_queue_size must be >= 1, got %d", c.EventQueueSize)
	}
	if c.JoinTimeout <= 0 {
		return fmt.Errorf("join_timeout must be > 0, got %s", c.JoinTimeout)
	}
	if c.MaxRequests < 0 {
		return fmt.Errorf("max_requests must be >= 0, got %d", c.MaxRequests)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must be >= 0, got %s", c.Duration)
	}
	if c.EventLog != "" && !c.Detailed {
		return fmt.Errorf("event_log requires detailed mode")
	}
	return nil
}

// Validate checks the responder configuration.
func (c *ResponderConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Metrics.Enabled {
		if c.Metrics.Path == "" || !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics path must start with /, got %q", c.Metrics.Path)
		}
	}
	if c.AccessLog.Enabled && c.AccessLog.File == "" {
		return fmt.Errorf("access_log file is required when enabled")
	}
	return nil
}
