package config

import "time"

// Config is the root configuration structure for marcval. It contains the
// configuration sections for the HTTP server, rule table handling, report
// storage, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Rules contains configuration for the validation rule table: an
	// optional override file and watch mode.
	Rules RulesConfig `yaml:"rules"`

	// Reports contains configuration for validation report storage and
	// retention.
	Reports ReportsConfig `yaml:"reports"`

	// Telemetry contains observability configuration: logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the size of an accepted request body.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// RulesConfig contains configuration for the validation rule table.
type RulesConfig struct {
	// OverrideFile is a YAML rule override applied on top of the packaged
	// default table. Empty means defaults only.
	OverrideFile string `yaml:"override_file"`

	// Watch reloads the override file when it changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ReportsConfig contains configuration for validation report storage.
type ReportsConfig struct {
	// Enabled controls whether validation outcomes are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the report database location. Default: "marcval.db"
	SQLitePath string `yaml:"sqlite_path"`

	// Retention controls pruning of old reports.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains report retention settings.
type RetentionConfig struct {
	// Days is how long reports are kept before pruning. Zero disables
	// pruning. Default: 30
	Days int `yaml:"days"`

	// Schedule is a cron expression controlling when pruning runs.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text"). Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs. Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served. Unset
	// means enabled.
	Enabled *bool `yaml:"enabled"`

	// Path is the metrics endpoint path. Default: "/metrics"
	Path string `yaml:"path"`
}

// MetricsEnabled reports whether the metrics endpoint should be served,
// defaulting to true when unset.
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry.Metrics.Enabled == nil || *c.Telemetry.Metrics.Enabled
}
