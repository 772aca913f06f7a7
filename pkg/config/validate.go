package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks a configuration for inconsistencies. It is called after
// defaults are applied, so every field is expected to carry a value.
func Validate(cfg *Config) error {
	var errs []string

	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		errs = append(errs, fmt.Sprintf("server.listen_address %q is not host:port", cfg.Server.ListenAddress))
	}
	if cfg.Server.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if cfg.Server.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must not be negative")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		errs = append(errs, "server.max_body_bytes must be positive")
	}

	if cfg.Rules.Watch && cfg.Rules.OverrideFile == "" {
		errs = append(errs, "rules.watch requires rules.override_file")
	}

	if cfg.Reports.Enabled && cfg.Reports.SQLitePath == "" {
		errs = append(errs, "reports.sqlite_path must be set when reports are enabled")
	}
	if cfg.Reports.Retention.Days < 0 {
		errs = append(errs, "reports.retention.days must not be negative")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("telemetry.logging.level %q is not one of debug, info, warn, error", cfg.Telemetry.Logging.Level))
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("telemetry.logging.format %q is not one of json, text", cfg.Telemetry.Logging.Format))
	}
	if cfg.MetricsEnabled() && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		errs = append(errs, fmt.Sprintf("telemetry.metrics.path %q must start with /", cfg.Telemetry.Metrics.Path))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
