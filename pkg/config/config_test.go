package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marcval.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Reports.SQLitePath != DefaultSQLitePath {
		t.Errorf("SQLitePath = %q", cfg.Reports.SQLitePath)
	}
	if cfg.Reports.Retention.Days != DefaultRetentionDays {
		t.Errorf("Retention.Days = %d", cfg.Reports.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Telemetry.Logging)
	}
	if !cfg.MetricsEnabled() {
		t.Error("metrics disabled by default")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 10s
rules:
  override_file: /etc/marcval/rules.yaml
  watch: true
reports:
  enabled: true
  sqlite_path: /var/lib/marcval/reports.db
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	// Unset fields still get defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if !cfg.Rules.Watch || cfg.Rules.OverrideFile != "/etc/marcval/rules.yaml" {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if !cfg.Reports.Enabled || cfg.Reports.SQLitePath != "/var/lib/marcval/reports.db" {
		t.Errorf("Reports = %+v", cfg.Reports)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.MetricsEnabled() {
		t.Error("metrics enabled despite enabled: false")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want default", cfg.Server.ListenAddress)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadConfig() succeeded on missing file")
		}
	})
	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "server: [not a map")
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() succeeded on malformed YAML")
		}
	})
	t.Run("invalid values", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  listen_address: not-an-address
telemetry:
  logging:
    level: loud
`)
		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("LoadConfig() succeeded on invalid values")
		}
		if !strings.Contains(err.Error(), "listen_address") || !strings.Contains(err.Error(), "level") {
			t.Errorf("error does not name both defects: %v", err)
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("MARCVAL_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("MARCVAL_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("MARCVAL_REPORTS_ENABLED", "true")
	t.Setenv("MARCVAL_REPORTS_RETENTION_DAYS", "7")
	t.Setenv("MARCVAL_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("MARCVAL_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if !cfg.Reports.Enabled || cfg.Reports.Retention.Days != 7 {
		t.Errorf("Reports = %+v", cfg.Reports)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.MetricsEnabled() {
		t.Error("metrics enabled despite env override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(cfg *Config) {}, true},
		{"bad address", func(cfg *Config) { cfg.Server.ListenAddress = "nope" }, false},
		{"negative timeout", func(cfg *Config) { cfg.Server.ReadTimeout = -time.Second }, false},
		{"zero body limit", func(cfg *Config) { cfg.Server.MaxBodyBytes = 0 }, false},
		{"watch without file", func(cfg *Config) { cfg.Rules.Watch = true }, false},
		{"watch with file", func(cfg *Config) {
			cfg.Rules.Watch = true
			cfg.Rules.OverrideFile = "rules.yaml"
		}, true},
		{"negative retention", func(cfg *Config) { cfg.Reports.Retention.Days = -1 }, false},
		{"bad metrics path", func(cfg *Config) { cfg.Telemetry.Metrics.Path = "metrics" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestSingleton(t *testing.T) {
	old := GetConfig()
	defer SetConfig(old)

	cfg := NewDefaultConfig()
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the set instance")
	}
	if MustGetConfig() != cfg {
		t.Error("MustGetConfig() did not return the set instance")
	}
}
