package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"catalog-hq/marcval/pkg/cli"
	"catalog-hq/marcval/pkg/config"
	"catalog-hq/marcval/pkg/marc/rules"
	"catalog-hq/marcval/pkg/marc/rules/watch"
	"catalog-hq/marcval/pkg/report"
	"catalog-hq/marcval/pkg/report/retention"
	"catalog-hq/marcval/pkg/server"
	"catalog-hq/marcval/pkg/telemetry/logging"
	"catalog-hq/marcval/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP server",
	Long: `Start the validation HTTP server with the specified configuration.

The server accepts records on POST /v1/validate and returns the canonical
record or the violation list. When configured, it watches a rule override
file for changes, persists validation reports to SQLite, and prunes old
reports on a cron schedule.

Examples:
  # Start with defaults
  marcval serve

  # Start with a config file
  marcval serve --config /etc/marcval/marcval.yaml

  # Override listen address
  marcval serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  marcval serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	opts := []server.Option{server.WithLogger(logger)}

	var collector *metrics.Collector
	if cfg.MetricsEnabled() {
		collector = metrics.NewCollector(prometheus.NewRegistry())
		opts = append(opts, server.WithCollector(collector))
	}

	manager, err := watch.NewManager(cfg.Rules.OverrideFile,
		watch.WithLogger(logger),
		watch.WithReloadHook(func(reloadErr error) {
			if collector != nil {
				collector.RecordRuleReload(reloadErr)
			}
		}),
	)
	if err != nil {
		return cli.NewConfigError("rules.override_file", err.Error())
	}
	opts = append(opts, server.WithRulesManager(manager))

	if collector != nil {
		collector.SetRuleTableSize(rules.Resolve(manager.Current(), "").Len())
	}

	if cfg.Rules.Watch && cfg.Rules.OverrideFile != "" {
		watcher, err := watch.NewFileWatcher(manager, logger)
		if err != nil {
			return cli.NewConfigError("rules.watch", err.Error())
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("rule override watcher exited", "error", err)
			}
		}()
		defer func() { _ = watcher.Stop() }()
	}

	if cfg.Reports.Enabled {
		store, err := report.NewSQLiteStore(&report.SQLiteConfig{
			Path:   cfg.Reports.SQLitePath,
			Logger: logger,
		})
		if err != nil {
			return cli.NewConfigError("reports.sqlite_path", err.Error())
		}
		defer store.Close()
		opts = append(opts, server.WithReportStore(store))

		pruner := retention.NewPruner(store, &retention.Config{
			RetentionDays: cfg.Reports.Retention.Days,
			Schedule:      cfg.Reports.Retention.Schedule,
			Logger:        logger,
		})
		if err := pruner.Start(ctx); err != nil {
			return cli.NewConfigError("reports.retention", err.Error())
		}
		defer pruner.Stop()
	}

	srv := server.New(cfg, opts...)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}
