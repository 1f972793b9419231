package cli

import (
	"context"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/logger"
	"github.com/liquidmon/lmon/internal/monitor"
	"github.com/liquidmon/lmon/internal/snapcache"
	"github.com/liquidmon/lmon/internal/telemetry"
	"github.com/liquidmon/lmon/internal/ui"
)

// dashboardCommand starts the TUI dashboard for the configured server.
func dashboardCommand(ctx context.Context) error {
	cfg, _, err := loadConfig(true)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal, so diagnostics go to a file.
	log, closeLog := openDashboardLog(cfg)
	defer closeLog() //nolint:errcheck // nothing to do if the final flush fails

	metrics := telemetry.New()

	var cache *snapcache.Cache
	if cfg.Cache.Enabled {
		cache = snapcache.New(cfg.Cache.Path)
	}

	client := newClient(cfg, log, api.WithObserver(metrics))

	log.Info("lmon %s starting, server %s", formatVersion(version), cfg.ServerURL)
	err = monitor.Run(ctx, monitor.RunOptions{
		Config:  cfg,
		Source:  client,
		Cache:   cache,
		Metrics: metrics,
		Logger:  log,
	})
	if err != nil {
		log.Error("dashboard exited: %v", err)
	}
	return err
}

// openDashboardLog opens the zap file logger. When the file can't be
// opened the dashboard still runs, without diagnostics.
func openDashboardLog(cfg *config.Config) (logger.Logger, func() error) {
	level := cfg.Log.Level
	if Verbose() {
		level = "debug"
	}

	log, closeFn, err := logger.NewZapFile(cfg.Log.File, level)
	if err != nil {
		ui.PrintWarning("can't open log file " + cfg.Log.File + ": " + err.Error())
		return logger.Noop(), func() error { return nil }
	}
	return log, closeFn
}
