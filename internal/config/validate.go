package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/liquidmon/lmon/internal/errors"
)

// MinInterval is the shortest loop delay accepted, to avoid hammering the server.
const MinInterval = 500 * time.Millisecond

// ValidationOption controls validation behavior.
type ValidationOption func(*validationContext)

type validationContext struct {
	requireServer bool
}

// RequireServer makes an empty server_url a validation error. Commands that
// talk to the API pass it; 'lmon version' and friends don't.
func RequireServer() ValidationOption {
	return func(c *validationContext) { c.requireServer = true }
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config, opts ...ValidationOption) error {
	ctx := &validationContext{}
	for _, opt := range opts {
		opt(ctx)
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but lmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest lmon release.")
	}

	if cfg.ServerURL == "" {
		if ctx.requireServer {
			return errors.New(errors.ErrConfig,
				"No server configured",
				"Run 'lmon connect <url>' or set server_url in .lmon.yaml (or LMON_SERVER_URL).")
		}
	} else if err := ValidateServerURL(cfg.ServerURL); err != nil {
		return err
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"request_timeout must be positive",
			"Use a duration like 5s.")
	}

	if err := validateIntervals(cfg.Intervals); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'intervals' section in your .lmon.yaml.")
	}

	if cfg.Alerts.Cooldown < 0 {
		return errors.New(errors.ErrConfig,
			"alerts.cooldown can't be negative",
			"Use 0 to notify on every cycle, or a duration like 5m.")
	}
	if cfg.Alerts.Limit <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("alerts.limit must be at least 1, got %d", cfg.Alerts.Limit),
			"The default is 50.")
	}

	if !IsHistoryPeriod(cfg.History.Period) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown history period '%s'", cfg.History.Period),
			fmt.Sprintf("Use one of: %s", strings.Join(HistoryPeriods, ", ")))
	}
	if cfg.History.MaxPoints <= 0 {
		return errors.New(errors.ErrConfig,
			"history.max_points must be positive",
			"The default is 500.")
	}

	if !strings.HasPrefix(cfg.API.HistoryPath, "/") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.history_path '%s' must start with /", cfg.API.HistoryPath),
			"Use a path like /api/history or /api/stats/history.")
	}

	if cfg.Cache.Enabled && cfg.Cache.Path == "" {
		return errors.New(errors.ErrConfig,
			"cache.path is empty but the cache is enabled",
			"Set cache.path or disable the cache with cache.enabled: false.")
	}

	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		return errors.New(errors.ErrConfig,
			"rate_limit.rps and rate_limit.burst must be positive",
			"The defaults are rps: 10 and burst: 5.")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", cfg.Log.Level),
			"Use one of: debug, info, warn, error")
	}

	return nil
}

func validateIntervals(iv IntervalsConfig) error {
	named := []struct {
		name string
		d    time.Duration
	}{
		{"stats", iv.Stats},
		{"entities", iv.Entities},
		{"history", iv.History},
		{"network_history", iv.NetworkHistory},
		{"notifications", iv.Notifications},
	}
	for _, n := range named {
		if n.d < MinInterval {
			return fmt.Errorf("intervals.%s is %s, minimum is %s", n.name, n.d, MinInterval)
		}
	}
	return nil
}

// ValidateServerURL checks that a server URL is usable as an API base.
func ValidateServerURL(raw string) error {
	if !strings.HasPrefix(raw, "http") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server URL '%s' must start with http:// or https://", raw),
			"Example: lmon connect https://monitor.example.com")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server URL '%s' is not a valid http(s) URL", raw),
			"Example: lmon connect https://monitor.example.com")
	}

	return nil
}

// NormalizeServerURL trims whitespace and a single trailing slash.
func NormalizeServerURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// IsHistoryPeriod reports whether p is one of the supported chart windows.
func IsHistoryPeriod(p string) bool {
	for _, known := range HistoryPeriods {
		if p == known {
			return true
		}
	}
	return false
}

// NextHistoryPeriod returns the period after p, wrapping around.
func NextHistoryPeriod(p string) string {
	for i, known := range HistoryPeriods {
		if p == known {
			return HistoryPeriods[(i+1)%len(HistoryPeriods)]
		}
	}
	return HistoryPeriods[0]
}
