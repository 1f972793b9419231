package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		opts        []ValidationOption
		errContains string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:        "server required",
			mutate:      func(c *Config) {},
			opts:        []ValidationOption{RequireServer()},
			errContains: "No server configured",
		},
		{
			name:   "server optional when not required",
			mutate: func(c *Config) { c.ServerURL = "" },
		},
		{
			name:        "future version",
			mutate:      func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			errContains: "from the future",
		},
		{
			name:        "server without scheme",
			mutate:      func(c *Config) { c.ServerURL = "monitor.local" },
			errContains: "must start with http",
		},
		{
			name:        "server with odd scheme",
			mutate:      func(c *Config) { c.ServerURL = "httpx://monitor.local" },
			errContains: "not a valid http(s) URL",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.RequestTimeout = 0 },
			errContains: "request_timeout",
		},
		{
			name:        "interval too short",
			mutate:      func(c *Config) { c.Intervals.Notifications = 100 * time.Millisecond },
			errContains: "intervals.notifications",
		},
		{
			name:        "negative cooldown",
			mutate:      func(c *Config) { c.Alerts.Cooldown = -time.Second },
			errContains: "alerts.cooldown",
		},
		{
			name:        "zero alert limit",
			mutate:      func(c *Config) { c.Alerts.Limit = 0 },
			errContains: "alerts.limit",
		},
		{
			name:        "unknown period",
			mutate:      func(c *Config) { c.History.Period = "1y" },
			errContains: "Unknown history period",
		},
		{
			name:        "history path without slash",
			mutate:      func(c *Config) { c.API.HistoryPath = "api/history" },
			errContains: "must start with /",
		},
		{
			name:        "cache enabled without path",
			mutate:      func(c *Config) { c.Cache.Path = "" },
			errContains: "cache.path",
		},
		{
			name: "cache disabled without path",
			mutate: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.Path = ""
			},
		},
		{
			name:        "zero rate limit",
			mutate:      func(c *Config) { c.RateLimit.RPS = 0 },
			errContains: "rate_limit",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.Log.Level = "trace" },
			errContains: "Unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg, tt.opts...)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://monitor.local/", "http://monitor.local"},
		{"  https://monitor.local:8000  ", "https://monitor.local:8000"},
		{"https://monitor.local/base/", "https://monitor.local/base"},
		{"http://monitor.local", "http://monitor.local"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeServerURL(tt.in))
		})
	}
}

func TestNextHistoryPeriod(t *testing.T) {
	assert.Equal(t, "7d", NextHistoryPeriod("24h"))
	assert.Equal(t, "30d", NextHistoryPeriod("7d"))
	assert.Equal(t, "24h", NextHistoryPeriod("30d"))
	assert.Equal(t, "24h", NextHistoryPeriod("bogus"))

	assert.True(t, IsHistoryPeriod("7d"))
	assert.False(t, IsHistoryPeriod("1h"))
}
