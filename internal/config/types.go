package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .lmon.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// ServerURL is the base URL of the metrics API, without a trailing slash.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`

	// RequestTimeout bounds every API request.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	Intervals IntervalsConfig `yaml:"intervals" mapstructure:"intervals"`
	Alerts    AlertsConfig    `yaml:"alerts" mapstructure:"alerts"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// IntervalsConfig holds the fixed delay each polling loop waits after a
// cycle settles before starting the next one.
type IntervalsConfig struct {
	Stats          time.Duration `yaml:"stats" mapstructure:"stats"`
	Entities       time.Duration `yaml:"entities" mapstructure:"entities"`
	History        time.Duration `yaml:"history" mapstructure:"history"`
	NetworkHistory time.Duration `yaml:"network_history" mapstructure:"network_history"`
	Notifications  time.Duration `yaml:"notifications" mapstructure:"notifications"`
}

// AlertsConfig controls client-side alert notifications.
type AlertsConfig struct {
	// Cooldown is the minimum time between two notifications for one metric.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`

	// Limit is how many server-side alert records the notifications loop fetches.
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// HistoryConfig controls the history charts.
type HistoryConfig struct {
	// Period is the initial chart window: 24h, 7d or 30d.
	Period string `yaml:"period" mapstructure:"period"`

	// MaxPoints caps how many records a chart draws after downsampling.
	MaxPoints int `yaml:"max_points" mapstructure:"max_points"`
}

// APIConfig holds endpoint overrides for servers that mount routes elsewhere.
type APIConfig struct {
	HistoryPath string `yaml:"history_path" mapstructure:"history_path"`
}

// CacheConfig controls the local entity snapshot used for cold start.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// RateLimitConfig throttles requests to each API endpoint.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" mapstructure:"rps"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

// MetricsConfig enables the Prometheus endpoint for loop telemetry.
type MetricsConfig struct {
	// Addr is the listen address (e.g. ":9464"). Empty disables the endpoint.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig controls the file logger used while the dashboard owns the terminal.
type LogConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultRequestTimeout bounds every API request.
const DefaultRequestTimeout = 5 * time.Second

// Valid history periods, in the order the dashboard cycles through them.
var HistoryPeriods = []string{"24h", "7d", "30d"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		RequestTimeout: DefaultRequestTimeout,
		Intervals: IntervalsConfig{
			Stats:          5 * time.Second,
			Entities:       5 * time.Second,
			History:        60 * time.Second,
			NetworkHistory: 60 * time.Second,
			Notifications:  10 * time.Second,
		},
		Alerts: AlertsConfig{
			Cooldown: 5 * time.Minute,
			Limit:    50,
		},
		History: HistoryConfig{
			Period:    "24h",
			MaxPoints: 500,
		},
		API: APIConfig{
			HistoryPath: "/api/history",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "${CACHE_DIR}/lmon/entities.json",
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 5,
		},
		Log: LogConfig{
			File:  "${CACHE_DIR}/lmon/lmon.log",
			Level: "info",
		},
	}
}
