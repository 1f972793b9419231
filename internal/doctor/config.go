package doctor

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/errors"
)

// ConfigFileCheck verifies that a config file exists.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %s", errors.Short(err)),
			Suggestion: "Check the --config path and its permissions",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults and LMON_* environment",
			Suggestion: "Run 'lmon connect <url>' to create one",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

func (c *ConfigFileCheck) Fix() error {
	return nil // connect creates the file
}

// ConfigSchemaCheck verifies that the resolved config passes validation.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", errors.Short(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", errors.Short(err)),
			Suggestion: suggestionOf(err, "Fix the configuration errors in your .lmon.yaml"),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Schema valid",
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}

// ConfigServerCheck verifies a server URL is configured.
type ConfigServerCheck struct {
	ConfigPath string
}

func (c *ConfigServerCheck) Name() string     { return "config_server" }
func (c *ConfigServerCheck) Category() string { return CategoryConfig }

func (c *ConfigServerCheck) Run(context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check server_url: config load error",
		}
	}

	if cfg.ServerURL == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "No server configured",
			Suggestion: "Run 'lmon connect <url>' or set LMON_SERVER_URL",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Server: %s", cfg.ServerURL),
	}
}

func (c *ConfigServerCheck) Fix() error {
	return nil
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
		&ConfigServerCheck{ConfigPath: configPath},
	}
}

// suggestionOf returns the suggestion carried by a structured error, or fallback.
func suggestionOf(err error, fallback string) string {
	var lmErr *errors.Error
	if stderrors.As(err, &lmErr) && lmErr.Suggestion != "" {
		return lmErr.Suggestion
	}
	return fallback
}
