package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liquidmon/lmon/internal/config"
)

// WritableDirCheck verifies the directory holding a file lmon writes exists
// and accepts new files.
type WritableDirCheck struct {
	Label string // "cache", "log"
	File  string
}

func (c *WritableDirCheck) Name() string     { return "writable_" + c.Label }
func (c *WritableDirCheck) Category() string { return CategoryLocal }

func (c *WritableDirCheck) dir() string {
	return filepath.Dir(c.File)
}

func (c *WritableDirCheck) Run(context.Context) CheckResult {
	dir := c.dir()

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s directory does not exist: %s", c.Label, dir),
			Suggestion: "It is created on first use, or run with --fix",
			Fixable:    true,
		}
	}
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Cannot access %s directory: %v", c.Label, err),
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s path is not a directory: %s", c.Label, dir),
			Suggestion: "Point the setting at a file inside a directory",
		}
	}

	f, err := os.CreateTemp(dir, ".lmon-doctor-*")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s directory is not writable: %s", c.Label, dir),
			Suggestion: "Fix the directory permissions or choose another path in .lmon.yaml",
		}
	}
	f.Close()
	os.Remove(f.Name())

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", c.Label, c.File),
	}
}

func (c *WritableDirCheck) Fix() error {
	return os.MkdirAll(c.dir(), 0755)
}

// NewLocalChecks creates checks for the files the dashboard writes.
func NewLocalChecks(cfg *config.Config) []Check {
	var checks []Check
	if cfg.Cache.Enabled && cfg.Cache.Path != "" {
		checks = append(checks, &WritableDirCheck{Label: "cache", File: cfg.Cache.Path})
	}
	if cfg.Log.File != "" {
		checks = append(checks, &WritableDirCheck{Label: "log", File: cfg.Log.File})
	}
	return checks
}
