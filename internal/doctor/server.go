package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/errors"
)

// Source is the part of the API client the server checks call.
type Source interface {
	Current(ctx context.Context) (*api.HostSnapshot, error)
	Peaks(ctx context.Context) (*api.PeakSet, error)
	History(ctx context.Context, period string) ([]api.HistoryRecord, error)
	Entities(ctx context.Context) ([]api.EntitySample, error)
	Alerts(ctx context.Context, limit int) ([]api.AlertRecord, error)
}

// EndpointCheck fetches one endpoint and reports latency and a short summary
// of the payload. A failing required endpoint is a failure; the rest only
// degrade a panel and are reported as warnings.
type EndpointCheck struct {
	Path     string
	Required bool
	Fetch    func(ctx context.Context) (string, error)
}

func (c *EndpointCheck) Name() string     { return "endpoint_" + c.Path }
func (c *EndpointCheck) Category() string { return CategoryServer }

func (c *EndpointCheck) Run(ctx context.Context) CheckResult {
	start := time.Now()
	detail, err := c.Fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		result := CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s: %s", c.Path, errors.Short(err)),
			Suggestion: suggestionOf(err, "The matching dashboard panel will stay empty"),
		}
		if c.Required {
			result.Status = StatusFail
		}
		if errors.IsAuth(err) {
			result.Status = StatusFail
			result.Suggestion = "The server sits behind a login page; lmon needs direct access to the API"
		}
		return result
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s (%s)", c.Path, detail, formatLatency(elapsed)),
	}
}

func (c *EndpointCheck) Fix() error {
	return nil
}

// NewServerChecks creates one check per endpoint the dashboard polls.
func NewServerChecks(src Source, historyPath string) []Check {
	return []Check{
		&EndpointCheck{
			Path:     api.PathCurrent,
			Required: true,
			Fetch: func(ctx context.Context) (string, error) {
				snap, err := src.Current(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("cpu %.1f%%, ram %.1f%%", snap.CPUUsage, snap.RAMUsage), nil
			},
		},
		&EndpointCheck{
			Path: api.PathPeaks,
			Fetch: func(ctx context.Context) (string, error) {
				if _, err := src.Peaks(ctx); err != nil {
					return "", err
				}
				return "ok", nil
			},
		},
		&EndpointCheck{
			Path: historyPath,
			Fetch: func(ctx context.Context) (string, error) {
				records, err := src.History(ctx, "24h")
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d record%s", len(records), pluralize(len(records))), nil
			},
		},
		&EndpointCheck{
			Path: api.PathContainers,
			Fetch: func(ctx context.Context) (string, error) {
				entities, err := src.Entities(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d container%s", len(entities), pluralize(len(entities))), nil
			},
		},
		&EndpointCheck{
			Path: api.PathAlerts,
			Fetch: func(ctx context.Context) (string, error) {
				if _, err := src.Alerts(ctx, 1); err != nil {
					return "", err
				}
				return "ok", nil
			},
		},
	}
}

func formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
