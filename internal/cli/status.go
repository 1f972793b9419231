package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/liquidmon/lmon/internal/alert"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/derive"
	"github.com/liquidmon/lmon/internal/errors"
	"github.com/liquidmon/lmon/internal/monitor"
	"github.com/liquidmon/lmon/internal/ui"
	"golang.org/x/sync/errgroup"
)

// Exit codes of 'lmon status'.
const (
	ExitWarning  = 1
	ExitCritical = 2
)

// StatusOutput represents the JSON output for status command.
type StatusOutput struct {
	Server   string            `json:"server"`
	Level    api.Level         `json:"level"`
	Message  string            `json:"message"`
	Host     *api.HostSnapshot `json:"host"`
	Entities *EntitySummary    `json:"entities,omitempty"`

	// EntitiesError is set when the container list could not be fetched.
	EntitiesError string `json:"entities_error,omitempty"`
}

// EntitySummary condenses the container list.
type EntitySummary struct {
	Total       int           `json:"total"`
	Running     int           `json:"running"`
	TopDownload *TalkerStatus `json:"top_download,omitempty"`
	TopUpload   *TalkerStatus `json:"top_upload,omitempty"`
}

// TalkerStatus is the busiest container in one direction.
type TalkerStatus struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate_bps"`
}

// statusSource is the part of the API client the status command needs.
type statusSource interface {
	Current(ctx context.Context) (*api.HostSnapshot, error)
	Entities(ctx context.Context) ([]api.EntitySample, error)
}

// statusCommand implements the status command logic.
func statusCommand(ctx context.Context, out io.Writer, jsonOut bool) error {
	session, err := NewSession(SessionOptions{})
	if err != nil {
		return err
	}
	return runStatus(ctx, out, session.Client, session.Config.ServerURL, jsonOut)
}

// runStatus fetches one snapshot and prints it. A warning or critical level
// is returned as an ExitError after the output is written.
func runStatus(ctx context.Context, out io.Writer, src statusSource, server string, jsonOut bool) error {
	status, err := collectStatus(ctx, src, server)
	if err != nil {
		return err
	}

	if jsonOut {
		if err := WriteJSONSuccess(out, status); err != nil {
			return err
		}
	} else {
		renderStatusText(out, status)
	}

	return statusExitError(status.Level)
}

// collectStatus fetches the snapshot and the container list concurrently.
// Only the snapshot is required.
func collectStatus(ctx context.Context, src statusSource, server string) (*StatusOutput, error) {
	var (
		snap        *api.HostSnapshot
		entities    []api.EntitySample
		entitiesErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = src.Current(gctx)
		return err
	})
	g.Go(func() error {
		entities, entitiesErr = src.Entities(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := alert.Combine(alert.ReadingFrom(snap))
	status := &StatusOutput{
		Server:  server,
		Level:   combined.Level,
		Message: combined.Message,
		Host:    snap,
	}

	if entitiesErr != nil {
		status.EntitiesError = errors.Short(entitiesErr)
		return status, nil
	}
	status.Entities = summarizeEntities(entities)
	return status, nil
}

// summarizeEntities counts containers and ranks talkers. With a single
// sample there is no local baseline, so talker rates come from the
// server-reported speeds.
func summarizeEntities(entities []api.EntitySample) *EntitySummary {
	rates := derive.NewDeriver().Apply(entities)
	top := derive.Rank(rates)

	summary := &EntitySummary{Total: len(entities)}
	for _, e := range entities {
		if e.Running() {
			summary.Running++
		}
	}
	if top.Download != nil {
		summary.TopDownload = &TalkerStatus{Name: top.Download.Name, Rate: top.Download.Rate}
	}
	if top.Upload != nil {
		summary.TopUpload = &TalkerStatus{Name: top.Upload.Name, Rate: top.Upload.Rate}
	}
	return summary
}

// statusExitError maps the combined level to the process exit code.
func statusExitError(level api.Level) error {
	switch level {
	case api.LevelCritical:
		return errors.NewExitError(ExitCritical)
	case api.LevelWarning:
		return errors.NewExitError(ExitWarning)
	default:
		return nil
	}
}

// renderStatusText prints the header and metric table.
func renderStatusText(out io.Writer, s *StatusOutput) {
	level := string(s.Level)
	_ = ui.WriteHeader(out, ui.HeaderInfo{
		Version: formatVersion(version),
		Server:  s.Server,
		Status:  ui.LevelStyle(level).Render(ui.LevelSymbol(level) + " " + s.Message),
	})
	fmt.Fprintln(out, ui.RenderMetricTable(statusRows(s)))

	if s.EntitiesError != "" {
		fmt.Fprintln(out, ui.WarningStyle().Render(ui.SymbolWarning+" containers unavailable: "+s.EntitiesError))
	}
}

// statusRows builds the metric table for a snapshot.
func statusRows(s *StatusOutput) []ui.MetricRow {
	h := s.Host
	percent := func(m alert.Metric, v float64) ui.MetricRow {
		return ui.MetricRow{
			Metric: m.Label(),
			Value:  fmt.Sprintf("%.1f%%", v),
			Level:  string(alert.Classify(m, v)),
		}
	}

	temp := ui.MetricRow{Metric: "Temp", Value: "N/A"}
	if h.CPUTemp != nil {
		temp.Value = fmt.Sprintf("%.1f°C", *h.CPUTemp)
		temp.Level = string(alert.Classify(alert.MetricTemp, *h.CPUTemp))
	}

	disk := percent(alert.MetricDisk, h.DiskUsage)
	disk.Value += fmt.Sprintf(" %.1f/%.1f GB", h.DiskUsedGB, h.DiskTotalGB)

	rows := []ui.MetricRow{
		percent(alert.MetricCPU, h.CPUUsage),
		percent(alert.MetricRAM, h.RAMUsage),
		temp,
		disk,
		{Metric: "Net ↓", Value: monitor.FormatKBps(h.NetRecvSpeed)},
		{Metric: "Net ↑", Value: monitor.FormatKBps(h.NetSentSpeed)},
		{Metric: "Uptime", Value: monitor.FormatUptime(h.Uptime)},
		{Metric: "Procs", Value: fmt.Sprintf("%d", h.Processes)},
	}

	if e := s.Entities; e != nil {
		rows = append(rows,
			ui.MetricRow{Metric: "Running", Value: fmt.Sprintf("%d/%d", e.Running, e.Total)},
			ui.MetricRow{Metric: "Top ↓", Value: talkerText(e.TopDownload)},
			ui.MetricRow{Metric: "Top ↑", Value: talkerText(e.TopUpload)},
		)
	}
	return rows
}

func talkerText(t *TalkerStatus) string {
	if t == nil {
		return "-"
	}
	return t.Name + " " + monitor.FormatRate(t.Rate)
}
