package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/errors"
	"github.com/liquidmon/lmon/internal/ui"
)

// alertTimeLayout is how alert timestamps are printed, in local time.
const alertTimeLayout = "Jan 2 15:04:05"

// AlertOutput is one record in 'lmon alerts list --json'.
type AlertOutput struct {
	Time    api.Timestamp `json:"time"`
	Level   api.Level     `json:"level"`
	Message string        `json:"message"`
}

type alertLister interface {
	Alerts(ctx context.Context, limit int) ([]api.AlertRecord, error)
}

type alertClearer interface {
	ClearAlerts(ctx context.Context) error
}

// alertsListCommand implements 'lmon alerts list'.
func alertsListCommand(ctx context.Context, out io.Writer, limit int, jsonOut bool) error {
	if err := ValidateLimit(limit); err != nil {
		return err
	}
	session, err := NewSession(SessionOptions{})
	if err != nil {
		return err
	}
	return runAlertsList(ctx, out, session.Client, limit, jsonOut, time.Local)
}

func runAlertsList(ctx context.Context, out io.Writer, src alertLister, limit int, jsonOut bool, loc *time.Location) error {
	records, err := src.Alerts(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOut {
		list := make([]AlertOutput, 0, len(records))
		for _, r := range records {
			list = append(list, AlertOutput{Time: r.Timestamp, Level: r.Level, Message: r.Message})
		}
		return WriteJSONSuccess(out, list)
	}

	rows := make([]ui.AlertRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ui.AlertRow{Time: r.Timestamp.Display(loc, alertTimeLayout), Level: string(r.Level), Message: r.Message})
	}
	_, err = io.WriteString(out, ui.RenderAlertTable(rows))
	return err
}

// alertsClearCommand implements 'lmon alerts clear'.
func alertsClearCommand(ctx context.Context, out io.Writer, yes bool) error {
	session, err := NewSession(SessionOptions{})
	if err != nil {
		return err
	}

	if !yes {
		if !stdinIsTerminal() {
			return errors.New(errors.ErrConfig,
				"Refusing to clear alerts without confirmation",
				"Pass --yes when running non-interactively.")
		}
		ok, err := confirmClear(session.Config.ServerURL)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	return runAlertsClear(ctx, out, session.Client, session.Config.ServerURL)
}

func confirmClear(server string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Clear every alert record on %s?", server)).
				Affirmative("Clear").
				Negative("Keep").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass --yes to skip the prompt")
	}
	return confirmed, nil
}

func runAlertsClear(ctx context.Context, out io.Writer, src alertClearer, server string) error {
	if err := src.ClearAlerts(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessStyle().Render(ui.SymbolComplete)+" Cleared alerts on "+strings.TrimSpace(server))
	return nil
}
