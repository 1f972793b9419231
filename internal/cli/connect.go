package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/errors"
	"github.com/liquidmon/lmon/internal/ui"
	"golang.org/x/term"
)

// ConnectOptions holds options for the connect command.
type ConnectOptions struct {
	URL     string        // Server URL; prompted for when empty
	Timeout time.Duration // Probe timeout; zero means the default request timeout
	NoProbe bool          // Save without contacting the server
}

// connectCommand validates, probes and saves the server URL.
func connectCommand(ctx context.Context, out io.Writer, opts ConnectOptions) error {
	if opts.URL == "" {
		if !stdinIsTerminal() {
			return errors.New(errors.ErrConfig,
				"No server URL given",
				"Example: lmon connect http://pi.local:5000")
		}
		url, err := promptServerURL()
		if err != nil {
			return err
		}
		opts.URL = url
	}

	target, err := connectTarget(Config())
	if err != nil {
		return err
	}
	return runConnect(ctx, out, opts, target)
}

// runConnect does the work of connect once the URL and target file are known.
func runConnect(ctx context.Context, out io.Writer, opts ConnectOptions, target string) error {
	url := config.NormalizeServerURL(opts.URL)
	if err := config.ValidateServerURL(url); err != nil {
		return err
	}

	if !opts.NoProbe {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = config.DefaultRequestTimeout
		}
		if err := probeServer(ctx, out, url, timeout); err != nil {
			return err
		}
	}

	if err := config.SetServerURL(target, url); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't save server_url to "+target,
			"Check that the directory is writable, or pick another file with --config")
	}

	fmt.Fprintf(out, "%s Saved server_url to %s\n", ui.SuccessStyle().Render(ui.SymbolComplete), target)
	fmt.Fprintln(out, ui.MutedStyle().Render("Run 'lmon' to open the dashboard."))
	return nil
}

// probeServer fetches one stats snapshot. An HTML page surfaces as an AUTH
// error and a payload without cpu_usage as a DECODE error.
func probeServer(ctx context.Context, out io.Writer, url string, timeout time.Duration) error {
	client := api.NewClient(url, api.WithTimeout(timeout), api.WithLogger(commandLogger()))
	label := "Probing " + url + api.PathCurrent

	var spinner *ui.Spinner
	if isTerminal(out) {
		spinner = ui.NewSpinner(out, label)
		spinner.Start()
	}

	start := time.Now()
	snap, err := client.Current(ctx)
	elapsed := time.Since(start)

	if err != nil {
		if spinner != nil {
			spinner.Fail(errors.Short(err))
		} else {
			fmt.Fprintf(out, "%s %s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), label, errors.Short(err))
		}
		return err
	}

	detail := fmt.Sprintf("%s, cpu %.1f%%", formatLatency(elapsed), snap.CPUUsage)
	if spinner != nil {
		spinner.Success(detail)
	} else {
		fmt.Fprintf(out, "%s %s %s\n", ui.SuccessStyle().Render(ui.SymbolComplete), label, ui.MutedStyle().Render(detail))
	}
	return nil
}

// connectTarget picks the file connect writes to: --config, then the
// config file lmon would load, then the global config path.
func connectTarget(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	path, err := config.Find("")
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}

	if global := config.GlobalPath(); global != "" {
		return global, nil
	}
	return "", errors.New(errors.ErrConfig,
		"Can't determine where to save the config",
		"Pass --config with a file path")
}

func promptServerURL() (string, error) {
	var url string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics server URL").
				Description("Base URL of the monitoring API").
				Placeholder("http://pi.local:5000").
				Value(&url).
				Validate(func(s string) error {
					if err := config.ValidateServerURL(config.NormalizeServerURL(s)); err != nil {
						return fmt.Errorf("must be an http:// or https:// URL")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass the URL as an argument: lmon connect <url>")
	}
	return url, nil
}

// stdinIsTerminal gates interactive prompts. Tests replace it.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
