package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	statusJSON     bool
	alertsLimit    int
	alertsJSON     bool
	alertsYes      bool
	connectTimeout string
	connectNoProbe bool
	doctorJSON     bool
	doctorFix      bool
)

// dashboardCmd is the explicit form of running lmon without arguments.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Live dashboard (default command)",
	Long: `Open the full-screen dashboard for the configured server.

Five loops poll the server independently: host stats and container stats
every 5s, the two history charts every 60s, and the alert log every 10s.
A failed cycle keeps the last good values on screen and retries on the
next tick.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh every panel now
  a           Toggle the alert log
  x           Clear the alert log (while open)
  p / n       Cycle the history / network period (24h, 7d, 30d)
  1-7         Sort containers by column (again to reverse)
  ?           Help

Examples:
  lmon
  lmon dashboard --config ~/homelab/.lmon.yaml
  LMON_SERVER_URL=http://pi.local:5000 lmon`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

// statusCmd prints one snapshot and exits
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot host status",
	Long: `Fetch the current host snapshot and container list once, and print
the metrics with their alert levels.

Exit codes: 0 normal, 1 warning, 2 critical. Errors also exit 1, so use
--json when a script needs to tell them apart.

Examples:
  lmon status
  lmon status --json | jq .data.level`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		machineMode = statusJSON
		return statusCommand(cmd.Context(), cmd.OutOrStdout(), statusJSON)
	},
}

// alertsCmd groups the server-side alert log commands
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List or clear the server's alert log",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent alert records",
	Long: `List the most recent alert records logged by the server, newest first.

Examples:
  lmon alerts list
  lmon alerts list --limit 10
  lmon alerts list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		machineMode = alertsJSON
		return alertsListCommand(cmd.Context(), cmd.OutOrStdout(), alertsLimit, alertsJSON)
	},
}

var alertsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the server's alert log",
	Long: `Delete every alert record on the server. Asks for confirmation when
run from a terminal unless --yes is given.

Examples:
  lmon alerts clear
  lmon alerts clear --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return alertsClearCommand(cmd.Context(), cmd.OutOrStdout(), alertsYes)
	},
}

// connectCmd saves the server URL
var connectCmd = &cobra.Command{
	Use:   "connect [url]",
	Short: "Save the metrics server URL",
	Long: `Validate a server URL, probe it, and save it as server_url in the
config file. Without an argument, prompts for the URL.

The URL must start with http:// or https://; a trailing slash is removed.
The probe fetches /api/stats/current. A login page instead of JSON means
an auth gateway sits in front of the server.

The config is written to the file --config points at, the file lmon
already uses, or ~/.config/lmon/config.yaml. Comments in an existing file
are kept.

Examples:
  lmon connect http://pi.local:5000
  lmon connect https://metrics.example.com --timeout 10s
  lmon connect`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var url string
		if len(args) == 1 {
			url = args[0]
		}
		timeout, err := ParseTimeout(connectTimeout)
		if err != nil {
			return err
		}
		return connectCommand(cmd.Context(), cmd.OutOrStdout(), ConnectOptions{
			URL:     url,
			Timeout: timeout,
			NoProbe: connectNoProbe,
		})
	},
}

// doctorCmd diagnoses config, server and local paths
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and server issues",
	Long: `Check that the config loads and validates, that every endpoint the
dashboard polls answers with a usable payload, and that the cache and log
directories are writable.

Exits 1 when any check fails; warnings alone exit 0.

Examples:
  lmon doctor
  lmon doctor --fix
  lmon doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		machineMode = doctorJSON
		return doctorCommand(cmd.Context(), cmd.OutOrStdout(), doctorJSON, doctorFix)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for lmon.

Examples:
  # Bash
  lmon completion bash > /etc/bash_completion.d/lmon

  # Zsh
  lmon completion zsh > "${fpath[1]}/_lmon"

  # Fish
  lmon completion fish > ~/.config/fish/completions/lmon.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")

	alertsListCmd.Flags().IntVarP(&alertsLimit, "limit", "l", 50, "number of records to fetch")
	alertsListCmd.Flags().BoolVar(&alertsJSON, "json", false, "output in JSON format")
	alertsClearCmd.Flags().BoolVarP(&alertsYes, "yes", "y", false, "skip the confirmation prompt")
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsClearCmd)

	connectCmd.Flags().StringVar(&connectTimeout, "timeout", "", "probe timeout (default: request_timeout, e.g. 5s)")
	connectCmd.Flags().BoolVar(&connectNoProbe, "no-probe", false, "save the URL without probing the server")

	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
