// Package cli implements the lmon command-line interface.
//
// Each Cobra command in commands.go is a thin shell that parses flags and
// hands off to a *Command function, which in turn resolves a Session and
// calls a run* function that takes its dependencies as arguments. Tests
// drive the run* functions directly against an httptest server.
//
// # Command Structure
//
// The root command is "lmon" and opens the dashboard when run bare:
//
//	lmon [dashboard]         - Full-screen monitoring dashboard
//	lmon status [--json]     - One snapshot; exit 1 on warning, 2 on critical
//	lmon alerts list         - Server-side alert log
//	lmon alerts clear        - Empty the alert log
//	lmon connect [url]       - Probe a server and save it as server_url
//	lmon version             - Build information
//
// # Sessions
//
// NewSession loads the config (--config, then .lmon.yaml upward from the
// working directory, then ~/.config/lmon/config.yaml, then LMON_*
// environment variables), validates it and builds an API client with the
// configured timeout and rate limit. One-shot commands log to stderr only
// with --verbose; the dashboard logs to a file because it owns the terminal.
//
// # Machine Output
//
// Commands with --json write a JSONEnvelope to stdout. Errors raised while
// a --json command runs are written as an envelope too, so scripts only
// ever parse stdout.
package cli
