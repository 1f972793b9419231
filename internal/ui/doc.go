// Package ui provides terminal output helpers for lmon's one-shot commands
// (status, alerts, connect). The full-screen dashboard lives in
// internal/monitor and has its own styles.
//
// # Color Scheme
//
//	ColorSuccess (green) - normal level
//	ColorWarning (amber) - warning level
//	ColorError   (red)   - critical level
//	ColorInfo    (cyan)  - informational messages
//	ColorMuted   (gray)  - timestamps, secondary text
//
// LevelStyle and LevelSymbol map an alert level string to its style and glyph.
//
// ConfigureColors is called once at startup with the --no-color flag. It
// also honors NO_COLOR and falls back to plain output when stdout is not a
// terminal.
//
// # Spinner
//
//	s := ui.NewSpinner(os.Stderr, "Probing "+url)
//	s.Start()
//	// ... request ...
//	s.Success("38ms") // or s.Fail(reason)
//
// # Tables
//
// RenderMetricTable prints the host snapshot for 'lmon status';
// RenderAlertTable prints server-side alert records; RenderSimpleTable wraps
// a non-interactive bubbles table for everything else.
package ui
