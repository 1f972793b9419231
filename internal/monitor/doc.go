// Package monitor implements the live TUI dashboard for a remote metrics
// server.
//
// The dashboard shows host usage (CPU, RAM, temperature, disk, network),
// server-side peaks, history charts, a sortable container table with the
// top network talkers, and the alert status derived from the latest reading.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds what the loops last sent (snapshot, entities, series, alerts)
//   - Update: Applies loop results and keystrokes
//   - View: Renders the current state to a string for display
//
// Fetching happens outside the model. A Poller registers five loops with a
// scheduler.Scheduler; each cycle fetches from the API, runs the rate
// deriver or alert engine and hands the result to the program with Send:
//
//	stats            5s   current + peaks, alert evaluation      -> statsMsg
//	entities         5s   containers, rates, talkers, cache save -> entitiesMsg
//	history          60s  chart series for the selected period   -> historyMsg
//	network_history  60s  network chart series                   -> historyMsg
//	notifications    10s  alert log, sent only when wanted       -> alertsMsg
//
// A failed cycle sends loopErrorMsg. The model keeps the last good values on
// screen; a 401 raises the authentication banner until a cycle succeeds.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh every panel now
//	a           - Toggle the notifications overlay
//	x           - Clear notifications (overlay open)
//	p / n       - Cycle history / network period (24h, 7d, 30d)
//	1-7         - Sort containers by column, again to reverse
//	Esc         - Close overlay
//	?           - Toggle help overlay
package monitor
