package monitor

import (
	"time"

	"github.com/liquidmon/lmon/internal/alert"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/derive"
)

// Loop names, shared by the scheduler, logs and telemetry labels.
const (
	LoopStats          = "stats"
	LoopEntities       = "entities"
	LoopHistory        = "history"
	LoopNetworkHistory = "network_history"
	LoopNotifications  = "notifications"
)

// Loops lists every loop name in display order.
var Loops = []string{LoopStats, LoopEntities, LoopHistory, LoopNetworkHistory, LoopNotifications}

// statsMsg carries one stats cycle: the host snapshot, peaks and the alert
// engine's verdict on them.
type statsMsg struct {
	snapshot *api.HostSnapshot
	peaks    *api.PeakSet
	eval     alert.Evaluation
	at       time.Time
}

// entitiesMsg carries derived container rates. cached marks the cold-start
// render from the snapshot cache.
type entitiesMsg struct {
	rates   []derive.EntityRate
	talkers derive.TopTalkers
	at      time.Time
	cached  bool
}

// historyMsg carries a chart series for either history loop.
type historyMsg struct {
	loop   string
	series Series
}

// alertsMsg carries the server-side alert log for the overlay.
type alertsMsg struct {
	records []api.AlertRecord
}

// alertsClearedMsg reports the outcome of clearing the alert log.
type alertsClearedMsg struct {
	err error
}

// loopErrorMsg reports a failed cycle. Values already on screen are kept.
type loopErrorMsg struct {
	loop string
	err  error
}

// toastExpiredMsg dismisses one toast.
type toastExpiredMsg struct {
	id string
}
