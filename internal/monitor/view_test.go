package monitor

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/liquidmon/lmon/internal/alert"
	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/derive"
	lmerrors "github.com/liquidmon/lmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// populated returns a model that has received one cycle of every loop.
func populated(t *testing.T) Model {
	t.Helper()
	m := newTestModel(newFakeController())
	m, _ = update(t, m, statsMsg{
		snapshot: &api.HostSnapshot{
			CPUUsage: 42.5, RAMUsage: 91, CPUTemp: ptr(61), DiskUsage: 55,
			DiskUsedGB: 110, DiskTotalGB: 200, NetRecvSpeed: 2048, NetSentSpeed: 512,
			Processes: 231, Uptime: 90061,
		},
		peaks: &api.PeakSet{CPU: &api.Peak{Value: 97.3, Timestamp: api.Timestamp{Time: pollerStart}}},
		eval:  alert.Evaluation{Status: alert.Status{Level: api.LevelCritical, Message: "CRITICAL: RAM 91.0%"}},
		at:    pollerStart,
	})
	m, _ = update(t, m, entitiesMsg{
		rates: []derive.EntityRate{
			{Entity: api.EntitySample{Name: "nginx", State: "running", CPUPercent: 4}, Rx: 3 * 1024 * 1024},
			{Entity: api.EntitySample{Name: "backup", State: "exited"}},
		},
		talkers: derive.TopTalkers{Download: &derive.Talker{Name: "nginx", Rate: 3 * 1024 * 1024}},
		at:      pollerStart,
	})
	series := Series{
		Period: "24h",
		Labels: []string{"10:00", "10:30", "11:00"},
		CPU:    []float64{10, 20, 30},
		RAM:    []float64{40, 50, 60},
		Temp:   []float64{0, 0, 0},
		Down:   []float64{1, 2, 3},
		Up:     []float64{0.5, 0.2, 0.1},
	}
	m, _ = update(t, m, historyMsg{loop: LoopHistory, series: series})
	m, _ = update(t, m, historyMsg{loop: LoopNetworkHistory, series: series})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 60})
	return m
}

func TestView_Dashboard(t *testing.T) {
	out := stripANSI(populated(t).View())

	for _, want := range []string{
		"lmon",
		"http://mon.local",
		"1/2 running",
		"updated 3s ago",
		"CRITICAL: RAM 91.0%",
		"up 1g 01:01:01",
		"42.5%",
		"61.0°C",
		"110.0/200.0 GB",
		"↓ 2.00 MB/s",
		"97.3%",
		"@ 12:00",
		"History",
		"Network",
		"10:00",
		"11:00",
		"nginx",
		"backup",
		"Top ↓ nginx 3.00 MB/s",
		"Top ↑ -",
		"q quit",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "stale:")
}

func TestView_BeforeFirstStats(t *testing.T) {
	m := newTestModel(newFakeController())
	out := stripANSI(m.View())

	assert.Contains(t, out, "connecting")
	assert.Contains(t, out, "updated never")
	assert.Contains(t, out, "waiting for data")
	assert.Contains(t, out, "No containers")
}

func TestView_TemperatureNA(t *testing.T) {
	m := newTestModel(newFakeController())
	m, _ = update(t, m, statsMsg{snapshot: &api.HostSnapshot{CPUUsage: 5}, at: pollerStart})

	assert.Contains(t, stripANSI(m.renderHostCard(80)), "N/A")
}

func TestView_AuthBannerAndStale(t *testing.T) {
	m := populated(t)
	m, _ = update(t, m, loopErrorMsg{loop: LoopStats, err: lmerrors.NewAuth("/api/stats/current")})
	out := stripANSI(m.View())

	assert.Contains(t, out, "Authentication required")
	assert.Contains(t, out, "stale: stats")
	assert.Contains(t, out, "42.5%", "last good values stay on screen")
}

func TestView_Toasts(t *testing.T) {
	m := populated(t)
	m, _ = update(t, m, statsMsg{
		snapshot: m.snapshot,
		eval: alert.Evaluation{Notifications: []alert.Notification{
			{ID: "t1", Level: api.LevelWarning, Title: "Disk warning", Message: "Disk usage is elevated at 81.0%."},
		}},
		at: pollerStart,
	})

	out := stripANSI(m.View())
	assert.Contains(t, out, "Disk warning")
	assert.Contains(t, out, "Disk usage is elevated at 81.0%.")
}

func TestView_CachedEntities(t *testing.T) {
	m := newTestModel(newFakeController())
	m, _ = update(t, m, entitiesMsg{
		rates:  []derive.EntityRate{{Entity: api.EntitySample{Name: "web", State: "running"}}},
		at:     time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC),
		cached: true,
	})

	assert.Contains(t, stripANSI(m.View()), "cached 09:15")
}

func TestView_AlertsOverlay(t *testing.T) {
	m := populated(t)
	m.HandleKeyMsg(keyMsg(KeyToggleAlerts))

	assert.Contains(t, stripANSI(m.View()), "Loading...")

	m, _ = update(t, m, alertsMsg{})
	assert.Contains(t, stripANSI(m.View()), NoNotificationsText)

	m, _ = update(t, m, alertsMsg{records: []api.AlertRecord{
		{Message: "CPU over 90%", Level: api.LevelCritical, Timestamp: api.Timestamp{Time: pollerStart}},
		{Message: "RAM high", Level: api.LevelWarning},
	}})
	out := stripANSI(m.View())
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "CPU over 90%")
	assert.Contains(t, out, "Mar 1 12:00:00")
	assert.Contains(t, out, "RAM high")
	assert.NotContains(t, out, "Jan 1 00:00:00", "unknown times render as a dash")
}

func TestView_HelpOverlay(t *testing.T) {
	m := populated(t)
	m.HandleKeyMsg(keyMsg(KeyToggleHelp))
	out := stripANSI(m.View())

	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "1 name, 2 state, 3 cpu")
}

func TestView_Layouts(t *testing.T) {
	// lineOf returns the index of the first line containing substr.
	lineOf := func(out, substr string) int {
		for i, l := range strings.Split(out, "\n") {
			if strings.Contains(l, substr) {
				return i
			}
		}
		return -1
	}

	m := populated(t)
	out := stripANSI(m.View())
	require.NotEqual(t, -1, lineOf(out, "╭─ Host"))
	assert.Equal(t, lineOf(out, "╭─ Host"), lineOf(out, "╭─ Peaks"), "split layout puts peaks beside the host card")
	assert.Equal(t, lineOf(out, "╭─ History"), lineOf(out, "╭─ Network"))

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 60})
	out = stripANSI(m.View())
	assert.Greater(t, lineOf(out, "╭─ Peaks"), lineOf(out, "╭─ Host"), "stacked layout puts peaks below")
	assert.Greater(t, lineOf(out, "╭─ Network"), lineOf(out, "╭─ History"))

	for _, line := range strings.Split(m.renderHostCard(80), "\n") {
		assert.Equal(t, 80, lipgloss.Width(line))
	}
}

func TestEntityColumns_SortIndicator(t *testing.T) {
	cols := entityColumns(120, SortState{Column: SortByNetDown})
	require.Len(t, cols, len(entityColumnTitles))
	assert.Equal(t, "RX ↓", cols[6].Title)
	assert.Equal(t, "NAME", cols[0].Title)

	cols = entityColumns(40, SortState{Column: SortByName, Ascending: true})
	assert.Equal(t, "NAME ↑", cols[0].Title)
	assert.Equal(t, minNameWidth, cols[0].Width)
}

func TestEntityRows(t *testing.T) {
	rows := entityRows([]derive.EntityRate{{
		Entity: api.EntitySample{Name: "web", State: "running", CPUPercent: 12.34, MemoryPercent: 5, NetRx: 2048, MemoryUsage: 1024 * 1024},
		Rx:     1024 * 1024 * 1.5,
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"web", "running", "12.3", "5.0", "1.50", "0.00", "2.0 KB", "0 B", "1.0 MB"}, []string(rows[0]))
}
